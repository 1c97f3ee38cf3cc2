package core

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultSource  = "/var/log/zoedr/alerts.json"
	DefaultPeriod  = 5
	DefaultDisplay = 50
	DefaultBucket  = 60
	DefaultTop     = 10
	DefaultWindow  = 3600
	DefaultAddress = "127.0.0.1:8888"
	DefaultSubject = "alertboard.snapshot"
)

type EngineConfig struct {
	BucketSecs  int      `yaml:"bucket"`
	Top         int      `yaml:"top"`
	WindowSecs  int      `yaml:"window"`
	Timezone    string   `yaml:"timezone"`
	TimeFormats []string `yaml:"time_formats"`

	location *time.Location
}

func (e *EngineConfig) Location() *time.Location {
	if e.location == nil {
		return time.Local
	}
	return e.location
}

type HTTP struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type NATS struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type Config struct {
	Source     string       `yaml:"source"`
	PeriodSecs int          `yaml:"period"`
	Display    int          `yaml:"display"`
	Engine     EngineConfig `yaml:"engine"`
	HTTP       HTTP         `yaml:"http"`
	NATS       NATS         `yaml:"nats"`
	Database   Database     `yaml:"database"`
	GeoIP      string       `yaml:"geoip"`
	Reporter   *Reporter    `yaml:"reporter"`
	Twitter    *Twitter     `yaml:"twitter"`
}

func DefaultConfig() *Config {
	return &Config{
		Source:     DefaultSource,
		PeriodSecs: DefaultPeriod,
		Display:    DefaultDisplay,
		Engine: EngineConfig{
			BucketSecs: DefaultBucket,
			Top:        DefaultTop,
			WindowSecs: DefaultWindow,
			Timezone:   "Local",
		},
		HTTP: HTTP{
			Enabled: true,
			Address: DefaultAddress,
		},
		NATS: NATS{
			Subject: DefaultSubject,
		},
		Reporter: &Reporter{},
		Twitter:  &Twitter{},
	}
}

func (c *Config) Period() time.Duration {
	return time.Duration(c.PeriodSecs) * time.Second
}

func (c *Config) Validate() (err error) {
	if c.Source == "" {
		return fmt.Errorf("no alert source specified")
	} else if c.PeriodSecs <= 0 {
		return fmt.Errorf("period must be positive, got %d", c.PeriodSecs)
	} else if c.Engine.BucketSecs <= 0 {
		return fmt.Errorf("engine.bucket must be positive, got %d", c.Engine.BucketSecs)
	} else if c.Engine.Top <= 0 {
		return fmt.Errorf("engine.top must be positive, got %d", c.Engine.Top)
	} else if c.Engine.WindowSecs <= 0 {
		return fmt.Errorf("engine.window must be positive, got %d", c.Engine.WindowSecs)
	} else if c.Display < 0 {
		return fmt.Errorf("display can't be negative, got %d", c.Display)
	}

	tz := c.Engine.Timezone
	if tz == "" {
		tz = "Local"
	}
	if c.Engine.location, err = time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid engine.timezone '%s': %v", tz, err)
	}

	if c.HTTP.Enabled && c.HTTP.Address == "" {
		c.HTTP.Address = DefaultAddress
	}
	if c.NATS.Enabled {
		if c.NATS.URL == "" {
			return fmt.Errorf("nats.url is required when nats is enabled")
		} else if c.NATS.Subject == "" {
			c.NATS.Subject = DefaultSubject
		}
	}
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("database.url is required when the database is enabled")
	}
	if c.Reporter == nil {
		c.Reporter = &Reporter{}
	} else if c.Reporter.Enabled {
		if c.Reporter.Repository.Local == "" {
			return fmt.Errorf("reporter.repository.local is required when the reporter is enabled")
		} else if c.Reporter.PeriodSecs <= 0 {
			return fmt.Errorf("reporter.period must be positive, got %d", c.Reporter.PeriodSecs)
		}
	}
	if c.Twitter == nil {
		c.Twitter = &Twitter{}
	}

	return nil
}

func Load(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	conf := DefaultConfig()
	if err = yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}

	if err = conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
