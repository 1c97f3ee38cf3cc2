package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/teris-io/shortid"

	"github.com/evilsocket/alertboard/models"
)

type sink struct {
	name string
	push func(*models.Snapshot) error
}

// Aggregator runs the load and aggregate pass once per period and keeps
// the latest snapshot around for the presentation layer.
type Aggregator struct {
	sync.Mutex

	Metrics *Metrics

	conf     *Config
	loader   *Loader
	engine   *Engine
	snapshot atomic.Value
	sinks    []sink
	closers  []func()
	server   *Server
}

func NewAggregator(conf *Config) *Aggregator {
	parser := NewParser(conf.Engine.Location(), conf.Engine.TimeFormats)
	a := &Aggregator{
		Metrics: NewMetrics(),
		conf:    conf,
		loader:  NewLoader(conf.Source, parser),
		engine:  NewEngine(conf.Engine, conf.Display),
		sinks:   make([]sink, 0),
		closers: make([]func(), 0),
	}

	empty := a.engine.Compute([]models.Alert{}, time.Now())
	empty.Source = conf.Source
	a.snapshot.Store(empty)

	return a
}

// Snapshot returns the latest snapshot, never nil.
func (a *Aggregator) Snapshot() *models.Snapshot {
	return a.snapshot.Load().(*models.Snapshot)
}

func snapshotID(now time.Time) string {
	id, err := shortid.Generate()
	if err != nil {
		return fmt.Sprintf("%x", now.UnixNano())
	}
	return id
}

// Tick performs a full pass over the alert log and publishes the result.
// now is both the end of the KPI window and the time given to alerts
// without a timestamp. Concurrent calls are serialized.
func (a *Aggregator) Tick(now time.Time) *models.Snapshot {
	a.Lock()
	defer a.Unlock()

	started := time.Now()

	alerts, stats := a.loader.Load(now)
	snap := a.engine.Compute(alerts, now)
	snap.ID = snapshotID(now)
	snap.Source = a.conf.Source

	a.snapshot.Store(snap)
	a.Metrics.Observe(stats, snap, time.Since(started).Seconds())

	log.Debug("snapshot %s: %d alerts, %d critical, %d hosts computed in %s",
		snap.ID, snap.KPIs.Total, snap.KPIs.Critical, snap.KPIs.Hosts, time.Since(started))

	for _, s := range a.sinks {
		if err := s.push(snap); err != nil {
			a.Metrics.SinkError(s.name)
			log.Error("%s: %v", s.name, err)
		}
	}

	return snap
}

func (a *Aggregator) onReport() {
	snap := a.Snapshot()
	reportURL, err := a.conf.Reporter.OnSnapshot(snap)
	if err != nil {
		a.Metrics.SinkError("reporter")
		log.Error("%v", err)
		return
	}

	if err = a.conf.Twitter.OnReport(snap, reportURL); err != nil {
		a.Metrics.SinkError("twitter")
		log.Error("%v", err)
	}
}

func (a *Aggregator) setup() (err error) {
	if a.conf.GeoIP != "" {
		geo, err := OpenGeoLocator(a.conf.GeoIP)
		if err != nil {
			return fmt.Errorf("error opening geoip database %s: %v", a.conf.GeoIP, err)
		}
		a.engine.Locator = geo
		a.closers = append(a.closers, func() { geo.Close() })
	}

	if a.conf.Database.Enabled {
		archive, err := OpenArchive(a.conf.Database)
		if err != nil {
			return err
		}
		a.sinks = append(a.sinks, sink{name: "database", push: archive.Save})
		a.closers = append(a.closers, func() { archive.Close() })
	}

	if a.conf.NATS.Enabled {
		publisher, err := NewPublisher(a.conf.NATS)
		if err != nil {
			return err
		}
		a.sinks = append(a.sinks, sink{name: "nats", push: publisher.Publish})
		a.closers = append(a.closers, publisher.Close)
	}

	if a.conf.Reporter.Enabled {
		if err = a.conf.Reporter.Init(); err != nil {
			return err
		}
		if a.conf.Twitter.Enabled {
			if err = a.conf.Twitter.Init(); err != nil {
				return err
			}
		}
	}

	if a.conf.HTTP.Enabled {
		a.server = NewServer(a.conf.HTTP.Address, a, a.Metrics)
		a.server.Start()
	}

	return nil
}

func (a *Aggregator) teardown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Stop(ctx); err != nil {
			log.Error("error stopping http server: %v", err)
		}
	}

	for _, closer := range a.closers {
		closer()
	}
}

// Start blocks running a pass every configured period until ctx is done.
// Passes run one after the other, ticks that fire while a pass is still
// running are dropped.
func (a *Aggregator) Start(ctx context.Context) error {
	if err := a.setup(); err != nil {
		a.teardown()
		return err
	}
	defer a.teardown()

	if a.conf.Reporter.Enabled {
		go func() {
			log.Info("reporting every %s", a.conf.Reporter.Period())
			ticker := time.NewTicker(a.conf.Reporter.Period())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					a.onReport()
				}
			}
		}()
	}

	log.Info("loading %s every %s", a.conf.Source, a.conf.Period())

	a.Tick(time.Now())

	ticker := time.NewTicker(a.conf.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("aggregator stopped")
			return nil
		case <-ticker.C:
			// the tick time may be stale if the previous pass was slow
			a.Tick(time.Now())
		}
	}
}
