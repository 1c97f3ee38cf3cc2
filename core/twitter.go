package core

import (
	"fmt"
	"sync"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
	"github.com/evilsocket/islazy/log"

	"github.com/evilsocket/alertboard/models"
)

type Twitter struct {
	sync.Mutex

	Enabled        bool   `yaml:"enabled"`
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	AccessKey      string `yaml:"access_key"`
	AccessSecret   string `yaml:"access_secret"`

	client *twitter.Client
}

func (t *Twitter) Init() (err error) {
	config := oauth1.NewConfig(t.ConsumerKey, t.ConsumerSecret)
	token := oauth1.NewToken(t.AccessKey, t.AccessSecret)
	// http.Client will automatically authorize Requests
	httpClient := config.Client(oauth1.NoContext, token)
	t.client = twitter.NewClient(httpClient)
	return
}

func statusFor(snap *models.Snapshot, reportURL string) string {
	plural := "s"
	if snap.KPIs.Hosts == 1 {
		plural = ""
	}

	return fmt.Sprintf("%d alerts, %d critical from %d host%s %s",
		snap.KPIs.Total,
		snap.KPIs.Critical,
		snap.KPIs.Hosts,
		plural,
		reportURL)
}

func (t *Twitter) OnReport(snap *models.Snapshot, reportURL string) error {
	t.Lock()
	defer t.Unlock()

	if !t.Enabled || reportURL == "" || t.client == nil {
		return nil
	}

	status := statusFor(snap, reportURL)
	log.Info("tweet> %s", status)

	tweet, _, err := t.client.Statuses.Update(status, nil)
	if err != nil {
		return fmt.Errorf("error tweeting: %v", err)
	}

	log.Debug("tweet: %+v", tweet)
	return nil
}
