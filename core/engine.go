package core

import (
	"math"
	"time"

	"github.com/evilsocket/alertboard/models"
)

// HostLocator resolves a host identifier to a country, see GeoLocator.
type HostLocator interface {
	Locate(host string) (code string, name string, found bool)
}

// Engine derives every dashboard view from one collection of alerts. It
// holds configuration only, so the same instance can be used by
// concurrent passes.
type Engine struct {
	BucketWidth  time.Duration
	TopN         int
	Window       time.Duration
	DisplayLimit int
	Locator      HostLocator
}

func NewEngine(conf EngineConfig, display int) *Engine {
	return &Engine{
		BucketWidth:  time.Duration(conf.BucketSecs) * time.Second,
		TopN:         conf.Top,
		Window:       time.Duration(conf.WindowSecs) * time.Second,
		DisplayLimit: display,
	}
}

// Compute builds a snapshot out of alerts, which must be sorted by
// timestamp as returned by Loader.Load. now is the end of the KPI window.
func (e *Engine) Compute(alerts []models.Alert, now time.Time) *models.Snapshot {
	return &models.Snapshot{
		GeneratedAt:   now,
		Trend:         e.trend(alerts),
		TopAlertTypes: rank(alerts, byAlertType, e.TopN),
		TopProcesses:  rank(alerts, byProcessName, e.TopN),
		Heatmap:       heatmap(alerts),
		Hosts:         e.hosts(alerts),
		KPIs:          e.kpis(alerts, now),
		Latest:        e.latest(alerts),
	}
}

// latest returns the newest DisplayLimit alerts, newest first.
func (e *Engine) latest(alerts []models.Alert) []models.Alert {
	from := 0
	if e.DisplayLimit >= 0 && len(alerts) > e.DisplayLimit {
		from = len(alerts) - e.DisplayLimit
	}

	out := make([]models.Alert, 0, len(alerts)-from)
	for i := len(alerts) - 1; i >= from; i-- {
		out = append(out, alerts[i])
	}
	return out
}

func round(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}
