package core

import (
	"sort"
	"time"

	"github.com/evilsocket/alertboard/models"
)

func (e *Engine) kpis(alerts []models.Alert, now time.Time) models.KPIs {
	kpis := models.KPIs{
		Total:      len(alerts),
		TopProcess: DefaultProcessName,
		BySeverity: count(alerts, bySeverity),
	}

	hosts := make(map[string]bool)
	score := 0.0
	from := now.Add(-e.Window)

	for _, alert := range alerts {
		hosts[alert.Host] = true
		score += alert.ThreatScore
		if alert.IsCritical() {
			kpis.Critical++
		}
		if !alert.Timestamp.Before(from) && !alert.Timestamp.After(now) {
			kpis.LastWindow++
		}
	}

	kpis.Hosts = len(hosts)
	if kpis.Total > 0 {
		kpis.MeanScore = round(score/float64(kpis.Total), 2)
	}

	if top := rank(alerts, byProcessName, 1); len(top) > 0 {
		kpis.TopProcess = top[0].Value
	}

	sort.SliceStable(kpis.BySeverity, func(i, j int) bool {
		return models.LessSeverity(kpis.BySeverity[i].Value, kpis.BySeverity[j].Value)
	})

	return kpis
}
