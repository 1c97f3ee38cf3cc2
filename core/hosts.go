package core

import (
	"sort"

	"github.com/evilsocket/alertboard/models"
)

type hostAcc struct {
	rollup models.HostRollup
	score  float64
}

// hosts groups alerts by host, busiest first, ties in first-seen order.
func (e *Engine) hosts(alerts []models.Alert) []models.HostRollup {
	index := make(map[string]int)
	accs := make([]hostAcc, 0)

	for _, alert := range alerts {
		i, found := index[alert.Host]
		if !found {
			i = len(accs)
			index[alert.Host] = i
			accs = append(accs, hostAcc{rollup: models.HostRollup{Host: alert.Host}})
		}

		accs[i].rollup.Total++
		accs[i].score += alert.ThreatScore
		if alert.IsCritical() {
			accs[i].rollup.Critical++
		}
	}

	sort.SliceStable(accs, func(i, j int) bool {
		return accs[i].rollup.Total > accs[j].rollup.Total
	})

	if e.TopN > 0 && len(accs) > e.TopN {
		accs = accs[:e.TopN]
	}

	rollups := make([]models.HostRollup, 0, len(accs))
	for _, acc := range accs {
		r := acc.rollup
		r.MeanScore = round(acc.score/float64(r.Total), 1)
		if e.Locator != nil {
			r.CountryCode, r.CountryName, _ = e.Locator.Locate(r.Host)
		}
		rollups = append(rollups, r)
	}

	return rollups
}
