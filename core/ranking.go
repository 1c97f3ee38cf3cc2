package core

import (
	"sort"

	"github.com/evilsocket/alertboard/models"
)

func byAlertType(a models.Alert) string   { return a.AlertType }
func byProcessName(a models.Alert) string { return a.ProcessName }
func bySeverity(a models.Alert) string    { return a.Severity }

// count tallies field values keeping the order in which they were first seen.
func count(alerts []models.Alert, field func(models.Alert) string) []models.RankEntry {
	index := make(map[string]int)
	entries := make([]models.RankEntry, 0)

	for _, alert := range alerts {
		value := field(alert)
		if i, found := index[value]; found {
			entries[i].Count++
		} else {
			index[value] = len(entries)
			entries = append(entries, models.RankEntry{Value: value, Count: 1})
		}
	}

	return entries
}

// rank returns the limit most frequent values, ties keep first-seen order.
// A limit <= 0 returns all of them.
func rank(alerts []models.Alert, field func(models.Alert) string, limit int) []models.RankEntry {
	entries := count(alerts, field)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
