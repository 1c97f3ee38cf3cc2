package models

import (
	"time"
)

// TrendPoint is the number of alerts of one severity in one time bucket.
type TrendPoint struct {
	Bucket   time.Time `json:"bucket"`
	Severity string    `json:"severity"`
	Count    int       `json:"count"`
}

// RankEntry is a value and how many alerts carry it.
type RankEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// HeatmapRow holds the per hour alert counts of one day of the week.
type HeatmapRow struct {
	Day   string  `json:"day"`
	Hours [24]int `json:"hours"`
}

// Heatmap has a row per day with alerts, Monday first.
type Heatmap struct {
	Rows  []HeatmapRow `json:"rows"`
	Total int          `json:"total"`
}

// HostRollup summarizes the alerts of a single host.
type HostRollup struct {
	Host        string  `json:"host"`
	Total       int     `json:"total"`
	Critical    int     `json:"critical"`
	MeanScore   float64 `json:"mean_score"`
	CountryCode string  `json:"country_code,omitempty"`
	CountryName string  `json:"country_name,omitempty"`
}

// KPIs are the headline numbers of a snapshot.
type KPIs struct {
	Total      int         `json:"total"`
	Critical   int         `json:"critical"`
	Hosts      int         `json:"hosts"`
	MeanScore  float64     `json:"mean_score"`
	LastWindow int         `json:"alerts_last_hour"`
	TopProcess string      `json:"top_process"`
	BySeverity []RankEntry `json:"by_severity"`
}

// Snapshot is the full set of views computed from a single load of the
// alert log. It is built once and only ever read afterwards.
type Snapshot struct {
	ID            string       `json:"id"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Source        string       `json:"source"`
	Trend         []TrendPoint `json:"trend"`
	TopAlertTypes []RankEntry  `json:"top_alert_types"`
	TopProcesses  []RankEntry  `json:"top_processes"`
	Heatmap       Heatmap      `json:"heatmap"`
	Hosts         []HostRollup `json:"hosts"`
	KPIs          KPIs         `json:"kpis"`
	Latest        []Alert      `json:"latest"`
}

// Empty is true when no alerts were loaded.
func (s *Snapshot) Empty() bool {
	return s.KPIs.Total == 0
}
