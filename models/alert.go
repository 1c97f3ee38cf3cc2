package models

import (
	"time"
)

const (
	SeverityInfo     = "info"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Severities is the canonical severity order, least to most urgent.
var Severities = []string{
	SeverityInfo,
	SeverityLow,
	SeverityMedium,
	SeverityHigh,
	SeverityCritical,
}

var severityColors = map[string]string{
	SeverityInfo:     "#00BFFF",
	SeverityLow:      "#32CD32",
	SeverityMedium:   "#FFD700",
	SeverityHigh:     "#FF4500",
	SeverityCritical: "#DC143C",
}

// SeverityRank returns the position of sev in Severities, or len(Severities)
// for values outside the canonical set.
func SeverityRank(sev string) int {
	for i, s := range Severities {
		if s == sev {
			return i
		}
	}
	return len(Severities)
}

// LessSeverity orders canonical severities first, then anything else alphabetically.
func LessSeverity(a, b string) bool {
	ra, rb := SeverityRank(a), SeverityRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// SeverityColor returns the display colour of sev, white when not canonical.
func SeverityColor(sev string) string {
	if color, found := severityColors[sev]; found {
		return color
	}
	return "#FFFFFF"
}

// Alert is one normalized record of the alert log. Values are never
// modified once the parser returns them.
type Alert struct {
	Timestamp    time.Time `json:"timestamp"`
	RawTimestamp string    `json:"raw_timestamp"`
	Host         string    `json:"host"`
	AlertType    string    `json:"alert_type"`
	PID          int64     `json:"pid"`
	ProcessName  string    `json:"process_name"`
	ThreatScore  float64   `json:"threat_score_total"`
	Severity     string    `json:"severity"`
	Details      string    `json:"details"`
	Color        string    `json:"color"`
}

// IsCritical is an exact, case sensitive match on "critical".
func (a Alert) IsCritical() bool {
	return a.Severity == SeverityCritical
}
