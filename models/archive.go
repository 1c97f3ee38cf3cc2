package models

import (
	"time"
)

type SnapshotRow struct {
	ID         uint      `gorm:"primary_key" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	SnapshotID string    `gorm:"index;size:32" json:"snapshot_id"`
	Source     string    `json:"source"`
	Total      int       `json:"total"`
	Critical   int       `json:"critical"`
	Hosts      int       `json:"hosts"`
	MeanScore  float64   `json:"mean_score"`
	LastWindow int       `json:"last_window"`
	TopProcess string    `json:"top_process"`
}

type HostRow struct {
	ID          uint      `gorm:"primary_key" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	SnapshotID  string    `gorm:"index;size:32" json:"snapshot_id"`
	Host        string    `gorm:"index" json:"host"`
	Total       int       `json:"total"`
	Critical    int       `json:"critical"`
	MeanScore   float64   `json:"mean_score"`
	CountryCode string    `gorm:"size:5" json:"country_code"`
	CountryName string    `json:"country_name"`
}
