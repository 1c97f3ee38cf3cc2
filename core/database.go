package core

import (
	"fmt"

	"github.com/evilsocket/islazy/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evilsocket/alertboard/models"
)

type Database struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// Archive appends the KPIs and host rollups of every snapshot to a MySQL
// database. Rows are only ever written, the engine never reads them back.
type Archive struct {
	db *gorm.DB
}

func OpenArchive(conf Database) (*Archive, error) {
	db, err := gorm.Open(mysql.Open(conf.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	log.Debug("connected to the database")

	return NewArchive(db)
}

func NewArchive(db *gorm.DB) (*Archive, error) {
	if err := db.AutoMigrate(&models.SnapshotRow{}, &models.HostRow{}); err != nil {
		return nil, fmt.Errorf("error performing database migration: %v", err)
	}
	return &Archive{db: db}, nil
}

func snapshotRow(snap *models.Snapshot) models.SnapshotRow {
	return models.SnapshotRow{
		CreatedAt:  snap.GeneratedAt,
		SnapshotID: snap.ID,
		Source:     snap.Source,
		Total:      snap.KPIs.Total,
		Critical:   snap.KPIs.Critical,
		Hosts:      snap.KPIs.Hosts,
		MeanScore:  snap.KPIs.MeanScore,
		LastWindow: snap.KPIs.LastWindow,
		TopProcess: snap.KPIs.TopProcess,
	}
}

func hostRows(snap *models.Snapshot) []models.HostRow {
	rows := make([]models.HostRow, 0, len(snap.Hosts))
	for _, h := range snap.Hosts {
		rows = append(rows, models.HostRow{
			CreatedAt:   snap.GeneratedAt,
			SnapshotID:  snap.ID,
			Host:        h.Host,
			Total:       h.Total,
			Critical:    h.Critical,
			MeanScore:   h.MeanScore,
			CountryCode: h.CountryCode,
			CountryName: h.CountryName,
		})
	}
	return rows
}

func (a *Archive) Save(snap *models.Snapshot) error {
	row := snapshotRow(snap)
	if err := a.db.Create(&row).Error; err != nil {
		return fmt.Errorf("error saving snapshot %s: %v", snap.ID, err)
	}

	if rows := hostRows(snap); len(rows) > 0 {
		// a single multi-row INSERT, the rollup is capped at engine.top rows
		if err := a.db.Create(&rows).Error; err != nil {
			return fmt.Errorf("error saving %d host rollups of snapshot %s: %v", len(rows), snap.ID, err)
		}
	}

	log.Debug("snapshot %s archived with %d host rollups", snap.ID, len(snap.Hosts))
	return nil
}

func (a *Archive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
