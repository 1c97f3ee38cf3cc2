package core

import (
	"time"

	"github.com/evilsocket/alertboard/models"
)

// Monday first
var weekDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

func dayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// heatmap counts alerts per day of week and hour of day. Every row is dense
// over the 24 hours but only days with at least one alert are included.
func heatmap(alerts []models.Alert) models.Heatmap {
	var grid [7][24]int
	var seen [7]bool

	for _, alert := range alerts {
		day := dayIndex(alert.Timestamp.Weekday())
		grid[day][alert.Timestamp.Hour()]++
		seen[day] = true
	}

	hm := models.Heatmap{
		Rows:  make([]models.HeatmapRow, 0),
		Total: len(alerts),
	}

	for i, day := range weekDays {
		if seen[i] {
			hm.Rows = append(hm.Rows, models.HeatmapRow{
				Day:   day.String(),
				Hours: grid[i],
			})
		}
	}

	return hm
}
