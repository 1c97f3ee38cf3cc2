package core

import (
	"sort"
	"time"

	"github.com/evilsocket/alertboard/models"
)

type trendKey struct {
	bucket   int64
	severity string
}

// trend counts alerts per time bucket and severity. Buckets are the
// timestamps floored to BucketWidth, only buckets with alerts are reported.
func (e *Engine) trend(alerts []models.Alert) []models.TrendPoint {
	width := e.BucketWidth
	if width <= 0 {
		width = time.Minute
	}

	index := make(map[trendKey]int)
	points := make([]models.TrendPoint, 0)

	for _, alert := range alerts {
		bucket := alert.Timestamp.Truncate(width)
		key := trendKey{
			bucket:   bucket.UnixNano(),
			severity: alert.Severity,
		}

		if i, found := index[key]; found {
			points[i].Count++
		} else {
			index[key] = len(points)
			points = append(points, models.TrendPoint{
				Bucket:   bucket,
				Severity: alert.Severity,
				Count:    1,
			})
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if !points[i].Bucket.Equal(points[j].Bucket) {
			return points[i].Bucket.Before(points[j].Bucket)
		}
		return models.LessSeverity(points[i].Severity, points[j].Severity)
	})

	return points
}
