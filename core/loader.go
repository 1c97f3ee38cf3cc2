package core

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"sort"
	"time"

	"github.com/evilsocket/islazy/fs"
	"github.com/evilsocket/islazy/log"

	"github.com/evilsocket/alertboard/models"
)

type LoadStats struct {
	Lines         int
	Malformed     int
	BadTimestamps int
	Records       int
	Duration      time.Duration
}

// Loader re-reads the whole alert log on every call, nothing is kept
// between two loads.
type Loader struct {
	Filename string
	Parser   *Parser
}

func NewLoader(filename string, parser *Parser) *Loader {
	return &Loader{
		Filename: filename,
		Parser:   parser,
	}
}

// Load returns the alerts of the log sorted by timestamp. A missing or
// unreadable log yields an empty collection. Alerts without a timestamp are
// stamped with now.
func (l *Loader) Load(now time.Time) ([]models.Alert, LoadStats) {
	stats := LoadStats{}
	started := time.Now()

	if !fs.Exists(l.Filename) {
		log.Debug("alert log %s does not exist yet", l.Filename)
		return []models.Alert{}, stats
	}

	fp, err := os.Open(l.Filename)
	if err != nil {
		log.Warning("could not open alert log %s: %v", l.Filename, err)
		return []models.Alert{}, stats
	}
	defer fp.Close()

	alerts, stats, err := l.read(fp, now)
	if err != nil {
		log.Warning("error reading alert log %s: %v", l.Filename, err)
		return []models.Alert{}, LoadStats{Duration: time.Since(started)}
	}

	stats.Duration = time.Since(started)
	log.Debug("loaded %d alerts from %s (%d lines, %d malformed, %d bad timestamps) in %s",
		stats.Records, l.Filename, stats.Lines, stats.Malformed, stats.BadTimestamps, stats.Duration)

	return alerts, stats
}

func (l *Loader) read(r io.Reader, now time.Time) ([]models.Alert, LoadStats, error) {
	stats := LoadStats{}
	alerts := make([]models.Alert, 0)
	reader := bufio.NewReader(r)

	for {
		// the writer may still be appending the last line, in which case
		// it's just an incomplete record and fails to parse
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, stats, err
		}

		if line = bytes.TrimSpace(line); len(line) > 0 {
			stats.Lines++
			alert, perr := l.Parser.ParseAt(line, now)
			if perr == nil {
				alerts = append(alerts, alert)
			} else if errors.Is(perr, ErrBadTimestamp) {
				stats.BadTimestamps++
			} else {
				stats.Malformed++
			}
		}

		if err == io.EOF {
			break
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.Before(alerts[j].Timestamp)
	})

	stats.Records = len(alerts)
	return alerts, stats, nil
}
