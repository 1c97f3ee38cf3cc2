package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/valyala/fastjson"

	"github.com/evilsocket/alertboard/models"
)

const (
	DefaultHost        = "Unknown"
	DefaultAlertType   = "UNKNOWN_ALERT_TYPE"
	DefaultPID         = 0
	DefaultProcessName = "N/A"
	DefaultThreatScore = 0
	DefaultSeverity    = models.SeverityInfo
	DefaultDetails     = "No additional details."

	// format used to render a defaulted timestamp, same as the one the
	// detection agent writes
	RawTimeFormat = "2006-01-02 15:04:05"
)

var (
	ErrMalformedLine = errors.New("malformed alert line")
	ErrBadTimestamp  = errors.New("unparsable alert timestamp")
)

// tried in order after any user supplied format
var builtinTimeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	RawTimeFormat,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
}

type Parser struct {
	Location *time.Location
	Formats  []string
	Now      func() time.Time

	pool fastjson.ParserPool
}

func NewParser(loc *time.Location, formats []string) *Parser {
	if loc == nil {
		loc = time.Local
	}

	all := make([]string, 0, len(formats)+len(builtinTimeFormats))
	all = append(all, formats...)
	all = append(all, builtinTimeFormats...)

	log.Debug("alert parser using location %s and %d time formats", loc, len(all))

	return &Parser{
		Location: loc,
		Formats:  all,
		Now:      time.Now,
	}
}

type fields map[string]*fastjson.Value

// last occurrence wins on duplicate keys
func collect(obj *fastjson.Object) fields {
	f := make(fields, obj.Len())
	obj.Visit(func(key []byte, v *fastjson.Value) {
		f[string(key)] = v
	})
	return f
}

// Parse decodes a single log line into an Alert, filling in defaults for
// every missing field. It returns ErrMalformedLine when the line is not a
// JSON object and ErrBadTimestamp when the timestamp is present but can't
// be interpreted as a point in time.
func (p *Parser) Parse(line []byte) (models.Alert, error) {
	return p.ParseAt(line, p.Now())
}

// ParseAt is like Parse but stamps alerts without a timestamp with now.
func (p *Parser) ParseAt(line []byte, now time.Time) (alert models.Alert, err error) {
	fp := p.pool.Get()
	defer p.pool.Put(fp)

	v, err := fp.ParseBytes(line)
	if err != nil {
		return alert, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	obj, err := v.Object()
	if err != nil {
		return alert, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	f := collect(obj)
	alert = models.Alert{
		Host:        f.str("host", DefaultHost),
		AlertType:   f.str("alert_type", DefaultAlertType),
		PID:         f.integer("pid", DefaultPID),
		ProcessName: f.str("process_name", DefaultProcessName),
		ThreatScore: f.number("threat_score_total", DefaultThreatScore),
		Severity:    f.str("severity", DefaultSeverity),
		Details:     f.str("details", DefaultDetails),
	}
	alert.Color = models.SeverityColor(alert.Severity)

	if ts, found := f["timestamp"]; !found {
		now = now.In(p.Location).Truncate(time.Second)
		alert.Timestamp = now
		alert.RawTimestamp = now.Format(RawTimeFormat)
	} else {
		alert.RawTimestamp = rawString(ts)
		if alert.Timestamp, err = p.parseTime(ts); err != nil {
			return alert, fmt.Errorf("%w: %v", ErrBadTimestamp, err)
		}
	}

	return alert, nil
}

func (p *Parser) parseTime(v *fastjson.Value) (time.Time, error) {
	switch v.Type() {
	case fastjson.TypeString:
		value := strings.TrimSpace(string(v.GetStringBytes()))
		if value == "" {
			return time.Time{}, fmt.Errorf("empty value")
		}
		for _, layout := range p.Formats {
			if t, err := time.ParseInLocation(layout, value, p.Location); err == nil {
				return t.In(p.Location), nil
			}
		}
		return time.Time{}, fmt.Errorf("'%s' does not match any known format", value)

	case fastjson.TypeNumber:
		// unix epoch, seconds
		f, err := v.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("invalid epoch %s", v.String())
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).In(p.Location), nil
	}

	return time.Time{}, fmt.Errorf("unexpected %s value", v.Type())
}

func rawString(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

// null is treated as a missing key for every field but the timestamp
func present(v *fastjson.Value) bool {
	return v != nil && v.Type() != fastjson.TypeNull
}

func (f fields) str(key string, def string) string {
	if v := f[key]; present(v) {
		return rawString(v)
	}
	return def
}

// float64 can't represent MaxInt64 exactly, 2^63 is the first value out of range
const int64Limit = float64(1 << 63)

func (f fields) integer(key string, def int64) int64 {
	v := f[key]
	if !present(v) {
		return def
	}

	switch v.Type() {
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if x, err := v.Float64(); err == nil && x >= -int64Limit && x < int64Limit {
			return int64(x)
		}
	case fastjson.TypeString:
		if n, err := strconv.ParseInt(strings.TrimSpace(string(v.GetStringBytes())), 10, 64); err == nil {
			return n
		}
	}
	return def
}

func (f fields) number(key string, def float64) float64 {
	v := f[key]
	if !present(v) {
		return def
	}

	switch v.Type() {
	case fastjson.TypeNumber:
		if x, err := v.Float64(); err == nil && !math.IsNaN(x) && !math.IsInf(x, 0) {
			return x
		}
	case fastjson.TypeString:
		if x, err := strconv.ParseFloat(strings.TrimSpace(string(v.GetStringBytes())), 64); err == nil && !math.IsNaN(x) && !math.IsInf(x, 0) {
			return x
		}
	}
	return def
}
