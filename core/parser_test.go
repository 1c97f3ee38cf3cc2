package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 12, 30, 45, 500, time.UTC)

func newTestParser() *Parser {
	p := NewParser(time.UTC, nil)
	p.Now = func() time.Time { return testNow }
	return p
}

func TestParser_FullRecord(t *testing.T) {
	p := newTestParser()

	alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "host": "web-1", "alert_type": "SUSPICIOUS_BEHAVIOR",
		"pid": 1234, "process_name": "nc", "threat_score_total": 85, "severity": "critical",
		"details": "reverse shell", "extra": {"ignored": true}}`))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), alert.Timestamp)
	assert.Equal(t, "2024-01-01 10:00:00", alert.RawTimestamp)
	assert.Equal(t, "web-1", alert.Host)
	assert.Equal(t, "SUSPICIOUS_BEHAVIOR", alert.AlertType)
	assert.Equal(t, int64(1234), alert.PID)
	assert.Equal(t, "nc", alert.ProcessName)
	assert.Equal(t, 85.0, alert.ThreatScore)
	assert.Equal(t, "critical", alert.Severity)
	assert.Equal(t, "reverse shell", alert.Details)
	assert.Equal(t, "#DC143C", alert.Color)
}

func TestParser_Defaults(t *testing.T) {
	p := newTestParser()

	alert, err := p.Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, testNow.Truncate(time.Second), alert.Timestamp)
	assert.Equal(t, "2024-01-01 12:30:45", alert.RawTimestamp)
	assert.Equal(t, DefaultHost, alert.Host)
	assert.Equal(t, DefaultAlertType, alert.AlertType)
	assert.Equal(t, int64(0), alert.PID)
	assert.Equal(t, DefaultProcessName, alert.ProcessName)
	assert.Equal(t, 0.0, alert.ThreatScore)
	assert.Equal(t, "info", alert.Severity)
	assert.Equal(t, DefaultDetails, alert.Details)
}

func TestParser_NullFieldsAreDefaulted(t *testing.T) {
	p := newTestParser()

	alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "host": null, "severity": null, "pid": null}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, alert.Host)
	assert.Equal(t, DefaultSeverity, alert.Severity)
	assert.Equal(t, int64(0), alert.PID)
}

func TestParser_Malformed(t *testing.T) {
	p := newTestParser()

	for _, line := range []string{
		`{not json`,
		`{"timestamp": "2024-01-01 10:00:00", "host": "a"`,
		`[1, 2, 3]`,
		`"just a string"`,
		`42`,
		`null`,
	} {
		_, err := p.Parse([]byte(line))
		assert.ErrorIs(t, err, ErrMalformedLine, line)
	}
}

func TestParser_BadTimestamp(t *testing.T) {
	p := newTestParser()

	for _, line := range []string{
		`{"timestamp": "yesterday at noon"}`,
		`{"timestamp": ""}`,
		`{"timestamp": null}`,
		`{"timestamp": true}`,
		`{"timestamp": "2024-13-45 99:00:00"}`,
	} {
		_, err := p.Parse([]byte(line))
		assert.ErrorIs(t, err, ErrBadTimestamp, line)
		assert.NotErrorIs(t, err, ErrMalformedLine, line)
	}
}

func TestParser_TimestampFormats(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	p := NewParser(loc, []string{"02/01/2006 15h04"})

	tests := []struct {
		raw      string
		expected time.Time
	}{
		{`"2024-01-01 10:00:00"`, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)},
		{`"2024-01-01T10:00:00"`, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)},
		{`"2024-01-01 10:00:00.250"`, time.Date(2024, 1, 1, 10, 0, 0, 250000000, loc)},
		{`"2024-01-01T09:00:00Z"`, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)},
		{`"2024-01-01T10:00:00+01:00"`, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)},
		{`"2024-01-01"`, time.Date(2024, 1, 1, 0, 0, 0, 0, loc)},
		{`"01/02/2024 08h30"`, time.Date(2024, 2, 1, 8, 30, 0, 0, loc)},
		{`1704099600`, time.Date(2024, 1, 1, 10, 0, 0, 0, loc)},
	}

	for _, test := range tests {
		alert, err := p.Parse([]byte(`{"timestamp": ` + test.raw + `}`))
		require.NoError(t, err, test.raw)
		assert.True(t, test.expected.Equal(alert.Timestamp), "%s: expected %s got %s", test.raw, test.expected, alert.Timestamp)
		assert.Equal(t, loc, alert.Timestamp.Location())
	}
}

func TestParser_NoSemanticValidation(t *testing.T) {
	p := newTestParser()

	alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "severity": "URGENT", "pid": -5, "threat_score_total": 1e6}`))
	require.NoError(t, err)
	assert.Equal(t, "URGENT", alert.Severity)
	assert.Equal(t, "#FFFFFF", alert.Color)
	assert.Equal(t, int64(-5), alert.PID)
	assert.Equal(t, 1e6, alert.ThreatScore)
}

func TestParser_LooseTypes(t *testing.T) {
	p := newTestParser()

	alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "host": 42, "pid": "77", "threat_score_total": "12.5", "process_name": ""}`))
	require.NoError(t, err)
	assert.Equal(t, "42", alert.Host)
	assert.Equal(t, int64(77), alert.PID)
	assert.Equal(t, 12.5, alert.ThreatScore)
	assert.Equal(t, "", alert.ProcessName)

	alert, err = p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "pid": 3.9, "threat_score_total": "n/a"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(3), alert.PID)
	assert.Equal(t, 0.0, alert.ThreatScore)
}

func TestParser_ParseAtStampsUntimedAlerts(t *testing.T) {
	p := newTestParser()
	now := time.Date(2024, 3, 1, 8, 0, 0, 900, time.UTC)

	alert, err := p.ParseAt([]byte(`{"host": "a"}`), now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), alert.Timestamp)
	assert.False(t, alert.Timestamp.After(now))
}

func TestParser_DuplicateKeysLastWins(t *testing.T) {
	p := newTestParser()

	alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "severity": "info", "host": "a", "severity": "critical", "host": null}`))
	require.NoError(t, err)
	assert.Equal(t, "critical", alert.Severity)
	assert.Equal(t, DefaultHost, alert.Host)
}

func TestParser_OutOfRangePID(t *testing.T) {
	p := newTestParser()

	for _, raw := range []string{`1e30`, `-1e30`, `9.3e18`, `"99999999999999999999"`} {
		alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "pid": ` + raw + `}`))
		require.NoError(t, err, raw)
		assert.Equal(t, int64(DefaultPID), alert.PID, raw)
	}

	alert, err := p.Parse([]byte(`{"timestamp": "2024-01-01 10:00:00", "pid": 4e9}`))
	require.NoError(t, err)
	assert.Equal(t, int64(4000000000), alert.PID)
}
