package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(filename, []byte(data), 0644))
	return filename
}

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load(writeConfig(t, "source: /tmp/alerts.json\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/alerts.json", conf.Source)
	assert.Equal(t, 5*time.Second, conf.Period())
	assert.Equal(t, DefaultDisplay, conf.Display)
	assert.Equal(t, DefaultBucket, conf.Engine.BucketSecs)
	assert.Equal(t, DefaultTop, conf.Engine.Top)
	assert.Equal(t, DefaultWindow, conf.Engine.WindowSecs)
	assert.Equal(t, time.Local, conf.Engine.Location())
	assert.True(t, conf.HTTP.Enabled)
	assert.Equal(t, DefaultAddress, conf.HTTP.Address)
	assert.False(t, conf.NATS.Enabled)
	assert.NotNil(t, conf.Reporter)
	assert.NotNil(t, conf.Twitter)
}

func TestLoad_Overrides(t *testing.T) {
	conf, err := Load(writeConfig(t, `
source: /var/log/alerts.json
period: 10
display: 20
engine:
  bucket: 300
  top: 5
  window: 600
  timezone: UTC
  time_formats: ["02/01/2006 15:04"]
nats:
  enabled: true
  url: nats://localhost:4222
reporter:
  enabled: true
  period: 60
  repository:
    local: /tmp/reports
`))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, conf.Period())
	assert.Equal(t, 20, conf.Display)
	assert.Equal(t, 300, conf.Engine.BucketSecs)
	assert.Equal(t, time.UTC, conf.Engine.Location())
	assert.Equal(t, []string{"02/01/2006 15:04"}, conf.Engine.TimeFormats)
	assert.Equal(t, DefaultSubject, conf.NATS.Subject)
	assert.Equal(t, time.Minute, conf.Reporter.Period())
	assert.Equal(t, "/tmp/reports", conf.Reporter.Repository.Local)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"period":   "period: 0\n",
		"bucket":   "engine:\n  bucket: -1\n",
		"top":      "engine:\n  top: 0\n",
		"window":   "engine:\n  window: 0\n",
		"display":  "display: -3\n",
		"timezone": "engine:\n  timezone: Mars/Olympus_Mons\n",
		"nats":     "nats:\n  enabled: true\n",
		"database": "database:\n  enabled: true\n",
		"reporter": "reporter:\n  enabled: true\n  period: 60\n",
		"source":   "source: \"\"\n",
		"yaml":     "period: [1, 2\n",
	}

	for name, data := range tests {
		_, err := Load(writeConfig(t, data))
		assert.Error(t, err, name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
