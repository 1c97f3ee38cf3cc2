package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTwitter_Status(t *testing.T) {
	snap := testSnapshot()
	assert.Equal(t, "2 alerts, 1 critical from 1 host https://example.com/r.csv", statusFor(snap, "https://example.com/r.csv"))

	snap.KPIs.Hosts = 3
	assert.Equal(t, "2 alerts, 1 critical from 3 hosts https://example.com/r.csv", statusFor(snap, "https://example.com/r.csv"))
}

func TestTwitter_SkipsWhenDisabledOrNoReport(t *testing.T) {
	assert.NoError(t, (&Twitter{}).OnReport(testSnapshot(), "https://example.com/r.csv"))
	assert.NoError(t, (&Twitter{Enabled: true}).OnReport(testSnapshot(), ""))
}
