package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evilsocket/alertboard/models"
)

type staticSource struct {
	snap *models.Snapshot
}

func (s staticSource) Snapshot() *models.Snapshot {
	return s.snap
}

func testSnapshot() *models.Snapshot {
	alerts := []models.Alert{
		alert(at(1, 10, 0, 0), "a", "critical", 90),
		alert(at(1, 10, 1, 0), "a", "info", 10),
	}
	snap := newTestEngine().Compute(alerts, at(1, 10, 30, 0))
	snap.ID = "test"
	return snap
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Healthz(t *testing.T) {
	s := NewServer("127.0.0.1:0", staticSource{testSnapshot()}, nil)

	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Snapshot(t *testing.T) {
	s := NewServer("127.0.0.1:0", staticSource{testSnapshot()}, nil)

	rec := get(t, s.Handler(), "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "test", snap.ID)
	assert.Equal(t, 2, snap.KPIs.Total)
	assert.Len(t, snap.Latest, 2)
}

func TestServer_Views(t *testing.T) {
	s := NewServer("127.0.0.1:0", staticSource{testSnapshot()}, nil)

	var kpis models.KPIs
	rec := get(t, s.Handler(), "/api/kpis")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kpis))
	assert.Equal(t, 1, kpis.Critical)

	var hosts []models.HostRollup
	rec = get(t, s.Handler(), "/api/hosts")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hosts))
	require.Len(t, hosts, 1)
	assert.Equal(t, 50.0, hosts[0].MeanScore)

	var rankings map[string][]models.RankEntry
	rec = get(t, s.Handler(), "/api/rankings")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rankings))
	assert.Equal(t, 2, rankings["alert_types"][0].Count)

	for _, path := range []string{"/api/alerts", "/api/trend", "/api/heatmap"} {
		assert.Equal(t, http.StatusOK, get(t, s.Handler(), path).Code, path)
	}

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/api/nope").Code)
}

func TestServer_EmptySnapshot(t *testing.T) {
	snap := newTestEngine().Compute(nil, at(1, 10, 0, 0))
	s := NewServer("127.0.0.1:0", staticSource{snap}, nil)

	rec := get(t, s.Handler(), "/api/kpis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"top_process":"N/A"`)

	rec = get(t, s.Handler(), "/api/alerts")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestServer_Metrics(t *testing.T) {
	s := NewServer("127.0.0.1:0", staticSource{testSnapshot()}, NewMetrics())

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alertboard_ticks_total")
}
