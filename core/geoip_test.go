package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoLocator_NotAnAddress(t *testing.T) {
	g := &GeoLocator{}

	for _, host := range []string{"Unknown", "web-1", "", "10.0.0.1"} {
		code, name, found := g.Locate(host)
		assert.False(t, found, host)
		assert.Empty(t, code)
		assert.Empty(t, name)
	}
	assert.NoError(t, g.Close())
}

func TestGeoLocator_MissingDatabase(t *testing.T) {
	_, err := OpenGeoLocator(filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb"))
	assert.Error(t, err)
}
