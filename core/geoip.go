package core

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoLocator resolves hosts that are IP addresses to their country.
type GeoLocator struct {
	reader *geoip2.Reader
}

func OpenGeoLocator(filename string) (*GeoLocator, error) {
	reader, err := geoip2.Open(filename)
	if err != nil {
		return nil, err
	}
	return &GeoLocator{reader: reader}, nil
}

func (g *GeoLocator) Locate(host string) (code string, name string, found bool) {
	ip := net.ParseIP(host)
	if ip == nil || g.reader == nil {
		return "", "", false
	}

	country, err := g.reader.Country(ip)
	if err != nil || country.Country.IsoCode == "" {
		return "", "", false
	}

	return country.Country.IsoCode, country.Country.Names["en"], true
}

func (g *GeoLocator) Close() error {
	if g.reader == nil {
		return nil
	}
	return g.reader.Close()
}
