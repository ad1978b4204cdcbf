package util

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipMu    sync.RWMutex
	geoipDB    *geoip2.Reader
	geoipCache = cache.New(24*time.Hour, time.Hour)
)

// InitGeoIP opens a GeoIP2/GeoLite2 City database. With an empty dbPath the
// GEOIP_DB_PATH variable is used; if neither is set lookups stay disabled.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}

	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
	}
	geoipDB = r
	geoipCache.Flush()
	return nil
}

// CloseGeoIP closes the GeoIP database if opened.
func CloseGeoIP() {
	geoipMu.Lock()
	defer geoipMu.Unlock()
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

// LookupLocation returns "City/Country" (or whichever part is known) for ip.
// Private, loopback and unparseable addresses resolve to "".
func LookupLocation(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return ""
	}

	if v, ok := geoipCache.Get(ip); ok {
		return v.(string)
	}

	geoipMu.RLock()
	reader := geoipDB
	geoipMu.RUnlock()
	if reader == nil {
		return ""
	}

	rec, err := reader.City(parsed)
	if err != nil {
		return ""
	}

	city := rec.City.Names["en"]
	country := rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.IsoCode
	}

	location := city
	switch {
	case city != "" && country != "":
		location = city + "/" + country
	case country != "":
		location = country
	}
	geoipCache.Set(ip, location, cache.DefaultExpiration)
	return location
}
