// Package models provides shared data types for the fuel price exporter.
package models

import (
	"fmt"
	"time"
)

// Fuel type identifiers as used by the Tankerkönig API and as metric name suffixes.
const (
	FuelDiesel = "diesel"
	FuelE5     = "e5"
	FuelE10    = "e10"
)

// FuelTypes lists all known fuel types in stable output order.
var FuelTypes = []string{FuelDiesel, FuelE5, FuelE10}

// Coordinate is a geographical point in decimal degrees.
type Coordinate struct {
	// Latitude in decimal degrees, -90 to 90.
	Lat float64
	// Longitude in decimal degrees, -180 to 180.
	Lng float64
}

// Valid reports whether the coordinate is within the WGS84 value range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String renders the coordinate as "lat,lng".
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lng)
}

// StationPrice is one fuel station with its current prices, as returned by a
// single provider query. Records are rebuilt from scratch on every fetch.
type StationPrice struct {
	// ID is the provider-assigned station identifier.
	ID string
	// Name of the station.
	Name string
	// Brand of the station.
	Brand string
	// Street address.
	Street string
	// HouseNumber of the street address.
	HouseNumber string
	// PostCode of the station.
	PostCode string
	// Place (city/town) of the station.
	Place string
	// Location of the station.
	Location Coordinate
	// DistanceKm is the distance from the search center in kilometers.
	DistanceKm float64
	// IsOpen reports whether the station is currently open.
	IsOpen bool
	// Prices maps fuel type to price in EUR per liter. Fuel types the
	// station does not sell are absent from the map.
	Prices map[string]float64
}

// Snapshot is the complete result of one successful fetch. A snapshot is
// immutable once published; updates replace the whole value.
type Snapshot struct {
	// Stations in the configured radius, in provider order.
	Stations []StationPrice
	// FetchedAt is when the fetch completed.
	FetchedAt time.Time
}

// Empty reports whether the snapshot predates the first successful fetch.
func (s Snapshot) Empty() bool {
	return s.FetchedAt.IsZero()
}

// RefresherStatus holds the operational state of the refresh loop.
type RefresherStatus struct {
	Running          bool       `json:"running"`
	LastFetchAt      *time.Time `json:"last_fetch_at,omitempty"`
	LastFetchSuccess bool       `json:"last_fetch_success"`
	LastError        *string    `json:"last_error,omitempty"`
	NextFetchAt      *time.Time `json:"next_fetch_at,omitempty"`
	TotalFetches     int64      `json:"total_fetches"`
	TotalErrors      int64      `json:"total_errors"`
}

// SnapshotStatus describes the currently served snapshot.
type SnapshotStatus struct {
	StationCount  int        `json:"station_count"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"`
}

// StatusResponse is the response for the /status endpoint.
type StatusResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Location      string          `json:"location"`
	RadiusKm      float64         `json:"radius_km"`
	Refresher     RefresherStatus `json:"refresher"`
	Snapshot      SnapshotStatus  `json:"snapshot"`
}
