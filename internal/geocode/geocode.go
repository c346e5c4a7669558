// Package geocode resolves a configured location string into coordinates.
//
// A location is either a textual coordinate (decimal "52.52,13.40" or
// sexagesimal `52°31'12"N 13°24'36"E`), which is parsed locally, or a
// free-text place name, which is resolved through the Nominatim API of
// openstreetmap.org. The first Nominatim match wins.
package geocode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/muesli/gominatim"
	"github.com/rs/zerolog"

	"github.com/andygrunwald/tanker-exporter/internal/models"
)

// nominatimServer is the public Nominatim instance used for free-text queries.
const nominatimServer = "https://nominatim.openstreetmap.org/"

var (
	// ErrNotCoordinate reports that a string does not use a known textual
	// coordinate format. Callers fall back to geocoding.
	ErrNotCoordinate = errors.New("not a textual coordinate")
	// ErrLocationNotFound reports that neither parsing nor geocoding
	// yielded a usable coordinate.
	ErrLocationNotFound = errors.New("location not found")
	// ErrGeocodingUnavailable reports that the geocoding service could not
	// be reached or returned an unusable response.
	ErrGeocodingUnavailable = errors.New("geocoding service unavailable")
)

var (
	decimalRe = regexp.MustCompile(`^(?P<lat>[+-]?\d+(\.\d+)?)\s*[,/.]\s*(?P<lng>[+-]?\d+(\.\d+)?)$`)

	sexagesimalRe = regexp.MustCompile(`^(?P<latDeg>\d+(\.\d+)?)°\s*((?P<latMin>\d+(\.\d+)?)')?\s*((?P<latSec>\d+(\.\d+)?)")?\s*(?P<ns>[NS])\s*` +
		`(?P<lngDeg>\d+(\.\d+)?)°\s*((?P<lngMin>\d+(\.\d+)?)')?\s*((?P<lngSec>\d+(\.\d+)?)")?\s*(?P<ew>[EW])$`)
)

// Resolver turns a location string into a coordinate.
type Resolver struct {
	logger zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With().Str("component", "geocode").Logger(),
	}
}

// Resolve parses the location string as a coordinate if possible, otherwise
// queries Nominatim with it. Intended to run once at startup; errors are
// fatal for the process.
func (r *Resolver) Resolve(location string) (models.Coordinate, error) {
	coord, err := ParseCoordinate(location)
	if err == nil {
		r.logger.Debug().
			Str("location", location).
			Str("coordinate", coord.String()).
			Msg("location parsed as coordinate")
		return coord, nil
	}
	if !errors.Is(err, ErrNotCoordinate) {
		return models.Coordinate{}, err
	}

	r.logger.Info().Str("location", location).Msg("resolving location via Nominatim")
	return r.geocode(location)
}

func (r *Resolver) geocode(location string) (models.Coordinate, error) {
	gominatim.SetServer(nominatimServer)

	qry := gominatim.SearchQuery{Q: location}
	results, err := qry.Get()
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrGeocodingUnavailable, err)
	}
	if len(results) == 0 {
		return models.Coordinate{}, fmt.Errorf("%w: no match for %q", ErrLocationNotFound, location)
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: parsing latitude %q: %v", ErrGeocodingUnavailable, first.Lat, err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: parsing longitude %q: %v", ErrGeocodingUnavailable, first.Lon, err)
	}

	coord := models.Coordinate{Lat: lat, Lng: lng}
	if !coord.Valid() {
		return models.Coordinate{}, fmt.Errorf("%w: coordinate %s out of range", ErrLocationNotFound, coord)
	}

	r.logger.Info().
		Str("location", location).
		Str("match", first.DisplayName).
		Str("coordinate", coord.String()).
		Msg("location resolved")

	return coord, nil
}

// ParseCoordinate parses a textual coordinate without any network access.
// Returns ErrNotCoordinate if the string uses neither the decimal nor the
// sexagesimal format, and ErrLocationNotFound if it does but the values are
// outside the WGS84 range.
func ParseCoordinate(s string) (models.Coordinate, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))

	if m := decimalRe.FindStringSubmatch(norm); m != nil {
		lat, err := strconv.ParseFloat(m[decimalRe.SubexpIndex("lat")], 64)
		if err != nil {
			return models.Coordinate{}, fmt.Errorf("%w: %v", ErrNotCoordinate, err)
		}
		lng, err := strconv.ParseFloat(m[decimalRe.SubexpIndex("lng")], 64)
		if err != nil {
			return models.Coordinate{}, fmt.Errorf("%w: %v", ErrNotCoordinate, err)
		}
		return checkRange(models.Coordinate{Lat: lat, Lng: lng})
	}

	if m := sexagesimalRe.FindStringSubmatch(norm); m != nil {
		lat, err := sexagesimalToDecimal(
			m[sexagesimalRe.SubexpIndex("latDeg")],
			m[sexagesimalRe.SubexpIndex("latMin")],
			m[sexagesimalRe.SubexpIndex("latSec")],
		)
		if err != nil {
			return models.Coordinate{}, fmt.Errorf("%w: %v", ErrNotCoordinate, err)
		}
		lng, err := sexagesimalToDecimal(
			m[sexagesimalRe.SubexpIndex("lngDeg")],
			m[sexagesimalRe.SubexpIndex("lngMin")],
			m[sexagesimalRe.SubexpIndex("lngSec")],
		)
		if err != nil {
			return models.Coordinate{}, fmt.Errorf("%w: %v", ErrNotCoordinate, err)
		}

		if m[sexagesimalRe.SubexpIndex("ns")] == "S" {
			lat = -lat
		}
		if m[sexagesimalRe.SubexpIndex("ew")] == "W" {
			lng = -lng
		}
		return checkRange(models.Coordinate{Lat: lat, Lng: lng})
	}

	return models.Coordinate{}, fmt.Errorf("%w: %q", ErrNotCoordinate, s)
}

// sexagesimalToDecimal converts degree/minute/second strings to decimal
// degrees. Minutes and seconds may be empty.
func sexagesimalToDecimal(deg, min, sec string) (float64, error) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, err
	}
	if min != "" {
		m, err := strconv.ParseFloat(min, 64)
		if err != nil {
			return 0, err
		}
		d += m / 60
	}
	if sec != "" {
		s, err := strconv.ParseFloat(sec, 64)
		if err != nil {
			return 0, err
		}
		d += s / 3600
	}
	return d, nil
}

func checkRange(c models.Coordinate) (models.Coordinate, error) {
	if !c.Valid() {
		return models.Coordinate{}, fmt.Errorf("%w: coordinate %s out of range", ErrLocationNotFound, c)
	}
	return c, nil
}
