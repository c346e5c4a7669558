// Package tankerkoenig provides an API client for the Tankerkönig fuel price service.
package tankerkoenig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/andygrunwald/tanker-exporter/internal/api"
	"github.com/andygrunwald/tanker-exporter/internal/models"
	"github.com/andygrunwald/tanker-exporter/internal/useragent"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = "tankerkoenig"
	// baseURL is the "stations in radius" endpoint of the Tankerkönig API.
	baseURL = "https://creativecommons.tankerkoenig.de/json/list.php"
)

// apiResponse represents the JSON response from the Tankerkönig list endpoint.
type apiResponse struct {
	// OK is the provider's own success flag.
	OK bool `json:"ok"`
	// Stations in the requested radius. Only set when OK is true.
	Stations []apiStation `json:"stations"`
	// Message carries the provider's error description when OK is false.
	Message *string `json:"message"`
}

// apiStation represents a single station in the API response. Fuel prices are
// pointers because a station may not sell every type; absent means absent.
// The post code is an address field, not a number; json.Number keeps its
// textual form untouched.
type apiStation struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand"`
	Street      string      `json:"street"`
	HouseNumber string      `json:"houseNumber"`
	PostCode    json.Number `json:"postCode"`
	Place       string      `json:"place"`
	Lat         float64     `json:"lat"`
	Lng         float64     `json:"lng"`
	Dist        float64     `json:"dist"`
	Diesel      *float64    `json:"diesel"`
	E5          *float64    `json:"e5"`
	E10         *float64    `json:"e10"`
	IsOpen      bool        `json:"isOpen"`
}

// Provider implements the API provider interface for Tankerkönig.
type Provider struct {
	client  *http.Client
	logger  zerolog.Logger
	apiKey  string
	baseURL string
}

// New creates a new Tankerkönig provider.
func New(logger zerolog.Logger, apiKey string, timeout time.Duration) *Provider {
	return &Provider{
		client: &http.Client{
			Timeout: timeout,
		},
		logger:  logger.With().Str("provider", ProviderName).Logger(),
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// FetchPrices performs one request against the list endpoint and returns the
// stations with their current prices. The call is never retried here.
func (p *Provider) FetchPrices(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.StationPrice, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(center.Lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(center.Lng, 'f', -1, 64))
	params.Set("rad", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	params.Set("type", "all")
	params.Set("apikey", p.apiKey)

	apiURL := p.baseURL + "?" + params.Encode()

	p.logger.Debug().
		Str("coordinate", center.String()).
		Float64("radiusKm", radiusKm).
		Msg("fetching prices from Tankerkönig")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", api.ErrUpstream, err)
	}

	req.Header.Set("User-Agent", useragent.Random())
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %v", api.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", api.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", api.ErrUpstream, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: parsing response JSON: %v", api.ErrMalformedResponse, err)
	}

	if !apiResp.OK {
		msg := "no message"
		if apiResp.Message != nil {
			msg = *apiResp.Message
		}
		return nil, fmt.Errorf("%w: %s", api.ErrAPIRejected, msg)
	}

	stations := make([]models.StationPrice, 0, len(apiResp.Stations))
	for _, s := range apiResp.Stations {
		stations = append(stations, s.toStationPrice())
	}

	p.logger.Info().
		Int("count", len(stations)).
		Str("coordinate", center.String()).
		Msg("fetched prices from Tankerkönig")

	return stations, nil
}

// toStationPrice maps an API station to the exporter's model. Absent fuel
// prices stay absent instead of becoming zero.
func (s apiStation) toStationPrice() models.StationPrice {
	prices := make(map[string]float64, len(models.FuelTypes))
	if s.Diesel != nil {
		prices[models.FuelDiesel] = *s.Diesel
	}
	if s.E5 != nil {
		prices[models.FuelE5] = *s.E5
	}
	if s.E10 != nil {
		prices[models.FuelE10] = *s.E10
	}

	return models.StationPrice{
		ID:          s.ID,
		Name:        s.Name,
		Brand:       s.Brand,
		Street:      s.Street,
		HouseNumber: s.HouseNumber,
		PostCode:    s.PostCode.String(),
		Place:       s.Place,
		Location:    models.Coordinate{Lat: s.Lat, Lng: s.Lng},
		DistanceKm:  s.Dist,
		IsOpen:      s.IsOpen,
		Prices:      prices,
	}
}
