package tankerkoenig

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/andygrunwald/tanker-exporter/internal/api"
	"github.com/andygrunwald/tanker-exporter/internal/models"
)

const listResponse = `{
	"ok": true,
	"license": "CC BY 4.0 - https://creativecommons.tankerkoenig.de",
	"data": "MTS-K",
	"status": "ok",
	"stations": [
		{
			"id": "474e5046-deaf-4f9b-9a32-9797b778f047",
			"name": "TOTAL BERLIN",
			"brand": "TOTAL",
			"street": "MARGARETE-SOMMER-STR.",
			"place": "BERLIN",
			"lat": 52.53083,
			"lng": 13.440946,
			"dist": 1.1,
			"diesel": 1.109,
			"e5": 1.339,
			"e10": 1.319,
			"isOpen": true,
			"houseNumber": "2",
			"postCode": 10407
		},
		{
			"id": "4b5c2f46-6b0f-4d4f-9c2b-8f0a5e4d2c1a",
			"name": "Autohof Nord",
			"brand": "HEM",
			"street": "Hauptstr.",
			"place": "BERLIN",
			"lat": 52.54,
			"lng": 13.43,
			"dist": 2.3,
			"diesel": 1.099,
			"e5": null,
			"e10": null,
			"isOpen": false,
			"houseNumber": "17",
			"postCode": 10409
		}
	]
}`

func testProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := New(zerolog.Nop(), "test-key", 5*time.Second)
	p.baseURL = srv.URL
	return p
}

func TestFetchPrices(t *testing.T) {
	var gotQuery map[string]string
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"lat":    r.URL.Query().Get("lat"),
			"lng":    r.URL.Query().Get("lng"),
			"rad":    r.URL.Query().Get("rad"),
			"type":   r.URL.Query().Get("type"),
			"apikey": r.URL.Query().Get("apikey"),
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(listResponse)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	})

	center := models.Coordinate{Lat: 52.52, Lng: 13.4}
	stations, err := p.FetchPrices(context.Background(), center, 5)
	if err != nil {
		t.Fatalf("FetchPrices() failed: %v", err)
	}

	if gotQuery["lat"] != "52.52" || gotQuery["lng"] != "13.4" || gotQuery["rad"] != "5" {
		t.Errorf("unexpected query coordinates: %v", gotQuery)
	}
	if gotQuery["type"] != "all" {
		t.Errorf("type = %q, want %q", gotQuery["type"], "all")
	}
	if gotQuery["apikey"] != "test-key" {
		t.Errorf("apikey = %q, want %q", gotQuery["apikey"], "test-key")
	}

	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}

	first := stations[0]
	if first.ID != "474e5046-deaf-4f9b-9a32-9797b778f047" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Name != "TOTAL BERLIN" || first.Brand != "TOTAL" {
		t.Errorf("unexpected name/brand: %q/%q", first.Name, first.Brand)
	}
	if first.Street != "MARGARETE-SOMMER-STR." || first.HouseNumber != "2" || first.PostCode != "10407" || first.Place != "BERLIN" {
		t.Errorf("unexpected address fields: %+v", first)
	}
	if !first.IsOpen {
		t.Error("first station should be open")
	}
	if first.DistanceKm != 1.1 {
		t.Errorf("DistanceKm = %g, want 1.1", first.DistanceKm)
	}
	if len(first.Prices) != 3 {
		t.Errorf("got %d prices, want 3", len(first.Prices))
	}
	if first.Prices[models.FuelDiesel] != 1.109 {
		t.Errorf("diesel = %g, want 1.109", first.Prices[models.FuelDiesel])
	}

	// Null fuel prices must be absent, not zero.
	second := stations[1]
	if len(second.Prices) != 1 {
		t.Fatalf("got %d prices for diesel-only station, want 1", len(second.Prices))
	}
	if _, ok := second.Prices[models.FuelE5]; ok {
		t.Error("e5 should be absent for diesel-only station")
	}
	if _, ok := second.Prices[models.FuelE10]; ok {
		t.Error("e10 should be absent for diesel-only station")
	}
}

func TestToStationPriceKeepsPostCodeForm(t *testing.T) {
	// Saxon post codes start with a zero; the textual form must survive
	// the mapping untouched.
	s := apiStation{ID: "x", PostCode: json.Number("01067")}
	if got := s.toStationPrice().PostCode; got != "01067" {
		t.Errorf("PostCode = %q, want %q", got, "01067")
	}
}

func TestFetchPricesAPIRejected(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"ok": false, "message": "apikey unbekannt"}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	})

	_, err := p.FetchPrices(context.Background(), models.Coordinate{Lat: 52.52, Lng: 13.4}, 5)
	if !errors.Is(err, api.ErrAPIRejected) {
		t.Fatalf("error = %v, want ErrAPIRejected", err)
	}
}

func TestFetchPricesMalformedResponse(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`<html>maintenance</html>`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	})

	_, err := p.FetchPrices(context.Background(), models.Coordinate{Lat: 52.52, Lng: 13.4}, 5)
	if !errors.Is(err, api.ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestFetchPricesUpstreamError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := p.FetchPrices(context.Background(), models.Coordinate{Lat: 52.52, Lng: 13.4}, 5)
	if !errors.Is(err, api.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
}

func TestFetchPricesConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := New(zerolog.Nop(), "test-key", time.Second)
	p.baseURL = srv.URL

	_, err := p.FetchPrices(context.Background(), models.Coordinate{Lat: 52.52, Lng: 13.4}, 5)
	if !errors.Is(err, api.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
}
