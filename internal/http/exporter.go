package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andygrunwald/tanker-exporter/internal/models"
	"github.com/andygrunwald/tanker-exporter/internal/store"
)

// stationLabels are attached to every per-station gauge.
var stationLabels = []string{"id", "name", "brand"}

// Exporter renders the current price snapshot as Prometheus gauges. It reads
// the store on every Collect, so each scrape reflects the snapshot at scrape
// time and stations that drop out of the radius disappear from the output.
type Exporter struct {
	store *store.Store

	fuelDescs   map[string]*prometheus.Desc
	isOpen      *prometheus.Desc
	distanceKm  *prometheus.Desc
	locationLat *prometheus.Desc
	locationLng *prometheus.Desc
	lastUpdate  *prometheus.Desc
}

// NewExporter creates an Exporter with all metric names under the given
// namespace.
func NewExporter(namespace string, st *store.Store) *Exporter {
	fuelDescs := make(map[string]*prometheus.Desc, len(models.FuelTypes))
	for _, fuel := range models.FuelTypes {
		fuelDescs[fuel] = prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", fuel),
			"Price of one liter "+fuel+" in EUR",
			stationLabels, nil,
		)
	}

	return &Exporter{
		store:     st,
		fuelDescs: fuelDescs,
		isOpen: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "is_open"),
			"Is the station currently open?",
			stationLabels, nil,
		),
		distanceKm: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "distance_km"),
			"Distance of the station from the search center in kilometers",
			stationLabels, nil,
		),
		locationLat: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "location_lat"),
			"Latitude of the station",
			stationLabels, nil,
		),
		locationLng: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "location_lng"),
			"Longitude of the station",
			stationLabels, nil,
		),
		lastUpdate: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "last_update"),
			"Unix timestamp of the last successful price fetch",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range e.fuelDescs {
		ch <- desc
	}
	ch <- e.isOpen
	ch <- e.distanceKm
	ch <- e.locationLat
	ch <- e.locationLng
	ch <- e.lastUpdate
}

// Collect implements prometheus.Collector. Before the first successful fetch
// it emits nothing; the scrape itself still succeeds.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	snap := e.store.Read()
	if snap.Empty() {
		return
	}

	ch <- prometheus.MustNewConstMetric(e.lastUpdate, prometheus.GaugeValue, float64(snap.FetchedAt.Unix()))

	for _, station := range snap.Stations {
		labels := []string{station.ID, station.Name, station.Brand}

		// Stations without a price for a fuel type emit no sample for
		// that pair; zero would look like a real price.
		for _, fuel := range models.FuelTypes {
			price, ok := station.Prices[fuel]
			if !ok {
				continue
			}
			ch <- prometheus.MustNewConstMetric(e.fuelDescs[fuel], prometheus.GaugeValue, price, labels...)
		}

		open := 0.0
		if station.IsOpen {
			open = 1.0
		}
		ch <- prometheus.MustNewConstMetric(e.isOpen, prometheus.GaugeValue, open, labels...)
		ch <- prometheus.MustNewConstMetric(e.distanceKm, prometheus.GaugeValue, station.DistanceKm, labels...)
		ch <- prometheus.MustNewConstMetric(e.locationLat, prometheus.GaugeValue, station.Location.Lat, labels...)
		ch <- prometheus.MustNewConstMetric(e.locationLng, prometheus.GaugeValue, station.Location.Lng, labels...)
	}
}
