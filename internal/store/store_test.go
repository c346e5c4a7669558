package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/andygrunwald/tanker-exporter/internal/models"
)

func snapshotWithStations(n int) models.Snapshot {
	stations := make([]models.StationPrice, 0, n)
	for i := 0; i < n; i++ {
		stations = append(stations, models.StationPrice{
			ID:     fmt.Sprintf("station-%d-%d", n, i),
			Name:   fmt.Sprintf("Station %d", i),
			Prices: map[string]float64{models.FuelDiesel: 1.50 + float64(n)/100},
		})
	}
	return models.Snapshot{Stations: stations, FetchedAt: time.Now()}
}

func TestReadBeforeFirstWrite(t *testing.T) {
	s := New()

	snap := s.Read()
	if !snap.Empty() {
		t.Error("expected empty sentinel snapshot before first write")
	}
	if len(snap.Stations) != 0 {
		t.Errorf("expected no stations, got %d", len(snap.Stations))
	}
}

func TestWriteThenRead(t *testing.T) {
	s := New()
	want := snapshotWithStations(3)

	s.Write(want)

	got := s.Read()
	if got.Empty() {
		t.Fatal("snapshot should not be empty after write")
	}
	if len(got.Stations) != 3 {
		t.Fatalf("got %d stations, want 3", len(got.Stations))
	}
	if got.Stations[0].ID != want.Stations[0].ID {
		t.Errorf("station ID = %q, want %q", got.Stations[0].ID, want.Stations[0].ID)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}
}

func TestWriteReplacesWholeSnapshot(t *testing.T) {
	s := New()
	s.Write(snapshotWithStations(5))
	s.Write(snapshotWithStations(2))

	got := s.Read()
	if len(got.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(got.Stations))
	}
}

// Readers must only ever observe complete snapshots, all stations from the
// same write, even while writes are in flight.
func TestConcurrentReadersAndWriter(t *testing.T) {
	s := New()
	s.Write(snapshotWithStations(1))

	done := make(chan struct{})
	writerStopped := make(chan struct{})
	go func() {
		defer close(writerStopped)
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
				s.Write(snapshotWithStations(1 + i%10))
			}
		}
	}()

	var wg sync.WaitGroup
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				snap := s.Read()
				if snap.Empty() {
					t.Error("read empty snapshot after first write")
					return
				}
				// All stations in a snapshot carry the same size-derived
				// ID prefix; a mix would mean a torn read.
				prefix := fmt.Sprintf("station-%d-", len(snap.Stations))
				for _, st := range snap.Stations {
					if len(st.ID) < len(prefix) || st.ID[:len(prefix)] != prefix {
						t.Errorf("torn snapshot: station %q in snapshot of size %d", st.ID, len(snap.Stations))
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(done)
	<-writerStopped
}
