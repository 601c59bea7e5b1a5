package weather

import (
	"encoding/json"
	"errors"
	"testing"
)

// mapPrefs is a minimal Preferences for tests.
type mapPrefs struct {
	data   map[string]string
	sets   int
	setErr error
}

func newMapPrefs() *mapPrefs {
	return &mapPrefs{data: map[string]string{}}
}

func (m *mapPrefs) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapPrefs) Set(key, value string) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func TestStateMirrorsUnitAndPlace(t *testing.T) {
	prefs := newMapPrefs()
	s := NewState(prefs)

	if s.Unit() != Metric {
		t.Fatalf("expected default metric, got %s", s.Unit())
	}

	s.SetUnit(Imperial)
	if prefs.data[KeyUnit] != "imperial" {
		t.Errorf("unit not persisted: %q", prefs.data[KeyUnit])
	}

	p := Place{Name: "Quito", Lat: -0.18, Lon: -78.47, Country: "EC"}
	s.SetPlace(p)

	var stored Place
	if err := json.Unmarshal([]byte(prefs.data[KeyPlace]), &stored); err != nil {
		t.Fatalf("persisted place is not JSON: %v", err)
	}
	if stored != p {
		t.Errorf("persisted %+v, want %+v", stored, p)
	}
}

func TestStateRestore(t *testing.T) {
	prefs := newMapPrefs()
	prefs.data[KeyUnit] = "imperial"
	prefs.data[KeyPlace] = `{"name":"Perth","lat":-31.95,"lon":115.86,"country":"AU","state":"Western Australia"}`

	s := NewState(prefs)
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if s.Unit() != Imperial {
		t.Errorf("unit = %s", s.Unit())
	}
	p := s.Place()
	if p == nil || p.Label() != "Perth, Western Australia, AU" {
		t.Errorf("place = %+v", p)
	}
	if prefs.sets != 0 {
		t.Errorf("Restore should not write, got %d sets", prefs.sets)
	}
}

func TestStateRestoreIgnoresGarbage(t *testing.T) {
	prefs := newMapPrefs()
	prefs.data[KeyUnit] = "kelvin"
	prefs.data[KeyPlace] = "{broken"

	s := NewState(prefs)
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if s.Unit() != Metric || s.Place() != nil {
		t.Errorf("expected defaults, got %s %+v", s.Unit(), s.Place())
	}
}

func TestStatePersistFailureStillUpdates(t *testing.T) {
	prefs := newMapPrefs()
	prefs.setErr = errors.New("disk full")
	s := NewState(prefs)

	s.SetUnit(Imperial)
	if s.Unit() != Imperial {
		t.Errorf("unit = %s", s.Unit())
	}
}

func TestStateDataNilUntilFirstFetch(t *testing.T) {
	s := NewState(nil)
	if s.Data() != nil {
		t.Fatal("expected nil snapshot before first fetch")
	}
	snap := &Snapshot{TimezoneOffset: 60}
	s.SetData(snap)
	if s.Data() != snap {
		t.Error("expected snapshot to be replaced")
	}
}

func TestStateGenerationsDiscardStaleResults(t *testing.T) {
	s := NewState(nil)

	first, _ := s.BeginFetch()
	second, _ := s.BeginFetch()

	newer := &Snapshot{Source: "newer"}
	if !s.CommitData(second, newer) {
		t.Fatal("expected newest generation to commit")
	}
	if s.CommitData(first, &Snapshot{Source: "older"}) {
		t.Fatal("expected stale generation to be discarded")
	}
	if s.Data() != newer {
		t.Errorf("stale data overwrote newer snapshot")
	}
	if s.CommitError(first, errors.New("late failure")) {
		t.Error("expected stale error to be discarded")
	}
	if st := s.Status(); st.Loading || st.Err != nil {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestStateCommitErrorKeepsSnapshot(t *testing.T) {
	s := NewState(nil)
	snap := &Snapshot{}
	s.SetData(snap)

	gen, _ := s.BeginFetch()
	if !s.Status().Loading {
		t.Error("expected loading after BeginFetch")
	}
	fail := &ForecastUnavailable{PrimaryStatus: 401, SecondaryStatus: 500}
	s.CommitError(gen, fail)

	st := s.Status()
	if st.Loading || !errors.Is(st.Err, fail) {
		t.Errorf("unexpected status %+v", st)
	}
	if s.Data() != snap {
		t.Error("failed fetch must not drop the previous snapshot")
	}
}

func TestPlaceHelpers(t *testing.T) {
	a := &Place{Name: "A", Lat: 10.001, Lon: 20.004}
	b := &Place{Name: "B", Lat: 10.004, Lon: 19.996}
	if !SamePlace(a, b) {
		t.Error("expected same identity at display precision")
	}
	if SamePlace(a, nil) || !SamePlace(nil, nil) {
		t.Error("unexpected nil handling")
	}
	if a.Coords() != "10.00, 20.00" {
		t.Errorf("coords = %q", a.Coords())
	}
}

func TestParseUnitSystem(t *testing.T) {
	if u, err := ParseUnitSystem("imperial"); err != nil || u != Imperial {
		t.Errorf("got %s %v", u, err)
	}
	if _, err := ParseUnitSystem("standard"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestStateBeginFetchReportsCurrentUnit(t *testing.T) {
	s := NewState(nil)

	if _, unit := s.BeginFetch(); unit != Metric {
		t.Errorf("unit = %s, want metric", unit)
	}
	s.SetUnit(Imperial)
	gen, unit := s.BeginFetch()
	if unit != Imperial {
		t.Errorf("unit = %s, want imperial", unit)
	}
	if gen != s.Status().Generation {
		t.Errorf("generation = %d, want %d", gen, s.Status().Generation)
	}
}
