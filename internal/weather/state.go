package weather

import (
	"encoding/json"
	"log"
	"sync"
)

// FetchStatus is the failure-visible side of the state: whether a fetch is in
// flight and how the last one ended.
type FetchStatus struct {
	Loading    bool   `json:"loading"`
	Generation uint64 `json:"generation"`
	Err        error  `json:"-"`
}

// View is a consistent read of everything a render pass needs.
type View struct {
	Unit  UnitSystem
	Place *Place
	Data  *Snapshot
}

// State holds the current unit, selected place and last-fetched snapshot.
// Unit and place are mirrored to Preferences on every change. State never
// fetches anything itself.
type State struct {
	mu    sync.RWMutex
	prefs Preferences

	unit  UnitSystem
	place *Place
	data  *Snapshot

	gen     uint64
	loading bool
	lastErr error
}

// NewState creates a State with the default unit. prefs may be nil for a
// session-only state.
func NewState(prefs Preferences) *State {
	return &State{
		prefs: prefs,
		unit:  DefaultUnit,
	}
}

// Restore loads unit and place from Preferences. Invalid or missing entries
// fall back to defaults rather than failing.
func (s *State) Restore() error {
	if s.prefs == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.prefs.Get(KeyUnit)
	if err != nil {
		return err
	}
	if ok {
		if u, perr := ParseUnitSystem(raw); perr == nil {
			s.unit = u
		} else {
			log.Printf("INFO: state: ignoring persisted unit: %v", perr)
		}
	}

	raw, ok, err = s.prefs.Get(KeyPlace)
	if err != nil {
		return err
	}
	if ok && raw != "" && raw != "null" {
		var p Place
		if jerr := json.Unmarshal([]byte(raw), &p); jerr != nil {
			log.Printf("INFO: state: ignoring persisted place: %v", jerr)
		} else {
			s.place = &p
		}
	}
	return nil
}

func (s *State) Unit() UnitSystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unit
}

// Place returns a copy of the selected place, or nil.
func (s *State) Place() *Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.place == nil {
		return nil
	}
	p := *s.place
	return &p
}

// Data returns the last snapshot, or nil before the first successful fetch.
func (s *State) Data() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// View returns unit, place and snapshot read under one lock.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := View{Unit: s.unit, Data: s.data}
	if s.place != nil {
		p := *s.place
		v.Place = &p
	}
	return v
}

// SetUnit replaces the active unit and persists it.
func (s *State) SetUnit(u UnitSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unit = u
	s.persist(KeyUnit, string(u))
}

// SetPlace replaces the selected place and persists it.
func (s *State) SetPlace(p Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.place = &p

	b, err := json.Marshal(p)
	if err != nil {
		log.Printf("ERROR: state: encode place: %v", err)
		return
	}
	s.persist(KeyPlace, string(b))
}

// SetData replaces the snapshot unconditionally.
func (s *State) SetData(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snap
	s.lastErr = nil
}

// BeginFetch issues a new fetch generation and returns it with the unit the
// fetch must use. Results of older generations are discarded by CommitData
// and CommitError.
func (s *State) BeginFetch() (uint64, UnitSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = true
	return s.gen, s.unit
}

// CommitData stores snap if gen is still the newest generation.
func (s *State) CommitData(gen uint64, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.data = snap
	s.loading = false
	s.lastErr = nil
	return true
}

// CommitError records a failed fetch if gen is still the newest generation.
// The previous snapshot is kept; Status exposes the error.
func (s *State) CommitError(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.loading = false
	s.lastErr = err
	return true
}

func (s *State) Status() FetchStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FetchStatus{
		Loading:    s.loading,
		Generation: s.gen,
		Err:        s.lastErr,
	}
}

// persist must be called with mu held.
func (s *State) persist(key, value string) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.Set(key, value); err != nil {
		log.Printf("ERROR: state: persist %s: %v", key, err)
	}
}
