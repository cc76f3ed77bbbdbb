package form

import "sync"

// State holds the live form: current inputs, per-field errors, the loading flag and the mode
// Safe for concurrent use; readers always get copies
type State struct {
	mu      sync.RWMutex
	data    FormData
	errors  ErrorMap
	loading bool
	mode    Mode
}

// NewState returns an empty login form
func NewState() *State {
	return &State{
		data:   FormData{Gender: GenderMale},
		errors: ErrorMap{},
		mode:   Login,
	}
}

// Set replaces the snapshot with one where field holds value
func (s *State) Set(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.data.With(field, value)
	if err != nil {
		return err
	}
	s.data = next
	return nil
}

// Data returns the current snapshot
func (s *State) Data() FormData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// ToggleMode switches between login and register and returns the new mode
// Field values and errors are kept
func (s *State) ToggleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Toggle()
	return s.mode
}

// SetMode forces a mode
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *State) Errors() ErrorMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors.Clone()
}

// SetErrors replaces the error map wholesale
func (s *State) SetErrors(errs ErrorMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if errs == nil {
		errs = ErrorMap{}
	}
	s.errors = errs.Clone()
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}
