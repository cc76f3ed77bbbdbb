// Package navigation tracks where the client front end currently is
package navigation

import "sync"

const HomeRoute = "/"

// Navigator moves the front end to a route
type Navigator interface {
	Navigate(route string)
}

// History is an in-process Navigator that remembers every route visited
// and notifies listeners after each move
type History struct {
	mu        sync.Mutex
	routes    []string
	listeners []func(route string)
}

// NewHistory starts at start
func NewHistory(start string) *History {
	return &History{routes: []string{start}}
}

func (h *History) Navigate(route string) {
	h.mu.Lock()
	h.routes = append(h.routes, route)
	listeners := append([]func(string){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(route)
	}
}

// OnNavigate registers fn to run after every Navigate
func (h *History) OnNavigate(fn func(route string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Current returns the last route
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.routes[len(h.routes)-1]
}

// Routes returns every route in visit order, starting route included
func (h *History) Routes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.routes...)
}
