package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	h := NewHistory("/auth")
	assert.Equal(t, "/auth", h.Current())

	var seen []string
	h.OnNavigate(func(route string) { seen = append(seen, route) })

	h.Navigate(HomeRoute)

	assert.Equal(t, HomeRoute, h.Current())
	assert.Equal(t, []string{"/auth", "/"}, h.Routes())
	assert.Equal(t, []string{"/"}, seen)
}
