// Package theme resolves the UI color scheme. Until the user explicitly picks
// a theme the OS signal decides; after an explicit pick the stored preference
// wins, ignoring OS changes, until the preference is reset.
package theme

import (
	"os"
	"strings"

	"github.com/Chaturved5/estate-portal/internal/store"
)

const (
	Light = "light"
	Dark  = "dark"
)

const prefKey = "theme"

type preference struct {
	Theme string `json:"theme"`
}

// Manager resolves the effective theme from the stored preference and an OS
// signal probe.
type Manager struct {
	st       *store.Store
	osSignal func() string
}

func NewManager(st *store.Store) *Manager {
	return &Manager{st: st, osSignal: osPrefersDark}
}

// NewManagerWithSignal injects the OS probe, for tests.
func NewManagerWithSignal(st *store.Store, signal func() string) *Manager {
	return &Manager{st: st, osSignal: signal}
}

// Current returns the effective theme.
func (m *Manager) Current() string {
	p := store.Load(m.st, prefKey, preference{})
	if p.Theme == Light || p.Theme == Dark {
		return p.Theme
	}
	return m.osSignal()
}

// Explicit reports whether a stored preference is in effect.
func (m *Manager) Explicit() bool {
	p := store.Load(m.st, prefKey, preference{})
	return p.Theme == Light || p.Theme == Dark
}

// Set stores an explicit preference. Unknown values are normalized to light.
func (m *Manager) Set(theme string) {
	if theme != Dark {
		theme = Light
	}
	m.st.Save(prefKey, preference{Theme: theme})
}

// Toggle flips the current effective theme and stores the result as an
// explicit preference.
func (m *Manager) Toggle() string {
	next := Light
	if m.Current() == Light {
		next = Dark
	}
	m.Set(next)
	return next
}

// Reset drops the stored preference; the OS signal decides again.
func (m *Manager) Reset() {
	m.st.Delete(prefKey)
}

// osPrefersDark is a best-effort probe for a desktop dark-mode hint. Without
// a usable signal the default is light.
func osPrefersDark() string {
	for _, env := range []string{"PORTAL_THEME_HINT", "GTK_THEME"} {
		if v := strings.ToLower(os.Getenv(env)); strings.Contains(v, "dark") {
			return Dark
		}
	}
	return Light
}
