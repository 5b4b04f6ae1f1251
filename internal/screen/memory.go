// Package screen implements the display surfaces the director drives: the
// MQTT-connected production screen and an in-memory surface used by tests
// and the status endpoint.
package screen

import (
	"sync"

	"github.com/masjidtech/minaret/internal/engine"
)

// MemorySurface records the visual state the director last applied. All
// operations are idempotent by construction.
type MemorySurface struct {
	mu sync.Mutex

	BaseVisible bool
	Message     string
	Tier        engine.StyleTier
	Warning     bool
	Special     bool
	Image       string
	Adhkar      *engine.AdhkarFrame
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{BaseVisible: true}
}

func (m *MemorySurface) ShowBaseGrid() {
	m.mu.Lock()
	m.BaseVisible = true
	m.mu.Unlock()
}

func (m *MemorySurface) HideBaseGrid() {
	m.mu.Lock()
	m.BaseVisible = false
	m.mu.Unlock()
}

func (m *MemorySurface) RenderMessage(msg string, tier engine.StyleTier, warning, special bool) {
	m.mu.Lock()
	m.Message = msg
	m.Tier = tier
	m.Warning = warning
	m.Special = special
	m.mu.Unlock()
}

func (m *MemorySurface) ShowImage(path string) {
	m.mu.Lock()
	m.Image = path
	m.mu.Unlock()
}

func (m *MemorySurface) HideImage() {
	m.mu.Lock()
	m.Image = ""
	m.mu.Unlock()
}

func (m *MemorySurface) ShowAdhkar(frame engine.AdhkarFrame) {
	m.mu.Lock()
	m.Adhkar = &frame
	m.mu.Unlock()
}

func (m *MemorySurface) HideAdhkar() {
	m.mu.Lock()
	m.Adhkar = nil
	m.mu.Unlock()
}

// OverlayCount is how many overlays are visible right now; the director
// guarantees it never exceeds one.
func (m *MemorySurface) OverlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	if m.Image != "" {
		n++
	}
	if m.Adhkar != nil {
		n++
	}
	return n
}

// State copies the current surface state.
func (m *MemorySurface) State() MemorySurface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MemorySurface{
		BaseVisible: m.BaseVisible,
		Message:     m.Message,
		Tier:        m.Tier,
		Warning:     m.Warning,
		Special:     m.Special,
		Image:       m.Image,
		Adhkar:      m.Adhkar,
	}
}
