package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masjidtech/minaret/internal/engine"
)

func TestMemorySurfaceTracksState(t *testing.T) {
	m := NewMemorySurface()
	assert.True(t, m.State().BaseVisible)
	assert.Zero(t, m.OverlayCount())

	m.RenderMessage("hello", engine.StyleNormal, true, false)
	m.ShowImage("a.png")
	m.HideBaseGrid()

	st := m.State()
	assert.Equal(t, "hello", st.Message)
	assert.True(t, st.Warning)
	assert.Equal(t, "a.png", st.Image)
	assert.False(t, st.BaseVisible)
	assert.Equal(t, 1, m.OverlayCount())

	m.HideImage()
	m.ShowAdhkar(engine.AdhkarFrame{RuleID: "morning"})
	assert.Equal(t, 1, m.OverlayCount())

	m.HideAdhkar()
	m.ShowBaseGrid()
	assert.Zero(t, m.OverlayCount())
	assert.True(t, m.State().BaseVisible)
}
