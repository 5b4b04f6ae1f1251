package prayer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masjidtech/minaret/internal/model"
)

func TestRegistryReadoutAndMinutes(t *testing.T) {
	reg := NewRegistry()
	reg.Set(model.RefFajrBegin, "05:30")

	assert.Equal(t, "05:30", reg.Readout(model.RefFajrBegin))
	assert.Equal(t, 330, reg.Minutes(model.RefFajrBegin))

	// unset references degrade to midnight rather than failing the tick
	assert.Equal(t, "", reg.Readout(model.RefIshaJamaah))
	assert.Equal(t, 0, reg.Minutes(model.RefIshaJamaah))
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	reg := NewRegistry()
	reg.SetAll(map[model.Reference]string{
		model.RefFajrBegin:  "05:30",
		model.RefZohrBegin:  "13:30",
		model.RefFajrJamaah: "06:00",
	})

	snap := reg.Snapshot()
	assert.Len(t, snap, 3)
	snap[model.RefFajrBegin] = "00:00"
	assert.Equal(t, "05:30", reg.Readout(model.RefFajrBegin))
}
