package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotGrid(t *testing.T) {
	grid := SlotGrid()
	require.Len(t, grid, 17)

	assert.Equal(t, "09:00 AM", grid[0])
	assert.Equal(t, "05:00 PM", grid[len(grid)-1])

	// Ascending 30-minute cadence across the whole grid
	previous, err := time.Parse("03:04 PM", grid[0])
	require.NoError(t, err)
	for _, label := range grid[1:] {
		current, err := time.Parse("03:04 PM", label)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, current.Sub(previous), "gap before %s", label)
		previous = current
	}

	// Callers cannot mutate the grid through the returned slice
	grid[0] = "tampered"
	assert.Equal(t, "09:00 AM", SlotGrid()[0])
}

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("09:00 AM"))
	assert.True(t, ValidSlot("12:30 PM"))
	assert.True(t, ValidSlot("05:00 PM"))

	assert.False(t, ValidSlot("08:30 AM"))
	assert.False(t, ValidSlot("05:30 PM"))
	assert.False(t, ValidSlot("9:00 AM"))
	assert.False(t, ValidSlot(""))
}
