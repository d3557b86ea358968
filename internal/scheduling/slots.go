package scheduling

// slotGrid is the fixed daily booking grid: 17 half-hour slots from
// 09:00 AM through 05:00 PM, ascending. Doctors have no per-doctor
// calendar; their schedule is this grid minus booked appointments.
var slotGrid = []string{
	"09:00 AM", "09:30 AM",
	"10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM",
	"12:00 PM", "12:30 PM",
	"01:00 PM", "01:30 PM",
	"02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM",
	"05:00 PM",
}

// SlotGrid returns a copy of the full daily slot grid in booking order.
func SlotGrid() []string {
	grid := make([]string, len(slotGrid))
	copy(grid, slotGrid)
	return grid
}

// ValidSlot reports whether the label is one of the grid slots.
func ValidSlot(slot string) bool {
	for _, s := range slotGrid {
		if s == slot {
			return true
		}
	}
	return false
}
