package plot

// TpsMode selects how a plot worker paces its interpreter ticks (§4.2.2).
type TpsMode uint8

const (
	TpsLimited TpsMode = iota
	TpsUnlimited
	TpsPaused
)

// Tps is the plot's configured tick-rate budget. Limited carries the target
// ticks-per-second; it is meaningless in the other two modes.
type Tps struct {
	Mode    TpsMode
	Limited uint32
}

// String returns the mode's name: "paused", "unlimited" or "limited". The
// Limited rate itself is not included.
func (t Tps) String() string {
	switch t.Mode {
	case TpsPaused:
		return "paused"
	case TpsUnlimited:
		return "unlimited"
	default:
		return "limited"
	}
}
