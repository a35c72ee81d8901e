package api

// VolState is the observed state of a volume, normalized from the statusStr
// reported by `gluster volume info`.
type VolState uint16

const (
	// VolUnknown is any status string we don't recognise.
	VolUnknown VolState = iota
	// VolStopped represents a volume that is not running. Newly created
	// volumes that were never started are folded into this state.
	VolStopped
	// VolStarted represents a volume in started state.
	VolStarted
)

func (s VolState) String() string {
	switch s {
	case VolStopped:
		return "stopped"
	case VolStarted:
		return "started"
	default:
		return "unknown"
	}
}

// MarshalText renders the state the same way String does.
func (s VolState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
