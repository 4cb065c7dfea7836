package physics

import "github.com/go-gl/mathgl/mgl64"

// Event types published on the bus by MoveBody.
const (
	EventBodyMoved   = "physics.body.moved"
	EventBodyBlocked = "physics.body.blocked"

	eventSource = "physics"
)

// MoveResult is the payload of EventBodyMoved and EventBodyBlocked.
type MoveResult struct {
	ID        string
	Requested mgl64.Vec3
	Applied   mgl64.Vec3
	// Blocked holds the axes on which less than the requested distance was applied.
	Blocked [3]bool
}

// AnyBlocked reports whether the move was cut on at least one axis.
func (r MoveResult) AnyBlocked() bool {
	return r.Blocked[0] || r.Blocked[1] || r.Blocked[2]
}

// Stats are counters kept by a System.
type Stats struct {
	Moves         uint64
	BlockedMoves  uint64
	NailedMoves   uint64
	UnknownIDs    uint64
	MappingGaps   uint64
	DegenerateHit uint64
}
