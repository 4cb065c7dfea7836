package scene

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/voxelphys/pkg/generic"
)

// BodyFrame is the transform of one body at the end of a tick.
type BodyFrame struct {
	ID         string     `json:"id"`
	Position   [3]float64 `json:"position"`
	Rotation   [3]float64 `json:"rotation"`
	Dimensions [3]float64 `json:"dimensions"`
	Velocity   [3]float64 `json:"velocity"`
	Nailed     bool       `json:"nailed,omitempty"`
}

// Frame is a snapshot of every body, ordered by id.
type Frame struct {
	Tick   uint64      `json:"tick"`
	Bodies []BodyFrame `json:"bodies"`
	// Blocked counts moves cut short since the scene started.
	Blocked     uint64 `json:"blocked"`
	Fingerprint uint64 `json:"fingerprint"`
}

// FrameSink receives frames whose transforms changed.
type FrameSink interface {
	PushFrame(Frame)
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(Frame)

func (f FrameSinkFunc) PushFrame(fr Frame) { f(fr) }

var digests = generic.NewPool(xxhash.New, func(d *xxhash.Digest) { d.Reset() })

// fingerprint hashes ids and transforms only, so frames that differ just in
// tick or counters hash the same.
func fingerprint(bodies []BodyFrame) uint64 {
	d := digests.Get()
	defer digests.Put(d)

	buf := make([]byte, 0, 8*9)
	for _, b := range bodies {
		_, _ = d.WriteString(b.ID)
		_, _ = d.Write([]byte{0})

		buf = buf[:0]
		for _, v := range [...][3]float64{b.Position, b.Rotation, b.Dimensions} {
			for _, c := range v {
				buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c))
			}
		}
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
