package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/voxelphys/internal/core/events/bus"
	"github.com/zeusync/voxelphys/internal/core/observability/log"
)

// System owns a registry of bodies and resolves their movement against each
// other. It is not safe for concurrent use; one MoveBody must finish before
// the next starts.
type System struct {
	bodies map[string]Body
	order  []string // sorted ids, gives collision lookups a stable precedence

	logger log.Log
	events bus.EventBus
	stats  Stats
}

type SystemOption func(*System)

// WithLogger routes diagnostics to l. Systems are silent by default.
func WithLogger(l log.Log) SystemOption {
	return func(s *System) {
		if l != nil {
			s.logger = l.With(log.String("component", "physics"))
		}
	}
}

// WithEventBus publishes a MoveResult for every resolved move.
func WithEventBus(b bus.EventBus) SystemOption {
	return func(s *System) { s.events = b }
}

func NewSystem(opts ...SystemOption) *System {
	s := &System{
		bodies: make(map[string]Body),
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert registers b under id and returns the body it replaced, if any.
// A nil *DynamicBody is rejected like a nil Body; other implementations must
// not be registered as nil pointers.
func (s *System) Insert(id string, b Body) (Body, error) {
	if db, ok := b.(*DynamicBody); b == nil || (ok && db == nil) {
		return nil, fmt.Errorf("%w: %q", ErrNilBody, id)
	}

	previous, exists := s.bodies[id]
	s.bodies[id] = b
	if !exists {
		i, _ := slices.BinarySearch(s.order, id)
		s.order = slices.Insert(s.order, i, id)
	}
	return previous, nil
}

// Remove unregisters id and hands its body back.
func (s *System) Remove(id string) (Body, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return nil, false
	}
	delete(s.bodies, id)
	if i, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return b, true
}

func (s *System) Get(id string) (Body, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

func (s *System) Len() int { return len(s.bodies) }

// IDs returns the registered ids in sorted order.
func (s *System) IDs() []string { return slices.Clone(s.order) }

// Each visits the bodies in id order.
func (s *System) Each(fn func(id string, b Body)) {
	for _, id := range s.order {
		fn(id, s.bodies[id])
	}
}

func (s *System) Stats() Stats { return s.stats }

// CollisionAt returns the collision type of the voxel containing p across
// every registered body. Points outside all bodies are Air.
func (s *System) CollisionAt(p mgl64.Vec3) Collision {
	c, _ := s.collisionAt(p, "")
	return c
}

// collisionAt ignores the body registered as exclude. A Solid voxel wins over
// anything else; otherwise the first non-Air voxel in id order does. The
// returned box is the world region of the deciding voxel, empty for Air.
func (s *System) collisionAt(p mgl64.Vec3, exclude string) (Collision, AABB) {
	found, cell := Air(), AABB{}
	for _, id := range s.order {
		if id == exclude {
			continue
		}
		b := s.bodies[id]
		if !Bounds(b).Contains(p) {
			continue
		}

		c, box := s.voxelAt(id, b, p)
		if c.Kind == KindSolid {
			return c, box
		}
		if found.Kind == KindAir && c.Kind != KindAir {
			found, cell = c, box
		}
	}
	return found, cell
}

// voxelAt maps world point p, known to be inside b, onto b's collision grid.
func (s *System) voxelAt(id string, b Body, p mgl64.Vec3) (Collision, AABB) {
	g := b.Collision()
	if g == nil {
		s.mappingGap(id, p, [3]int{})
		return Air(), AABB{}
	}

	pos, dims := b.Position(), b.Dimensions()
	w, h, d := g.Dimensions()
	counts := [3]float64{float64(w), float64(h), float64(d)}

	var idx [3]int
	var box AABB
	for a := 0; a < 3; a++ {
		idx[a] = int(math.Floor((p[a] - pos[a]) * counts[a] / dims[a]))
		size := dims[a] / counts[a]
		box.Min[a] = pos[a] + float64(idx[a])*size
		box.Max[a] = box.Min[a] + size
	}

	c, ok := g.At(idx[0], idx[1], idx[2])
	if !ok {
		s.mappingGap(id, p, idx)
		return Air(), AABB{}
	}
	return c, box
}

func (s *System) mappingGap(id string, p mgl64.Vec3, idx [3]int) {
	s.stats.MappingGaps++
	s.logger.Warn("collision grid does not cover point, treating as air",
		log.String("body", id),
		log.Vec3("point", p),
		log.Any("index", idx),
	)
}

// MoveBody moves the body registered as id by at most vector and returns the
// displacement actually applied.
//
// A zero vector is a no-op. Nailed bodies never move. Otherwise rays are cast
// from the body's leading faces and each axis is limited to the shortest
// distance any ray travelled along it.
func (s *System) MoveBody(id string, vector mgl64.Vec3) (mgl64.Vec3, error) {
	if isZero(vector) {
		return mgl64.Vec3{}, nil
	}
	if !isFinite(vector) {
		return mgl64.Vec3{}, fmt.Errorf("%w: %v", ErrInvalidVector, vector)
	}

	body, ok := s.bodies[id]
	if !ok {
		s.stats.UnknownIDs++
		s.logger.Warn("move requested for unknown body", log.String("body", id))
		return mgl64.Vec3{}, fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}

	if body.Nailed() {
		s.stats.NailedMoves++
		s.logger.Debug("nailed body ignores movement", log.String("body", id), log.Vec3("vector", vector))
		return mgl64.Vec3{}, nil
	}
	s.stats.Moves++

	permitted := vector
	samples := samplePoints(body.Position(), body.Dimensions(), vector)
	if len(samples) == 0 {
		s.stats.DegenerateHit++
		s.logger.Warn("body has no volume, applying movement unresolved",
			log.String("body", id),
			log.Vec3("dimensions", body.Dimensions()),
		)
	} else {
		permitted = s.sweep(id, samples, vector)
	}

	Translate(body, permitted)

	result := MoveResult{ID: id, Requested: vector, Applied: permitted}
	for a := 0; a < 3; a++ {
		result.Blocked[a] = math.Abs(permitted[a]) < math.Abs(vector[a])-probeEpsilon
	}
	if result.AnyBlocked() {
		s.stats.BlockedMoves++
	}
	s.publish(result)

	return permitted, nil
}

func (s *System) sweep(id string, samples []sample, vector mgl64.Vec3) mgl64.Vec3 {
	magnitude := mgl64.Vec3{math.Abs(vector[0]), math.Abs(vector[1]), math.Abs(vector[2])}

	for _, smp := range samples {
		reached := Raycast(smp.point, smp.point.Add(vector), s.resolveStep(id, smp.bias))
		traveled := reached.Sub(smp.point)
		for a := 0; a < 3; a++ {
			magnitude[a] = math.Min(magnitude[a], math.Abs(traveled[a]))
		}
	}

	var out mgl64.Vec3
	for a := 0; a < 3; a++ {
		out[a] = sign(vector[a]) * magnitude[a]
	}
	return out
}

// resolveStep builds the StepFunc for one sample ray. Axes are resolved in
// x, y, z order, each probing the voxel its own component would enter from
// the point already reached on the previous axes, so a diagonal step cannot
// slip between two voxels that block it axis by axis. A refused component is
// retried up to the face of the voxel that refused it.
func (s *System) resolveStep(self string, bias mgl64.Vec3) StepFunc {
	return func(current, proposed mgl64.Vec3) mgl64.Vec3 {
		var applied mgl64.Vec3
		reached := current
		for a := 0; a < 3; a++ {
			step := proposed[a]
			for attempt := 0; step != 0 && attempt < maxStepRetries; attempt++ {
				probe := reached.Add(bias)
				probe[a] += step

				c, cell := s.collisionAt(probe, self)
				var requested mgl64.Vec3
				requested[a] = step
				if r := Respond(c, requested); r[a] != 0 {
					applied[a] = r[a]
					break
				}
				step = stepToFace(reached[a], step, cell, a)
			}
			reached[a] += applied[a]
		}
		return applied
	}
}

// maxStepRetries bounds the probes spent on one step component when voxels of
// several bodies refuse it in turn.
const maxStepRetries = 4

// stepToFace shortens step so that coordinate from stops probeEpsilon short of
// the near face of cell on axis a. It returns 0 when from is already at or
// past that face.
func stepToFace(from, step float64, cell AABB, a int) float64 {
	var gap float64
	if step > 0 {
		gap = cell.Min[a] - from - probeEpsilon
	} else {
		gap = cell.Max[a] - from + probeEpsilon
	}
	if sign(gap) != sign(step) || math.Abs(gap) < probeEpsilon || math.Abs(gap) >= math.Abs(step) {
		return 0
	}
	return gap
}

func (s *System) publish(result MoveResult) {
	if s.events == nil {
		return
	}
	typ := EventBodyMoved
	if result.AnyBlocked() {
		typ = EventBodyBlocked
	}
	if err := s.events.Publish(bus.NewEvent(typ, eventSource, result)); err != nil {
		s.logger.Warn("move event handler failed", log.String("body", result.ID), log.Error(err))
	}
}
