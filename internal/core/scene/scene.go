// Package scene drives a physics System at a fixed tick rate: bodies with a
// velocity are moved every tick and snapshots are pushed to frame sinks when
// anything moved.
package scene

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/voxelphys/internal/core/clock"
	"github.com/zeusync/voxelphys/internal/core/events/bus"
	"github.com/zeusync/voxelphys/internal/core/observability/log"
	"github.com/zeusync/voxelphys/internal/core/systems/physics"
)

var (
	ErrNotMovable     = errors.New("body has no velocity")
	ErrInvalidTick    = errors.New("tick rate must be positive")
	ErrNilSystem      = errors.New("scene requires a physics system")
	ErrAlreadyRunning = errors.New("scene loop already running")
)

// Mover is a Body carrying a velocity in units per second.
type Mover interface {
	physics.Body
	Velocity() mgl64.Vec3
	SetVelocity(mgl64.Vec3)
}

type Option func(*Scene)

func WithLogger(l log.Log) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l.With(log.String("component", "scene"))
		}
	}
}

// WithEventBus counts blocked moves published on b. The System should publish
// to the same bus.
func WithEventBus(b bus.EventBus) Option {
	return func(s *Scene) { s.events = b }
}

// WithTimer replaces the wall clock timer used by Run.
func WithTimer(t *clock.DeltaTimer) Option {
	return func(s *Scene) { s.timer = t }
}

// Scene serializes access to a System. All methods are safe for concurrent use.
type Scene struct {
	mu      sync.Mutex
	system  *physics.System
	tick    uint64
	latest  Frame
	sinks   []FrameSink
	running bool

	blocked atomic.Uint64

	logger log.Log
	events bus.EventBus
	sub    bus.Subscription
	timer  *clock.DeltaTimer
}

func New(system *physics.System, opts ...Option) (*Scene, error) {
	if system == nil {
		return nil, ErrNilSystem
	}

	s := &Scene{
		system: system,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timer == nil {
		s.timer = clock.NewDeltaTimer()
	}

	if s.events != nil {
		sub, err := s.events.Subscribe(physics.EventBodyBlocked, func(bus.Event) error {
			// runs inside MoveBody while s.mu is held
			s.blocked.Add(1)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("subscribe blocked moves: %w", err)
		}
		s.sub = sub
	}

	s.latest = s.snapshotLocked()
	return s, nil
}

// Close detaches the scene from its event bus.
func (s *Scene) Close() error {
	if s.events == nil || s.sub == nil {
		return nil
	}
	return s.events.Unsubscribe(s.sub)
}

// AddSink registers a sink for changed frames.
func (s *Scene) AddSink(sink FrameSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// SetVelocity sets the velocity of the body registered as id.
func (s *Scene) SetVelocity(id string, v mgl64.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.system.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", physics.ErrUnknownBody, id)
	}
	m, ok := b.(Mover)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotMovable, id)
	}
	m.SetVelocity(v)
	return nil
}

// WithSystem runs fn with exclusive access to the System.
func (s *Scene) WithSystem(fn func(*physics.System)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.system)
}

// Step advances the scene by dt seconds. Every body with a velocity is moved
// by velocity*dt in id order; velocity components on axes where the move was
// cut are zeroed.
func (s *Scene) Step(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked(dt)
}

func (s *Scene) stepLocked(dt float64) error {
	s.tick++

	var errs []error
	for _, id := range s.system.IDs() {
		b, _ := s.system.Get(id)
		m, ok := b.(Mover)
		if !ok || m.Nailed() {
			continue
		}

		v := m.Velocity()
		if v == (mgl64.Vec3{}) {
			continue
		}

		requested := v.Mul(dt)
		applied, err := s.system.MoveBody(id, requested)
		if err != nil {
			errs = append(errs, fmt.Errorf("move %q: %w", id, err))
			continue
		}

		for a := 0; a < 3; a++ {
			if math.Abs(applied[a]) < math.Abs(requested[a])-1e-9 {
				v[a] = 0
			}
		}
		m.SetVelocity(v)
	}

	return errors.Join(errs...)
}

// Snapshot returns the current state of every body.
func (s *Scene) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Scene) snapshotLocked() Frame {
	frame := Frame{
		Tick:    s.tick,
		Blocked: s.blocked.Load(),
		Bodies:  make([]BodyFrame, 0, s.system.Len()),
	}
	s.system.Each(func(id string, b physics.Body) {
		bf := BodyFrame{
			ID:         id,
			Position:   b.Position(),
			Rotation:   b.Rotation(),
			Dimensions: b.Dimensions(),
			Nailed:     b.Nailed(),
		}
		if m, ok := b.(Mover); ok {
			bf.Velocity = m.Velocity()
		}
		frame.Bodies = append(frame.Bodies, bf)
	})
	frame.Fingerprint = fingerprint(frame.Bodies)
	return frame
}

// Latest returns the most recent frame published by Run, or the initial
// state when Run has not ticked yet.
func (s *Scene) Latest() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Tick runs one step of dt seconds and pushes the resulting frame to every
// sink when the transforms changed. It reports whether a frame was pushed.
func (s *Scene) Tick(dt float64) (bool, error) {
	s.mu.Lock()
	err := s.stepLocked(dt)
	frame := s.snapshotLocked()
	changed := frame.Fingerprint != s.latest.Fingerprint
	s.latest = frame
	sinks := append([]FrameSink(nil), s.sinks...)
	s.mu.Unlock()

	if changed {
		for _, sink := range sinks {
			sink.PushFrame(frame)
		}
	}
	return changed, err
}

// Run ticks every tickRate until ctx is done.
func (s *Scene) Run(ctx context.Context, tickRate time.Duration) error {
	if tickRate <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTick, tickRate)
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	s.timer.Reset()
	s.timer.Duration()
	s.logger.Info("scene loop started", log.Duration("tick_rate", tickRate))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scene loop stopped", log.Uint64("ticks", s.Snapshot().Tick))
			return nil
		case <-ticker.C:
			pushed, err := s.Tick(s.timer.Delta())
			if err != nil {
				s.logger.Warn("scene step failed", log.Error(err))
			}
			if pushed {
				s.logger.Debug("frame pushed", log.Uint64("tick", s.Latest().Tick))
			}
		}
	}
}
