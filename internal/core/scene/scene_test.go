package scene

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/voxelphys/internal/core/events/bus"
	"github.com/zeusync/voxelphys/internal/core/systems/physics"
)

func body(t *testing.T, pos mgl64.Vec3, c physics.Collision) *physics.DynamicBody {
	t.Helper()
	g, err := physics.NewUniformGrid(1, 1, 1, c)
	require.NoError(t, err)
	return physics.NewDynamicBody(pos, g, false)
}

// corridor holds a runner at the origin and a solid wall at x=3.
func corridor(t *testing.T) (*Scene, *physics.DynamicBody, bus.EventBus) {
	t.Helper()
	events := bus.New()
	sys := physics.NewSystem(physics.WithEventBus(events))

	runner := body(t, mgl64.Vec3{}, physics.Air())
	_, err := sys.Insert("runner", runner)
	require.NoError(t, err)
	_, err = sys.Insert("wall", body(t, mgl64.Vec3{3, 0, 0}, physics.Solid()))
	require.NoError(t, err)

	s, err := New(sys, WithEventBus(events))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, runner, events
}

func TestStepMovesByVelocity(t *testing.T) {
	s, runner, _ := corridor(t)
	require.NoError(t, s.SetVelocity("runner", mgl64.Vec3{2, 1, 0}))

	require.NoError(t, s.Step(0.25))
	assert.Equal(t, mgl64.Vec3{0.5, 0.25, 0}, runner.Position())
	assert.Equal(t, mgl64.Vec3{2, 1, 0}, runner.Velocity())
}

func TestStepZeroesBlockedAxis(t *testing.T) {
	s, runner, _ := corridor(t)
	require.NoError(t, s.SetVelocity("runner", mgl64.Vec3{4, 0, 0}))

	require.NoError(t, s.Step(1))
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, runner.Position())
	assert.Equal(t, mgl64.Vec3{}, runner.Velocity())

	frame := s.Snapshot()
	assert.EqualValues(t, 1, frame.Blocked)
	assert.EqualValues(t, 1, frame.Tick)
}

func TestStepSkipsNailedBodies(t *testing.T) {
	s, runner, _ := corridor(t)
	runner.SetNailed(true)
	require.NoError(t, s.SetVelocity("runner", mgl64.Vec3{1, 0, 0}))

	require.NoError(t, s.Step(1))
	assert.Equal(t, mgl64.Vec3{}, runner.Position())
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, runner.Velocity())
}

func TestSetVelocityUnknown(t *testing.T) {
	s, _, _ := corridor(t)
	assert.ErrorIs(t, s.SetVelocity("ghost", mgl64.Vec3{1, 0, 0}), physics.ErrUnknownBody)
}

func TestSnapshotFingerprint(t *testing.T) {
	s, _, _ := corridor(t)

	a := s.Snapshot()
	require.Len(t, a.Bodies, 2)
	assert.Equal(t, "runner", a.Bodies[0].ID)
	assert.Equal(t, [3]float64{3, 0, 0}, a.Bodies[1].Position)

	require.NoError(t, s.Step(1))
	b := s.Snapshot()
	assert.Equal(t, a.Fingerprint, b.Fingerprint, "nothing moved")
	assert.NotEqual(t, a.Tick, b.Tick)

	require.NoError(t, s.SetVelocity("runner", mgl64.Vec3{0, 1, 0}))
	require.NoError(t, s.Step(1))
	assert.NotEqual(t, a.Fingerprint, s.Snapshot().Fingerprint)
}

func TestTickPushesOnlyChangedFrames(t *testing.T) {
	s, _, _ := corridor(t)
	var frames []Frame
	s.AddSink(FrameSinkFunc(func(f Frame) { frames = append(frames, f) }))

	pushed, err := s.Tick(1)
	require.NoError(t, err)
	assert.False(t, pushed)

	require.NoError(t, s.SetVelocity("runner", mgl64.Vec3{1, 0, 0}))
	pushed, err = s.Tick(1)
	require.NoError(t, err)
	assert.True(t, pushed)

	require.Len(t, frames, 1)
	assert.Equal(t, [3]float64{1, 0, 0}, frames[0].Bodies[0].Position)
	assert.Equal(t, frames[0], s.Latest())
}

type collectSink struct {
	mu     sync.Mutex
	frames []Frame
}

func (c *collectSink) PushFrame(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
}

func (c *collectSink) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s, _, _ := corridor(t)
	sink := &collectSink{}
	s.AddSink(sink)
	require.NoError(t, s.SetVelocity("runner", mgl64.Vec3{0, 0, 1}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	assert.Eventually(t, func() bool { return sink.len() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunRejectsBadTickRate(t *testing.T) {
	s, _, _ := corridor(t)
	assert.ErrorIs(t, s.Run(context.Background(), 0), ErrInvalidTick)
}

func TestNewRequiresSystem(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilSystem)
}
