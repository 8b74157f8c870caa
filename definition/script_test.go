package definition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/motion"
)

const frame = 50 * time.Millisecond

func setupRunner(t *testing.T, script string) (*Runner, *motion.Scene, *Definition) {
	t.Helper()
	def := mustParse(t, document)
	scene := motion.NewScene()
	def.Populate(scene)
	s, err := ParseScript([]byte(script))
	require.NoError(t, err)
	r, err := NewRunner(s, def, scene, nil)
	require.NoError(t, err)
	return r, scene, def
}

// play runs the script to completion, one step and one scene tick per frame.
func play(t *testing.T, r *Runner, scene *motion.Scene) int {
	t.Helper()
	frames := 0
	for !r.Done() {
		require.NoError(t, r.Step())
		scene.Update(frame)
		frames++
		require.Less(t, frames, 100, "script never finished")
	}
	return frames
}

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte("steps:\n  - action: begin\n    storyboard: slide\n  - action: wait\n    frames: 3\n"))
	require.NoError(t, err)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "slide", s.Steps[0].Storyboard)
	assert.Equal(t, 3, s.Steps[1].Frames)

	_, err = ParseScript([]byte("steps: []"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseScript([]byte("steps: {"))
	assert.Error(t, err)
}

func TestNewRunnerValidates(t *testing.T) {
	def := mustParse(t, document)
	scene := motion.NewScene()
	cases := map[string]string{
		"unknown action":     "steps:\n  - action: jump\n    storyboard: slide",
		"unknown storyboard": "steps:\n  - action: begin\n    storyboard: spin",
		"bad handoff":        "steps:\n  - action: begin\n    storyboard: slide\n    handoff: merge",
		"bad offset":         "steps:\n  - action: seek\n    storyboard: slide\n    offset: later",
		"bad origin":         "steps:\n  - action: seek\n    storyboard: slide\n    origin: middle",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := ParseScript([]byte(src))
			require.NoError(t, err)
			_, err = NewRunner(s, def, scene, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), "steps[0]")
		})
	}
}

func TestRunnerWaitCountsFrames(t *testing.T) {
	r, scene, _ := setupRunner(t, `
steps:
  - action: begin
    storyboard: slide
  - action: wait
    frames: 3
`)
	frames := play(t, r, scene)
	assert.Equal(t, 4, frames)
	assert.True(t, r.Done())
	require.NoError(t, r.Step(), "stepping a finished runner is a no-op")
}

func TestRunnerPauseByName(t *testing.T) {
	r, scene, def := setupRunner(t, `
steps:
  - action: begin
    storyboard: slide
    name: a
  - action: wait
    frames: 2
  - action: pause
    storyboard: slide
    name: a
`)
	play(t, r, scene)
	box := def.Nodes[0]

	// Paused at 150ms of 500ms on the way from 10 to 200.
	assert.InDelta(t, 67.0, box.X, 1e-9)
	scene.Update(frame)
	assert.InDelta(t, 67.0, box.X, 1e-9)

	inst, ok := scene.Animations().TryResolveControllable(scene.Root(), "a")
	require.True(t, ok)
	assert.True(t, inst.IsPaused())
}

func TestRunnerRemoveRevertsBase(t *testing.T) {
	r, scene, def := setupRunner(t, `
steps:
  - action: begin
    storyboard: slide
  - action: wait
    frames: 2
  - action: remove
    storyboard: slide
`)
	play(t, r, scene)
	assert.Equal(t, 10.0, def.Nodes[0].X)
	assert.False(t, scene.Animations().HasRunningAnimations())
}

func TestRunnerSeekAndSpeed(t *testing.T) {
	r, scene, def := setupRunner(t, `
steps:
  - action: begin
    storyboard: slide
  - action: seek
    storyboard: slide
    offset: 100ms
    origin: end
  - action: speed
    storyboard: slide
    ratio: 0.5
`)
	play(t, r, scene)
	box := def.Nodes[0]

	// The seek at 50ms puts the instance clock 400ms in. Halving the speed
	// at 100ms scales the whole 500ms elapsed by the last tick at 150ms.
	assert.InDelta(t, 105.0, box.X, 1e-9)
}

func TestRunnerUnmatchedControlIsNoop(t *testing.T) {
	r, scene, def := setupRunner(t, `
steps:
  - action: stop
    storyboard: slide
    name: nobody
`)
	play(t, r, scene)
	assert.Equal(t, 10.0, def.Nodes[0].X)
}

func TestRunnerHandoffReplace(t *testing.T) {
	r, scene, def := setupRunner(t, `
steps:
  - action: begin
    storyboard: slide
  - action: begin
    storyboard: slide
    handoff: replace
`)
	play(t, r, scene)

	insts := scene.Animations().Instances()
	require.Len(t, insts, 1, "the replaced instance is swept")
	assert.Greater(t, def.Nodes[0].X, 10.0)
}
