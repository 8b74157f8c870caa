package definition

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/motion"
)

// Step is a single action in a playback script.
type Step struct {
	Action     string  `yaml:"action"`
	Storyboard string  `yaml:"storyboard,omitempty"`
	Name       string  `yaml:"name,omitempty"`
	Frames     int     `yaml:"frames,omitempty"`
	Offset     string  `yaml:"offset,omitempty"`
	Origin     string  `yaml:"origin,omitempty"`
	Ratio      float64 `yaml:"ratio,omitempty"`
	Handoff    string  `yaml:"handoff,omitempty"`
}

// Script is the top-level YAML structure of a playback script.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// ParseScript parses a YAML playback script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w: no steps", ErrInvalid)
	}
	return &s, nil
}

// Runner plays a script against a scene, one step per frame. Storyboard
// controls address every instance of the storyboard on the scene root, or
// only the instance registered under Name when a step sets one.
type Runner struct {
	def    *Definition
	scene  *motion.Scene
	steps  []Step
	logger *slog.Logger

	cursor    int
	waitCount int
	done      bool
}

// NewRunner checks that every step names a known action and storyboard.
func NewRunner(script *Script, def *Definition, scene *motion.Scene, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for i, st := range script.Steps {
		if err := validateStep(st, def); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return &Runner{def: def, scene: scene, steps: script.Steps, logger: logger}, nil
}

func validateStep(st Step, def *Definition) error {
	switch st.Action {
	case "wait":
		return nil
	case "begin", "pause", "resume", "stop", "remove", "seek", "speed":
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalid, st.Action)
	}
	if _, err := def.Storyboard(st.Storyboard); err != nil {
		return err
	}
	if _, err := parseHandoff(st.Handoff); err != nil {
		return err
	}
	if _, err := parseDuration(nilIfEmpty(st.Offset)); err != nil {
		return err
	}
	_, err := parseOrigin(st.Origin)
	return err
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseHandoff(s string) (motion.HandoffBehavior, error) {
	switch strings.ToLower(s) {
	case "", "compose":
		return motion.HandoffCompose, nil
	case "replace", "snapshotandreplace":
		return motion.HandoffSnapshotAndReplace, nil
	}
	return 0, fmt.Errorf("%w: handoff %q", ErrInvalid, s)
}

func parseOrigin(s string) (motion.SeekOrigin, error) {
	switch strings.ToLower(s) {
	case "", "beginning":
		return motion.SeekFromBeginning, nil
	case "end":
		return motion.SeekFromEnd, nil
	}
	return 0, fmt.Errorf("%w: seek origin %q", ErrInvalid, s)
}

// Done reports whether all steps in the script have been executed.
func (r *Runner) Done() bool {
	return r.done
}

// Step advances the runner by one frame. Call it before Scene.Update.
func (r *Runner) Step() error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.done = true
		}
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++
	err := r.exec(st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return err
}

func (r *Runner) exec(st Step) error {
	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
		return nil
	}

	sb, err := r.def.Storyboard(st.Storyboard)
	if err != nil {
		return err
	}
	m := r.scene.Animations()
	r.logger.Debug("script step", "action", st.Action, "storyboard", st.Storyboard, "now", r.scene.Now())

	if st.Action == "begin" {
		handoff, _ := parseHandoff(st.Handoff)
		r.scene.Begin(sb, motion.BeginOptions{
			ControlName:  st.Name,
			Controllable: st.Name != "",
			Handoff:      handoff,
		})
		return nil
	}

	targets := r.instances(sb, st.Name)
	if len(targets) == 0 {
		r.logger.Warn("script step matched no instance", "action", st.Action, "storyboard", st.Storyboard, "name", st.Name)
		return nil
	}
	now := m.CurrentTime()
	for _, inst := range targets {
		switch st.Action {
		case "pause":
			inst.Pause(now)
		case "resume":
			inst.Resume(now)
		case "stop":
			inst.Stop()
		case "remove":
			inst.Remove()
		case "speed":
			inst.SetSpeedRatio(st.Ratio)
		case "seek":
			offset, _ := parseDuration(nilIfEmpty(st.Offset))
			origin, _ := parseOrigin(st.Origin)
			if err := inst.Seek(offset, origin, now); err != nil {
				return err
			}
		}
	}
	return nil
}

// instances returns the live instances a step controls.
func (r *Runner) instances(sb *motion.Storyboard, name string) []*motion.StoryboardInstance {
	root := r.scene.Root()
	if name != "" {
		if inst, ok := r.scene.Animations().TryResolveControllable(root, name); ok && inst.Storyboard() == sb {
			return []*motion.StoryboardInstance{inst}
		}
		return nil
	}
	var out []*motion.StoryboardInstance
	for _, inst := range r.scene.Animations().Instances() {
		if inst.Storyboard() == sb && inst.Scope() == any(root) {
			out = append(out, inst)
		}
	}
	return out
}
