package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/definition"
	"github.com/phanxgames/motion/metrics"
)

type simulateOptions struct {
	path       string
	script     string
	storyboard string
	handoff    string
	step       time.Duration
	until      time.Duration
	metrics    bool
	debug      bool
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate FILE",
	Short: "Run storyboards on a fixed clock and print property changes",
	Long: `Loads FILE, attaches its scene, and ticks the scheduler every --step until
--until. Without --script every storyboard begins at time zero, or only the
one named by --storyboard.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := simOpts
		opts.path = args[0]
		return runSimulate(cmd.OutOrStdout(), newLogger(cmd), opts)
	},
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simOpts.script, "script", "", "YAML playback script to drive the storyboards")
	f.StringVar(&simOpts.storyboard, "storyboard", "", "Begin only this storyboard")
	f.StringVar(&simOpts.handoff, "handoff", "compose", "Handoff for begun storyboards: compose or replace")
	f.DurationVar(&simOpts.step, "step", 16*time.Millisecond, "Clock step per tick")
	f.DurationVar(&simOpts.until, "until", 2*time.Second, "Stop once the clock reaches this time")
	f.BoolVar(&simOpts.metrics, "metrics", false, "Print scheduler metrics after the run")
	f.BoolVar(&simOpts.debug, "debug", false, "Enable debug mode (disposed-node panics, per-tick stats)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(w io.Writer, logger *slog.Logger, opts simulateOptions) error {
	if opts.step <= 0 {
		return fmt.Errorf("--step must be positive, got %v", opts.step)
	}
	def, err := definition.Load(opts.path)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	managerOpts := []motion.Option{motion.WithLogger(logger)}
	if opts.metrics {
		collector = metrics.New("motion")
		managerOpts = append(managerOpts, motion.WithHooks(collector.Hooks()))
	}
	scene := motion.NewScene(managerOpts...)
	scene.SetDebugMode(opts.debug)
	def.Populate(scene)

	var runner *definition.Runner
	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		script, err := definition.ParseScript(data)
		if err != nil {
			return err
		}
		if runner, err = definition.NewRunner(script, def, scene, logger); err != nil {
			return err
		}
	} else if err := beginAll(scene, def, opts); err != nil {
		return err
	}

	out := termenv.NewOutput(w)
	snap := newSnapshot(scene.Root())
	snap.print(out, scene.Now())
	for scene.Now() < opts.until {
		if runner != nil {
			if err := runner.Step(); err != nil {
				return err
			}
		}
		scene.Update(opts.step)
		snap.print(out, scene.Now())
	}

	if collector != nil {
		return printMetrics(out, collector)
	}
	return nil
}

func beginAll(scene *motion.Scene, def *definition.Definition, opts simulateOptions) error {
	var handoff motion.HandoffBehavior
	switch strings.ToLower(opts.handoff) {
	case "", "compose":
		handoff = motion.HandoffCompose
	case "replace":
		handoff = motion.HandoffSnapshotAndReplace
	default:
		return fmt.Errorf("unknown handoff %q", opts.handoff)
	}
	names := def.StoryboardNames()
	if opts.storyboard != "" {
		names = []string{opts.storyboard}
	}
	for _, name := range names {
		sb, err := def.Storyboard(name)
		if err != nil {
			return err
		}
		scene.Begin(sb, motion.BeginOptions{ControlName: name, Controllable: true, Handoff: handoff})
	}
	return nil
}

// snapshotProperties skips Position and Scale, which repeat X/Y and
// ScaleX/ScaleY.
var snapshotProperties = func() []string {
	props := slices.DeleteFunc(motion.NodeProperties(), func(p string) bool {
		return p == "Position" || p == "Scale"
	})
	return append(props, "UserData")
}()

type watched struct {
	label string
	sink  motion.Sink
}

// snapshot remembers the last printed value of every node property.
type snapshot struct {
	props []watched
	last  map[string]string
}

func newSnapshot(root *motion.Node) *snapshot {
	s := &snapshot{last: make(map[string]string)}
	var visit func(n *motion.Node, path string)
	visit = func(n *motion.Node, path string) {
		for _, prop := range snapshotProperties {
			if sink, ok := motion.DefaultPathResolver.ResolveSink(n, prop); ok {
				s.props = append(s.props, watched{label: path + "." + prop, sink: sink})
			}
		}
		for _, c := range n.Children() {
			visit(c, path+"/"+c.Name)
		}
	}
	for _, c := range root.Children() {
		visit(c, c.Name)
	}
	return s
}

// print writes one line per property whose value changed since the last call.
func (s *snapshot) print(out *termenv.Output, now time.Duration) {
	stamp := out.String(fmt.Sprintf("%10v", now)).Faint()
	for _, p := range s.props {
		v := p.sink.Get().String()
		if prev, ok := s.last[p.label]; ok && prev == v {
			continue
		}
		s.last[p.label] = v
		fmt.Fprintf(out, "%s %s=%s\n", stamp, out.String(p.label).Foreground(out.Color("#818cf8")), v)
	}
}

func printMetrics(out *termenv.Output, c *metrics.Collector) error {
	families, err := c.Registry().Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, out.String("metrics").Bold())
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "  %s %g\n", name, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(out, "  %s %g\n", name, m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(out, "  %s count=%d sum=%gs\n", name, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}
