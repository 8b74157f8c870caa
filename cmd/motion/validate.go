package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/definition"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a document and list its storyboards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, path string) error {
	def, err := definition.Load(path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	nodes := 0
	for _, n := range def.Nodes {
		nodes += countNodes(n)
	}
	fmt.Fprintf(w, "%s: %d nodes, %d storyboards\n", path, nodes, len(def.Storyboards))
	for _, name := range def.StoryboardNames() {
		sb := def.Storyboards[name]
		leaves := sb.Leaves()
		fmt.Fprintf(w, "  %s: %d animations\n", name, len(leaves))
		for _, leaf := range leaves {
			begin := leaf.BeginOffset + leaf.Animation.Timing().BeginTime
			fmt.Fprintf(w, "    %s.%s %s at %v for %v\n",
				orDash(leaf.TargetName), orDash(leaf.TargetProperty), kindName(leaf.Animation), begin, leaf.Animation.NaturalDuration())
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func kindName(a motion.AnimationTimeline) string {
	switch a.(type) {
	case *motion.DoubleAnimation:
		return "double"
	case *motion.IntAnimation:
		return "int"
	case *motion.ColorAnimation:
		return "color"
	case *motion.HCLColorAnimation:
		return "hclColor"
	case *motion.PointAnimation:
		return "point"
	case *motion.ThicknessAnimation:
		return "thickness"
	case *motion.DoubleKeyFrameAnimation:
		return "doubleKeyFrames"
	case *motion.IntKeyFrameAnimation:
		return "intKeyFrames"
	case *motion.ColorKeyFrameAnimation:
		return "colorKeyFrames"
	case *motion.PointKeyFrameAnimation:
		return "pointKeyFrames"
	case *motion.ThicknessKeyFrameAnimation:
		return "thicknessKeyFrames"
	case *motion.ObjectKeyFrameAnimation:
		return "objectKeyFrames"
	}
	return fmt.Sprintf("%T", a)
}

func countNodes(n *motion.Node) int {
	total := 1
	for _, c := range n.Children() {
		total += countNodes(c)
	}
	return total
}
