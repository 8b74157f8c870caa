// Package driver runs a motion.Scene inside an Ebitengine game loop.
//
// Each tick advances the scene by one fixed step of 1/TPS seconds and the
// default renderer draws every visible node as a tinted square, which is
// enough to watch storyboards play:
//
//	scene := motion.NewScene()
//	// ... build nodes, begin storyboards
//	if err := driver.Run(scene, driver.Config{Title: "demo", Width: 640, Height: 480}); err != nil {
//		log.Fatal(err)
//	}
package driver

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/motion"
)

// DefaultNodeSize is the edge length of the square drawn for each node.
const DefaultNodeSize = 32

// Config holds window and loop settings.
type Config struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool

	// ClearColor fills the screen before drawing. The zero value leaves the
	// screen as ebiten cleared it.
	ClearColor motion.Color
	// NodeSize overrides DefaultNodeSize.
	NodeSize float64

	// OnUpdate runs every tick before the scene advances. A non-nil error
	// ends the game loop.
	OnUpdate func(dt time.Duration) error
	// OnDraw replaces the default node renderer.
	OnDraw func(screen *ebiten.Image, scene *motion.Scene)
}

// Game adapts a Scene to ebiten.Game.
type Game struct {
	scene *motion.Scene
	cfg   Config
	pixel *ebiten.Image
}

// NewGame wraps scene with the given settings.
func NewGame(scene *motion.Scene, cfg Config) *Game {
	if cfg.NodeSize <= 0 {
		cfg.NodeSize = DefaultNodeSize
	}
	return &Game{scene: scene, cfg: cfg}
}

// Scene returns the wrapped scene.
func (g *Game) Scene() *motion.Scene { return g.scene }

// Step returns the fixed time step of one tick.
func Step() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := Step()
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(dt); err != nil {
			return err
		}
	}
	g.scene.Update(dt)
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor != (motion.Color{}) {
		c := g.cfg.ClearColor
		screen.Fill(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	if g.cfg.OnDraw != nil {
		g.cfg.OnDraw(screen, g.scene)
	} else {
		g.drawTree(screen)
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Width > 0 && g.cfg.Height > 0 {
		return g.cfg.Width, g.cfg.Height
	}
	return outsideWidth, outsideHeight
}

func (g *Game) drawTree(screen *ebiten.Image) {
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(color.White)
	}
	var op ebiten.DrawImageOptions
	Walk(g.scene.Root(), g.cfg.NodeSize, func(n *motion.Node, geo ebiten.GeoM, alpha float64) {
		op.GeoM = geo
		op.ColorScale = Tint(n.Color, alpha)
		screen.DrawImage(g.pixel, &op)
	})
}

// Walk visits every visible node below root in draw order, with the
// transform that maps a unit square onto the node's size-by-size square and
// the node's alpha multiplied through its ancestors. Nodes are centered on
// their position and rotate and scale about their center; children inherit
// their parent's translation, rotation and scale.
func Walk(root *motion.Node, size float64, fn func(n *motion.Node, geo ebiten.GeoM, alpha float64)) {
	for _, child := range root.Children() {
		walk(child, ebiten.GeoM{}, 1, size, fn)
	}
}

func walk(n *motion.Node, parent ebiten.GeoM, parentAlpha, size float64, fn func(*motion.Node, ebiten.GeoM, float64)) {
	if !n.Visible || n.IsDisposed() {
		return
	}
	var local ebiten.GeoM
	local.Scale(n.ScaleX, n.ScaleY)
	local.Rotate(n.Rotation)
	local.Translate(n.X, n.Y)
	local.Concat(parent)

	alpha := parentAlpha * n.Alpha

	var quad ebiten.GeoM
	quad.Translate(-0.5, -0.5)
	quad.Scale(size, size)
	quad.Concat(local)
	fn(n, quad, alpha)

	for _, child := range n.Children() {
		walk(child, local, alpha, size, fn)
	}
}

// Tint converts a node color and alpha into a color scale for a white
// source image.
func Tint(c motion.Color, alpha float64) ebiten.ColorScale {
	a := float32(float64(c.A) / 255 * alpha)
	var cs ebiten.ColorScale
	cs.Scale(float32(c.R)/255*a, float32(c.G)/255*a, float32(c.B)/255*a, a)
	return cs
}

// Run opens a window and runs scene until the window closes or OnUpdate
// fails.
func Run(scene *motion.Scene, cfg Config) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	return ebiten.RunGame(NewGame(scene, cfg))
}
