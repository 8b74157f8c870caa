package motion

import (
	"testing"
	"time"

	"github.com/fogleman/ease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberAt(t *testing.T, a AnimationTimeline, origin, dest Value, p float64) float64 {
	t.Helper()
	f, ok := a.CurrentValue(origin, dest, p).Float()
	require.True(t, ok, "expected a number")
	return f
}

func TestDoubleAnimationEndpointCombinations(t *testing.T) {
	origin, dest := Number(10), Number(30)
	tests := []struct {
		name     string
		from     *float64
		to       *float64
		by       *float64
		wantHalf float64
	}{
		{"from to", Ptr(0.0), Ptr(100.0), nil, 50},
		{"from by", Ptr(0.0), nil, Ptr(20.0), 10},
		{"from only", Ptr(0.0), nil, nil, 15},
		{"to only", nil, Ptr(50.0), nil, 30},
		{"by only", nil, nil, Ptr(4.0), 12},
		{"none", nil, nil, nil, 20},
		{"to wins over by", Ptr(0.0), Ptr(10.0), Ptr(99.0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &DoubleAnimation{From: tt.from, To: tt.to, By: tt.by}
			assert.InDelta(t, tt.wantHalf, numberAt(t, a, origin, dest, 0.5), 1e-9)
		})
	}
}

func TestDoubleAnimationClampsProgress(t *testing.T) {
	a := &DoubleAnimation{From: Ptr(0.0), To: Ptr(100.0)}
	assert.Equal(t, 0.0, numberAt(t, a, Value{}, Value{}, -1))
	assert.Equal(t, 100.0, numberAt(t, a, Value{}, Value{}, 2))
}

func TestDoubleAnimationEasing(t *testing.T) {
	a := &DoubleAnimation{From: Ptr(0.0), To: Ptr(100.0), Easing: ease.InQuad}
	assert.InDelta(t, 25, numberAt(t, a, Value{}, Value{}, 0.5), 1e-9)
}

func TestFromToNaturalDuration(t *testing.T) {
	a := &DoubleAnimation{}
	assert.Equal(t, time.Second, a.NaturalDuration())
	a.Duration = DurationOf(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, a.NaturalDuration())
	a.Duration = DurationOf(0)
	assert.Equal(t, time.Duration(0), a.NaturalDuration())
}

func TestIntAnimationRounds(t *testing.T) {
	a := &IntAnimation{From: Ptr(0), To: Ptr(3)}
	v := a.CurrentValue(Value{}, Value{}, 0.5)
	assert.Equal(t, Number(2), v)
}

func TestColorAnimationChannels(t *testing.T) {
	a := &ColorAnimation{From: &Color{0, 0, 0, 0}, To: &Color{200, 100, 50, 255}}
	c, ok := a.CurrentValue(Value{}, Value{}, 0.5).Color()
	require.True(t, ok)
	assert.Equal(t, Color{100, 50, 25, 128}, c)
}

func TestHCLColorAnimationEndpoints(t *testing.T) {
	red, blue := Color{255, 0, 0, 255}, Color{0, 0, 255, 0}
	a := &HCLColorAnimation{From: &red, To: &blue}
	start, _ := a.CurrentValue(Value{}, Value{}, 0).Color()
	end, _ := a.CurrentValue(Value{}, Value{}, 1).Color()
	assert.Equal(t, red, start)
	assert.Equal(t, blue, end)
	mid, _ := a.CurrentValue(Value{}, Value{}, 0.5).Color()
	assert.Equal(t, uint8(128), mid.A)
}

func TestPointAnimationBy(t *testing.T) {
	a := &PointAnimation{By: &Point{10, -10}}
	v := a.CurrentValue(PointValue(Point{1, 1}), Value{}, 1)
	assert.Equal(t, PointValue(Point{11, -9}), v)
}

func TestThicknessAnimationFromOrigin(t *testing.T) {
	a := &ThicknessAnimation{To: Ptr(UniformThickness(10))}
	v := a.CurrentValue(ThicknessValue(Thickness{}), Value{}, 0.5)
	assert.Equal(t, ThicknessValue(UniformThickness(5)), v)
}
