package motion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contrib(seq uint64, origin, value Value) LaneContribution {
	return LaneContribution{Sequence: seq, Origin: origin, Value: value}
}

func TestComposeValueAdditivePerturbation(t *testing.T) {
	got := ComposeValue(Number(0), []LaneContribution{
		contrib(1, Number(0), Number(10)),
		contrib(2, Number(0), Number(3)),
	})
	assert.Equal(t, Number(13), got)
}

func TestComposeValueFirstContributionReplacesBase(t *testing.T) {
	got := ComposeValue(Number(42), []LaneContribution{contrib(1, Number(7), Number(9))})
	assert.Equal(t, Number(9), got)
}

func TestComposeValueNoContributionsKeepsBase(t *testing.T) {
	assert.Equal(t, Number(5), ComposeValue(Number(5), nil))
}

func TestComposeValueDeltaUsesOwnOrigin(t *testing.T) {
	got := ComposeValue(Number(0), []LaneContribution{
		contrib(1, Number(0), Number(50)),
		contrib(2, Number(20), Number(25)),
	})
	assert.Equal(t, Number(55), got)
}

func TestComposeValueNullContributionIsNoOp(t *testing.T) {
	got := ComposeValue(Number(0), []LaneContribution{
		contrib(1, Number(0), Number(4)),
		contrib(2, Number(0), Value{}),
	})
	assert.Equal(t, Number(4), got)
}

func TestComposeValueMismatchedKindsOverride(t *testing.T) {
	got := ComposeValue(Number(0), []LaneContribution{
		contrib(1, Number(0), Number(4)),
		contrib(2, PointValue(Point{}), PointValue(Point{1, 2})),
	})
	assert.Equal(t, PointValue(Point{1, 2}), got)
}

func TestComposeValueOpaqueOverrides(t *testing.T) {
	got := ComposeValue(Value{}, []LaneContribution{
		contrib(1, Opaque("a"), Opaque("b")),
		contrib(2, Opaque("a"), Opaque("c")),
	})
	assert.Equal(t, Opaque("c"), got)
}

func TestComposeValueColorDeltaClamps(t *testing.T) {
	got := ComposeValue(ColorValue(Color{}), []LaneContribution{
		contrib(1, ColorValue(Color{}), ColorValue(Color{R: 200, G: 10, B: 0, A: 255})),
		contrib(2, ColorValue(Color{R: 0, G: 50, B: 0, A: 0}), ColorValue(Color{R: 100, G: 0, B: 5, A: 0})),
	})
	c, ok := got.Color()
	require.True(t, ok)
	assert.Equal(t, Color{R: 255, G: 0, B: 5, A: 255}, c)
}

func TestComposeValuePointAndThicknessDeltas(t *testing.T) {
	p := ComposeValue(Value{}, []LaneContribution{
		contrib(1, PointValue(Point{}), PointValue(Point{10, 10})),
		contrib(2, PointValue(Point{1, 1}), PointValue(Point{3, 0})),
	})
	assert.Equal(t, PointValue(Point{12, 9}), p)

	th := ComposeValue(Value{}, []LaneContribution{
		contrib(1, ThicknessValue(Thickness{}), ThicknessValue(UniformThickness(4))),
		contrib(2, ThicknessValue(Thickness{}), ThicknessValue(Thickness{Left: 1})),
	})
	assert.Equal(t, ThicknessValue(Thickness{5, 4, 4, 4}), th)
}

func TestOpaqueUnwrapsKnownTypes(t *testing.T) {
	assert.Equal(t, KindNumber, Opaque(3).Kind())
	assert.Equal(t, KindNumber, Opaque(float32(1.5)).Kind())
	assert.Equal(t, KindColor, Opaque(ColorWhite).Kind())
	assert.Equal(t, KindPoint, Opaque(Point{}).Kind())
	assert.Equal(t, KindThickness, Opaque(Thickness{}).Kind())
	assert.Equal(t, KindOpaque, Opaque("x").Kind())
	assert.True(t, Opaque(nil).IsNone())
	assert.Equal(t, Number(2), Opaque(Number(2)))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Number(2)))
	assert.False(t, Number(1).Equal(Opaque("1")))
	assert.True(t, Value{}.Equal(Value{}))
	assert.True(t, Opaque("a").Equal(Opaque("a")))
	assert.False(t, Opaque([]int{1}).Equal(Opaque([]int{1})))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "<none>", Value{}.String())
	assert.Equal(t, "1.5", Number(1.5).String())
	assert.Equal(t, "#ff000080", ColorValue(Color{255, 0, 0, 128}).String())
	assert.Equal(t, "(1, 2)", PointValue(Point{1, 2}).String())
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		typ  ValueType
		want Value
	}{
		{"any passes through", Opaque("x"), TypeAny, Opaque("x")},
		{"null stays null", Value{}, TypeColor, Value{}},
		{"int rounds", Number(2.6), TypeInt, Number(3)},
		{"float32 narrows", Number(0.1), TypeFloat32, Number(float64(float32(0.1)))},
		{"numeric string", Opaque("42"), TypeFloat64, Number(42)},
		{"hex string to color", Opaque("#ff000080"), TypeColor, ColorValue(Color{255, 0, 0, 128})},
		{"number to uniform thickness", Number(2), TypeThickness, ThicknessValue(UniformThickness(2))},
		{"number to string", Number(1.5), TypeString, Opaque("1.5")},
		{"string to bool", Opaque("true"), TypeBool, Opaque(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertFailures(t *testing.T) {
	for _, tc := range []struct {
		in  Value
		typ ValueType
	}{
		{PointValue(Point{}), TypeFloat64},
		{Opaque("abc"), TypeFloat64},
		{Opaque("#nothex"), TypeColor},
		{Number(1), TypePoint},
		{ColorValue(ColorWhite), TypeBool},
	} {
		_, err := Convert(tc.in, tc.typ)
		assert.Truef(t, errors.Is(err, ErrConversion), "Convert(%v, %v) err = %v", tc.in, tc.typ, err)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#336699")
	require.NoError(t, err)
	assert.Equal(t, Color{0x33, 0x66, 0x99, 0xff}, c)
	assert.Equal(t, "#336699ff", c.Hex())

	c, err = ParseHex("#33669900")
	require.NoError(t, err)
	assert.Equal(t, uint8(0), c.A)

	_, err = ParseHex("blue")
	assert.Error(t, err)
}
