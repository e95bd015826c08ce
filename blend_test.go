package aspen

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestBlendEquality(t *testing.T) {
	a := NewBlend(BlendOpAdd, BlendSrcAlpha, BlendOneMinusSrcAlpha)
	if a != DefaultBlend {
		t.Errorf("NewBlend = %v, want %v", a, DefaultBlend)
	}
	if a == BlendAdditive {
		t.Error("different blends compare equal")
	}
}

func TestEbitenBlendPresets(t *testing.T) {
	tests := []struct {
		name string
		in   Blend
	}{
		{"normal", BlendNormal},
		{"additive", BlendAdditive},
		{"multiply", BlendMultiply},
		{"screen", BlendScreen},
		{"subtract", BlendSubtract},
		{"max", NewBlend(BlendOpMax, BlendOne, BlendOne)},
	}
	for _, tt := range tests {
		if _, ok := tt.in.EbitenBlend(); !ok {
			t.Errorf("%s: EbitenBlend not supported", tt.name)
		}
	}

	got, _ := BlendAdditive.EbitenBlend()
	if got.BlendFactorDestinationRGB != ebiten.BlendFactorOne {
		t.Errorf("additive dst factor = %v, want one", got.BlendFactorDestinationRGB)
	}
	if got.BlendOperationRGB != ebiten.BlendOperationAdd {
		t.Errorf("additive op = %v, want add", got.BlendOperationRGB)
	}
}

func TestEbitenBlendUnsupported(t *testing.T) {
	tests := []Blend{
		NewBlend(BlendOp(0x1234), BlendOne, BlendOne),
		NewBlend(BlendOpAdd, BlendFactor(0x0308), BlendOne),
	}
	for _, b := range tests {
		got, ok := b.EbitenBlend()
		if ok {
			t.Errorf("EbitenBlend(%v) ok, want unsupported", b)
		}
		if got != ebiten.BlendSourceOver {
			t.Errorf("fallback = %v, want source-over", got)
		}
	}
}
