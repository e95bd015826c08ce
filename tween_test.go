package aspen

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	s.SetPosition(10, 20)

	g := TweenPosition(s, 100, 200, 1.0, ease.Linear)
	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if s.X() != 100 || s.Y() != 200 {
		t.Errorf("position = (%d, %d), want (100, 200)", s.X(), s.Y())
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)

	g := TweenScale(s, 2.0, 3.0, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	sx, sy := s.Scale()
	if math.Abs(sx-2) > 0.01 || math.Abs(sy-3) > 0.01 {
		t.Errorf("scale = (%v, %v), want (2, 3)", sx, sy)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	s.SetColor(Color{R: 1, G: 0, B: 0, A: 1})
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(s, target, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	got := s.Color()
	for i, pair := range [][2]float64{{got.R, target.R}, {got.G, target.G}, {got.B, target.B}, {got.A, target.A}} {
		if math.Abs(pair[0]-pair[1]) > 0.01 {
			t.Errorf("component %d = %v, want %v", i, pair[0], pair[1])
		}
	}
}

func TestTweenToneReachesTarget(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	g := TweenTone(s, Tone{R: -0.5, Gray: 1}, 1.0, ease.Linear)
	g.Update(1)
	if got := s.Tone(); math.Abs(got.R+0.5) > 0.01 || math.Abs(got.Gray-1) > 0.01 {
		t.Errorf("tone = %+v, want R -0.5 gray 1", got)
	}
}

func TestTweenOpacityInterpolates(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)

	g := TweenOpacity(s, 0, 1.0, ease.Linear)
	g.Update(0.5)
	if g.Done {
		t.Fatal("should not be done at halfway")
	}
	if math.Abs(s.Opacity()-0.5) > 0.05 {
		t.Errorf("Opacity = %v, want ~0.5 at halfway", s.Opacity())
	}
	g.Update(0.5)
	if !g.Done || s.Opacity() > 0.01 {
		t.Errorf("Done = %v Opacity = %v, want done at 0", g.Done, s.Opacity())
	}
}

func TestTweenWritesThroughSetters(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)

	TweenOpacity(s, 2, 1, ease.Linear).Update(1)
	if s.Opacity() != 1 {
		t.Errorf("Opacity = %v, want clamped to 1", s.Opacity())
	}

	TweenHue(s, 370, 1, ease.Linear).Update(1)
	if math.Abs(s.Hue()-10) > 0.01 {
		t.Errorf("Hue = %v, want 10", s.Hue())
	}
}

func TestTweenAngleReachesTarget(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	g := TweenAngle(s, 90, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)
	if math.Abs(s.Angle()-90) > 0.05 {
		t.Errorf("Angle = %v, want 90", s.Angle())
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	g := TweenPosition(s, 50, 50, 0.5, ease.Linear)

	if g.Done {
		t.Fatal("should not be Done at start")
	}
	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}
	g.Update(0.25)
	if !g.Done {
		t.Fatal("should be Done after full duration")
	}
	g.Update(0.1)
	if !g.Done {
		t.Fatal("should remain Done")
	}

	g.Reset()
	if g.Done {
		t.Fatal("Reset left Done set")
	}
}

func TestTweenGroupStopsOnDisposedTarget(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	s.SetPosition(10, 20)
	g := TweenPosition(s, 100, 200, 1.0, ease.Linear)

	g.Update(0.1)
	s.Dispose()
	x, y := s.Position()

	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done after the target was disposed")
	}
	if nx, ny := s.Position(); nx != x || ny != y {
		t.Error("disposed target was written")
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := newTestSprite(t, ctx, nil)
	b := newTestSprite(t, ctx, nil)

	TweenPosition(a, 100, 0, 1.0, ease.Linear).Update(0.5)
	TweenPosition(b, 100, 0, 1.0, ease.OutCubic).Update(0.5)

	ax, _ := a.Position()
	bx, _ := b.Position()
	if math.Abs(ax-bx) < 1 {
		t.Errorf("easing curves should differ at midpoint: linear=%v cubic=%v", ax, bx)
	}
}

func TestTweenGroupUpdateZeroAlloc(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	g := TweenPosition(s, 100, 100, 1.0, ease.Linear)
	g.Update(0.01)

	allocs := testing.AllocsPerRun(100, func() {
		g.Update(0.001)
	})
	if allocs > 0 {
		t.Errorf("TweenGroup.Update allocated %v times per run, want 0", allocs)
	}
}
