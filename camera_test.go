package aspen

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

const cameraEpsilon = 1e-3

func TestNewCameraIsIdentity(t *testing.T) {
	cam := NewCamera(640, 480)
	if !cam.View().ApproxEqualThreshold(mgl32.Ident4(), 1e-5) {
		t.Errorf("View = %v, want identity", cam.View())
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	cam := NewCamera(640, 480)
	cam.X, cam.Y = 100, 100
	cam.Zoom = 2

	tests := []struct {
		wx, wy, sx, sy float64
	}{
		{100, 100, 320, 240},
		{110, 100, 340, 240},
		{100, 90, 320, 220},
	}
	for _, tt := range tests {
		sx, sy := cam.WorldToScreen(tt.wx, tt.wy)
		if math.Abs(sx-tt.sx) > cameraEpsilon || math.Abs(sy-tt.sy) > cameraEpsilon {
			t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)", tt.wx, tt.wy, sx, sy, tt.sx, tt.sy)
		}
		wx, wy := cam.ScreenToWorld(tt.sx, tt.sy)
		if math.Abs(wx-tt.wx) > cameraEpsilon || math.Abs(wy-tt.wy) > cameraEpsilon {
			t.Errorf("ScreenToWorld(%v, %v) = (%v, %v), want (%v, %v)", tt.sx, tt.sy, wx, wy, tt.wx, tt.wy)
		}
	}
}

func TestCameraVisibleBounds(t *testing.T) {
	cam := NewCamera(640, 480)
	if got, want := cam.VisibleBounds(), (Rect{0, 0, 640, 480}); got != want {
		t.Errorf("VisibleBounds = %v, want %v", got, want)
	}
	cam.Zoom = 2
	if got, want := cam.VisibleBounds(), (Rect{160, 120, 320, 240}); got != want {
		t.Errorf("zoomed VisibleBounds = %v, want %v", got, want)
	}
}

func TestCameraBounds(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.SetBounds(Rect{0, 0, 1000, 500})

	cam.X, cam.Y = -50, 900
	cam.Update(0)
	if cam.X != 50 || cam.Y != 450 {
		t.Errorf("clamped = (%v, %v), want (50, 450)", cam.X, cam.Y)
	}

	cam.SetBounds(Rect{0, 0, 40, 40})
	cam.ClampToBounds()
	if cam.X != 20 || cam.Y != 20 {
		t.Errorf("small bounds = (%v, %v), want centred (20, 20)", cam.X, cam.Y)
	}

	cam.ClearBounds()
	cam.X = -500
	cam.Update(0)
	if cam.X != -500 {
		t.Errorf("X = %v after ClearBounds, want -500", cam.X)
	}
}

func TestCameraFollow(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := newTestSprite(t, ctx, nil)
	s.SetPosition(200, 100)
	cam := NewCamera(640, 480)
	ctx.SetCamera(cam)

	cam.Follow(s, 10, -10, 1)
	ctx.Update(0)
	if cam.X != 210 || cam.Y != 90 {
		t.Errorf("snap follow = (%v, %v), want (210, 90)", cam.X, cam.Y)
	}

	cam.Follow(s, 0, 0, 0.5)
	s.SetPosition(310, 90)
	ctx.Update(0)
	if math.Abs(cam.X-260) > 1e-9 || math.Abs(cam.Y-90) > 1e-9 {
		t.Errorf("lerp follow = (%v, %v), want (260, 90)", cam.X, cam.Y)
	}

	s.Dispose()
	ctx.Update(0)
	cam.X = 0
	ctx.Update(0)
	if cam.X != 0 {
		t.Error("camera kept following a disposed renderable")
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(640, 480)
	cam.ScrollTo(400, 300, 1, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}
	cam.Update(0.5)
	cam.Update(0.5)
	if cam.Scrolling() {
		t.Error("Scrolling = true after the duration")
	}
	if math.Abs(cam.X-400) > 0.01 || math.Abs(cam.Y-300) > 0.01 {
		t.Errorf("position = (%v, %v), want (400, 300)", cam.X, cam.Y)
	}
}
