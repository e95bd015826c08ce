package aspen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a renderable simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenColor, ...) and call Update(dt) each frame. The group writes values
// through the renderable's setters, so clamping and normalization apply. If
// the target is disposed, the group stops immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(v *[4]float64)
	target Renderable
	Done   bool
}

func newTweenGroup(r Renderable, from, to []float64, duration float32, fn ease.TweenFunc, apply func(v *[4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: r, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target has been disposed, Done is set and nothing is
// written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.Disposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(&g.values)
	g.Done = allDone
}

// Reset rewinds every tween to its start.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates the position to (toX, toY).
func TweenPosition(r Renderable, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	x, y := c.Position()
	return newTweenGroup(r, []float64{x, y}, []float64{toX, toY}, duration, fn, func(v *[4]float64) {
		c.SetPosition(v[0], v[1])
	})
}

// TweenScale animates the scale factors to (toSX, toSY).
func TweenScale(r Renderable, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	sx, sy := c.Scale()
	return newTweenGroup(r, []float64{sx, sy}, []float64{toSX, toSY}, duration, fn, func(v *[4]float64) {
		c.SetScale(v[0], v[1])
	})
}

// TweenAngle animates the rotation to the given degrees around the current
// pivot.
func TweenAngle(r Renderable, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	return newTweenGroup(r, []float64{c.Angle()}, []float64{to}, duration, fn, func(v *[4]float64) {
		c.SetAngle(v[0])
	})
}

// TweenOpacity animates the opacity.
func TweenOpacity(r Renderable, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	return newTweenGroup(r, []float64{c.Opacity()}, []float64{to}, duration, fn, func(v *[4]float64) {
		c.SetOpacity(v[0])
	})
}

// TweenHue animates the hue rotation. to may lie outside [0, 360) to spin
// more than once; the stored value is normalized.
func TweenHue(r Renderable, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	return newTweenGroup(r, []float64{c.Hue()}, []float64{to}, duration, fn, func(v *[4]float64) {
		c.SetHue(v[0])
	})
}

// TweenColor animates all four components of the blend color.
func TweenColor(r Renderable, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	from := c.Color()
	return newTweenGroup(r,
		[]float64{from.R, from.G, from.B, from.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, fn, func(v *[4]float64) {
			c.SetColor(Color{v[0], v[1], v[2], v[3]})
		})
}

// TweenTone animates all four components of the tone.
func TweenTone(r Renderable, to Tone, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := r.core()
	from := c.Tone()
	return newTweenGroup(r,
		[]float64{from.R, from.G, from.B, from.Gray},
		[]float64{to.R, to.G, to.B, to.Gray},
		duration, fn, func(v *[4]float64) {
			c.SetTone(Tone{v[0], v[1], v[2], v[3]})
		})
}
