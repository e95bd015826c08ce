package aspen

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// particle is one slot of an emitter's pool. Offsets are relative to the
// emitter unless the config is world space.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64
	maxLife    float64
	startScale float32
	endScale   float32
	scale      float32
	startAlpha float32
	endAlpha   float32
	alpha      float32
	start      Color
	end        Color
	color      Color
}

// EmitterConfig is the simulation an Emitter runs. Ranges are sampled once
// per particle at spawn.
type EmitterConfig struct {
	MaxParticles int     // pool capacity, 128 when zero; spawns past it are skipped
	EmitRate     float64 // particles per second while active
	Lifetime     Range   // seconds; a non-positive sample lives one second
	Speed        Range   // pixels per second
	Angle        Range   // radians, 0 points along +X
	StartScale   Range
	EndScale     Range
	StartAlpha   Range // multiplied by the emitter opacity
	EndAlpha     Range
	Gravity      Vec2 // pixels per second squared

	// StartColor and EndColor are the blend color uniform at birth and death.
	// Their alpha sets how strongly the color replaces the texel.
	StartColor Color
	EndColor   Color

	// WorldSpace leaves particles where they spawned when the emitter moves.
	WorldSpace bool
}

// Emitter is a CPU particle system. Every live particle is drawn as one
// quad of the emitter's texture through the same effect shader as other
// renderables; the emitter's opacity multiplies each particle's alpha.
type Emitter struct {
	RenderableCore
	texture   *Texture
	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float64
	active    bool
}

// NewEmitter creates a stopped emitter attached to parent (nil for the
// screen batch). WithEmitterConfig sets the simulation; WithTexture and
// WithSource choose the particle image.
func NewEmitter(ctx *Context, parent Parent, opts ...Option) (*Emitter, error) {
	o := buildOptions(opts)
	if o.texture != nil && o.texture.Disposed() {
		return nil, disposedError("texture")
	}
	var cfg EmitterConfig
	if o.emitter != nil {
		cfg = *o.emitter
	}
	if cfg.MaxParticles < 0 || cfg.EmitRate < 0 {
		return nil, invalidArgument("emitter pool %d rate %v", cfg.MaxParticles, cfg.EmitRate)
	}
	n := cfg.MaxParticles
	if n == 0 {
		n = 128
	}
	e := &Emitter{
		texture:   o.texture,
		config:    cfg,
		particles: make([]particle, n),
	}
	if err := e.init(ctx, e, KindEmitter, parent, o); err != nil {
		return nil, err
	}
	if e.texture != nil {
		src := e.texture.Rect()
		if o.source != nil {
			src = *o.source
		}
		e.setSource(src)
	}
	return e, nil
}

// setSource sizes the particle quad and maps the texture coordinates.
func (e *Emitter) setSource(r Rect) {
	e.setSize(float64(r.Width), float64(r.Height))
	tw, th := float32(e.texture.width), float32(e.texture.height)
	l, t := float32(r.X)/tw, float32(r.Y)/th
	e.setUV(l, t, l+float32(r.Width)/tw, t+float32(r.Height)/th)
}

// Start begins emitting particles.
func (e *Emitter) Start() {
	e.active = true
}

// Stop stops emitting new particles. Existing particles continue to live out.
func (e *Emitter) Stop() {
	e.active = false
}

// Reset stops emitting and kills all alive particles.
func (e *Emitter) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// Active reports whether the emitter is currently emitting new particles.
func (e *Emitter) Active() bool {
	return e.active
}

// AliveCount returns the number of alive particles.
func (e *Emitter) AliveCount() int {
	return e.alive
}

// Config returns a pointer to the emitter's config for live tuning.
func (e *Emitter) Config() *EmitterConfig {
	return &e.config
}

// Texture returns the particle texture, or nil.
func (e *Emitter) Texture() *Texture { return e.texture }

// Update advances the transform, the flash and the particle simulation.
func (e *Emitter) Update(ctx *Context, dt float64) {
	e.RenderableCore.Update(ctx, dt)
	e.simulate(dt)
}

// simulate ages the pool by dt seconds, then spawns whatever the emit rate
// has accumulated.
func (e *Emitter) simulate(dt float64) {
	e.age(dt)
	if !e.active || e.config.EmitRate <= 0 {
		return
	}
	e.emitAccum += e.config.EmitRate * dt
	for ; e.emitAccum >= 1; e.emitAccum-- {
		if e.alive < len(e.particles) {
			e.spawn()
		}
	}
}

// age moves and fades live particles. The pool stays packed in
// particles[:alive]; an expired slot takes the last live particle.
func (e *Emitter) age(dt float64) {
	gx, gy := e.config.Gravity.X*dt, e.config.Gravity.Y*dt
	for i := 0; i < e.alive; {
		p := &e.particles[i]
		if p.life -= dt; p.life <= 0 {
			e.alive--
			*p = e.particles[e.alive]
			continue
		}
		p.vx, p.vy = p.vx+gx, p.vy+gy
		p.x, p.y = p.x+p.vx*dt, p.y+p.vy*dt

		t := 1 - p.life/p.maxLife
		p.scale = lerp32(p.startScale, p.endScale, float32(t))
		p.alpha = lerp32(p.startAlpha, p.endAlpha, float32(t))
		p.color = lerpColor(p.start, p.end, t)
		i++
	}
}

// spawn fills the first free slot from the config.
func (e *Emitter) spawn() {
	cfg := &e.config
	life := cfg.Lifetime.Random()
	if life <= 0 {
		life = 1
	}
	angle, speed := cfg.Angle.Random(), cfg.Speed.Random()
	p := particle{
		vx:         math.Cos(angle) * speed,
		vy:         math.Sin(angle) * speed,
		life:       life,
		maxLife:    life,
		startScale: float32(cfg.StartScale.Random()),
		endScale:   float32(cfg.EndScale.Random()),
		startAlpha: float32(cfg.StartAlpha.Random()),
		endAlpha:   float32(cfg.EndAlpha.Random()),
		start:      cfg.StartColor,
		end:        cfg.EndColor,
		color:      cfg.StartColor,
	}
	p.scale, p.alpha = p.startScale, p.startAlpha
	if cfg.WorldSpace {
		p.x, p.y = e.Position()
	}
	e.particles[e.alive] = p
	e.alive++
}

// Render draws every live particle. The emitter's model matrix is replaced
// per particle by a translation to the particle centre and a scale to its
// size.
func (e *Emitter) Render(ctx *Context, _ float64) error {
	if e.texture == nil || e.alive == 0 {
		return nil
	}
	ok, err := e.begin(ctx, e.texture)
	if err != nil || !ok {
		return err
	}
	if err := e.texture.bind(ctx, WrapClamp); err != nil {
		return err
	}
	dev, sh := ctx.dev, ctx.shader
	ox, oy := e.Position()
	if e.config.WorldSpace {
		ox, oy = 0, 0
	}
	sx, sy := e.Scale()
	w := float64(e.size.X()) * sx
	h := float64(e.size.Y()) * sy
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		pw, ph := w*float64(p.scale), h*float64(p.scale)
		m := mgl32.Translate3D(float32(ox+p.x-pw/2), float32(oy+p.y-ph/2), 0).
			Mul4(mgl32.Scale3D(float32(pw), float32(ph), 1))
		dev.UniformMatrix4(sh.model, m)
		dev.Uniform4(sh.color, p.color.Vec4())
		dev.Uniform1(sh.opacity, float32(e.opacity)*p.alpha)
		e.draw(ctx)
	}
	return nil
}

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpColor(a, b Color, t float64) Color {
	return Color{lerp(a.R, b.R, t), lerp(a.G, b.G, t), lerp(a.B, b.B, t), lerp(a.A, b.A, t)}
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
