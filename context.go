package aspen

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ObjectID identifies a renderable inside its Context. IDs are never reused.
type ObjectID uint32

// BatchID identifies a Batch inside its Context. IDs are never reused.
type BatchID uint32

// renderState is the process-wide GPU state a viewport pass must put back.
type renderState struct {
	framebuffer uint32
	viewport    Rect
	projection  mgl32.Mat4
	clearColor  Color
}

// Context owns the GPU device, the default sprite shader, the screen batch
// and the arena that maps IDs to live renderables and batches. Every
// Update and Render call receives it explicitly.
//
// A Context is not safe for concurrent use; drive it from the goroutine that
// owns the GPU context.
type Context struct {
	dev    Device
	cfg    Config
	shader *Shader
	screen *Batch

	objects    map[ObjectID]Renderable
	batches    map[BatchID]*Batch
	nextObject ObjectID
	nextBatch  BatchID

	state            renderState
	window           Rect // letterboxed screen viewport in window pixels
	windowSize       Size // last size passed to Reshape
	screenProjection mgl32.Mat4
	backColor        Color
	camera           *Camera

	frame    uint64
	debug    bool
	stats    debugStats
	disposed bool
}

// NewContext compiles the default shader, creates the screen batch and sets
// the screen projection to the configured internal resolution.
func NewContext(dev Device, cfg Config) (*Context, error) {
	if dev == nil {
		return nil, invalidArgument("nil device")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, h := float32(cfg.Width), float32(cfg.Height)
	c := &Context{
		dev:              dev,
		cfg:              cfg,
		objects:          make(map[ObjectID]Renderable),
		batches:          make(map[BatchID]*Batch),
		window:           Rect{0, 0, cfg.Width, cfg.Height},
		windowSize:       cfg.Resolution(),
		screenProjection: mgl32.Ortho(0, w, h, 0, -1, 1),
		backColor:        cfg.BackColor,
		debug:            cfg.Debug,
	}
	shader, err := NewShader(c, dev.DefaultShaderSource())
	if err != nil {
		return nil, err
	}
	c.shader = shader
	c.screen = c.NewBatch()

	c.bindFramebuffer(0)
	c.setViewport(c.window)
	c.setProjection(c.screenProjection)
	c.setClearColor(c.backColor)

	Logger().Info("context created",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Bool("debug", cfg.Debug))
	return c, nil
}

// Device returns the backend.
func (c *Context) Device() Device { return c.dev }

// Config returns the configuration the context was created with.
func (c *Context) Config() Config { return c.cfg }

// Shader returns the default sprite shader.
func (c *Context) Shader() *Shader { return c.shader }

// Batch returns the default screen batch. Renderables created without a
// parent land here.
func (c *Context) Batch() *Batch { return c.screen }

// Resolution returns the internal resolution.
func (c *Context) Resolution() Size { return c.cfg.Resolution() }

// Window returns the letterboxed screen viewport set by Reshape.
func (c *Context) Window() Rect { return c.window }

// FrameCount returns the number of Render calls so far.
func (c *Context) FrameCount() uint64 { return c.frame }

// BackColor returns the screen clear color.
func (c *Context) BackColor() Color { return c.backColor }

// SetBackColor sets the screen clear color used by the next Render.
func (c *Context) SetBackColor(col Color) { c.backColor = col }

// Framebuffer returns the currently bound framebuffer; 0 is the screen.
func (c *Context) Framebuffer() uint32 { return c.state.framebuffer }

// ViewportRect returns the current viewport rectangle.
func (c *Context) ViewportRect() Rect { return c.state.viewport }

// Projection returns the current projection matrix.
func (c *Context) Projection() mgl32.Mat4 { return c.state.projection }

// ClearColor returns the current clear color.
func (c *Context) ClearColor() Color { return c.state.clearColor }

// ScreenProjection returns the orthographic projection used for the screen.
func (c *Context) ScreenProjection() mgl32.Mat4 { return c.screenProjection }

// Lookup resolves an ObjectID. ok is false once the object is disposed.
func (c *Context) Lookup(id ObjectID) (Renderable, bool) {
	r, ok := c.objects[id]
	return r, ok
}

// LookupBatch resolves a BatchID. ok is false once the batch is disposed.
func (c *Context) LookupBatch(id BatchID) (*Batch, bool) {
	b, ok := c.batches[id]
	return b, ok
}

// NewBatch creates an empty batch that is not drawn by Render until its
// owner renders it.
func (c *Context) NewBatch() *Batch {
	c.nextBatch++
	b := &Batch{ctx: c, id: c.nextBatch}
	c.batches[b.id] = b
	return b
}

// Update advances every renderable in the screen batch by dt seconds.
// Viewports update their own batches in turn.
func (c *Context) Update(dt float64) {
	if c.disposed {
		return
	}
	if c.camera != nil {
		c.camera.Update(dt)
	}
	c.screen.Update(dt)
}

// Camera returns the screen camera, or nil.
func (c *Context) Camera() *Camera { return c.camera }

// SetCamera moves the view of the screen batch. nil removes the camera.
func (c *Context) SetCamera(cam *Camera) {
	if cam != nil {
		cam.attach(c.cfg.Width, c.cfg.Height)
	}
	c.camera = cam
}

// Render clears the screen with the back color and draws the screen batch.
// alpha is the interpolation factor between the last two updates.
func (c *Context) Render(alpha float64) error {
	if c.disposed {
		return disposedError("context")
	}
	c.frame++
	var start time.Time
	if c.debug {
		c.stats.reset()
		start = time.Now()
	}

	c.bindFramebuffer(0)
	c.setViewport(c.window)
	c.setClearColor(c.backColor)
	c.dev.Clear()
	c.setProjection(c.screenView())
	if err := c.shader.Use(); err != nil {
		return err
	}

	err := c.screen.Render(alpha)

	if c.debug {
		c.stats.renderTime = time.Since(start)
		c.debugLog()
	}
	return err
}

// Reshape fits the internal resolution into a window of the given size,
// keeping the aspect ratio and centring the picture with bars on the
// remaining sides. Sizes and margins are rounded to whole pixels.
func (c *Context) Reshape(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.windowSize = Size{width, height}
	res := c.Resolution()
	scale := min(float64(width)/float64(res.Width), float64(height)/float64(res.Height))
	w := math.Round(float64(res.Width) * scale)
	h := math.Round(float64(res.Height) * scale)
	c.window = Rect{
		X:      int(math.Round((float64(width) - w) / 2)),
		Y:      int(math.Round((float64(height) - h) / 2)),
		Width:  int(w),
		Height: int(h),
	}
	if c.state.framebuffer == 0 {
		c.setViewport(c.window)
	}
}

// SetResolution changes the internal resolution. The screen projection is
// rebuilt, the screen camera is resized and the letterbox is recomputed
// for the last window size.
func (c *Context) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return invalidArgument("resolution %dx%d", width, height)
	}
	c.cfg.Width, c.cfg.Height = width, height
	c.screenProjection = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	if c.camera != nil {
		c.camera.attach(width, height)
	}
	if c.state.framebuffer == 0 {
		c.setProjection(c.screenView())
	}
	c.Reshape(c.windowSize.Width, c.windowSize.Height)
	Logger().Debug("resolution changed", slog.Int("width", width), slog.Int("height", height))
	return nil
}

// screenView is the screen projection with the camera applied.
func (c *Context) screenView() mgl32.Mat4 {
	if c.camera == nil {
		return c.screenProjection
	}
	return c.screenProjection.Mul4(c.camera.View())
}

// Project runs fn with the projection temporarily replaced by m.
func (c *Context) Project(m mgl32.Mat4, fn func() error) error {
	prev := c.state.projection
	c.setProjection(m)
	defer c.setProjection(prev)
	return fn()
}

// Dispose releases every renderable, batch and the default shader. Calling
// it again is a no-op.
func (c *Context) Dispose() {
	if c.disposed {
		return
	}
	ids := make([]ObjectID, 0, len(c.objects))
	for id := range c.objects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if r, ok := c.objects[id]; ok {
			r.Dispose()
		}
	}
	for _, b := range c.batches {
		b.Dispose()
	}
	c.shader.Dispose()
	c.disposed = true
}

// --- arena ---

func (c *Context) register(r Renderable) ObjectID {
	c.nextObject++
	c.objects[c.nextObject] = r
	return c.nextObject
}

func (c *Context) unregister(id ObjectID) {
	delete(c.objects, id)
}

// --- state ---

func (c *Context) saveState() renderState { return c.state }

func (c *Context) restoreState(s renderState) {
	c.bindFramebuffer(s.framebuffer)
	c.setViewport(s.viewport)
	c.setProjection(s.projection)
	c.setClearColor(s.clearColor)
}

func (c *Context) bindFramebuffer(id uint32) {
	c.state.framebuffer = id
	c.dev.BindFramebuffer(id)
}

func (c *Context) setViewport(r Rect) {
	c.state.viewport = r
	c.dev.Viewport(r)
}

func (c *Context) setProjection(m mgl32.Mat4) {
	c.state.projection = m
	c.dev.Projection(m)
}

func (c *Context) setClearColor(col Color) {
	c.state.clearColor = col
	c.dev.ClearColor(col)
}
