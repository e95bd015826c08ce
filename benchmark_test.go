package aspen

import (
	"testing"
)

// setupBenchContext fills the screen batch with n sprites sharing one
// texture, spread over 100 depths.
func setupBenchContext(b *testing.B, n int) (*Context, *fakeDevice, []*Sprite) {
	b.Helper()
	ctx, dev := newTestContext(b)
	tex := newTestTexture(b, ctx, 32, 32)
	sprites := make([]*Sprite, n)
	for i := range sprites {
		s := newTestSprite(b, ctx, nil, WithTexture(tex), WithDepth(i%100))
		s.SetPosition(float64(i%100)*40, float64(i/100)*40)
		sprites[i] = s
	}
	return ctx, dev, sprites
}

func BenchmarkRender_10000Sprites_Static(b *testing.B) {
	ctx, dev, _ := setupBenchContext(b, 10000)
	ctx.Update(1.0 / 60)
	_ = ctx.Render(1) // warm up the sort buffer

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dev.reset()
		if err := ctx.Render(1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender_10000Sprites_DepthChurn(b *testing.B) {
	ctx, dev, sprites := setupBenchContext(b, 10000)
	_ = ctx.Render(1)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		// One depth change dirties the batch and forces a full resort.
		s := sprites[i%len(sprites)]
		s.SetDepth(s.Depth() + 1)
		dev.reset()
		if err := ctx.Render(1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUpdate_10000Sprites(b *testing.B) {
	ctx, _, sprites := setupBenchContext(b, 10000)
	for _, s := range sprites {
		s.SetVelocity(10, 5)
		s.Flash(ColorWhite, -1)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx.Update(1.0 / 60)
	}
}

func BenchmarkBatchResort_10000(b *testing.B) {
	ctx, _, _ := setupBenchContext(b, 10000)
	batch := ctx.Batch()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		batch.Invalidate()
		batch.resort()
	}
}

func BenchmarkViewport_NestedComposite(b *testing.B) {
	ctx, dev := newTestContext(b)
	tex := newTestTexture(b, ctx, 16, 16)
	outer, err := NewViewport(ctx, nil, WithBounds(0, 0, 320, 240))
	if err != nil {
		b.Fatal(err)
	}
	inner, err := NewViewport(ctx, nil, WithBounds(10, 10, 160, 120))
	if err != nil {
		b.Fatal(err)
	}
	if err := outer.Add(inner); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		newTestSprite(b, ctx, inner, WithTexture(tex), WithDepth(i))
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dev.reset()
		if err := ctx.Render(1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEmitter_1000Particles(b *testing.B) {
	ctx, dev := newTestContext(b)
	tex := newTestTexture(b, ctx, 4, 4)
	e, err := NewEmitter(ctx, nil, WithTexture(tex), WithEmitterConfig(EmitterConfig{
		MaxParticles: 1000,
		EmitRate:     1e6,
		Lifetime:     Range{Min: 100, Max: 100},
		Speed:        Range{Min: 10, Max: 50},
		Angle:        Range{Min: 0, Max: 6.28},
		StartScale:   Range{Min: 1, Max: 1},
		EndScale:     Range{Min: 1, Max: 1},
		StartAlpha:   Range{Min: 1, Max: 1},
		EndAlpha:     Range{Min: 1, Max: 1},
	}))
	if err != nil {
		b.Fatal(err)
	}
	e.Start()
	ctx.Update(1)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx.Update(1.0 / 60)
		dev.reset()
		if err := ctx.Render(1); err != nil {
			b.Fatal(err)
		}
	}
}
