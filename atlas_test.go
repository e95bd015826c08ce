package aspen

import (
	"slices"
	"testing"
)

const hashAtlasJSON = `{
	"frames": {
		"hero": {
			"frame": {"x": 0, "y": 0, "w": 32, "h": 48},
			"rotated": false,
			"trimmed": true,
			"spriteSourceSize": {"x": 2, "y": 1, "w": 32, "h": 48},
			"sourceSize": {"w": 36, "h": 50}
		},
		"coin": {
			"frame": {"x": 32, "y": 0, "w": 16, "h": 16},
			"rotated": true,
			"spriteSourceSize": {"x": 0, "y": 0, "w": 16, "h": 16},
			"sourceSize": {"w": 16, "h": 16}
		}
	}
}`

const arrayAtlasJSON = `{
	"textures": [
		{"image": "a.png", "frames": {"one": {"frame": {"x": 0, "y": 0, "w": 8, "h": 8}, "sourceSize": {"w": 8, "h": 8}}}},
		{"image": "b.png", "frames": {"two": {"frame": {"x": 8, "y": 8, "w": 4, "h": 4}, "sourceSize": {"w": 4, "h": 4}}}}
	]
}`

func TestLoadAtlasHashFormat(t *testing.T) {
	ctx, _ := newTestContext(t)
	page := newTestTexture(t, ctx, 64, 64)
	a, err := LoadAtlas([]byte(hashAtlasJSON), []*Texture{page})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
	if got := a.Names(); !slices.Equal(got, []string{"coin", "hero"}) {
		t.Errorf("Names = %v, want [coin hero]", got)
	}

	hero, ok := a.Region("hero")
	if !ok {
		t.Fatal("hero missing")
	}
	want := AtlasRegion{Page: 0, Rect: Rect{0, 0, 32, 48}, Original: Size{36, 50}, Offset: Point{2, 1}}
	if hero != want {
		t.Errorf("hero = %+v, want %+v", hero, want)
	}
	if coin, _ := a.Region("coin"); !coin.Rotated {
		t.Error("coin.Rotated = false, want true")
	}
	if _, ok := a.Region("missing"); ok {
		t.Error("Region(missing) ok")
	}
}

func TestLoadAtlasArrayFormat(t *testing.T) {
	ctx, _ := newTestContext(t)
	p0 := newTestTexture(t, ctx, 16, 16)
	p1 := newTestTexture(t, ctx, 16, 16)
	a, err := LoadAtlas([]byte(arrayAtlasJSON), []*Texture{p0, p1})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	two, _ := a.Region("two")
	if two.Page != 1 || two.Rect != (Rect{8, 8, 4, 4}) {
		t.Errorf("two = %+v, want page 1 at 8,8", two)
	}
	if a.Page(1) != p1 || a.Page(2) != nil {
		t.Error("Page lookup wrong")
	}
}

func TestLoadAtlasErrors(t *testing.T) {
	ctx, _ := newTestContext(t)
	page := newTestTexture(t, ctx, 16, 16)

	if _, err := LoadAtlas([]byte("{"), []*Texture{page}); err == nil {
		t.Error("malformed JSON accepted")
	}
	_, err := LoadAtlas([]byte(`{"meta": {}}`), []*Texture{page})
	assertErrorIs(t, "no frames", err, ErrInvalidArgument)
	_, err = LoadAtlas([]byte(arrayAtlasJSON), []*Texture{page})
	assertErrorIs(t, "missing page", err, ErrInvalidArgument)
}

func TestAtlasNewSprite(t *testing.T) {
	ctx, _ := newTestContext(t)
	page := newTestTexture(t, ctx, 64, 64)
	a, err := LoadAtlas([]byte(hashAtlasJSON), []*Texture{page})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	s, err := a.NewSprite(ctx, nil, "hero", WithDepth(3))
	if err != nil {
		t.Fatalf("NewSprite: %v", err)
	}
	if s.Size() != (Size{32, 48}) || s.Texture() != page || s.Depth() != 3 {
		t.Errorf("sprite = size %v texture %p depth %d, want hero region", s.Size(), s.Texture(), s.Depth())
	}

	_, err = a.NewSprite(ctx, nil, "villain")
	assertErrorIs(t, "unknown region", err, ErrInvalidArgument)
}
