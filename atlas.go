package aspen

import (
	"encoding/json"
	"fmt"
	"slices"
)

// AtlasRegion is a named sub-rectangle of one atlas page.
type AtlasRegion struct {
	Page     int   // index into the pages passed to LoadAtlas
	Rect     Rect  // location on the page
	Original Size  // untrimmed size as authored
	Offset   Point // trim offset inside Original
	Rotated  bool  // stored 90 degrees clockwise on the page
}

// Atlas maps region names to rectangles on one or more textures.
type Atlas struct {
	pages   []*Texture
	regions map[string]AtlasRegion
}

// LoadAtlas parses TexturePacker JSON and associates the given page
// textures. Both the hash format (single "frames" object) and the array
// format ("textures" array with per-page frame lists) are accepted.
func LoadAtlas(jsonData []byte, pages []*Texture) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("parse atlas: %w", err)
	}

	a := &Atlas{pages: pages, regions: make(map[string]AtlasRegion)}
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			a.addFrames(tex.Frames, i)
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("parse atlas frames: %w", err)
		}
		a.addFrames(frames, 0)
	default:
		return nil, invalidArgument("atlas JSON has neither \"frames\" nor \"textures\"")
	}

	for name, r := range a.regions {
		if r.Page >= len(pages) || pages[r.Page] == nil {
			return nil, invalidArgument("atlas region %q is on page %d, have %d pages", name, r.Page, len(pages))
		}
	}
	return a, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page int) {
	for name, f := range frames {
		a.regions[name] = AtlasRegion{
			Page:     page,
			Rect:     Rect{f.Frame.X, f.Frame.Y, f.Frame.W, f.Frame.H},
			Original: Size{f.SourceSize.W, f.SourceSize.H},
			Offset:   Point{f.SpriteSourceSize.X, f.SpriteSourceSize.Y},
			Rotated:  f.Rotated,
		}
	}
}

// Region looks up a region by name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Page returns the texture for page i, or nil.
func (a *Atlas) Page(i int) *Texture {
	if i < 0 || i >= len(a.pages) {
		return nil
	}
	return a.pages[i]
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// NewSprite creates a sprite showing the named region. opts are applied
// after the region's texture and source, so WithDepth and WithBlend work as
// usual. An unknown name returns ErrInvalidArgument.
func (a *Atlas) NewSprite(ctx *Context, parent Parent, name string, opts ...Option) (*Sprite, error) {
	r, ok := a.regions[name]
	if !ok {
		return nil, invalidArgument("atlas region %q not found", name)
	}
	all := append([]Option{WithTexture(a.pages[r.Page]), WithSource(r.Rect)}, opts...)
	return NewSprite(ctx, parent, all...)
}
