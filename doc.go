// Package aspen is a retained-mode 2D scene graph with a batched render
// pipeline.
//
// A [Context] owns a graphics [Device], the effect [Shader] and an arena of
// renderables addressed by [ObjectID]. Renderables live in a [Batch]; each
// frame the batch updates its members in insertion order and draws them in
// ascending depth, resorting only when a depth or membership change made it
// dirty.
//
// # Quick start
//
// [NewGame] creates an ebiten-backed device and a context, and [Run] opens
// the window:
//
//	game, err := aspen.NewGame(aspen.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := game.Context()
//	tex, _ := aspen.NewTextureFromImage(ctx, img)
//	hero, _ := aspen.NewSprite(ctx, nil, aspen.WithTexture(tex))
//	hero.SetPosition(100, 50)
//	log.Fatal(aspen.Run(game))
//
// The glbackend package provides a Device for an OpenGL 4.1 core context, for
// programs that manage their own window and loop.
//
// # Renderables
//
// The drawable variants are [Sprite], [AtlasSprite], [Plane], [Viewport] and
// [Emitter]. They share [RenderableCore]: transform, opacity, color, tone,
// hue, flash, blend, flip and depth.
//
// Constructors take a [Parent]: nil for the context's screen batch, a
// [*Batch], or a [*Viewport] for that viewport's contents. A viewport cannot
// be created with another viewport as its parent; add it to the other
// viewport's batch with [Batch.Add] instead.
//
//	ui, _ := aspen.NewViewport(ctx, nil, aspen.WithBounds(0, 0, 200, 150))
//	icon, _ := aspen.NewSprite(ctx, ui, aspen.WithTexture(tex))
//
// # Viewports
//
// A [Viewport] renders its batch into an off-screen texture, then draws that
// texture as a quad in its enclosing target. The framebuffer, viewport
// rectangle, projection and clear color are restored afterwards, even when a
// member fails to render.
//
// # Resources
//
// GPU objects are released exactly once by Dispose. Rendering a disposed
// renderable returns [ErrDisposedResource]; invalid arguments and hierarchy
// violations return [ErrInvalidArgument] and [ErrInvalidHierarchy]. Match
// them with errors.Is.
//
// # Logging
//
// Diagnostics go through [Logger], a [log/slog] logger that discards
// everything until [SetLogger] installs one.
package aspen
