// Package corona is the display layer of a retained-mode 2D runtime built on
// [Ebitengine].
//
// It maps a fixed logical content area onto whatever surface the platform
// provides, keeps a tree of display objects, plays sprite sequences from image
// sheets, and captures rendered content back into bitmaps or files.
//
// # Quick start
//
// [Run] creates a window and game loop for a [Display]:
//
//	cfg, _ := corona.LoadConfig("config.toml")
//	d := corona.NewDisplay(corona.Options{
//		Renderer: corona.NewEbitenRenderer(),
//		Surface:  corona.NewEbitenSurface(960, 540),
//		Config:   cfg,
//	})
//	d.NewRect(nil, 100, 100, 40, 40)
//	corona.Run(d, corona.RunConfig{Title: "Game", Width: 960, Height: 540})
//
// For full control, implement [ebiten.Game] yourself, call [Display.Initialize]
// once, [Display.Update] every tick and [Display.Render] every draw after
// binding the screen with [EbitenSurface.Bind].
//
// # Content scaling
//
// [ContentTransform] picks the largest integer content-to-screen scale for
// which the content size fits the configured minimum and maximum, centering
// the scaled content inside the surface. [ContentTransform.ContentToScreen]
// and [ContentTransform.ScreenToContent] convert between the two spaces.
//
// # Display objects
//
// Every visual element is an [Object]. Groups hold children; rectangles,
// images and sprites are leaves. Children inherit their parent's transform
// and alpha. Removed objects wait in the scene's orphanage until
// [Display.Collect] disposes them.
//
// # Sprites
//
// A [SpriteSequence] describes frames of an [ImageSheet] with uniform or
// per-frame timing and a loop count. [SpritePlayer] advances playing sprites
// each frame and dispatches [SpriteEvent]s.
//
// # Capture
//
// [Display.CaptureScreen], [Display.CaptureBounds] and
// [Display.CaptureDisplayObject] render offscreen at device resolution and
// read the pixels back; [Display.Save] writes them as PNG, JPEG or BMP.
//
// Tweens (via [gween]) animate object fields, and the ecs sub-module forwards
// display events into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package corona
