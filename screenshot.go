package aspen

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultScreenshotDir is where Game writes screenshots unless
// SetScreenshotDir says otherwise.
const defaultScreenshotDir = "screenshots"

// Screenshot queues a labeled capture of the next rendered frame. The PNG is
// written to the screenshot directory with a timestamped file name. Safe to
// call from the update callback.
func (g *Game) Screenshot(label string) {
	g.screenshots = append(g.screenshots, label)
}

// SetScreenshotDir sets the directory screenshots are written to.
func (g *Game) SetScreenshotDir(dir string) { g.screenshotDir = dir }

// flushScreenshots writes one PNG per queued label. Called at the end of
// Draw.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshots) == 0 {
		return
	}
	defer func() { g.screenshots = g.screenshots[:0] }()

	dir := g.screenshotDir
	if dir == "" {
		dir = defaultScreenshotDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Logger().Warn("screenshot", slog.String("dir", dir), slog.Any("err", err))
		return
	}
	img := readNRGBA(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range g.screenshots {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot", slog.Any("err", err))
			continue
		}
		Logger().Info("screenshot saved", slog.String("path", path))
	}
}

// SaveTexture writes the texture behind id to path as a PNG. Useful for
// inspecting a viewport's composited image.
func (d *EbitenDevice) SaveTexture(id uint32, path string) error {
	img := d.TextureImage(id)
	if img == nil {
		return invalidArgument("texture %d not found", id)
	}
	return writePNG(path, readNRGBA(img))
}

// readNRGBA reads back img and converts premultiplied RGBA to straight
// alpha.
func readNRGBA(img *ebiten.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.ReadPixels(out.Pix)
	unpremultiply(out.Pix)
	return out
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		pix[i] = uint8(min(int(pix[i])*255/a, 255))
		pix[i+1] = uint8(min(int(pix[i+1])*255/a, 255))
		pix[i+2] = uint8(min(int(pix[i+2])*255/a, 255))
	}
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
