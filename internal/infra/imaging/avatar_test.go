package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
)

func TestAvatar_CropsAndScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 800))
	for y := 0; y < 800; y++ {
		for x := 0; x < 1200; x++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var in bytes.Buffer
	if err := png.Encode(&in, src); err != nil {
		t.Fatal(err)
	}

	out, err := Avatar(&in)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != AvatarSize || cfg.Height != AvatarSize {
		t.Fatalf("expected %dx%d, got %dx%d", AvatarSize, AvatarSize, cfg.Width, cfg.Height)
	}
}

func TestAvatar_Rejects(t *testing.T) {
	_, err := Avatar(strings.NewReader("not an image"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCenterSquare(t *testing.T) {
	got := centerSquare(image.Rect(0, 0, 100, 300))
	if got != image.Rect(0, 100, 100, 200) {
		t.Fatalf("unexpected %v", got)
	}
}
