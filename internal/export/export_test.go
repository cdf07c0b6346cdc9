package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"strings"
	"testing"

	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/engine"
)

func TestSVGSurfaceFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 3
	eng, err := engine.NewOffline(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	s := NewSVGSurface(cfg.Size)
	if err := eng.Frame(s); err != nil {
		t.Fatal(err)
	}
	snap := eng.Snapshot()
	if s.Polygons() != snap.VisibleFaces {
		t.Errorf("polygons = %d, visible faces = %d", s.Polygons(), snap.VisibleFaces)
	}
	doc := s.String()
	if !strings.HasPrefix(doc, "<?xml") || !strings.HasSuffix(doc, "</svg>") {
		t.Error("malformed document")
	}
	if got := strings.Count(doc, "<polygon"); got != 2*snap.VisibleFaces {
		t.Errorf("expected fill and stroke per face, got %d polygons", got)
	}
}

func TestSVGSurfaceClear(t *testing.T) {
	s := NewSVGSurface(100)
	s.Background = ""
	cfg := config.DefaultConfig()
	cfg.Size = 100
	eng, err := engine.NewOffline(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if err := eng.Frame(s); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if s.Polygons() != 0 || strings.Contains(s.String(), "<polygon") || strings.Contains(s.String(), "<rect") {
		t.Error("clear should drop recorded polygons")
	}
}

func TestEncodeGIF(t *testing.T) {
	var frames []image.Image
	for i := 0; i < 3; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		img.Set(i, i, color.NRGBA{255, 0, 0, 255})
		frames = append(frames, img)
	}
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, 2, nil); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 || anim.Delay[0] != 2 {
		t.Errorf("got %d frames, delay %d", len(anim.Image), anim.Delay[0])
	}
}

func TestEncodeGIFEmpty(t *testing.T) {
	if err := EncodeGIF(&bytes.Buffer{}, nil, 2, nil); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}
