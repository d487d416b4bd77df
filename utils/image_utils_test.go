package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestExtractObjectPathValid(t *testing.T) {
	path, err := ExtractObjectPath("https://storage.googleapis.com/my-bucket/notices/image.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if path != "notices/image.jpg" {
		t.Errorf("expected 'notices/image.jpg', got '%s'", path)
	}
}

func TestExtractObjectPathInvalidPrefix(t *testing.T) {
	_, err := ExtractObjectPath("https://example.com/my-bucket/notices/image.jpg")
	if err == nil {
		t.Fatal("expected error for invalid prefix")
	}
}

func TestExtractObjectPathNoBucketSeparator(t *testing.T) {
	_, err := ExtractObjectPath("https://storage.googleapis.com/nobucket")
	if err == nil {
		t.Fatal("expected error for no bucket separator")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNormalizeImageDownscalesLargePNG(t *testing.T) {
	out, err := NormalizeImage(encodePNG(t, 3200, 800))
	if err != nil {
		t.Fatal(err)
	}
	if out.ContentType != "image/png" || out.Ext != ".png" {
		t.Errorf("expected png output, got %s %s", out.ContentType, out.Ext)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1600 || cfg.Height != 400 {
		t.Errorf("expected 1600x400, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeImageKeepsSmallJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	out, err := NormalizeImage(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if out.ContentType != "image/jpeg" {
		t.Errorf("expected jpeg output, got %s", out.ContentType)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("expected 40x30, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeImageRejectsNonImage(t *testing.T) {
	if _, err := NormalizeImage([]byte("%PDF-1.4 not an image")); err == nil {
		t.Fatal("expected error for non-image payload")
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct{ w, h, ww, wh int }{
		{800, 600, 800, 600},
		{3200, 1600, 1600, 800},
		{1000, 4000, 400, 1600},
	}
	for _, c := range cases {
		w, h := fitWithin(c.w, c.h, 1600)
		if w != c.ww || h != c.wh {
			t.Errorf("fitWithin(%d,%d) = %dx%d, want %dx%d", c.w, c.h, w, h, c.ww, c.wh)
		}
	}
}
