package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxImageDimension bounds the longest side of a stored notice image.
const MaxImageDimension = 1600

// ExtractObjectPath extracts storage object path from full Firebase URL
func ExtractObjectPath(url string) (string, error) {
	const prefix = "https://storage.googleapis.com/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("invalid URL")
	}

	// Remove prefix and bucket name
	path := strings.TrimPrefix(url, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid URL format")
	}

	return parts[1], nil
}

// NormalizedImage is an upload re-encoded for storage.
type NormalizedImage struct {
	Data        []byte
	ContentType string
	Ext         string
}

// NormalizeImage decodes a png, jpeg, gif or webp upload, shrinks it so neither side exceeds
// MaxImageDimension and re-encodes it. PNG and GIF sources stay PNG to keep transparency;
// everything else becomes JPEG.
func NormalizeImage(raw []byte) (*NormalizedImage, error) {
	mime := http.DetectContentType(raw)

	var (
		img image.Image
		err error
	)
	switch mime {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(raw))
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(raw))
	case "image/gif":
		img, err = gif.Decode(bytes.NewReader(raw))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		return nil, errors.New("image must be png, jpeg, gif or webp")
	}
	if err != nil {
		return nil, errors.New("unable to decode image")
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.New("invalid image dimensions")
	}

	if w, h := fitWithin(bounds.Dx(), bounds.Dy(), MaxImageDimension); w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		img = dst
	}

	var out bytes.Buffer
	if mime == "image/png" || mime == "image/gif" {
		if err := png.Encode(&out, img); err != nil {
			return nil, err
		}
		return &NormalizedImage{Data: out.Bytes(), ContentType: "image/png", Ext: ".png"}, nil
	}

	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return &NormalizedImage{Data: out.Bytes(), ContentType: "image/jpeg", Ext: ".jpg"}, nil
}

// fitWithin scales (w, h) down to fit a limit x limit box, keeping the aspect ratio.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
