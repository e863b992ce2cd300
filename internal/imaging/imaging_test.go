package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{200, 120, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func TestProcessJPEG(t *testing.T) {
	photo, err := NewProcessor().Process(bytes.NewReader(encodeJPEG(100, 80)))
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 100 || photo.Height != 80 {
		t.Errorf("expected 100x80, got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	photo, err := NewProcessor().Process(bytes.NewReader(encodePNG(64, 64)))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if _, format, err := image.Decode(bytes.NewReader(photo.Data)); err != nil || format != "jpeg" {
		t.Errorf("expected decodable jpeg, got %q (%v)", format, err)
	}
}

func TestProcessDownscalesKeepingAspect(t *testing.T) {
	p := NewProcessor()
	p.MaxDimension = 200

	photo, err := p.Process(bytes.NewReader(encodeJPEG(800, 400)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if photo.Width != 200 || photo.Height != 100 {
		t.Errorf("expected 200x100, got %dx%d", photo.Width, photo.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("encoded image is %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessRejectsUnsupported(t *testing.T) {
	p := NewProcessor()

	for _, data := range [][]byte{[]byte("not an image"), []byte("GIF89a......")} {
		_, err := p.Process(bytes.NewReader(data))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected unsupported format for %q, got %v", data, err)
		}
	}
}

func TestProcessRejectsOversized(t *testing.T) {
	p := NewProcessor()
	p.MaxBytes = 100

	if _, err := p.Process(bytes.NewReader(encodeJPEG(50, 50))); err == nil {
		t.Error("expected error for oversized upload")
	}
}
