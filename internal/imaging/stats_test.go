package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-filters-mcp/internal/raster"
)

func TestSummarize_Flat(t *testing.T) {
	r, err := raster.Fill(4, 5, 0, 128, 255)
	if err != nil {
		t.Fatal(err)
	}

	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Width != 5 || s.Height != 4 {
		t.Errorf("dimensions: got %dx%d, want 5x4", s.Width, s.Height)
	}
	if len(s.Channels) != 3 {
		t.Fatalf("channels: got %d, want 3", len(s.Channels))
	}

	want := []struct {
		name string
		mean float64
	}{
		{"blue", 0},
		{"green", 128},
		{"red", 255},
	}
	for i, w := range want {
		c := s.Channels[i]
		if c.Name != w.name || c.Mean != w.mean || c.StdDev != 0 {
			t.Errorf("channel %d: got %+v, want name=%s mean=%v stddev=0", i, c, w.name, w.mean)
		}
	}

	// mean color is red=255, green=128, blue=0
	if s.MeanHex != "#ff8000" {
		t.Errorf("MeanHex: got %s, want #ff8000", s.MeanHex)
	}
}

func TestSummarize_Gray(t *testing.T) {
	r, err := raster.New(1, 2, raster.Gray)
	if err != nil {
		t.Fatal(err)
	}
	r.Pix[0], r.Pix[1] = 0, 255

	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	c := s.Channels[0]
	if c.Name != "gray" || c.Min != 0 || c.Max != 255 || c.Mean != 127.5 {
		t.Errorf("unexpected gray stats: %+v", c)
	}
}

func TestSummarize_SinglePixel(t *testing.T) {
	r, err := raster.Fill(1, 1, 9)
	if err != nil {
		t.Fatal(err)
	}
	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Channels[0].StdDev != 0 {
		t.Errorf("StdDev of one sample: got %v, want 0", s.Channels[0].StdDev)
	}
}

func TestSummarize_Invalid(t *testing.T) {
	if _, err := Summarize(&raster.Raster{}); err == nil {
		t.Error("Summarize should fail for an empty raster")
	}
}

func TestCompare(t *testing.T) {
	a, _ := raster.Fill(2, 2, 100, 100, 100)
	b := a.Clone()
	b.Set(0, 0, 0, 110)
	b.Set(1, 1, 2, 90)

	d, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if d.PixelsChanged != 2 || d.TotalPixels != 4 {
		t.Errorf("changed: got %d/%d, want 2/4", d.PixelsChanged, d.TotalPixels)
	}
	if d.ChangedPercent != 50 {
		t.Errorf("ChangedPercent: got %v, want 50", d.ChangedPercent)
	}
	// 20 total difference over 12 samples
	if d.MeanAbsDiff != 1.67 {
		t.Errorf("MeanAbsDiff: got %v, want 1.67", d.MeanAbsDiff)
	}
}

func TestCompare_ShapeMismatch(t *testing.T) {
	a, _ := raster.Fill(2, 2, 1, 2, 3)
	b, _ := raster.Fill(2, 2, 1)
	if _, err := Compare(a, b); err == nil {
		t.Error("Compare should fail when channel counts differ")
	}
}

func TestPreview(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}

	tests := []struct {
		name          string
		maxSize       int
		width, height int
	}{
		{"downscale", 100, 100, 50},
		{"no enlarge", 1000, 400, 200},
		{"original", 0, 400, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Preview(img, tt.maxSize)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if p.Width != tt.width || p.Height != tt.height {
				t.Errorf("size: got %dx%d, want %dx%d", p.Width, p.Height, tt.width, tt.height)
			}
			if p.MimeType != "image/png" || p.ImageBase64 == "" {
				t.Errorf("unexpected encoding: %s, %d bytes", p.MimeType, len(p.ImageBase64))
			}
		})
	}
}
