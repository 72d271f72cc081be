package imageutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/xshoji/go-spot-diff/config"
)

// createTestImageWithPattern は指定されたパターンでテスト画像を作成する
func createTestImageWithPattern(width, height int, background color.RGBA, pattern func(x, y int) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if pattern != nil {
				img.SetRGBA(x, y, pattern(x, y))
			} else {
				img.SetRGBA(x, y, background)
			}
		}
	}
	return img
}

func TestDetectRegions(t *testing.T) {
	cfg := config.NewDefaultConfig()

	t.Run("空のマスク", func(t *testing.T) {
		if regions := DetectRegions(NewMask(30, 30), cfg); len(regions) != 0 {
			t.Errorf("expected no regions, got %d", len(regions))
		}
	})

	t.Run("最小面積未満の塊は除外", func(t *testing.T) {
		m := NewMask(30, 30)
		fillMask(m, 5, 5, 12, 12) // 8x8 = 64 < 80
		if regions := DetectRegions(m, cfg); len(regions) != 0 {
			t.Errorf("expected blob of area 64 to be discarded, got %d regions", len(regions))
		}
	})

	t.Run("最小面積以上の塊は1領域", func(t *testing.T) {
		m := NewMask(30, 30)
		fillMask(m, 5, 6, 13, 14) // 9x9 = 81
		m.Set(14, 15)             // 斜めに接続した1ピクセル

		regions := DetectRegions(m, cfg)
		if len(regions) != 1 {
			t.Fatalf("expected exactly 1 region, got %d", len(regions))
		}
		r := regions[0]
		if r.Area != 82 {
			t.Errorf("Area = %d, want 82", r.Area)
		}
		if len(r.Pixels) != r.Area {
			t.Errorf("len(Pixels) = %d, Area = %d", len(r.Pixels), r.Area)
		}
		want := BBox{X1: 5, Y1: 6, X2: 14, Y2: 15}
		if r.BBox != want {
			t.Errorf("BBox = %+v, want %+v", r.BBox, want)
		}

		seen := make(map[image.Point]bool)
		for _, p := range r.Pixels {
			if seen[p] {
				t.Fatalf("pixel %v collected twice", p)
			}
			seen[p] = true
			if m.At(p.X, p.Y) == 0 {
				t.Fatalf("pixel %v is not part of the mask", p)
			}
		}
	})

	t.Run("8連結で斜めのピクセルもつながる", func(t *testing.T) {
		small := config.NewDefaultConfig()
		small.MinArea = 1

		m := NewMask(10, 10)
		for i := 0; i < 5; i++ {
			m.Set(i, i)
		}
		m.Set(8, 1)

		regions := DetectRegions(m, small)
		if len(regions) != 2 {
			t.Fatalf("expected 2 regions, got %d", len(regions))
		}
		// 行優先走査のため (0,0) を含む対角線が先に見つかる
		if regions[0].Area != 5 || regions[1].Area != 1 {
			t.Errorf("unexpected areas %d, %d", regions[0].Area, regions[1].Area)
		}
	})

	t.Run("重心と補正重心", func(t *testing.T) {
		m := NewMask(40, 40)
		fillMask(m, 10, 20, 19, 29) // 10x10, bbox幅・高さ9

		regions := DetectRegions(m, cfg)
		if len(regions) != 1 {
			t.Fatalf("expected 1 region, got %d", len(regions))
		}
		r := regions[0]
		if !almostEqual(r.Centroid.X, 14.5) || !almostEqual(r.Centroid.Y, 24.5) {
			t.Errorf("Centroid = %+v, want (14.5, 24.5)", r.Centroid)
		}
		wantX := 14.5 - 0.08*9
		wantY := 24.5 - 0.06*9
		if !almostEqual(r.Adjusted.X, wantX) || !almostEqual(r.Adjusted.Y, wantY) {
			t.Errorf("Adjusted = %+v, want (%f, %f)", r.Adjusted, wantX, wantY)
		}
	})

	t.Run("画像の端に接する塊", func(t *testing.T) {
		small := config.NewDefaultConfig()
		small.MinArea = 1

		m := NewMask(6, 6)
		fillMask(m, 0, 0, 5, 0)
		fillMask(m, 5, 0, 5, 5)

		regions := DetectRegions(m, small)
		if len(regions) != 1 || regions[0].Area != 11 {
			t.Fatalf("expected one region of area 11, got %d regions", len(regions))
		}
		if regions[0].BBox != (BBox{0, 0, 5, 5}) {
			t.Errorf("BBox = %+v", regions[0].BBox)
		}
	})
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
