package imageutil

import (
	"image"
	"image/color"
	"testing"
)

func TestRenderCircles(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	red := color.RGBA{255, 0, 0, 255}
	base := createTestImageWithPattern(100, 100, white, nil)
	circles := []Circle{
		{X: 50, Y: 50, Radius: 20},
		{X: 2, Y: 2, Radius: 10}, // 画像からはみ出す円
	}

	t.Run("円周と色調", func(t *testing.T) {
		img := RenderCircles(base, circles, DefaultRenderOptions())

		if img.Bounds() != image.Rect(0, 0, 100, 100) {
			t.Fatalf("unexpected bounds %v", img.Bounds())
		}
		// 円周上は赤
		for _, p := range []image.Point{{50, 30}, {70, 50}, {50, 68}} {
			if got := img.RGBAAt(p.X, p.Y); got != red {
				t.Errorf("expected red at %v, got %v", p, got)
			}
		}
		// 内側は赤みがかる
		center := img.RGBAAt(50, 50)
		if center.R != 255 || center.G != 191 || center.B != 191 {
			t.Errorf("expected tinted center (255,191,191), got %v", center)
		}
		// 円の外は元の色のまま
		if got := img.RGBAAt(90, 90); got != white {
			t.Errorf("expected white outside circles, got %v", got)
		}
		// ベース画像は変更されない
		if got := base.RGBAAt(50, 30); got != white {
			t.Errorf("base image was modified")
		}
	})

	t.Run("色調なし", func(t *testing.T) {
		opts := DefaultRenderOptions()
		opts.Tint = false
		img := RenderCircles(base, circles, opts)
		if got := img.RGBAAt(50, 50); got != white {
			t.Errorf("expected untouched center, got %v", got)
		}
	})
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		name     string
		dst      color.Color
		tint     color.RGBA
		strength float64
		want     color.RGBA
	}{
		{"強さ0は背景のまま", color.RGBA{10, 20, 30, 255}, color.RGBA{255, 0, 0, 255}, 0, color.RGBA{10, 20, 30, 255}},
		{"強さ1は色調のみ", color.RGBA{10, 20, 30, 255}, color.RGBA{255, 0, 0, 255}, 1, color.RGBA{255, 0, 0, 255}},
		{"半分", color.RGBA{0, 0, 0, 255}, color.RGBA{200, 100, 50, 255}, 0.5, color.RGBA{100, 50, 25, 255}},
		{"範囲外の強さは制限", color.RGBA{0, 0, 0, 255}, color.RGBA{200, 100, 50, 255}, 3, color.RGBA{200, 100, 50, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blendColors(tt.dst, tt.tint, tt.strength); got != tt.want {
				t.Errorf("blendColors() = %v, want %v", got, tt.want)
			}
		})
	}
}
