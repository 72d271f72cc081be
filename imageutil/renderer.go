package imageutil

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/xshoji/go-spot-diff/utils"
)

// RenderOptions はヒット円の描画設定
type RenderOptions struct {
	Color        color.RGBA // 円周の色
	Thickness    int        // 円周の太さ（ピクセル）
	Tint         bool       // 円の内側に色調を重ねるか
	TintStrength float64    // 色調の強さ (0.0～1.0)
}

// DefaultRenderOptions はデフォルトの描画設定を返す
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Color:        color.RGBA{255, 0, 0, 255},
		Thickness:    3,
		Tint:         true,
		TintStrength: 0.25,
	}
}

// RenderCircles はベース画像をコピーし、その上にヒット円を描画した画像を返す
func RenderCircles(base image.Image, circles []Circle, opts RenderOptions) *image.RGBA {
	b := base.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(result, result.Bounds(), base, b.Min, draw.Src)

	for _, c := range circles {
		drawCircle(result, c, opts)
	}
	return result
}

// drawCircle は円周を描画し、必要に応じて内側に色調を重ねる
func drawCircle(img *image.RGBA, c Circle, opts RenderOptions) {
	bounds := img.Bounds()
	thickness := utils.Max(1, opts.Thickness)
	outer := c.Radius * c.Radius
	innerR := utils.Max(0, c.Radius-thickness)
	inner := innerR * innerR

	minX := utils.Max(bounds.Min.X, c.X-c.Radius)
	maxX := utils.Min(bounds.Max.X-1, c.X+c.Radius)
	minY := utils.Max(bounds.Min.Y, c.Y-c.Radius)
	maxY := utils.Min(bounds.Max.Y-1, c.Y+c.Radius)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := x-c.X, y-c.Y
			d2 := dx*dx + dy*dy
			switch {
			case d2 > outer:
				continue
			case d2 > inner:
				img.SetRGBA(x, y, opts.Color)
			case opts.Tint:
				img.SetRGBA(x, y, blendColors(img.RGBAAt(x, y), opts.Color, opts.TintStrength))
			}
		}
	}
}
