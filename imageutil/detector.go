package imageutil

import (
	"image"

	"github.com/xshoji/go-spot-diff/config"
)

// 8近傍のオフセット
var neighbors8 = [8]image.Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// DetectRegions はマスクの8連結成分を検出し、面積が MinArea 以上のものを返す
// 走査は行優先で、返される順序は各成分の最初のピクセルの出現順
func DetectRegions(mask *Mask, cfg *config.AppConfig) []Region {
	visited := make([]bool, mask.Width*mask.Height)
	var regions []Region

	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			idx := y*mask.Width + x
			if mask.Pix[idx] == maskOff || visited[idx] {
				continue
			}

			pixels := floodFill(mask, visited, x, y)
			if len(pixels) < cfg.MinArea {
				continue
			}
			regions = append(regions, newRegion(pixels, cfg.ShiftXFactor, cfg.ShiftYFactor))
		}
	}

	return regions
}

// floodFill はスタックを用いて (startX, startY) から8方向に連結した差分ピクセルを集める
// 各ピクセルはスタックに積む時点で訪問済みにするため、一度しか処理されない
func floodFill(mask *Mask, visited []bool, startX, startY int) []image.Point {
	w, h := mask.Width, mask.Height
	visited[startY*w+startX] = true
	stack := []image.Point{{X: startX, Y: startY}}
	var pixels []image.Point

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pixels = append(pixels, p)

		for _, d := range neighbors8 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			idx := ny*w + nx
			if mask.Pix[idx] == maskOff || visited[idx] {
				continue
			}
			visited[idx] = true
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}

	return pixels
}
