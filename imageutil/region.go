package imageutil

import (
	"image"

	"github.com/xshoji/go-spot-diff/utils"
)

// BBox は領域を囲む軸平行の矩形（両端を含む）
type BBox struct {
	X1, Y1, X2, Y2 int
}

// Width は X2-X1 を返す
func (b BBox) Width() int { return b.X2 - b.X1 }

// Height は Y2-Y1 を返す
func (b BBox) Height() int { return b.Y2 - b.Y1 }

// Union は2つの矩形を包含する最小の矩形を返す
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X1: utils.Min(b.X1, o.X1),
		Y1: utils.Min(b.Y1, o.Y1),
		X2: utils.Max(b.X2, o.X2),
		Y2: utils.Max(b.Y2, o.Y2),
	}
}

// Centroid は実数座標の点
type Centroid struct {
	X, Y float64
}

// Region は連結した差分ピクセルの集まり
// 値として扱い、結合時は新しい Region を生成する
type Region struct {
	Pixels   []image.Point
	BBox     BBox
	Centroid Centroid // ピクセル座標の平均
	Adjusted Centroid // bboxサイズに比例して左上へ補正した重心
	Area     int
}

// newRegion はピクセル集合から bbox・重心・補正重心・面積を計算して Region を生成する
// pixels は空であってはならない
func newRegion(pixels []image.Point, shiftX, shiftY float64) Region {
	first := pixels[0]
	bbox := BBox{X1: first.X, Y1: first.Y, X2: first.X, Y2: first.Y}
	sumX, sumY := 0, 0

	for _, p := range pixels {
		bbox.X1 = utils.Min(bbox.X1, p.X)
		bbox.Y1 = utils.Min(bbox.Y1, p.Y)
		bbox.X2 = utils.Max(bbox.X2, p.X)
		bbox.Y2 = utils.Max(bbox.Y2, p.Y)
		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(pixels))
	raw := Centroid{X: float64(sumX) / n, Y: float64(sumY) / n}

	return Region{
		Pixels:   pixels,
		BBox:     bbox,
		Centroid: raw,
		Adjusted: adjustCentroid(raw, bbox, shiftX, shiftY),
		Area:     len(pixels),
	}
}

// adjustCentroid は色閾値による重心の偏りを補正するため、重心をbboxサイズに比例して左上へずらす
func adjustCentroid(c Centroid, bbox BBox, shiftX, shiftY float64) Centroid {
	return Centroid{
		X: c.X - shiftX*float64(bbox.Width()),
		Y: c.Y - shiftY*float64(bbox.Height()),
	}
}

// mergeRegions は2つの領域のピクセルを合わせた新しい領域を返す
// 重心は2つの重心の加重平均ではなく、合わせたピクセル全体の平均として再計算する
func mergeRegions(a, b Region, shiftX, shiftY float64) Region {
	pixels := make([]image.Point, 0, len(a.Pixels)+len(b.Pixels))
	pixels = append(pixels, a.Pixels...)
	pixels = append(pixels, b.Pixels...)
	return newRegion(pixels, shiftX, shiftY)
}
