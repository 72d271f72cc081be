package imageutil

import (
	"math"

	"github.com/xshoji/go-spot-diff/config"
	"github.com/xshoji/go-spot-diff/utils"
)

// Circle はヒット判定用の円（整数ピクセル座標）
type Circle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// Contains は点 (px, py) が円の内側（境界を含む）にあるかを判定する
func (c Circle) Contains(px, py int) bool {
	dx, dy := px-c.X, py-c.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// CircleFromRegion は領域から円を生成する
// 半径は bbox の長辺の半分に余白を足した値、中心は補正重心を四捨五入した座標
func CircleFromRegion(r Region, margin int) Circle {
	longSide := utils.Max(r.BBox.Width(), r.BBox.Height())
	radius := int(float64(longSide)/2 + float64(margin))
	if radius < 1 {
		radius = 1
	}
	return Circle{
		X:      utils.Round(r.Adjusted.X),
		Y:      utils.Round(r.Adjusted.Y),
		Radius: radius,
	}
}

// CirclesFromRegions は領域の順序を保ったまま円に変換する
func CirclesFromRegions(regions []Region, margin int) []Circle {
	circles := make([]Circle, 0, len(regions))
	for _, r := range regions {
		circles = append(circles, CircleFromRegion(r, margin))
	}
	return circles
}

// ResolveOverlaps は大きさが十分に異なる円同士の重なりを、小さい方の円を押し出すことで減らす
// 全ペアの走査を最大 MaxIter 回繰り返し、移動が発生しなかった時点で終了する
// 大きさの近い円同士は動かさない。全ての重なりが解消される保証はない
// 入力スライスは変更しない
func ResolveOverlaps(circles []Circle, width, height int, cfg *config.AppConfig) []Circle {
	result := make([]Circle, len(circles))
	for i, c := range circles {
		result[i] = clampCircle(c, width, height)
	}

	for iter := 0; iter < cfg.MaxIter; iter++ {
		moved := false

		for i := 0; i < len(result); i++ {
			for j := 0; j < len(result); j++ {
				if i == j {
					continue
				}
				if pushApart(result, i, j, width, height, cfg) {
					moved = true
				}
			}
		}

		if !moved {
			break
		}
	}

	return result
}

// pushApart はペア (i, j) が押し出し条件を満たす場合に小さい方の円を移動し、移動したかどうかを返す
func pushApart(circles []Circle, i, j, width, height int, cfg *config.AppConfig) bool {
	a, b := circles[i], circles[j]

	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	d := math.Hypot(dx, dy)
	if d == 0 {
		// 中心が一致する場合は固定の方向へずらす
		dx, dy, d = 1, 0, 1
	}

	overlap := float64(a.Radius+b.Radius) - d
	if overlap <= float64(cfg.OverlapMin) {
		return false
	}

	// 大きさの近い円同士は動かさない
	larger := utils.Max(a.Radius, b.Radius)
	smaller := utils.Min(a.Radius, b.Radius)
	if float64(larger) <= float64(smaller)*cfg.SizeRatio {
		return false
	}

	// 大きい円の中心から小さい円の中心へ向かう単位ベクトル
	ux, uy := dx/d, dy/d
	small := j
	if a.Radius < b.Radius {
		small = i
		ux, uy = -ux, -uy
	}

	push := overlap + float64(cfg.OverlapClearance)
	c := circles[small]
	moved := clampCircle(Circle{
		X:      utils.Round(float64(c.X) + ux*push),
		Y:      utils.Round(float64(c.Y) + uy*push),
		Radius: c.Radius,
	}, width, height)

	if moved == c {
		return false
	}
	circles[small] = moved
	return true
}

// clampCircle は円全体が画像内に収まるように中心座標を制限する
func clampCircle(c Circle, width, height int) Circle {
	c.X = clampAxis(c.X, c.Radius, width)
	c.Y = clampAxis(c.Y, c.Radius, height)
	return c
}

// clampAxis は v を [r, dim-r-1] に制限する
// 円が画像より大きく範囲が空の場合は下限 r を返す
func clampAxis(v, r, dim int) int {
	hi := dim - r - 1
	if hi < r {
		return r
	}
	return utils.Clamp(v, r, hi)
}
