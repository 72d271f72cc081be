package imageutil

import (
	"math"
	"sort"

	"github.com/xshoji/go-spot-diff/config"
)

// ReduceRegions は重心が最も近い2領域の結合を繰り返し、領域数を target 以下にする
// 入力が target 以下の場合は結合を行わない（面積順の並べ替えのみ）
// 入力スライスは変更しない
func ReduceRegions(regions []Region, target int, cfg *config.AppConfig) []Region {
	result := make([]Region, len(regions))
	copy(result, regions)

	// 面積の大きい順にソート（結合対象の選択には影響しない）
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Area > result[j].Area
	})

	for len(result) > target && len(result) > 1 {
		i, j := closestPair(result)
		merged := mergeRegions(result[i], result[j], cfg.ShiftXFactor, cfg.ShiftYFactor)

		result[i] = merged
		result = append(result[:j], result[j+1:]...)
	}

	return result
}

// closestPair は補正重心間のユークリッド距離が最小となるペア (i, j), i < j を返す
// 同距離の場合は行優先の走査で最初に見つかったペアを採用する
func closestPair(regions []Region) (int, int) {
	minDist := math.Inf(1)
	bestI, bestJ := 0, 1

	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			a, b := regions[i].Adjusted, regions[j].Adjusted
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d < minDist {
				minDist = d
				bestI, bestJ = i, j
			}
		}
	}

	return bestI, bestJ
}
