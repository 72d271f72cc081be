package tui

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/xshoji/go-spot-diff/utils"
)

const (
	panelGap    = 1 // 左右パネルの間の列数
	reservedRow = 2 // ステータス行とヘルプ行
)

// layout は画像を端末のセルに割り当てるための配置情報
// 1セルは横 scale ピクセル、縦 2*scale ピクセル（上下半分ずつ）を表す
type layout struct {
	cols   int     // パネル1枚あたりの列数
	rows   int     // パネルの行数
	scale  float64 // 1セル（横）あたりの画像ピクセル数
	leftX  int     // 左パネルの開始列
	rightX int     // 右パネルの開始列
	top    int     // パネルの開始行
}

// computeLayout は画像サイズと端末サイズから、2枚の画像を横に並べる配置を計算する
func computeLayout(imgW, imgH, screenW, screenH int) layout {
	availCols := utils.Max(1, (screenW-panelGap)/2)
	availRows := utils.Max(1, screenH-reservedRow)

	scale := math.Max(float64(imgW)/float64(availCols), float64(imgH)/float64(2*availRows))
	if scale <= 0 {
		scale = 1
	}

	cols := utils.Clamp(int(math.Ceil(float64(imgW)/scale)), 1, availCols)
	rows := utils.Clamp(int(math.Ceil(float64(imgH)/(2*scale))), 1, availRows)

	return layout{
		cols:   cols,
		rows:   rows,
		scale:  scale,
		leftX:  0,
		rightX: cols + panelGap,
		top:    0,
	}
}

// panelAt は画面上のセル (col, row) がどちらのパネルに属するかと、対応する画像ピクセル座標を返す
// panel は 0=左、1=右。どちらにも属さない場合 ok=false
func (l layout) panelAt(col, row, imgW, imgH int) (panel, x, y int, ok bool) {
	if row < l.top || row >= l.top+l.rows {
		return 0, 0, 0, false
	}

	switch {
	case col >= l.leftX && col < l.leftX+l.cols:
		panel = 0
		col -= l.leftX
	case col >= l.rightX && col < l.rightX+l.cols:
		panel = 1
		col -= l.rightX
	default:
		return 0, 0, 0, false
	}

	// セルの中心に当たるピクセル
	x = int((float64(col) + 0.5) * l.scale)
	y = int((float64(row-l.top) + 0.5) * 2 * l.scale)
	if x >= imgW || y >= imgH {
		return 0, 0, 0, false
	}
	return panel, x, y, true
}

// scalePanel は画像をパネルのサイズ（cols × 2*rows ピクセル）に縮小・拡大する
func (l layout) scalePanel(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, l.cols, 2*l.rows))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
