package imageutil

import (
	"image"

	"github.com/xshoji/go-spot-diff/config"
)

const (
	maskOn  uint8 = 255
	maskOff uint8 = 0
)

// Mask は差分ピクセルを表す2値マスク（0 または 255）
// Pix は行優先 (y*Width+x) のフラットな配列
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask は全ピクセルが0のマスクを生成する
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At は (x, y) の値を返す。範囲外は背景（0）として扱う
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return maskOff
	}
	return m.Pix[y*m.Width+x]
}

// Set は (x, y) を差分ピクセルとしてマークする
func (m *Mask) Set(x, y int) {
	m.Pix[y*m.Width+x] = maskOn
}

// Count はマークされたピクセル数を返す
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != maskOff {
			n++
		}
	}
	return n
}

// Image はマスクをグレースケール画像に変換する
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(img.Pix, m.Pix)
	return img
}

// BuildMask は差分画像から有意な差分ピクセルのマスクを生成し、クロージング処理を適用する
func BuildMask(diff *image.NRGBA, cfg *config.AppConfig) *Mask {
	b := diff.Bounds()
	mask := NewMask(b.Dx(), b.Dy())

	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			i := diff.PixOffset(b.Min.X+x, b.Min.Y+y)
			if isSignificant(diff.Pix[i], diff.Pix[i+1], diff.Pix[i+2], cfg) {
				mask.Set(x, y)
			}
		}
	}

	// 膨張（最大値フィルタ）で隙間を埋めた後、小さめの窓で収縮（最小値フィルタ）して輪郭を戻す
	mask = rankFilter(mask, cfg.DilationSize, true)
	mask = rankFilter(mask, cfg.ErosionSize, false)
	return mask
}

// rankFilter は size×size の正方窓で最大値（pickMax）または最小値フィルタを適用する
// 正方窓のmax/minは横方向と縦方向の1次元フィルタに分解できる
// size が1以下の場合は何もしない
func rankFilter(m *Mask, size int, pickMax bool) *Mask {
	if size <= 1 {
		return m
	}
	half := size / 2

	pick := func(acc, v uint8) uint8 {
		if pickMax {
			if v > acc {
				return v
			}
			return acc
		}
		if v < acc {
			return v
		}
		return acc
	}
	initial := maskOff
	if !pickMax {
		initial = maskOn
	}

	// 横方向
	tmp := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			acc := initial
			for k := -half; k <= half; k++ {
				acc = pick(acc, m.At(x+k, y))
			}
			tmp.Pix[y*m.Width+x] = acc
		}
	}

	// 縦方向
	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			acc := initial
			for k := -half; k <= half; k++ {
				acc = pick(acc, tmp.At(x, y+k))
			}
			out.Pix[y*m.Width+x] = acc
		}
	}
	return out
}
