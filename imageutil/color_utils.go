package imageutil

import (
	"image"
	"image/color"

	"github.com/xshoji/go-spot-diff/config"
	"github.com/xshoji/go-spot-diff/utils"
)

// toNRGBA は任意の画像を原点基準の *image.NRGBA に変換する
// 乗算済みアルファを経由せず画素ごとに変換するので、透明な画素も元のRGBを保つ
// アルファは保持するが、比較にはRGBのみを使う
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return dst
}

// DiffImage は2枚の画像のチャンネルごとの絶対差を画素値とする画像を生成する
// 画像サイズが異なる場合は *DimensionMismatchError を返す
func DiffImage(source, target image.Image) (*image.NRGBA, error) {
	sizeA := source.Bounds().Size()
	sizeB := target.Bounds().Size()
	if sizeA != sizeB {
		return nil, &DimensionMismatchError{Source: sizeA, Target: sizeB}
	}

	a := toNRGBA(source)
	b := toNRGBA(target)
	diff := image.NewNRGBA(image.Rect(0, 0, sizeA.X, sizeA.Y))

	for y := 0; y < sizeA.Y; y++ {
		for x := 0; x < sizeA.X; x++ {
			ia := a.PixOffset(x, y)
			ib := b.PixOffset(x, y)
			id := diff.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				diff.Pix[id+c] = uint8(utils.AbsDiff(uint32(a.Pix[ia+c]), uint32(b.Pix[ib+c])))
			}
			diff.Pix[id+3] = 0xff
		}
	}
	return diff, nil
}

// isSignificant は差分の色が「意図された差分」とみなせるかを判定する
// 緑または青が一定以上で、かつ赤より十分に大きい場合に真となる
func isSignificant(r, g, b uint8, cfg *config.AppConfig) bool {
	ri, gi, bi := int(r), int(g), int(b)
	isGreen := gi >= cfg.GreenThreshold && gi-ri > cfg.DominanceDelta
	isBlue := bi >= cfg.BlueThreshold && bi-ri > cfg.DominanceDelta
	return isGreen || isBlue
}

// blendColors は背景色に色調を混合する
// strength: 色調の強さ (0.0=背景のまま、1.0=色調のみ)
func blendColors(dst color.Color, tint color.RGBA, strength float64) color.RGBA {
	strength = utils.ClampFloat64(strength, 0.0, 1.0)
	dr, dg, db, da := dst.RGBA()

	// 上位8ビットを取得（0-255の範囲に変換）
	dr8, dg8, db8, da8 := float64(dr>>8), float64(dg>>8), float64(db>>8), uint8(da>>8)

	r := uint8(dr8*(1-strength) + float64(tint.R)*strength)
	g := uint8(dg8*(1-strength) + float64(tint.G)*strength)
	b := uint8(db8*(1-strength) + float64(tint.B)*strength)

	// アルファは大きい方を採用
	a := uint8(utils.Max(int(da8), int(tint.A)))

	return color.RGBA{r, g, b, a}
}
