package imageutil

import (
	"fmt"
	"image"
)

// ImageLoadError は画像ファイルが存在しない・読めない・デコードできない場合のエラー
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError は比較する2枚の画像サイズが異なる場合のエラー
type DimensionMismatchError struct {
	Source image.Point
	Target image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("image dimensions do not match: source %dx%d, target %dx%d",
		e.Source.X, e.Source.Y, e.Target.X, e.Target.Y)
}

// InsufficientRegionsWarning は検出された領域数が目標数に満たないことを表す
// エラーではなく、Result.Warning として報告される
type InsufficientRegionsWarning struct {
	Detected int
	Target   int
}

func (w *InsufficientRegionsWarning) Error() string {
	return fmt.Sprintf("only %d regions detected, fewer than the target %d", w.Detected, w.Target)
}
