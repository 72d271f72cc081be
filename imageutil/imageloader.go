package imageutil

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// LoadImage 指定されたパスから画像を読み込む
// 失敗した場合は *ImageLoadError を返す
func LoadImage(filePath string) (image.Image, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &ImageLoadError{Path: filePath, Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	var img image.Image
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	case ".bmp":
		img, err = bmp.Decode(file)
	case ".tif", ".tiff":
		img, err = tiff.Decode(file)
	case ".webp":
		img, err = webp.Decode(file)
	default:
		return nil, &ImageLoadError{Path: filePath, Err: fmt.Errorf("unsupported image format: %s", ext)}
	}

	if err != nil {
		return nil, &ImageLoadError{Path: filePath, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	return img, nil
}

// SaveDiffImage 差分画像をファイルに保存する
func SaveDiffImage(img image.Image, outputPath string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("saving image", zap.String("path", outputPath))
	startTime := time.Now()

	ext := strings.ToLower(filepath.Ext(outputPath))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported output format: %s", ext)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	var saveErr error
	switch ext {
	case ".png":
		logger.Debug("encoding as PNG")
		saveErr = png.Encode(file, img)
	default:
		logger.Debug("encoding as JPEG", zap.Int("quality", 90))
		saveErr = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	}

	if saveErr != nil {
		return fmt.Errorf("failed to save image: %w", saveErr)
	}

	logger.Info("image saved",
		zap.String("path", outputPath),
		zap.Float64("elapsed_sec", time.Since(startTime).Seconds()))
	return nil
}
