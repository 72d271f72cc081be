package imageutil

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/xshoji/go-spot-diff/config"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

// imageWithBlobs は黒背景に緑の正方形（size×size）を描いた画像を作成する
func imageWithBlobs(width, height, size int, origins ...image.Point) *image.RGBA {
	return createTestImageWithPattern(width, height, black, func(x, y int) color.RGBA {
		for _, o := range origins {
			if x >= o.X && x < o.X+size && y >= o.Y && y < o.Y+size {
				return green
			}
		}
		return black
	})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("同一画像", func(t *testing.T) {
		analyzer := NewAnalyzer(config.NewDefaultConfig(), zap.NewNop())
		img := generateTestImageData()

		result, err := analyzer.Analyze(ctx, img, img)
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if result.Mask.Count() != 0 {
			t.Errorf("expected empty mask, got %d", result.Mask.Count())
		}
		if len(result.Regions) != 0 || len(result.Circles) != 0 {
			t.Errorf("expected no regions/circles, got %d/%d", len(result.Regions), len(result.Circles))
		}
		var warn *InsufficientRegionsWarning
		if !errors.As(result.Warning, &warn) || warn.Detected != 0 || warn.Target != 7 {
			t.Errorf("expected InsufficientRegionsWarning{0, 7}, got %v", result.Warning)
		}
	})

	t.Run("画像サイズの不一致", func(t *testing.T) {
		analyzer := NewAnalyzer(config.NewDefaultConfig(), nil)
		a := createTestImageWithPattern(200, 100, black, nil)
		b := createTestImageWithPattern(100, 200, black, nil)

		_, err := analyzer.Analyze(ctx, a, b)
		var mismatch *DimensionMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected DimensionMismatchError, got %v", err)
		}
		if mismatch.Source != image.Pt(200, 100) || mismatch.Target != image.Pt(100, 200) {
			t.Errorf("unexpected sizes in error: %+v", mismatch)
		}
	})

	t.Run("2つの緑の塊", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		analyzer := NewAnalyzer(cfg, zap.NewNop())
		blobs := []image.Point{{10, 10}, {150, 10}}
		source := createTestImageWithPattern(200, 100, black, nil)
		target := imageWithBlobs(200, 100, 10, blobs...)

		result, err := analyzer.Analyze(ctx, source, target)
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if result.Detected != 2 || len(result.Regions) != 2 || len(result.Circles) != 2 {
			t.Fatalf("expected 2 regions and circles, got detected=%d regions=%d circles=%d",
				result.Detected, len(result.Regions), len(result.Circles))
		}

		for i, o := range blobs {
			r := result.Regions[i]
			if r.Adjusted.X >= r.Centroid.X || r.Adjusted.Y >= r.Centroid.Y {
				t.Errorf("region %d: adjusted centroid %+v should be up-left of %+v", i, r.Adjusted, r.Centroid)
			}
			c := result.Circles[i]
			if c.X < o.X || c.X > o.X+9 || c.Y < o.Y || c.Y > o.Y+9 {
				t.Errorf("circle %d center (%d,%d) is outside blob %v-%v", i, c.X, c.Y, o, o.Add(image.Pt(9, 9)))
			}
			if c.Radius != 17 {
				t.Errorf("circle %d radius = %d, want 17", i, c.Radius)
			}
		}

		var warn *InsufficientRegionsWarning
		if !errors.As(result.Warning, &warn) || warn.Detected != 2 {
			t.Errorf("expected InsufficientRegionsWarning for 2 regions, got %v", result.Warning)
		}
	})

	t.Run("9つの塊を7つに削減", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		analyzer := NewAnalyzer(cfg, zap.NewNop())
		var blobs []image.Point
		for _, y := range []int{20, 120, 220} {
			for _, x := range []int{20, 120, 220} {
				blobs = append(blobs, image.Pt(x, y))
			}
		}
		source := createTestImageWithPattern(300, 300, black, nil)
		target := imageWithBlobs(300, 300, 10, blobs...)

		result, err := analyzer.Analyze(ctx, source, target)
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if result.Detected != 9 {
			t.Fatalf("expected 9 detected regions, got %d", result.Detected)
		}
		if len(result.Regions) != 7 || len(result.Circles) != 7 {
			t.Fatalf("expected 7 regions/circles, got %d/%d", len(result.Regions), len(result.Circles))
		}
		if result.Warning != nil {
			t.Errorf("unexpected warning: %v", result.Warning)
		}

		detected := DetectRegions(result.Mask, cfg)
		if got, want := totalArea(result.Regions), totalArea(detected); got != want {
			t.Errorf("total area not conserved: got %d, want %d", got, want)
		}
		if totalArea(detected) != 9*12*12 {
			t.Errorf("unexpected detected area %d", totalArea(detected))
		}
		for i, c := range result.Circles {
			if c.X < c.Radius || c.X > 300-c.Radius-1 || c.Y < c.Radius || c.Y > 300-c.Radius-1 {
				t.Errorf("circle %d out of bounds: %+v", i, c)
			}
		}
	})

	t.Run("キャンセル済みのコンテキスト", func(t *testing.T) {
		analyzer := NewAnalyzer(config.NewDefaultConfig(), zap.NewNop())
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		img := generateTestImageData()
		if _, err := analyzer.Analyze(canceled, img, img); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestAnalyzeFiles(t *testing.T) {
	tempDir := t.TempDir()
	sourcePath := filepath.Join(tempDir, "source.png")
	targetPath := filepath.Join(tempDir, "target.png")

	logger := zap.NewNop()
	if err := SaveDiffImage(createTestImageWithPattern(200, 100, black, nil), sourcePath, logger); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	if err := SaveDiffImage(imageWithBlobs(200, 100, 10, image.Pt(10, 10), image.Pt(150, 10)), targetPath, logger); err != nil {
		t.Fatalf("failed to write target: %v", err)
	}

	analyzer := NewAnalyzer(config.NewDefaultConfig(), logger)

	t.Run("正常系", func(t *testing.T) {
		result, err := analyzer.AnalyzeFiles(context.Background(), sourcePath, targetPath)
		if err != nil {
			t.Fatalf("AnalyzeFiles() error = %v", err)
		}
		if len(result.Circles) != 2 {
			t.Errorf("expected 2 circles, got %d", len(result.Circles))
		}
		if result.Source == nil || result.Target == nil {
			t.Fatalf("decoded images should be kept in the result")
		}
		if got := result.Target.Bounds().Size(); got != image.Pt(200, 100) {
			t.Errorf("target size = %v, want 200x100", got)
		}
	})

	t.Run("存在しないファイル", func(t *testing.T) {
		missing := filepath.Join(tempDir, "missing.png")
		_, err := analyzer.AnalyzeFiles(context.Background(), sourcePath, missing)
		var loadErr *ImageLoadError
		if !errors.As(err, &loadErr) || loadErr.Path != missing {
			t.Errorf("expected ImageLoadError for %s, got %v", missing, err)
		}
	})
}
