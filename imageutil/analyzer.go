package imageutil

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/xshoji/go-spot-diff/config"
)

// Analyzer は差分マスク生成からヒット円の重なり解消までを一度に実行する
type Analyzer struct {
	cfg    *config.AppConfig
	logger *zap.Logger
}

// Result はパイプライン1回分の出力
type Result struct {
	Source   image.Image
	Target   image.Image
	Diff     *image.NRGBA // チャンネルごとの絶対差（「答え」表示用）
	Mask     *Mask
	Detected int      // MinArea で絞り込んだ後、削減前の領域数
	Regions  []Region // 削減後の領域
	Circles  []Circle // Regions と同じ順序のヒット円
	Warning  error    // 領域数が目標に満たない場合の *InsufficientRegionsWarning
}

// NewAnalyzer 設定をもとに新しいAnalyzerインスタンスを作成
func NewAnalyzer(cfg *config.AppConfig, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logger,
	}
}

// AnalyzeFiles は2つの画像ファイルを読み込んで Analyze を実行する
func (a *Analyzer) AnalyzeFiles(ctx context.Context, sourcePath, targetPath string) (*Result, error) {
	a.logger.Info("loading images", zap.String("source", sourcePath), zap.String("target", targetPath))

	source, err := LoadImage(sourcePath)
	if err != nil {
		return nil, err
	}
	target, err := LoadImage(targetPath)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, source, target)
}

// Analyze は2枚の画像からヒット円のリストを生成する
// 画像サイズが異なる場合は *DimensionMismatchError を返す
func (a *Analyzer) Analyze(ctx context.Context, source, target image.Image) (*Result, error) {
	startTime := time.Now()
	size := source.Bounds().Size()
	a.logger.Info("starting analysis",
		zap.Int("width", size.X), zap.Int("height", size.Y),
		zap.Int("target_regions", a.cfg.NumDifferences))

	// 1. 差分画像とマスク
	diff, err := DiffImage(source, target)
	if err != nil {
		return nil, err
	}
	mask := BuildMask(diff, a.cfg)
	a.logger.Info("diff mask built",
		zap.Int("flagged_pixels", mask.Count()),
		zap.Int("dilation_size", a.cfg.DilationSize),
		zap.Int("erosion_size", a.cfg.ErosionSize))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. 連結成分の検出
	regions := DetectRegions(mask, a.cfg)
	a.logger.Info("regions detected", zap.Int("count", len(regions)), zap.Int("min_area", a.cfg.MinArea))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Source: source, Target: target, Diff: diff, Mask: mask, Detected: len(regions)}
	if len(regions) < a.cfg.NumDifferences {
		result.Warning = &InsufficientRegionsWarning{Detected: len(regions), Target: a.cfg.NumDifferences}
		a.logger.Warn("insufficient regions", zap.Error(result.Warning))
	}

	// 3. 領域数の削減
	reduced := ReduceRegions(regions, a.cfg.NumDifferences, a.cfg)
	if len(reduced) < len(regions) {
		a.logger.Info("merged regions", zap.Int("from", len(regions)), zap.Int("to", len(reduced)))
	}
	result.Regions = reduced

	// 4. ヒット円の生成と重なり解消
	circles := CirclesFromRegions(reduced, a.cfg.RadiusMargin)
	result.Circles = ResolveOverlaps(circles, size.X, size.Y, a.cfg)
	for i, c := range result.Circles {
		a.logger.Debug("hit circle",
			zap.Int("index", i), zap.Int("x", c.X), zap.Int("y", c.Y), zap.Int("radius", c.Radius))
	}

	a.logger.Info("analysis completed",
		zap.Int("circles", len(result.Circles)),
		zap.Float64("elapsed_sec", time.Since(startTime).Seconds()))
	return result, nil
}
