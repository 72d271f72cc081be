package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xshoji/go-spot-diff/config"
	"github.com/xshoji/go-spot-diff/imageutil"
	"github.com/xshoji/go-spot-diff/logging"
	"github.com/xshoji/go-spot-diff/tui"
	"github.com/xshoji/go-spot-diff/utils"
)

// 定数定義
const (
	UsageRequiredPrefix = "\u001B[33m(REQ)\u001B[0m "
	ConfigEnvKey        = "SPOTDIFF_CONFIG"
)

// アプリケーション設定とオプション
var (
	// コマンドオプション表示に関する設定
	commandDescription      = "Spot-the-difference generator: detects differing regions between two images and turns them into hit circles."
	commandOptionFieldWidth = "12" // フィールド幅の推奨値: 一般的に12、ブール値のみの場合は5

	// 必須オプション
	optionImageInput1 = flag.String("i1", "", UsageRequiredPrefix+"Original image path")
	optionImageInput2 = flag.String("i2", "", UsageRequiredPrefix+"Modified image path")

	// 出力設定
	optionOutput    = flag.String("o", "", "Output diff image path (default: diff_output of the config)")
	optionAnnotated = flag.String("a", "", "Output path of the modified image annotated with hit circles")
	optionMask      = flag.String("m", "", "Output path of the binary difference mask")
	optionJSON      = flag.String("json", "", "Output path of the hit circles as JSON")

	// 設定ファイルと上書き
	optionConfig         = flag.String("config", "", "YAML config file (env "+ConfigEnvKey+")")
	optionNumDifferences = flag.Int("n", 0, "Number of differences to keep (0=use config)")

	// 対話モード
	optionPlay  = flag.Bool("play", false, "Play the game in the terminal after analysis")
	optionSound = flag.Bool("sound", false, "Play a tone when a difference is found")

	// ログ設定
	optionDebug = flag.Bool("debug", false, "Enable debug logging and outline hidden differences in -play")
	optionLog   = flag.String("log", "", "Write logs to this file instead of stderr")
)

// circlesReport は -json で出力する内容
type circlesReport struct {
	RunID    string             `json:"run_id"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Detected int                `json:"detected"`
	Circles  []imageutil.Circle `json:"circles"`
}

func init() {
	// ヘルプメッセージのカスタマイズ
	customizeHelpMessage()
}

// main エントリポイント
func main() {
	// コマンドライン引数の解析
	flag.Parse()

	// 必須オプションのチェック
	if err := validateRequiredOptions(); err != nil {
		fmt.Println(err)
		flag.Usage()
		os.Exit(1)
	}

	logger, err := createLogger()
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logging.WithOperation(logger, "spotdiff", runID)

	cfg, err := createAppConfig()
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, runID); err != nil {
		logger.Error("spotdiff failed", zap.Error(err))
		os.Exit(1)
	}
}

// validateRequiredOptions 必須オプションが指定されているかチェック
func validateRequiredOptions() error {
	var missingOptions []string

	if *optionImageInput1 == "" {
		missingOptions = append(missingOptions, "i1")
	}
	if *optionImageInput2 == "" {
		missingOptions = append(missingOptions, "i2")
	}

	if len(missingOptions) > 0 {
		return fmt.Errorf("\n[ERROR] Missing required option(s): %s\n",
			strings.Join(missingOptions, ", "))
	}

	return nil
}

// createLogger は -log が指定されていればファイルへ、それ以外は標準エラーへ出力するロガーを作成
// 対話モードでは画面を壊さないよう、ファイル指定がなければログを捨てる
func createLogger() (*zap.Logger, error) {
	if *optionLog != "" {
		return logging.NewFileLogger(*optionLog, *optionDebug)
	}
	if *optionPlay {
		return zap.NewNop(), nil
	}
	return logging.NewLogger(*optionDebug)
}

// createAppConfig デフォルト値 → 設定ファイル → コマンドオプションの順で設定を組み立てる
func createAppConfig() (*config.AppConfig, error) {
	cfg := config.NewDefaultConfig()

	path := *optionConfig
	if path == "" {
		path = utils.GetEnvOrDefault(ConfigEnvKey, "")
	}
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// 明示的に指定されたオプションのみ上書き
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.NumDifferences = *optionNumDifferences
		case "o":
			cfg.DiffOutput = *optionOutput
		case "sound":
			cfg.Sound = *optionSound
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run 解析から出力、対話モードまでのメインフロー
func run(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger, runID string) error {
	startTime := time.Now()
	analyzer := imageutil.NewAnalyzer(cfg, logger)

	if *optionPlay {
		return play(ctx, cfg, analyzer, logger)
	}

	// 1. 画像の読み込みと差分領域の検出、ヒット円の生成
	result, err := analyzer.AnalyzeFiles(ctx, *optionImageInput1, *optionImageInput2)
	if err != nil {
		return logging.NewOperationError("analyze", runID, err)
	}
	if result.Warning != nil {
		logger.Warn("fewer regions than requested", zap.Error(result.Warning))
	}

	// 2. 結果の保存
	if err := writeOutputs(cfg, result, runID, logger); err != nil {
		return logging.NewOperationError("write", runID, err)
	}

	for i, c := range result.Circles {
		logger.Info("circle", zap.Int("index", i), zap.Int("x", c.X), zap.Int("y", c.Y), zap.Int("radius", c.Radius))
	}
	logger.Info("total processing completed",
		zap.Int("circles", len(result.Circles)),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

// writeOutputs は差分画像と、指定されていれば注釈付き画像・マスク・JSONを保存する
func writeOutputs(cfg *config.AppConfig, result *imageutil.Result, runID string, logger *zap.Logger) error {
	if err := imageutil.SaveDiffImage(result.Diff, cfg.DiffOutput, logger); err != nil {
		return err
	}

	if *optionAnnotated != "" {
		annotated := imageutil.RenderCircles(result.Target, result.Circles, imageutil.DefaultRenderOptions())
		if err := imageutil.SaveDiffImage(annotated, *optionAnnotated, logger); err != nil {
			return err
		}
	}

	if *optionMask != "" {
		if err := imageutil.SaveDiffImage(result.Mask.Image(), *optionMask, logger); err != nil {
			return err
		}
	}

	if *optionJSON != "" {
		size := result.Diff.Bounds().Size()
		report := circlesReport{
			RunID:    runID,
			Width:    size.X,
			Height:   size.Y,
			Detected: result.Detected,
			Circles:  result.Circles,
		}
		if report.Circles == nil {
			report.Circles = []imageutil.Circle{}
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode circles: %w", err)
		}
		if err := os.WriteFile(*optionJSON, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *optionJSON, err)
		}
		logger.Info("circles saved", zap.String("path", *optionJSON))
	}
	return nil
}

// play は端末UIでゲームを開始する
func play(ctx context.Context, cfg *config.AppConfig, analyzer *imageutil.Analyzer, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}

	app := tui.NewApp(screen, analyzer, logger, playOptions(cfg, logger))
	return app.Run(ctx)
}

// playOptions は端末UIの設定を作成する
// ゲームを開始するたびに、非対話モードと同じ出力ファイルを書き出す
func playOptions(cfg *config.AppConfig, logger *zap.Logger) tui.Options {
	return tui.Options{
		SourcePath: *optionImageInput1,
		TargetPath: *optionImageInput2,
		Sound:      cfg.Sound,
		Debug:      *optionDebug,
		OnResult: func(runID string, result *imageutil.Result) error {
			return writeOutputs(cfg, result, runID, logger)
		},
	}
}

// customizeHelpMessage ヘルプメッセージの表示形式をカスタマイズする
func customizeHelpMessage() {
	b := new(bytes.Buffer)
	func() { flag.CommandLine.SetOutput(b); flag.Usage(); flag.CommandLine.SetOutput(os.Stderr) }()
	usage := strings.Replace(strings.Replace(b.String(), ":", " [OPTIONS] [-h, --help]\n\nDescription:\n  "+commandDescription+"\n\nOptions:\n", 1), "Usage of", "Usage:", 1)
	re := regexp.MustCompile(`[^,] +(-\S+)(?: (\S+))?\n*(\s+)(.*)\n`)
	flag.Usage = func() {
		_, _ = fmt.Fprint(flag.CommandLine.Output(), re.ReplaceAllStringFunc(usage, func(m string) string {
			return fmt.Sprintf("  %-"+commandOptionFieldWidth+"s %s\n", re.FindStringSubmatch(m)[1]+" "+strings.TrimSpace(re.FindStringSubmatch(m)[2]), re.FindStringSubmatch(m)[4])
		}))
	}
}
