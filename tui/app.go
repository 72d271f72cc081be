// tui パッケージは端末上で遊ぶ「間違い探し」のインタラクティブなシェルを提供します
package tui

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xshoji/go-spot-diff/game"
	"github.com/xshoji/go-spot-diff/imageutil"
	"github.com/xshoji/go-spot-diff/logging"
)

// Options は端末UIの起動設定
type Options struct {
	SourcePath string
	TargetPath string
	Sound      bool
	Debug      bool // 未発見の円も黄色の枠で表示する

	// OnResult は解析のたびに呼ばれる。差分画像などの保存に使う
	OnResult func(runID string, result *imageutil.Result) error
}

// App は2枚の画像を並べて表示し、クリックで差分を探すゲームを実行する
type App struct {
	screen   tcell.Screen
	analyzer *imageutil.Analyzer
	logger   *zap.Logger
	opts     Options

	result  *imageutil.Result
	session *game.Session

	reveal      bool
	message     string
	lastButtons tcell.ButtonMask
	sound       *soundPlayer
}

// NewApp は新しいAppを作成する。screen は未初期化のものを渡す
func NewApp(screen tcell.Screen, analyzer *imageutil.Analyzer, logger *zap.Logger, opts Options) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		screen:   screen,
		analyzer: analyzer,
		logger:   logger,
		opts:     opts,
	}
}

// Run は画面を初期化し、ゲームを開始してイベントループを実行する
// q / Esc / Ctrl-C または ctx のキャンセルで終了する
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.restart(ctx); err != nil {
		return err
	}

	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer a.screen.Fini()
	a.screen.EnableMouse()
	a.screen.Clear()

	sound, err := newSoundPlayer(a.opts.Sound)
	if err != nil {
		// 音が出なくてもゲームは続けられる
		a.logger.Warn("audio initialization failed", zap.Error(err))
	}
	a.sound = sound
	defer a.sound.close()

	events := make(chan tcell.Event, 100)
	go pumpEvents(ctx, a.screen, events)

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			cont, err := a.handleEvent(ctx, ev)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
			a.draw()
		}
	}
}

// pumpEvents は PollEvent の結果を events に送る
// 画面が閉じられると events を閉じ、ctx がキャンセルされると送信を諦めて終了する
func pumpEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// restart は画像を読み込み直して解析を実行し、新しいセッションを開始する
func (a *App) restart(ctx context.Context) error {
	runID := uuid.NewString()
	logger := logging.WithOperation(a.logger, "restart", runID)

	result, err := a.analyzer.AnalyzeFiles(ctx, a.opts.SourcePath, a.opts.TargetPath)
	if err != nil {
		return logging.NewOperationError("restart", runID, err)
	}
	if a.opts.OnResult != nil {
		if err := a.opts.OnResult(runID, result); err != nil {
			return logging.NewOperationError("restart", runID, err)
		}
	}

	a.result = result
	a.session = game.NewSession(result.Circles)
	a.reveal = false
	a.message = ""
	if result.Warning != nil {
		a.message = fmt.Sprintf("Only %d differences detected", len(result.Circles))
	}
	logger.Info("game started", zap.Int("circles", len(result.Circles)))
	return nil
}

// handleEvent はイベントを処理し、ループを続けるかどうかを返す
func (a *App) handleEvent(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false, nil
		}
		if ev.Key() != tcell.KeyRune {
			return true, nil
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false, nil
		case 'r', 'R':
			a.reveal = !a.reveal
		case 'n', 'N':
			if err := a.restart(ctx); err != nil {
				return false, err
			}
			a.screen.Clear()
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 == 0
		a.lastButtons = buttons
		if pressed {
			col, row := ev.Position()
			a.click(col, row)
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.screen.Clear()
	}
	return true, nil
}

// click はセル座標を画像座標に変換してヒット判定を行う
func (a *App) click(col, row int) {
	size := a.result.Diff.Bounds().Size()
	w, h := a.screen.Size()
	l := computeLayout(size.X, size.Y, w, h)

	_, x, y, ok := l.panelAt(col, row, size.X, size.Y)
	if !ok {
		return
	}
	i, hit := a.session.Click(x, y)
	if !hit {
		return
	}

	a.logger.Debug("difference found", zap.Int("index", i), zap.Int("x", x), zap.Int("y", y))
	if a.session.Complete() {
		a.message = fmt.Sprintf("Congratulations! You found all %d differences!", a.session.Total())
		a.sound.playComplete()
		return
	}
	a.message = ""
	a.sound.playHit()
}

// panels は左右のパネルに表示する画像を返す
// 発見済みの円を両方の画像に描画し、reveal 中は右側に差分画像を表示する
func (a *App) panels() (image.Image, image.Image) {
	found := a.session.FoundCircles()
	opts := imageutil.DefaultRenderOptions()

	var right image.Image = a.result.Target
	if a.reveal {
		right = a.result.Diff
	}
	left := imageutil.RenderCircles(a.result.Source, found, opts)
	rendered := imageutil.RenderCircles(right, found, opts)

	if a.opts.Debug {
		var hidden []imageutil.Circle
		for i, c := range a.session.Circles() {
			if !a.session.IsFound(i) {
				hidden = append(hidden, c)
			}
		}
		rendered = imageutil.RenderCircles(rendered, hidden, debugRenderOptions)
	}
	return left, rendered
}

// 未発見の円を示す枠
var debugRenderOptions = imageutil.RenderOptions{
	Color:     color.RGBA{255, 255, 0, 255},
	Thickness: 1,
}

func (a *App) draw() {
	size := a.result.Diff.Bounds().Size()
	w, h := a.screen.Size()
	l := computeLayout(size.X, size.Y, w, h)

	left, right := a.panels()
	drawPanel(a.screen, l.scalePanel(left), l.leftX, l.top)
	drawPanel(a.screen, l.scalePanel(right), l.rightX, l.top)

	status := fmt.Sprintf(" Found %d/%d ", len(a.session.Found()), a.session.Total())
	if a.reveal {
		status += "[reveal] "
	}
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	drawText(a.screen, 0, l.top+l.rows, w, statusStyle, status+a.message)
	drawText(a.screen, 0, l.top+l.rows+1, w, tcell.StyleDefault,
		" click a difference | [r] reveal  [n] restart  [q] quit")

	a.screen.Show()
}

// drawPanel は画像の上下2ピクセルを1セルの上半分ブロック（前景=上、背景=下）として描画する
func drawPanel(screen tcell.Screen, img *image.RGBA, x0, y0 int) {
	b := img.Bounds()
	for row := 0; row < b.Dy()/2; row++ {
		for col := 0; col < b.Dx(); col++ {
			top := img.RGBAAt(col, 2*row)
			bottom := img.RGBAAt(col, 2*row+1)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			screen.SetContent(x0+col, y0+row, '▀', nil, style)
		}
	}
}

func drawText(screen tcell.Screen, x, y, width int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		screen.SetContent(col, y, ' ', nil, style)
	}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
