// imageutil パッケージは2枚の画像から差分領域を検出し、ヒット判定用の円に変換するユーティリティを提供します
package imageutil

// このファイルは、imageutil パッケージのエントリーポイントとして機能し、
// 各ファイルに分割された機能へのアクセスポイントを提供します。
//
// 機能は以下のファイルに分割されています：
// - analyzer.go: 差分検出パイプライン全体の実行
// - color_utils.go: チャンネルごとの差分画像と色の判定・混合
// - mask.go: 差分マスクの生成とクロージング処理
// - detector.go: 連結成分（差分領域）の検出
// - region.go: 領域の型と結合処理
// - reducer.go: 最近傍重心による領域数の削減
// - circles.go: ヒット円の生成と重なり解消
// - imageloader.go: 画像の読み込み・保存
// - renderer.go: ヒット円の視覚的表現
// - errors.go: エラー型
