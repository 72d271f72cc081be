package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig は差分領域の検出とヒット円生成のための設定を保持する構造体
type AppConfig struct {
	// 検出する差分の数
	NumDifferences int `yaml:"num_differences"` // 最終的に残す領域数（NUM_ERROS）

	// マスク生成のための設定
	GreenThreshold int `yaml:"green_threshold"` // 緑チャンネル差分の下限 (0-255)
	BlueThreshold  int `yaml:"blue_threshold"`  // 青チャンネル差分の下限 (0-255)
	DominanceDelta int `yaml:"dominance_delta"` // 赤チャンネルに対する優位差
	DilationSize   int `yaml:"dilation_size"`   // 膨張（最大値フィルタ）の窓サイズ（奇数、1で無効）
	ErosionSize    int `yaml:"erosion_size"`    // 収縮（最小値フィルタ）の窓サイズ（奇数、1で無効）

	// 領域検出の設定
	MinArea      int     `yaml:"min_area"`       // 領域として採用する最小ピクセル数
	ShiftXFactor float64 `yaml:"shift_x_factor"` // 重心をbbox幅に比例して左へずらす係数
	ShiftYFactor float64 `yaml:"shift_y_factor"` // 重心をbbox高さに比例して上へずらす係数

	// ヒット円の設定
	RadiusMargin     int     `yaml:"radius_margin"`     // 半径に加える余白（MARGEM_RAIO）
	MaxIter          int     `yaml:"max_iter"`          // 重なり解消の最大スイープ回数
	OverlapMin       int     `yaml:"overlap_min"`       // この値を超える重なりのみ解消する
	OverlapClearance int     `yaml:"overlap_clearance"` // 押し出し時に追加する隙間
	SizeRatio        float64 `yaml:"size_ratio"`        // 半径比がこの値を超える場合のみ押し出す

	// 出力の設定
	DiffOutput string `yaml:"diff_output"` // 差分画像の保存先
	Sound      bool   `yaml:"sound"`       // ヒット時に音を鳴らすか
}

// NewDefaultConfig はデフォルト設定を持つ新しいAppConfigを返す
func NewDefaultConfig() *AppConfig {
	return &AppConfig{
		NumDifferences:   7,
		GreenThreshold:   70,
		BlueThreshold:    70,
		DominanceDelta:   30,
		DilationSize:     7,
		ErosionSize:      5,
		MinArea:          80,
		ShiftXFactor:     0.08,
		ShiftYFactor:     0.06,
		RadiusMargin:     12,
		MaxIter:          20,
		OverlapMin:       10,
		OverlapClearance: 12,
		SizeRatio:        1.2,
		DiffOutput:       "diff_result.png",
		Sound:            false,
	}
}

// LoadFile はデフォルト設定にYAMLファイルの内容を上書きしたAppConfigを返す
// ファイルに記載のない項目はデフォルト値のまま残る
func LoadFile(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の整合性をチェックする
func (c *AppConfig) Validate() error {
	if c.NumDifferences < 1 {
		return fmt.Errorf("num_differences must be >= 1, got %d", c.NumDifferences)
	}
	for name, v := range map[string]int{
		"green_threshold": c.GreenThreshold,
		"blue_threshold":  c.BlueThreshold,
	} {
		if v < 0 || v > 255 {
			return fmt.Errorf("%s must be in [0, 255], got %d", name, v)
		}
	}
	if c.DominanceDelta < 0 {
		return fmt.Errorf("dominance_delta must be >= 0, got %d", c.DominanceDelta)
	}
	if c.DilationSize < 1 || c.DilationSize%2 == 0 {
		return fmt.Errorf("dilation_size must be a positive odd number, got %d", c.DilationSize)
	}
	if c.ErosionSize < 1 || c.ErosionSize%2 == 0 {
		return fmt.Errorf("erosion_size must be a positive odd number, got %d", c.ErosionSize)
	}
	if c.MinArea < 1 {
		return fmt.Errorf("min_area must be >= 1, got %d", c.MinArea)
	}
	if c.RadiusMargin < 0 {
		return fmt.Errorf("radius_margin must be >= 0, got %d", c.RadiusMargin)
	}
	if c.MaxIter < 0 {
		return fmt.Errorf("max_iter must be >= 0, got %d", c.MaxIter)
	}
	if c.SizeRatio < 1 {
		return fmt.Errorf("size_ratio must be >= 1, got %g", c.SizeRatio)
	}
	return nil
}
