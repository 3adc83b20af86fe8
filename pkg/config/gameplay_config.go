package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀，例如 TILEPLAYER_MOTION_KINETIC_FRICTION
const EnvPrefix = "TILEPLAYER_"

//go:embed data/gameplay.yaml
var defaultGameplayYAML []byte

// GameplayConfig 游戏玩法参数
//
// 加载顺序：内嵌的 data/gameplay.yaml → 可选的外部 YAML 文件 → 环境变量。
// 后加载的只覆盖自己出现的字段。
type GameplayConfig struct {
	Screen     ScreenConfig     `yaml:"screen" envPrefix:"SCREEN_"`
	Game       GameConfig       `yaml:"game" envPrefix:"GAME_"`
	Board      BoardConfig      `yaml:"board" envPrefix:"BOARD_"`
	Motion     MotionConfig     `yaml:"motion" envPrefix:"MOTION_"`
	Disturbing DisturbingConfig `yaml:"disturbing" envPrefix:"DISTURBING_"`
	Score      ScoreConfig      `yaml:"score" envPrefix:"SCORE_"`
}

// ScreenConfig 逻辑屏幕尺寸
type ScreenConfig struct {
	Width  int `yaml:"width" env:"WIDTH"`
	Height int `yaml:"height" env:"HEIGHT"`
}

// GameConfig 主循环参数
type GameConfig struct {
	// TPS 每秒逻辑帧数
	TPS int `yaml:"tps" env:"TPS"`
	// SplashMinShowTime 启动画面最短显示时间（秒）
	SplashMinShowTime float64 `yaml:"splashMinShowTime" env:"SPLASH_MIN_SHOW_TIME"`
	// VibrateMillis 瓦片落位时的震动时长（毫秒）
	VibrateMillis int `yaml:"vibrateMillis" env:"VIBRATE_MILLIS"`
}

// BoardConfig 棋盘布局
type BoardConfig struct {
	OriginX float64 `yaml:"originX" env:"ORIGIN_X"`
	OriginY float64 `yaml:"originY" env:"ORIGIN_Y"`
	Width   float64 `yaml:"width" env:"WIDTH"`
	Height  float64 `yaml:"height" env:"HEIGHT"`
	// DefaultSize 默认拼图边长
	DefaultSize int `yaml:"defaultSize" env:"DEFAULT_SIZE"`
	// Sizes 可选的拼图边长
	Sizes []int `yaml:"sizes" env:"SIZES" envSeparator:","`
}

// MotionConfig 瓦片滑动参数
type MotionConfig struct {
	// KineticFriction 每帧位移的衰减系数
	KineticFriction float64 `yaml:"kineticFriction" env:"KINETIC_FRICTION"`
	// MaxMoveRatio 单帧位移上限（相对瓦片尺寸）
	MaxMoveRatio float64 `yaml:"maxMoveRatio" env:"MAX_MOVE_RATIO"`
	// StopThreshold 位移小于该值（像素）时瓦片吸附到格子
	StopThreshold float64 `yaml:"stopThreshold" env:"STOP_THRESHOLD"`
	FlickRatio    float64 `yaml:"flickRatio" env:"FLICK_RATIO"`
	FlickKinetic  float64 `yaml:"flickKinetic" env:"FLICK_KINETIC"`
	DragRatio     float64 `yaml:"dragRatio" env:"DRAG_RATIO"`
	DragKinetic   float64 `yaml:"dragKinetic" env:"DRAG_KINETIC"`
}

// DisturbingConfig 干扰元素参数
type DisturbingConfig struct {
	FrameWidth  float64 `yaml:"frameWidth" env:"FRAME_WIDTH"`
	FrameHeight float64 `yaml:"frameHeight" env:"FRAME_HEIGHT"`
	// MinSpeed/MaxSpeed 反弹时随机速度的范围（像素/帧）
	MinSpeed float64 `yaml:"minSpeed" env:"MIN_SPEED"`
	MaxSpeed float64 `yaml:"maxSpeed" env:"MAX_SPEED"`
	// IncreaseFactor 每有一个同伴消失，速度范围增加的量
	IncreaseFactor float64 `yaml:"increaseFactor" env:"INCREASE_FACTOR"`
	// InitialSpeedMin/InitialSpeedMax 初始速度每个分量的范围
	InitialSpeedMin float64 `yaml:"initialSpeedMin" env:"INITIAL_SPEED_MIN"`
	InitialSpeedMax float64 `yaml:"initialSpeedMax" env:"INITIAL_SPEED_MAX"`
	// FrameInterval 消失动画每帧的间隔（秒）
	FrameInterval float64 `yaml:"frameInterval" env:"FRAME_INTERVAL"`
	// Threshold 剩余数量不超过该值时进入警告状态
	Threshold int `yaml:"threshold" env:"THRESHOLD"`
	// BlinkInterval 警告闪烁间隔（秒）
	BlinkInterval float64 `yaml:"blinkInterval" env:"BLINK_INTERVAL"`
}

// ScoreConfig 计分参数
//
// 分数 = PointsPerTile × 瓦片数 − 秒数 × TimePenalty − 加权步数 × MovePenalty，最低为 0
type ScoreConfig struct {
	PointsPerTile float64 `yaml:"pointsPerTile" env:"POINTS_PER_TILE"`
	TimePenalty   float64 `yaml:"timePenalty" env:"TIME_PENALTY"`
	MovePenalty   float64 `yaml:"movePenalty" env:"MOVE_PENALTY"`
}

// LoadGameplayConfig 加载游戏玩法配置
//
// 参数:
//   - path: 外部 YAML 文件路径；为空时只使用内嵌默认值
//
// 返回:
//   - *GameplayConfig: 合并并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadGameplayConfig(path string) (*GameplayConfig, error) {
	var cfg GameplayConfig
	if err := yaml.Unmarshal(defaultGameplayYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded gameplay config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read gameplay config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse gameplay config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply gameplay env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gameplay config: %w", err)
	}
	return &cfg, nil
}

// DefaultGameplayConfig 只使用内嵌默认值的配置
// 内嵌文件随二进制发布，解析失败属于构建错误，直接 panic
func DefaultGameplayConfig() *GameplayConfig {
	var cfg GameplayConfig
	if err := yaml.Unmarshal(defaultGameplayYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded gameplay config is broken: %v", err))
	}
	return &cfg
}

// Validate 验证配置的合法性
func (c *GameplayConfig) Validate() error {
	var errs []error

	if c.Game.TPS <= 0 {
		errs = append(errs, fmt.Errorf("game.tps must be positive, got %d", c.Game.TPS))
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %.0fx%.0f", c.Board.Width, c.Board.Height))
	}
	if len(c.Board.Sizes) == 0 {
		errs = append(errs, errors.New("board.sizes must not be empty"))
	}
	for _, n := range c.Board.Sizes {
		if n < 3 || n > 5 {
			errs = append(errs, fmt.Errorf("board.sizes entries must be in [3,5], got %d", n))
		}
	}
	if !slices.Contains(c.Board.Sizes, c.Board.DefaultSize) {
		errs = append(errs, fmt.Errorf("board.defaultSize %d is not one of %v", c.Board.DefaultSize, c.Board.Sizes))
	}
	if c.Motion.KineticFriction <= 0 || c.Motion.KineticFriction >= 1 {
		errs = append(errs, fmt.Errorf("motion.kineticFriction must be in (0,1), got %f", c.Motion.KineticFriction))
	}
	if c.Motion.StopThreshold <= 0 {
		errs = append(errs, fmt.Errorf("motion.stopThreshold must be positive, got %f", c.Motion.StopThreshold))
	}
	if c.Disturbing.MinSpeed <= 0 || c.Disturbing.MaxSpeed < c.Disturbing.MinSpeed {
		errs = append(errs, fmt.Errorf("disturbing speed range [%f,%f] is invalid", c.Disturbing.MinSpeed, c.Disturbing.MaxSpeed))
	}
	if c.Disturbing.FrameWidth <= 0 || c.Disturbing.FrameHeight <= 0 {
		errs = append(errs, errors.New("disturbing frame size must be positive"))
	}
	if c.Disturbing.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("disturbing.frameInterval must be positive, got %f", c.Disturbing.FrameInterval))
	}

	return errors.Join(errs...)
}
