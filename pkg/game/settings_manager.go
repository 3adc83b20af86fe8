package game

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 玩家设置
type GameSettings struct {
	// 音频设置
	MusicVolume    float64 `yaml:"musicVolume"`    // 音乐音量 0.0 ~ 1.0
	SoundVolume    float64 `yaml:"soundVolume"`    // 音效音量 0.0 ~ 1.0
	MusicEnabled   bool    `yaml:"musicEnabled"`   // 音乐开关
	SoundEnabled   bool    `yaml:"soundEnabled"`   // 音效开关
	VibrateEnabled bool    `yaml:"vibrateEnabled"` // 震动开关

	// 玩法设置
	DisturbingElementsEnabled    bool `yaml:"disturbingElementsEnabled"`    // 是否出现干扰元素
	DisturbingElementsTerminable bool `yaml:"disturbingElementsTerminable"` // 干扰元素能否消失（关闭即免疫作弊）
	TileNumbersEnabled           bool `yaml:"tileNumbersEnabled"`           // 瓦片上显示数字（作弊）
	PuzzleSize                   int  `yaml:"puzzleSize"`                   // 拼图边长 3~5

	// 本地玩家
	GamerID  string `yaml:"gamerId"`  // 注册后生成的 UUID，为空表示尚未注册
	Gamertag string `yaml:"gamertag"` // 玩家名

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume:                  0.7,
		SoundVolume:                  0.8,
		MusicEnabled:                 true,
		SoundEnabled:                 true,
		VibrateEnabled:               true,
		DisturbingElementsEnabled:    true,
		DisturbingElementsTerminable: true,
		TileNumbersEnabled:           false,
		PuzzleSize:                   4,
		Fullscreen:                   false,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方；加载失败只记录日志，不影响创建
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置。
// 文件中缺失的字段保留默认值。
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.PuzzleSize < 3 || loaded.PuzzleSize > 5 {
		loaded.PuzzleSize = DefaultSettings().PuzzleSize
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量，限制在 0.0 ~ 1.0
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetSoundVolume 设置音效音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetMusicEnabled 设置音乐开关
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetVibrateEnabled 设置震动开关
func (sm *SettingsManager) SetVibrateEnabled(enabled bool) {
	sm.settings.VibrateEnabled = enabled
}

// SetDisturbingElementsEnabled 设置是否出现干扰元素
func (sm *SettingsManager) SetDisturbingElementsEnabled(enabled bool) {
	sm.settings.DisturbingElementsEnabled = enabled
}

// SetDisturbingElementsTerminable 设置干扰元素能否消失
func (sm *SettingsManager) SetDisturbingElementsTerminable(terminable bool) {
	sm.settings.DisturbingElementsTerminable = terminable
}

// SetTileNumbersEnabled 设置瓦片数字显示
func (sm *SettingsManager) SetTileNumbersEnabled(enabled bool) {
	sm.settings.TileNumbersEnabled = enabled
}

// SetPuzzleSize 设置拼图边长，超出 3~5 的值被忽略
func (sm *SettingsManager) SetPuzzleSize(size int) {
	if size < 3 || size > 5 {
		log.Printf("[SettingsManager] Ignoring invalid puzzle size %d", size)
		return
	}
	sm.settings.PuzzleSize = size
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// IsSignedUp 本地玩家是否已注册
func (sm *SettingsManager) IsSignedUp() bool {
	_, err := uuid.Parse(sm.settings.GamerID)
	return err == nil
}

// SignUp 注册本地玩家
//
// 第一次注册时生成玩家 UUID；再次调用只更新玩家名。
// 空白的玩家名被忽略。
//
// 返回：
//   - uuid.UUID: 玩家 ID
func (sm *SettingsManager) SignUp(gamertag string) uuid.UUID {
	id, err := uuid.Parse(sm.settings.GamerID)
	if err != nil {
		id = uuid.New()
		sm.settings.GamerID = id.String()
	}
	if tag := strings.TrimSpace(gamertag); tag != "" {
		sm.settings.Gamertag = tag
	}
	return id
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
