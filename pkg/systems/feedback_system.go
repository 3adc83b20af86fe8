package systems

import (
	"time"

	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// SoundPlayer 播放音效
type SoundPlayer interface {
	PlaySound(id types.SoundID) bool
}

// FeedbackSystem 把棋盘事件转换成音效和震动
type FeedbackSystem struct {
	sounds      SoundPlayer // 可为 nil
	settings    *game.SettingsManager
	elementKind types.ElementKind
	vibrateFor  time.Duration
	vibrate     func(d time.Duration)
}

// NewFeedbackSystem 创建反馈系统并订阅事件
//
// 参数：
//   - bus: 事件总线
//   - sounds: 音效播放器，可为 nil
//   - settings: 设置管理器（震动开关），可为 nil
//   - elementKind: 干扰元素种类（决定爆裂音效）
//   - vibrateMillis: 瓦片落位时的震动时长（毫秒），0 表示不震动
func NewFeedbackSystem(bus *game.EventBus, sounds SoundPlayer, settings *game.SettingsManager, elementKind types.ElementKind, vibrateMillis int) *FeedbackSystem {
	s := &FeedbackSystem{
		sounds:      sounds,
		settings:    settings,
		elementKind: elementKind,
		vibrateFor:  time.Duration(vibrateMillis) * time.Millisecond,
		vibrate:     vibrateDevice,
	}

	bus.Subscribe(game.EventTileMoved, s.onTileMoved)
	bus.Subscribe(game.EventPuzzleScrambled, func(game.Event) { s.play(types.SoundScramble) })
	bus.Subscribe(game.EventPuzzleSolved, func(game.Event) { s.play(types.SoundSolved) })
	bus.Subscribe(game.EventGameOver, func(game.Event) { s.play(types.SoundGameOver) })
	bus.Subscribe(game.EventElementBurst, s.onElementBurst)
	return s
}

// SetVibrator 替换震动实现（测试用）
func (s *FeedbackSystem) SetVibrator(fn func(d time.Duration)) {
	s.vibrate = fn
}

func (s *FeedbackSystem) onTileMoved(game.Event) {
	s.play(types.SoundMove)
	if s.vibrateFor <= 0 || s.vibrate == nil {
		return
	}
	if s.settings != nil && !s.settings.GetSettings().VibrateEnabled {
		return
	}
	s.vibrate(s.vibrateFor)
}

func (s *FeedbackSystem) onElementBurst(game.Event) {
	if spec, ok := s.elementKind.Spec(); ok && spec.TerminationSound != "" {
		s.play(spec.TerminationSound)
	}
}

func (s *FeedbackSystem) play(id types.SoundID) {
	if s.sounds != nil {
		s.sounds.PlaySound(id)
	}
}

// vibrateDevice 在支持的设备上震动，桌面平台上什么都不做
func vibrateDevice(d time.Duration) {
	ebiten.Vibrate(&ebiten.VibrateOptions{
		Duration:  d,
		Magnitude: 1,
	})
}
