package game

import (
	"bytes"
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/gonewx/tileplayer/pkg/types"
)

// SampleRate 音频上下文采样率
const SampleRate = 48000

// AudioManager 音频管理器
// 职责：
//   - 统一管理游戏中所有音效和背景音乐的播放
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 音效在启动时合成为 PCM，按 types.SoundID 播放
type AudioManager struct {
	audioContext    *audio.Context                  // 可为 nil（无声模式，测试用）
	settingsManager *SettingsManager                // 设置管理器（用于读取音量设置，可为 nil）
	soundData       map[types.SoundID][]byte        // 合成好的 PCM 数据
	soundPlayers    map[types.SoundID]*audio.Player // 音效播放器缓存
	music           *audio.Player                   // 背景音乐（循环）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	am := &AudioManager{
		audioContext:    ctx,
		settingsManager: sm,
		soundData:       make(map[types.SoundID][]byte),
		soundPlayers:    make(map[types.SoundID]*audio.Player),
	}
	for id, cue := range soundCues {
		am.soundData[id] = SynthesizeCue(cue, SampleRate)
	}
	return am
}

// HasSound 是否注册了该音效
func (am *AudioManager) HasSound(id types.SoundID) bool {
	_, ok := am.soundData[id]
	return ok
}

// PlaySound 播放音效
// 音效使用 SoundVolume 设置控制音量，单次播放后停止
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(id types.SoundID) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(id)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", id, err)
	}
	player.Play()
	return true
}

// PlayMusic 播放背景音乐（循环）
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayMusic() bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}
	if am.audioContext == nil {
		return false
	}

	if am.music == nil {
		pcm := SynthesizeCue(menuTheme, SampleRate)
		loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
		player, err := am.audioContext.NewPlayer(loop)
		if err != nil {
			log.Printf("[AudioManager] Warning: Failed to create music player: %v", err)
			return false
		}
		am.music = player
	}

	if am.music.IsPlaying() {
		return true
	}
	am.music.SetVolume(am.getMusicVolume())
	am.music.Play()
	log.Printf("[AudioManager] Playing music (volume: %.2f)", am.getMusicVolume())
	return true
}

// StopMusic 停止背景音乐并回到开头
func (am *AudioManager) StopMusic() {
	if am.music != nil {
		am.music.Pause()
		if err := am.music.Rewind(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to rewind music: %v", err)
		}
	}
}

// SetMusicEnabled 切换音乐开关并立即生效
func (am *AudioManager) SetMusicEnabled(enabled bool) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicEnabled(enabled)
	}
	if enabled {
		am.PlayMusic()
	} else if am.music != nil {
		am.music.Pause()
	}
}

// SetMusicVolume 设置音乐音量，立即应用到当前音乐
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	if am.music != nil {
		am.music.SetVolume(am.getMusicVolume())
	}
}

// SetSoundVolume 设置音效音量，影响后续播放的所有音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(am.getSoundVolume())
	}
}

// getSoundPlayer 获取或创建音效播放器
func (am *AudioManager) getSoundPlayer(id types.SoundID) *audio.Player {
	if player, exists := am.soundPlayers[id]; exists {
		return player
	}
	if am.audioContext == nil {
		return nil
	}

	data, ok := am.soundData[id]
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", id)
		return nil
	}

	player := am.audioContext.NewPlayerFromBytes(data)
	am.soundPlayers[id] = player
	return player
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return 0.7
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8
}
