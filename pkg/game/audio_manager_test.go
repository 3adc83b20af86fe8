package game

import (
	"encoding/binary"
	"testing"

	"github.com/gonewx/tileplayer/pkg/types"
)

func TestSynthesizeCueLength(t *testing.T) {
	cue := Cue{Gain: 0.5, Notes: []Note{{Freq: 440, Duration: 0.5}, {Duration: 0.25}}}
	pcm := SynthesizeCue(cue, 1000)

	// 750 个采样 × 2 声道 × 2 字节
	if len(pcm) != 750*4 {
		t.Fatalf("Expected %d bytes, got %d", 750*4, len(pcm))
	}

	// 静音部分全为 0
	for i := 500 * 4; i < len(pcm); i++ {
		if pcm[i] != 0 {
			t.Fatalf("Expected silence at byte %d, got %d", i, pcm[i])
		}
	}

	// 左右声道相同
	for i := 0; i < 500*4; i += 4 {
		l := binary.LittleEndian.Uint16(pcm[i:])
		r := binary.LittleEndian.Uint16(pcm[i+2:])
		if l != r {
			t.Fatalf("Channels differ at sample %d", i/4)
		}
	}
}

func TestAllSoundsRegistered(t *testing.T) {
	am := NewAudioManager(nil, nil)

	for _, id := range []types.SoundID{
		types.SoundMove, types.SoundScramble, types.SoundSolved,
		types.SoundGameOver, types.SoundScorpionBurst,
	} {
		if !am.HasSound(id) {
			t.Errorf("Sound %s is not registered", id)
		}
	}
}

// TestPlaySoundWithoutContext 无音频上下文时静默失败
func TestPlaySoundWithoutContext(t *testing.T) {
	am := NewAudioManager(nil, nil)
	if am.PlaySound(types.SoundMove) {
		t.Error("PlaySound should report false without an audio context")
	}
	if am.PlayMusic() {
		t.Error("PlayMusic should report false without an audio context")
	}
	am.StopMusic()
}

// TestPlaySoundRespectsSettings 关闭音效后不播放
func TestPlaySoundRespectsSettings(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	sm.SetSoundEnabled(false)
	am := NewAudioManager(nil, sm)

	if am.PlaySound(types.SoundSolved) {
		t.Error("PlaySound should be a no-op when sound is disabled")
	}

	am.SetSoundVolume(0.3)
	if sm.GetSettings().SoundVolume != 0.3 {
		t.Errorf("SetSoundVolume should update settings, got %v", sm.GetSettings().SoundVolume)
	}
}
