package game

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/gonewx/tileplayer/pkg/types"
)

// Note 音效中的一个音符
// Freq 为 0 表示静音；Noise 为 true 时使用白噪声
type Note struct {
	Freq     float64 // 频率(Hz)
	Duration float64 // 时长(秒)
	Noise    bool
}

// Cue 由若干音符依次组成的音效
type Cue struct {
	Notes []Note
	Gain  float64 // 0.0 ~ 1.0
}

var soundCues = map[types.SoundID]Cue{
	types.SoundMove: {Gain: 0.4, Notes: []Note{
		{Freq: 880, Duration: 0.04},
	}},
	types.SoundScramble: {Gain: 0.35, Notes: []Note{
		{Freq: 330, Duration: 0.05}, {Freq: 440, Duration: 0.05},
		{Freq: 294, Duration: 0.05}, {Freq: 392, Duration: 0.05},
		{Freq: 262, Duration: 0.08},
	}},
	types.SoundSolved: {Gain: 0.5, Notes: []Note{
		{Freq: 523, Duration: 0.12}, {Freq: 659, Duration: 0.12},
		{Freq: 784, Duration: 0.12}, {Freq: 1047, Duration: 0.3},
	}},
	types.SoundGameOver: {Gain: 0.5, Notes: []Note{
		{Freq: 392, Duration: 0.2}, {Freq: 330, Duration: 0.2},
		{Freq: 262, Duration: 0.45},
	}},
	types.SoundScorpionBurst: {Gain: 0.3, Notes: []Note{
		{Duration: 0.12, Noise: true},
	}},
}

var menuTheme = Cue{Gain: 0.15, Notes: []Note{
	{Freq: 262, Duration: 0.3}, {Freq: 330, Duration: 0.3}, {Freq: 392, Duration: 0.3}, {Duration: 0.3},
	{Freq: 349, Duration: 0.3}, {Freq: 294, Duration: 0.3}, {Freq: 247, Duration: 0.6},
	{Freq: 220, Duration: 0.3}, {Freq: 262, Duration: 0.3}, {Freq: 330, Duration: 0.6}, {Duration: 0.3},
}}

// SynthesizeCue 把音效渲染成 16 位小端立体声 PCM
// 每个音符带一个线性衰减包络，避免音符之间的爆音
func SynthesizeCue(cue Cue, sampleRate int) []byte {
	total := 0
	for _, n := range cue.Notes {
		total += int(n.Duration * float64(sampleRate))
	}

	buf := make([]byte, total*4)
	rng := rand.New(rand.NewSource(1))
	offset := 0
	for _, n := range cue.Notes {
		samples := int(n.Duration * float64(sampleRate))
		for i := 0; i < samples; i++ {
			var v float64
			switch {
			case n.Noise:
				v = rng.Float64()*2 - 1
			case n.Freq > 0:
				v = math.Sin(2 * math.Pi * n.Freq * float64(i) / float64(sampleRate))
			}
			envelope := 1 - float64(i)/float64(samples)
			s := int16(v * envelope * cue.Gain * math.MaxInt16)
			binary.LittleEndian.PutUint16(buf[offset:], uint16(s))
			binary.LittleEndian.PutUint16(buf[offset+2:], uint16(s))
			offset += 4
		}
	}
	return buf
}
