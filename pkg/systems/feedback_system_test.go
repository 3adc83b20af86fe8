package systems

import (
	"testing"
	"time"

	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
	"github.com/gonewx/tileplayer/pkg/types"
)

// recordingSounds 记录播放过的音效
type recordingSounds struct {
	played []types.SoundID
}

func (r *recordingSounds) PlaySound(id types.SoundID) bool {
	r.played = append(r.played, id)
	return true
}

// TestFeedbackPlaysSounds 测试各事件对应的音效
func TestFeedbackPlaysSounds(t *testing.T) {
	bus := game.NewEventBus()
	sounds := &recordingSounds{}
	fb := NewFeedbackSystem(bus, sounds, nil, types.ElementScorpion, 22)
	var vibrations []time.Duration
	fb.SetVibrator(func(d time.Duration) { vibrations = append(vibrations, d) })

	for _, et := range []game.EventType{
		game.EventTileMoved,
		game.EventPuzzleScrambled,
		game.EventElementBurst,
		game.EventPuzzleSolved,
		game.EventGameOver,
	} {
		bus.Publish(game.Event{Type: et, Position: puzzle.Undefined})
	}

	want := []types.SoundID{
		types.SoundMove,
		types.SoundScramble,
		types.SoundScorpionBurst,
		types.SoundSolved,
		types.SoundGameOver,
	}
	if len(sounds.played) != len(want) {
		t.Fatalf("Expected %d sounds, got %v", len(want), sounds.played)
	}
	for i := range want {
		if sounds.played[i] != want[i] {
			t.Errorf("sound %d: %s, want %s", i, sounds.played[i], want[i])
		}
	}
	if len(vibrations) != 1 || vibrations[0] != 22*time.Millisecond {
		t.Errorf("Expected one 22ms vibration, got %v", vibrations)
	}
}

// TestFeedbackRespectsVibrateSetting 测试关闭震动后瓦片落位不震动
func TestFeedbackRespectsVibrateSetting(t *testing.T) {
	bus := game.NewEventBus()
	settings, err := game.NewSettingsManager(nil)
	if err != nil {
		t.Fatal(err)
	}
	settings.SetVibrateEnabled(false)

	fb := NewFeedbackSystem(bus, nil, settings, types.ElementScorpion, 22)
	vibrated := false
	fb.SetVibrator(func(time.Duration) { vibrated = true })

	bus.Publish(game.Event{Type: game.EventTileMoved, Position: puzzle.Position{X: 1, Y: 1}})
	if vibrated {
		t.Error("Expected no vibration with vibrate disabled")
	}
}
