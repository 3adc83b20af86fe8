package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// mockScene 记录调用情况的测试场景
type mockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	updateErr    error
	saved        bool
}

func (m *mockScene) Update(deltaTime float64) error {
	m.updateCalled = true
	m.deltaTime = deltaTime
	return m.updateErr
}

func (m *mockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *mockScene) SaveOnExit() bool {
	m.saved = true
	return true
}

func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no active scene initially")
	}

	scene := &mockScene{}
	sm.SwitchTo(scene)
	if sm.GetCurrentScene() != scene {
		t.Error("SwitchTo did not set the current scene correctly")
	}
}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	scene := &mockScene{}
	sm.SwitchTo(scene)

	if err := sm.Update(1.0 / 30.0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !scene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if scene.deltaTime != 1.0/30.0 {
		t.Errorf("Expected deltaTime %.4f, got %.4f", 1.0/30.0, scene.deltaTime)
	}
}

// TestSceneManagerUpdatePropagatesError 场景的错误原样返回
func TestSceneManagerUpdatePropagatesError(t *testing.T) {
	sm := NewSceneManager()
	want := errors.New("boom")
	sm.SwitchTo(&mockScene{updateErr: want})

	if err := sm.Update(0.03); !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
}

func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Update(0.03); err != nil {
		t.Errorf("Update without a scene should not fail, got %v", err)
	}
	if !sm.SaveOnExit() {
		t.Error("SaveOnExit without a scene should succeed")
	}
}

func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	scene := &mockScene{}
	sm.SwitchTo(scene)

	sm.Draw(ebiten.NewImage(10, 10))
	if !scene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

func TestSceneManagerSaveOnExit(t *testing.T) {
	sm := NewSceneManager()
	scene := &mockScene{}
	sm.SwitchTo(scene)

	if !sm.SaveOnExit() || !scene.saved {
		t.Error("SaveOnExit should delegate to a Saveable scene")
	}
}
