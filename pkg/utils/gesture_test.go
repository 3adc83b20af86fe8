package utils

import (
	"testing"
)

const testFrameDt = 1.0 / 30.0

func kinds(events []GestureEvent) []GestureKind {
	result := make([]GestureKind, len(events))
	for i, e := range events {
		result[i] = e.Kind
	}
	return result
}

func TestGesturePressAndRelease(t *testing.T) {
	g := NewGestureTracker()

	events := g.Feed(true, 100, 200, testFrameDt)
	if len(events) != 1 || events[0].Kind != GesturePress {
		t.Fatalf("Expected a single Press, got %v", kinds(events))
	}
	if events[0].Position != (Vec2{X: 100, Y: 200}) {
		t.Errorf("Expected press at (100,200), got %v", events[0].Position)
	}

	// 原地按住不产生事件
	if events := g.Feed(true, 100, 200, testFrameDt); len(events) != 0 {
		t.Errorf("Expected no events while holding still, got %v", kinds(events))
	}

	events = g.Feed(false, 0, 0, testFrameDt)
	if len(events) != 1 || events[0].Kind != GestureRelease {
		t.Fatalf("Expected a single Release, got %v", kinds(events))
	}
	// 抬起时使用最后一次按下的位置
	if events[0].Position != (Vec2{X: 100, Y: 200}) {
		t.Errorf("Expected release at last pressed position, got %v", events[0].Position)
	}
}

func TestGestureDragBelowThreshold(t *testing.T) {
	g := NewGestureTracker()
	g.Feed(true, 100, 100, testFrameDt)

	if events := g.Feed(true, 104, 101, testFrameDt); len(events) != 0 {
		t.Errorf("Expected no drag below threshold, got %v", kinds(events))
	}
}

func TestGestureDragLocksAxis(t *testing.T) {
	g := NewGestureTracker()
	g.Feed(true, 100, 100, testFrameDt)

	// 超过阈值：首个拖动事件携带累计位移
	events := g.Feed(true, 112, 103, testFrameDt)
	if len(events) != 1 || events[0].Kind != GestureDrag {
		t.Fatalf("Expected a Drag, got %v", kinds(events))
	}
	if events[0].Delta != (Vec2{X: 12}) {
		t.Errorf("Expected horizontal delta (12,0), got %v", events[0].Delta)
	}

	// 后续拖动锁定在水平轴，纯垂直位移被忽略
	if events := g.Feed(true, 112, 120, testFrameDt); len(events) != 0 {
		t.Errorf("Expected vertical motion to be dropped, got %v", kinds(events))
	}

	events = g.Feed(true, 105, 120, testFrameDt)
	if len(events) != 1 || events[0].Delta != (Vec2{X: -7}) {
		t.Errorf("Expected delta (-7,0), got %v", events)
	}
}

func TestGestureFlickBeforeRelease(t *testing.T) {
	g := NewGestureTracker()
	g.Feed(true, 100, 300, testFrameDt)
	g.Feed(true, 100, 260, testFrameDt)
	g.Feed(true, 100, 220, testFrameDt)

	events := g.Feed(false, 0, 0, testFrameDt)
	got := kinds(events)
	if len(got) != 2 || got[0] != GestureFlick || got[1] != GestureRelease {
		t.Fatalf("Expected [Flick Release], got %v", got)
	}
	if events[0].Delta.Y >= 0 || events[0].Delta.X != 0 {
		t.Errorf("Expected upward flick velocity, got %v", events[0].Delta)
	}
}

func TestGestureSlowReleaseIsNotFlick(t *testing.T) {
	g := NewGestureTracker()
	g.Feed(true, 100, 100, testFrameDt)
	g.Feed(true, 110, 100, testFrameDt)
	// 停住几帧，速度衰减到阈值以下
	for i := 0; i < 8; i++ {
		g.Feed(true, 110, 100, testFrameDt)
	}

	got := kinds(g.Feed(false, 0, 0, testFrameDt))
	if len(got) != 1 || got[0] != GestureRelease {
		t.Errorf("Expected only Release, got %v", got)
	}
}
