package systems

import (
	"math"
	"testing"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/entities"
	"github.com/gonewx/tileplayer/pkg/game"
)

// placeSingleElement 只保留一个静止的干扰元素，放在 (x,y)
func placeSingleElement(t *testing.T, tb *testBoard, x, y float64) (*components.DisturbingElementComponent, *components.PositionComponent) {
	t.Helper()
	tb.board.ResetDisturbingElements(1)
	id := tb.board.DisturbingElements()[0]
	elem := tb.element(t, id)
	pos := tb.position(t, id)
	pos.X, pos.Y = x, y
	elem.VelocityX, elem.VelocityY = 0, 0
	return elem, pos
}

// TestResetDisturbingElementsCount 测试重置后池大小和剩余数量都等于请求数量
func TestResetDisturbingElementsCount(t *testing.T) {
	tb := newTestBoard(t, 4)
	tiles := len(tb.board.Tiles())

	if got := len(tb.board.DisturbingElements()); got != 16 {
		t.Fatalf("Expected 16 elements after creation, got %d", got)
	}

	for _, n := range []int{5, 9, 2, 0} {
		tb.board.ResetDisturbingElements(n)
		if got := len(tb.board.DisturbingElements()); got != n {
			t.Errorf("ResetDisturbingElements(%d): pool size %d", n, got)
		}
		if got := tb.board.DisturbingElementsLeft(); got != n {
			t.Errorf("ResetDisturbingElements(%d): left %d", n, got)
		}
		if got := tb.em.EntityCount(); got != tiles+n {
			t.Errorf("ResetDisturbingElements(%d): %d entities alive, want %d", n, got, tiles+n)
		}
	}
}

// TestResetRestoresElementState 测试重置清除消失状态并恢复速度范围
func TestResetRestoresElementState(t *testing.T) {
	tb := newTestBoard(t, 4)
	tb.board.ResetDisturbingElements(3)
	id := tb.board.DisturbingElements()[0]
	elem := tb.element(t, id)

	elem.IsTerminated = true
	elem.State = components.ElementTerminated
	elem.MinSpeed, elem.MaxSpeed = 9, 10
	elem.TerminateFrameX, elem.TerminateFrameY = 2, 3
	elem.FrameEmpty = true

	tb.board.ResetDisturbingElements(3)

	if elem.IsTerminated || elem.State != components.ElementWandering {
		t.Errorf("Expected element restored, got terminated=%v state=%s", elem.IsTerminated, elem.State)
	}
	if elem.MinSpeed != tb.cfg.Disturbing.MinSpeed || elem.MaxSpeed != tb.cfg.Disturbing.MaxSpeed {
		t.Errorf("Expected base speeds, got [%v,%v]", elem.MinSpeed, elem.MaxSpeed)
	}
	if elem.TerminateFrameX != 0 || elem.TerminateFrameY != 0 || elem.FrameEmpty {
		t.Errorf("Expected termination animation rewound")
	}
	pos := tb.position(t, id)
	if !tb.board.Area().Contains(pos.X, pos.Y) {
		t.Errorf("Expected element placed inside board, got (%v,%v)", pos.X, pos.Y)
	}
}

// TestTerminationSpeedsUpSurvivors 测试 3×3 棋盘上先后消失两个元素，其余三个的速度范围各增加两次
func TestTerminationSpeedsUpSurvivors(t *testing.T) {
	tb := newTestBoard(t, 3)
	tb.board.ResetDisturbingElements(5)
	tb.board.Deactivate(true)
	terminated := countEvents(tb.bus, game.EventElementTerminated)

	ids := tb.board.DisturbingElements()
	for n, id := range ids[:2] {
		elem := tb.element(t, id)
		elem.IsGoingToTerminate = true
		elem.FrameEmpty = true

		if err := tb.board.Update(testFrameDt, game.StateRunning); err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if *terminated != n+1 {
			t.Fatalf("Expected %d terminations, got %d", n+1, *terminated)
		}
	}

	if left := tb.board.DisturbingElementsLeft(); left != 3 {
		t.Errorf("Expected 3 left, got %d", left)
	}

	factor := tb.cfg.Disturbing.IncreaseFactor
	minBase, maxBase := tb.cfg.Disturbing.MinSpeed, tb.cfg.Disturbing.MaxSpeed
	boosts := []float64{0, 1, 2, 2, 2}
	for i, id := range ids {
		elem := tb.element(t, id)
		if want := minBase + boosts[i]*factor; math.Abs(elem.MinSpeed-want) > 1e-9 {
			t.Errorf("element %d: MinSpeed %v, want %v", i, elem.MinSpeed, want)
		}
		if want := maxBase + boosts[i]*factor; math.Abs(elem.MaxSpeed-want) > 1e-9 {
			t.Errorf("element %d: MaxSpeed %v, want %v", i, elem.MaxSpeed, want)
		}
	}
}

// TestTerminationProgressesMonotonically 测试离开瓦片的元素依次经过各状态并只发一次爆裂
func TestTerminationProgressesMonotonically(t *testing.T) {
	tb := newTestBoard(t, 4)
	// 空白格 (3,3) 对应屏幕 [360,480]×[520,640]
	elem, _ := placeSingleElement(t, tb, 390, 550)
	bursts := countEvents(tb.bus, game.EventElementBurst)
	terminated := countEvents(tb.bus, game.EventElementTerminated)

	last := elem.State
	for i := 0; i < 200 && !elem.IsTerminated; i++ {
		if err := tb.board.Update(0.05, game.StateRunning); err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if elem.State < last {
			t.Fatalf("State went backwards: %s -> %s", last, elem.State)
		}
		last = elem.State
	}

	if !elem.IsTerminated || elem.State != components.ElementTerminated {
		t.Fatalf("Expected element terminated, got state %s", elem.State)
	}
	if *bursts != 1 {
		t.Errorf("Expected 1 burst, got %d", *bursts)
	}
	if *terminated != 1 {
		t.Errorf("Expected 1 termination event, got %d", *terminated)
	}
	if left := tb.board.DisturbingElementsLeft(); left != 0 {
		t.Errorf("Expected 0 left, got %d", left)
	}
}

// TestNoTerminationBeforeReady 测试 Ready 之前离开瓦片的元素不会消失
func TestNoTerminationBeforeReady(t *testing.T) {
	tb := newTestBoard(t, 4)
	elem, _ := placeSingleElement(t, tb, 390, 550)

	for i := 0; i < 100; i++ {
		if err := tb.board.Update(0.05, game.StateLoading); err != nil {
			t.Fatalf("Update error: %v", err)
		}
	}
	if elem.IsTerminated || elem.IsGoingToTerminate {
		t.Errorf("Expected element alive while loading, state %s", elem.State)
	}
	if elem.State != components.ElementWandering {
		t.Errorf("Expected Wandering, got %s", elem.State)
	}
}

// TestImmuneElementBlinks 测试免疫的元素不会消失，透明度在两档之间切换
func TestImmuneElementBlinks(t *testing.T) {
	tb := newTestBoard(t, 4)
	tb.board.ResetDisturbingElements(6)
	tb.board.SetDisturbingElementsTerminable(false)
	if !tb.session.IsCheatActive(game.CheatDisturbingElementsImmunity) {
		t.Error("Expected immunity cheat active")
	}
	elem, _ := placeSingleElement(t, tb, 390, 550)
	if elem.IsTerminable {
		t.Fatal("Expected reset element to inherit immunity")
	}

	var alphas []uint8
	for i := 0; i < 4; i++ {
		if err := tb.board.Update(0.3, game.StateRunning); err != nil {
			t.Fatalf("Update error: %v", err)
		}
		alphas = append(alphas, elem.ShineAlpha)
	}
	want := []uint8{MaxShineAlpha, entities.DefaultShineAlpha, MaxShineAlpha, entities.DefaultShineAlpha}
	for i := range want {
		if alphas[i] != want[i] {
			t.Errorf("frame %d: alpha %d, want %d", i, alphas[i], want[i])
		}
	}
	if elem.IsTerminated || elem.State != components.ElementWandering {
		t.Errorf("Expected immune element wandering, got %s", elem.State)
	}
}

// TestElementBouncesOffBoardEdge 测试越过右边界时换成向左的随机速度
func TestElementBouncesOffBoardEdge(t *testing.T) {
	tb := newTestBoard(t, 4)
	area := tb.board.Area()
	elem, pos := placeSingleElement(t, tb, area.Right()-tb.cfg.Disturbing.FrameWidth+1, 300)
	elem.VelocityX = 1

	if err := tb.board.Update(testFrameDt, game.StateLoading); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	speed := -elem.VelocityX
	if speed < elem.MinSpeed || speed > elem.MaxSpeed {
		t.Errorf("Expected leftward speed in [%v,%v], got velocity %v", elem.MinSpeed, elem.MaxSpeed, elem.VelocityX)
	}
	if want := area.Right() - tb.cfg.Disturbing.FrameWidth + 1 + elem.VelocityX; math.Abs(pos.X-want) > 1e-9 {
		t.Errorf("Expected x=%v after bounce, got %v", want, pos.X)
	}
}

// TestSafeArea 测试安全区域判断
func TestSafeArea(t *testing.T) {
	tb := newTestBoard(t, 4)
	elem, pos := placeSingleElement(t, tb, 0, 0)
	sys := tb.board.elementSystem

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"压在瓦片上", 100, 300, true},
		{"空白格内", 390, 550, false},
		{"区域右侧之外", 481, 300, true},
		{"区域上方之外", 100, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos.X, pos.Y = tt.x, tt.y
			if got := sys.isOverSafeArea(elem, pos); got != tt.want {
				t.Errorf("isOverSafeArea(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestWarningWhenFewElementsLeft 测试剩余数量不超过阈值时闪烁
func TestWarningWhenFewElementsLeft(t *testing.T) {
	tb := newTestBoard(t, 4)
	elem, _ := placeSingleElement(t, tb, 100, 300)

	if err := tb.board.Update(0.3, game.StateLoading); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if elem.ShineAlpha != MaxShineAlpha {
		t.Errorf("Expected warning alpha %d, got %d", MaxShineAlpha, elem.ShineAlpha)
	}
}
