package systems

import (
	"errors"
	"image"
	"testing"

	"github.com/google/uuid"

	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// fakeFrameSource 记录调用次数的视频源
type fakeFrameSource struct {
	starts, stops, resets int
}

func (f *fakeFrameSource) Start() { f.starts++ }
func (f *fakeFrameSource) Stop()  { f.stops++ }
func (f *fakeFrameSource) Reset() { f.resets++ }

// TestNewGameBoardLayout 测试棋盘创建后瓦片按还原状态排列
func TestNewGameBoardLayout(t *testing.T) {
	tb := newTestBoard(t, 4)

	if w, h := tb.board.TileSize(); w != 120 || h != 120 {
		t.Errorf("Expected 120x120 tiles, got %vx%v", w, h)
	}
	if got := len(tb.board.Tiles()); got != 15 {
		t.Fatalf("Expected 15 tiles, got %d", got)
	}
	if tb.board.IsActive() {
		t.Error("Expected new board inactive")
	}

	for order, id := range tb.board.Tiles() {
		pos := tb.position(t, id)
		corner := tb.board.Corner(puzzle.Position{X: order % 4, Y: order / 4})
		if pos.X != corner.X || pos.Y != corner.Y {
			t.Errorf("tile %d at (%v,%v), want (%v,%v)", order, pos.X, pos.Y, corner.X, corner.Y)
		}
	}
	if got := tb.board.TileAt(puzzle.Position{X: 3, Y: 3}); got != ecs.InvalidEntity {
		t.Errorf("Expected blank cell empty, got %d", got)
	}
	if got := tb.board.TileAtPoint(utils.Vec2{X: 130, Y: 170}); got != tb.board.Tiles()[1] {
		t.Errorf("Expected tile 1 under (130,170), got %d", got)
	}
}

// TestBoardScramblesWhenElementsRunOutWhileRunning 测试计时中干扰元素耗尽会打乱拼图并补满
func TestBoardScramblesWhenElementsRunOutWhileRunning(t *testing.T) {
	tb := newTestBoard(t, 4)
	scrambled := countEvents(tb.bus, game.EventPuzzleScrambled)
	empty := countEvents(tb.bus, game.EventNoDisturbingElementsLeft)

	tb.session.Puzzle.Move(puzzle.Position{X: 2, Y: 3})
	tb.session.Stopwatch.Start()
	tb.board.ResetDisturbingElements(0)

	if err := tb.board.Update(testFrameDt, game.StateRunning); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if *scrambled != 1 {
		t.Errorf("Expected 1 scramble, got %d", *scrambled)
	}
	if *empty != 0 {
		t.Errorf("Expected no NoDisturbingElementsLeft while running, got %d", *empty)
	}
	if got := tb.board.DisturbingElementsLeft(); got != 16 {
		t.Errorf("Expected population refilled to 16, got %d", got)
	}
	if tb.session.Puzzle.IsSolved() {
		t.Error("Expected puzzle scrambled")
	}

	// 打乱后瓦片对齐到新格子
	p := tb.session.Puzzle
	for order, id := range tb.board.Tiles() {
		pos := tb.position(t, id)
		corner := tb.board.Corner(p.PositionOf(order))
		if pos.X != corner.X || pos.Y != corner.Y {
			t.Errorf("tile %d not aligned after scramble", order)
		}
	}
}

// TestBoardReportsEmptyPopulationWhenIdle 测试未计时时干扰元素耗尽发出 NoDisturbingElementsLeft
func TestBoardReportsEmptyPopulationWhenIdle(t *testing.T) {
	tb := newTestBoard(t, 4)
	empty := countEvents(tb.bus, game.EventNoDisturbingElementsLeft)
	tb.board.ResetDisturbingElements(0)

	if err := tb.board.Update(testFrameDt, game.StateReady); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if *empty != 1 {
		t.Errorf("Expected 1 NoDisturbingElementsLeft, got %d", *empty)
	}
	if !tb.session.Puzzle.IsSolved() {
		t.Error("Expected puzzle untouched")
	}
}

// TestDisablingElementsHidesThem 测试关闭干扰元素后清空池且不再发事件
func TestDisablingElementsHidesThem(t *testing.T) {
	tb := newTestBoard(t, 4)
	empty := countEvents(tb.bus, game.EventNoDisturbingElementsLeft)

	tb.board.SetDisturbingElementsEnabled(false)
	if got := len(tb.board.DisturbingElements()); got != 0 {
		t.Errorf("Expected empty pool, got %d", got)
	}
	if !tb.session.IsCheatActive(game.CheatDisturbingElementsHiding) {
		t.Error("Expected hiding cheat active")
	}
	if err := tb.board.Update(testFrameDt, game.StateReady); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if *empty != 0 {
		t.Errorf("Expected no events with elements disabled, got %d", *empty)
	}

	tb.board.SetDisturbingElementsEnabled(true)
	if got := tb.board.DisturbingElementsLeft(); got != 16 {
		t.Errorf("Expected 16 elements after re-enabling, got %d", got)
	}
	if tb.session.IsCheatActive(game.CheatDisturbingElementsHiding) {
		t.Error("Expected hiding cheat cleared")
	}
}

// TestTileMovedQueuesMoveForGamer 测试瓦片落位事件进入本地玩家的队列
func TestTileMovedQueuesMoveForGamer(t *testing.T) {
	tb := newTestBoard(t, 4)
	tb.bus.Publish(game.Event{Type: game.EventTileMoved, Position: puzzle.Position{X: 3, Y: 2}})
	tb.bus.Publish(game.Event{Type: game.EventTileMoved, Position: puzzle.Undefined})

	if got := tb.session.Gamer().PendingMoves(); got != 1 {
		t.Errorf("Expected 1 pending move, got %d", got)
	}
}

// TestSessionResetRebuildsBoard 测试会话重置后瓦片回到原位、视频回到开头
func TestSessionResetRebuildsBoard(t *testing.T) {
	tb := newTestBoard(t, 4)
	src := &fakeFrameSource{}
	tb.board.SetFrameSource(src, &game.FrameFeed{})

	tb.session.Puzzle.Move(puzzle.Position{X: 0, Y: 3})
	tb.board.AlignTiles()
	tb.session.Reset()

	if src.resets != 1 {
		t.Errorf("Expected frame source reset once, got %d", src.resets)
	}
	for order, id := range tb.board.Tiles() {
		pos := tb.position(t, id)
		corner := tb.board.Corner(puzzle.Position{X: order % 4, Y: order / 4})
		if pos.X != corner.X || pos.Y != corner.Y {
			t.Errorf("tile %d not back home after reset", order)
		}
	}
}

// TestBoardFollowsPuzzleSizeChange 测试换成 3×3 拼图后瓦片和干扰元素都按新尺寸重建
func TestBoardFollowsPuzzleSizeChange(t *testing.T) {
	tb := newTestBoard(t, 4)
	p, err := puzzle.New(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	tb.session.Puzzle = p
	tb.session.Reset()

	if got := len(tb.board.Tiles()); got != 8 {
		t.Errorf("Expected 8 tiles, got %d", got)
	}
	if w, _ := tb.board.TileSize(); w != 160 {
		t.Errorf("Expected tile width 160, got %v", w)
	}
	if got := tb.board.DisturbingElementsLeft(); got != 9 {
		t.Errorf("Expected 9 elements, got %d", got)
	}
	if got := tb.em.EntityCount(); got != 8+9 {
		t.Errorf("Expected old entities destroyed, %d alive", got)
	}
}

// TestActivateDrivesFrameSource 测试激活和停用控制视频播放
func TestActivateDrivesFrameSource(t *testing.T) {
	tb := newTestBoard(t, 4)
	src := &fakeFrameSource{}
	feed := &game.FrameFeed{}
	tb.board.SetFrameSource(src, feed)

	tb.board.Activate()
	tb.board.Deactivate(true)
	if src.starts != 1 || src.stops != 1 {
		t.Errorf("Expected 1 start and 1 stop, got %d/%d", src.starts, src.stops)
	}
	if !tb.board.DisturbingElementsFrozen() {
		t.Error("Expected elements frozen")
	}

	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	feed.Push(frame)
	if err := tb.board.Update(testFrameDt, game.StateReady); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if tb.board.CurrentFrame() != frame {
		t.Error("Expected board to pick up the pushed frame")
	}
}

// TestRemoteBoardFailsFast 测试远程棋盘更新时返回错误
func TestRemoteBoardFailsFast(t *testing.T) {
	var b Board = NewRemoteGameBoard(game.NewRemoteGamer(uuid.New(), "remote"))
	err := b.Update(testFrameDt, game.StateRunning)
	if !errors.Is(err, ErrRemoteBoardNotImplemented) {
		t.Errorf("Expected ErrRemoteBoardNotImplemented, got %v", err)
	}
}
