package systems

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
)

// testFrameDt 测试用的帧时长（30 TPS）
const testFrameDt = 1.0 / 30

// testBoard 测试用的棋盘及其依赖
type testBoard struct {
	em      *ecs.EntityManager
	bus     *game.EventBus
	session *game.GameSession
	board   *GameBoard
	cfg     *config.GameplayConfig
}

// newTestBoard 创建 size×size 的本地棋盘（480×480，原点 (0,160)），随机源固定
func newTestBoard(t *testing.T, size int) *testBoard {
	t.Helper()

	cfg := config.DefaultGameplayConfig()
	p, err := puzzle.New(size, size)
	if err != nil {
		t.Fatalf("puzzle.New(%d) error: %v", size, err)
	}
	p.SetRand(rand.New(rand.NewSource(7)))

	em := ecs.NewEntityManager()
	bus := game.NewEventBus()
	session := game.NewGameSession(p, game.NewLocalGamer(uuid.New(), "tester"), cfg.Score)

	board, err := NewGameBoard(em, session, bus, cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewGameBoard error: %v", err)
	}
	return &testBoard{em: em, bus: bus, session: session, board: board, cfg: cfg}
}

// countEvents 统计某类事件的发布次数
func countEvents(bus *game.EventBus, t game.EventType) *int {
	n := new(int)
	bus.Subscribe(t, func(game.Event) { *n++ })
	return n
}

// position 实体的位置组件
func (tb *testBoard) position(t *testing.T, id ecs.EntityID) *components.PositionComponent {
	t.Helper()
	pos, ok := ecs.GetComponent[*components.PositionComponent](tb.em, id)
	if !ok {
		t.Fatalf("entity %d has no position", id)
	}
	return pos
}

// element 干扰元素组件
func (tb *testBoard) element(t *testing.T, id ecs.EntityID) *components.DisturbingElementComponent {
	t.Helper()
	elem, ok := ecs.GetComponent[*components.DisturbingElementComponent](tb.em, id)
	if !ok {
		t.Fatalf("entity %d is not a disturbing element", id)
	}
	return elem
}

// tileX 瓦片当前的屏幕 X 坐标
func (tb *testBoard) tileX(t *testing.T, order int) float64 {
	t.Helper()
	return tb.position(t, tb.board.Tiles()[order]).X
}
