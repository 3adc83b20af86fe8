package game

import (
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/puzzle"
)

// EventType 游戏事件类型
type EventType int

const (
	// EventTileMoved 选中的瓦片落入空位
	EventTileMoved EventType = iota
	// EventNoDisturbingElementsLeft 干扰元素全部消失
	EventNoDisturbingElementsLeft
	// EventElementTerminated 某个干扰元素消失完毕
	EventElementTerminated
	// EventElementBurst 干扰元素开始消失（播放音效）
	EventElementBurst
	// EventPuzzleScrambled 拼图被打乱
	EventPuzzleScrambled
	// EventPuzzleSolved 拼图完成
	EventPuzzleSolved
	// EventGameOver 得分耗尽
	EventGameOver
)

// Event 游戏事件
type Event struct {
	Type     EventType
	Entity   ecs.EntityID    // 相关实体，没有时为 ecs.InvalidEntity
	Position puzzle.Position // 相关拼图坐标，没有时为 puzzle.Undefined
}

// EventBus 同步事件总线
// Publish 在调用方的 goroutine 中依次执行处理函数，只在游戏循环中使用
type EventBus struct {
	handlers map[EventType][]func(Event)
}

// NewEventBus 创建事件总线
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventType][]func(Event))}
}

// Subscribe 订阅事件
func (b *EventBus) Subscribe(t EventType, fn func(Event)) {
	b.handlers[t] = append(b.handlers[t], fn)
}

// Publish 发布事件
func (b *EventBus) Publish(e Event) {
	for _, fn := range b.handlers[e.Type] {
		fn(e)
	}
}
