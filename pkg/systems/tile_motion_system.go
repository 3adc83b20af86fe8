package systems

import (
	"math"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// Direction 瓦片移动方向
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "Left"
	case DirectionRight:
		return "Right"
	case DirectionUp:
		return "Up"
	case DirectionDown:
		return "Down"
	}
	return "None"
}

// DirectionOf 位移的方向，水平分量优先
func DirectionOf(delta utils.Vec2) Direction {
	switch {
	case delta.X > 0:
		return DirectionRight
	case delta.X < 0:
		return DirectionLeft
	case delta.Y > 0:
		return DirectionDown
	case delta.Y < 0:
		return DirectionUp
	}
	return DirectionNone
}

// CanMove 位于 start 的瓦片能否朝 delta 方向移动
// 要求空白格与瓦片同行（水平）或同列（垂直）且位于移动方向一侧；
// 零位移只要求共线
func CanMove(p *puzzle.Puzzle, start puzzle.Position, delta utils.Vec2) bool {
	blank := p.BlankPosition()
	switch DirectionOf(delta) {
	case DirectionUp:
		return blank.X == start.X && blank.Y < start.Y
	case DirectionDown:
		return blank.X == start.X && blank.Y > start.Y
	case DirectionLeft:
		return blank.Y == start.Y && blank.X < start.X
	case DirectionRight:
		return blank.Y == start.Y && blank.X > start.X
	}
	return blank.X == start.X || blank.Y == start.Y
}

// chainStep 链上一块瓦片的起点格和目标格
type chainStep struct {
	from, to puzzle.Position
}

// TileMotionSystem 瓦片运动系统
//
// 把手势转换为选中瓦片到空白格之间整条链的连续位移。
// 位移每帧按摩擦系数衰减；链上任一瓦片越过目标格时整条链停住，
// 位移过小时整条链吸附到目标格。选中的瓦片落位时发出 TileMoved，
// 拼图本身不在这里修改。
type TileMotionSystem struct {
	board           *GameBoard
	eventBus        *game.EventBus
	cfg             config.MotionConfig
	targetFrameTime float64 // 目标帧时长（秒），用于把快速滑动的速度换算为每帧位移

	selected ecs.EntityID
	delta    utils.Vec2
}

// NewTileMotionSystem 创建瓦片运动系统
//
// 参数：
//   - board: 所属棋盘
//   - bus: 事件总线（发布 TileMoved）
//   - cfg: 运动参数
//   - tps: 每秒更新次数
func NewTileMotionSystem(board *GameBoard, bus *game.EventBus, cfg config.MotionConfig, tps int) *TileMotionSystem {
	frameTime := 1.0 / 30
	if tps > 0 {
		frameTime = 1.0 / float64(tps)
	}
	return &TileMotionSystem{
		board:           board,
		eventBus:        bus,
		cfg:             cfg,
		targetFrameTime: frameTime,
	}
}

// Selected 当前选中的瓦片，没有时为 ecs.InvalidEntity
func (s *TileMotionSystem) Selected() ecs.EntityID { return s.selected }

// Delta 当前每帧位移
func (s *TileMotionSystem) Delta() utils.Vec2 { return s.delta }

// IsMoving 是否有瓦片正在移动
func (s *TileMotionSystem) IsMoving() bool { return !s.delta.IsZero() }

// Deselect 取消选中并停止移动
func (s *TileMotionSystem) Deselect() {
	s.selected = ecs.InvalidEntity
	s.delta = utils.Vec2{}
}

// HandleGesture 分发一个手势事件
func (s *TileMotionSystem) HandleGesture(e utils.GestureEvent) {
	switch e.Kind {
	case utils.GesturePress:
		s.Press(e.Position)
	case utils.GestureRelease:
		s.Release()
	case utils.GestureDrag:
		s.Drag(e.Delta)
	case utils.GestureFlick:
		s.Flick(e.Delta)
	}
}

// Press 按下时选中包含该点的瓦片
// 拼图已还原或上一次移动尚未结束时忽略
func (s *TileMotionSystem) Press(point utils.Vec2) {
	if s.board.Puzzle().IsSolved() {
		return
	}
	if s.selected != ecs.InvalidEntity && !s.delta.IsZero() {
		return
	}
	s.selected = s.board.TileAtPoint(point)
}

// Release 抬起时没有移动则取消选中；正在移动时保持选中直到停下
func (s *TileMotionSystem) Release() {
	if s.board.Puzzle().IsSolved() {
		return
	}
	if s.delta.IsZero() {
		s.selected = ecs.InvalidEntity
	}
}

// Flick 快速滑动
//
// 参数：
//   - velocity: 抬起时的速度（像素/秒）
func (s *TileMotionSystem) Flick(velocity utils.Vec2) {
	if !s.board.IsActive() || s.board.Puzzle().IsSolved() {
		return
	}
	d := velocity.Scale(s.targetFrameTime).DominantAxis()
	s.moveTile(d, s.cfg.FlickRatio, s.cfg.FlickKinetic)
}

// Drag 拖动
//
// 参数：
//   - delta: 本帧的拖动位移，已锁定到一个轴
func (s *TileMotionSystem) Drag(delta utils.Vec2) {
	if !s.board.IsActive() || s.board.Puzzle().IsSolved() {
		return
	}
	s.moveTile(delta, s.cfg.DragRatio, s.cfg.DragKinetic)
}

// moveTile 给选中的瓦片一个初始位移
// 幅度为瓦片尺寸乘以 ratio，再限制在 MaxMoveRatio 之内，最后乘以 kinetic
func (s *TileMotionSystem) moveTile(d utils.Vec2, ratio, kinetic float64) {
	if s.selected == ecs.InvalidEntity || !s.delta.IsZero() {
		return
	}
	tile, ok := ecs.GetComponent[*components.TileComponent](s.board.entityManager, s.selected)
	if !ok {
		s.Deselect()
		return
	}

	switch {
	case d.X != 0:
		limit := tile.Width * s.cfg.MaxMoveRatio
		d.X = utils.Clamp(math.Copysign(tile.Width*ratio, d.X), -limit, limit)
		d.Y = 0
	case d.Y != 0:
		limit := tile.Height * s.cfg.MaxMoveRatio
		d.Y = utils.Clamp(math.Copysign(tile.Height*ratio, d.Y), -limit, limit)
	}

	if CanMove(s.board.Puzzle(), s.board.Puzzle().PositionOf(tile.Order), d) {
		s.delta = d.Scale(kinetic)
	} else {
		s.delta = utils.Vec2{}
	}
}

// Update 推进正在移动的瓦片链
func (s *TileMotionSystem) Update() {
	if s.selected == ecs.InvalidEntity || s.delta.IsZero() {
		return
	}
	tile, ok := ecs.GetComponent[*components.TileComponent](s.board.entityManager, s.selected)
	if !ok {
		s.Deselect()
		return
	}

	p := s.board.Puzzle()
	pos := p.PositionOf(tile.Order)
	dir := DirectionOf(s.delta)
	chain := chainTowardsBlank(pos, p.BlankPosition(), dir)
	if len(chain) == 0 {
		s.delta = utils.Vec2{}
		return
	}

	stopped := false
	landed := false
	for _, step := range chain {
		if s.stopTile(step, dir) {
			stopped = true
			if step.from == pos {
				landed = true
			}
		}
	}

	if stopped {
		s.delta = utils.Vec2{}
	} else {
		s.delta = s.delta.Scale(utils.Clamp(s.cfg.KineticFriction, 0, 1))

		switch dir {
		case DirectionLeft, DirectionRight:
			if math.Abs(s.delta.X) < s.cfg.StopThreshold {
				s.stickChain(chain)
				s.delta.X = 0
				landed = true
			}
		case DirectionUp, DirectionDown:
			if math.Abs(s.delta.Y) < s.cfg.StopThreshold {
				s.stickChain(chain)
				s.delta.Y = 0
				landed = true
			}
		}
	}

	if landed {
		s.eventBus.Publish(game.Event{
			Type:     game.EventTileMoved,
			Entity:   s.selected,
			Position: pos,
		})
	}
}

// stopTile 按位移移动链上的一块瓦片，越过目标格时吸附在目标格
//
// 返回：
//   - bool: 瓦片是否停住
func (s *TileMotionSystem) stopTile(step chainStep, dir Direction) bool {
	pos := s.tilePosition(step.from)
	if pos == nil {
		return false
	}
	pos.X += s.delta.X
	pos.Y += s.delta.Y
	corner := s.board.Corner(step.to)

	switch dir {
	case DirectionLeft:
		if pos.X <= corner.X {
			pos.X = corner.X
			return true
		}
	case DirectionRight:
		if pos.X >= corner.X {
			pos.X = corner.X
			return true
		}
	case DirectionUp:
		if pos.Y <= corner.Y {
			pos.Y = corner.Y
			return true
		}
	case DirectionDown:
		if pos.Y >= corner.Y {
			pos.Y = corner.Y
			return true
		}
	}
	return false
}

// stickChain 链上所有瓦片直接吸附到目标格
func (s *TileMotionSystem) stickChain(chain []chainStep) {
	for _, step := range chain {
		if pos := s.tilePosition(step.from); pos != nil {
			corner := s.board.Corner(step.to)
			pos.X, pos.Y = corner.X, corner.Y
		}
	}
}

// tilePosition 网格坐标上瓦片的屏幕位置组件
func (s *TileMotionSystem) tilePosition(grid puzzle.Position) *components.PositionComponent {
	id := s.board.TileAt(grid)
	if id == ecs.InvalidEntity {
		return nil
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.board.entityManager, id)
	if !ok {
		return nil
	}
	return pos
}

// chainTowardsBlank 从空白格旁边到选中瓦片的整条链，选中的瓦片排在最后
func chainTowardsBlank(pos, blank puzzle.Position, dir Direction) []chainStep {
	var chain []chainStep
	switch dir {
	case DirectionLeft:
		if blank.Y != pos.Y {
			return nil
		}
		for i := blank.X; i < pos.X; i++ {
			chain = append(chain, chainStep{from: puzzle.Position{X: i + 1, Y: pos.Y}, to: puzzle.Position{X: i, Y: pos.Y}})
		}
	case DirectionRight:
		if blank.Y != pos.Y {
			return nil
		}
		for i := blank.X; i > pos.X; i-- {
			chain = append(chain, chainStep{from: puzzle.Position{X: i - 1, Y: pos.Y}, to: puzzle.Position{X: i, Y: pos.Y}})
		}
	case DirectionUp:
		if blank.X != pos.X {
			return nil
		}
		for i := blank.Y; i < pos.Y; i++ {
			chain = append(chain, chainStep{from: puzzle.Position{X: pos.X, Y: i + 1}, to: puzzle.Position{X: pos.X, Y: i}})
		}
	case DirectionDown:
		if blank.X != pos.X {
			return nil
		}
		for i := blank.Y; i > pos.Y; i-- {
			chain = append(chain, chainStep{from: puzzle.Position{X: pos.X, Y: i - 1}, to: puzzle.Position{X: pos.X, Y: i}})
		}
	}
	return chain
}
