package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/entities"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
)

// MaxShineAlpha 警告闪烁时的低透明度
const MaxShineAlpha = 150

// DisturbingElementSystem 干扰元素系统
//
// 职责：
//   - 在棋盘区域内移动元素，碰到边界时以新的随机速度反弹
//   - 判断元素是否位于安全区域（与任一瓦片重叠，或在活动区域之外）
//   - 离开安全区域的元素播放消失动画，结束后发出 ElementTerminated
//   - 每有一个元素消失，其余未消失元素的速度范围增加一次
type DisturbingElementSystem struct {
	entityManager *ecs.EntityManager
	board         *GameBoard
	eventBus      *game.EventBus
	cfg           config.DisturbingConfig
	rng           *rand.Rand
}

// NewDisturbingElementSystem 创建干扰元素系统
func NewDisturbingElementSystem(em *ecs.EntityManager, board *GameBoard, bus *game.EventBus, cfg config.DisturbingConfig, rng *rand.Rand) *DisturbingElementSystem {
	return &DisturbingElementSystem{
		entityManager: em,
		board:         board,
		eventBus:      bus,
		cfg:           cfg,
		rng:           rng,
	}
}

// Update 更新池中所有元素
//
// 参数：
//   - deltaTime: 自上次更新以来的时间（秒）
//   - state: 当前游戏状态，Ready 之前和 GameOver 时元素不会消失
func (s *DisturbingElementSystem) Update(deltaTime float64, state game.StateID) {
	for _, id := range s.board.DisturbingElements() {
		s.updateElement(id, deltaTime, state)
	}
}

func (s *DisturbingElementSystem) updateElement(id ecs.EntityID, deltaTime float64, state game.StateID) {
	elem, ok := ecs.GetComponent[*components.DisturbingElementComponent](s.entityManager, id)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return
	}
	if elem.IsTerminated {
		return
	}

	frozen := s.board.DisturbingElementsFrozen()
	canTerminate := elem.IsTerminable && state.AllowsTermination()

	if !elem.IsGoingToTerminate {
		elem.UsingTerminationSprite = false
		if !frozen {
			s.nextMoveFrame(elem)
			s.move(elem, pos)
		}

		elem.IsOverSafeArea = s.isOverSafeArea(elem, pos)
		if elem.IsOverSafeArea || !canTerminate {
			elem.State = components.ElementWandering
			elem.FrameElapsed = 0
		} else {
			elem.State = components.ElementLeavingSafeArea
		}
	}

	if (!elem.IsOverSafeArea && canTerminate) || elem.IsGoingToTerminate {
		elem.FrameElapsed += deltaTime
		if elem.FrameElapsed > s.cfg.FrameInterval {
			elem.UsingTerminationSprite = true
			if !frozen {
				s.nextTerminateFrame(id, elem)
			}
			elem.IsGoingToTerminate = true
			elem.State = components.ElementTerminating
			elem.FrameElapsed = 0
		}
	}

	s.updateShine(elem, deltaTime)

	if elem.FrameEmpty {
		s.terminate(id, elem)
	}
}

// move 按速度移动，越过活动区域边界的分量换成指向区域内的随机速度
func (s *DisturbingElementSystem) move(elem *components.DisturbingElementComponent, pos *components.PositionComponent) {
	area := elem.MovingArea

	if pos.X+elem.Width > area.Right() {
		elem.VelocityX = -s.randomSpeed(elem)
	}
	if pos.X < area.X {
		elem.VelocityX = s.randomSpeed(elem)
	}
	if pos.Y+elem.Height > area.Bottom() {
		elem.VelocityY = -s.randomSpeed(elem)
	}
	if pos.Y < area.Y {
		elem.VelocityY = s.randomSpeed(elem)
	}

	pos.X += elem.VelocityX
	pos.Y += elem.VelocityY
}

func (s *DisturbingElementSystem) randomSpeed(elem *components.DisturbingElementComponent) float64 {
	return elem.MinSpeed + s.rng.Float64()*(elem.MaxSpeed-elem.MinSpeed)
}

// isOverSafeArea 在活动区域内时必须压在某块瓦片上；在区域外总是安全
func (s *DisturbingElementSystem) isOverSafeArea(elem *components.DisturbingElementComponent, pos *components.PositionComponent) bool {
	area := elem.MovingArea
	if pos.X > area.Right() || pos.X < area.X || pos.Y > area.Bottom() || pos.Y < area.Y {
		return true
	}

	bounds := elem.Bounds(pos)
	for _, tileID := range s.board.Tiles() {
		tile, ok := ecs.GetComponent[*components.TileComponent](s.entityManager, tileID)
		if !ok {
			continue
		}
		tilePos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, tileID)
		if !ok {
			continue
		}
		if bounds.Intersects(tile.Bounds(tilePos)) {
			return true
		}
	}
	return false
}

// nextMoveFrame 显示移动动画的当前帧并前进一格，16 帧循环
func (s *DisturbingElementSystem) nextMoveFrame(elem *components.DisturbingElementComponent) {
	elem.FrameX, elem.FrameY = elem.MoveFrameX, elem.MoveFrameY

	if elem.MoveFrameX >= components.SpriteGridSize-1 {
		elem.MoveFrameX = 0
		elem.MoveFrameY = (elem.MoveFrameY + 1) % components.SpriteGridSize
	} else {
		elem.MoveFrameX++
	}
}

// nextTerminateFrame 显示消失动画的当前帧并前进一格
// 到达最后一格时帧变为空；经过 (1,1) 时发出 ElementBurst
func (s *DisturbingElementSystem) nextTerminateFrame(id ecs.EntityID, elem *components.DisturbingElementComponent) {
	x, y := elem.TerminateFrameX, elem.TerminateFrameY
	if x == 1 && y == 1 {
		s.eventBus.Publish(game.Event{Type: game.EventElementBurst, Entity: id, Position: puzzle.Undefined})
	}

	if x >= components.SpriteGridSize-1 {
		elem.TerminateFrameX = 0
		if y < components.SpriteGridSize-1 {
			elem.TerminateFrameY++
		} else {
			elem.TerminateFrameY = 0
			elem.FrameEmpty = true
			return
		}
	} else {
		elem.TerminateFrameX++
	}
	elem.FrameX, elem.FrameY = x, y
}

// updateShine 免疫或剩余数量告急时透明度在两档之间闪烁
func (s *DisturbingElementSystem) updateShine(elem *components.DisturbingElementComponent, deltaTime float64) {
	warning := !elem.IsTerminable || s.board.DisturbingElementsLeft() <= s.board.DisturbingElementsThreshold()
	if !warning {
		elem.ShineElapsed = 0
		elem.ShineAlpha = entities.DefaultShineAlpha
		return
	}

	elem.ShineElapsed += deltaTime
	if elem.ShineElapsed > s.cfg.BlinkInterval {
		elem.ShineElapsed = 0
		if elem.ShineAlpha < entities.DefaultShineAlpha {
			elem.ShineAlpha = entities.DefaultShineAlpha
		} else {
			elem.ShineAlpha = MaxShineAlpha
		}
	}
}

// terminate 标记元素已消失，加快其余元素，发出 ElementTerminated
func (s *DisturbingElementSystem) terminate(id ecs.EntityID, elem *components.DisturbingElementComponent) {
	elem.IsTerminated = true
	elem.IsGoingToTerminate = false
	elem.State = components.ElementTerminated

	for _, otherID := range s.board.DisturbingElements() {
		if otherID == id {
			continue
		}
		other, ok := ecs.GetComponent[*components.DisturbingElementComponent](s.entityManager, otherID)
		if !ok || other.IsTerminated {
			continue
		}
		other.MinSpeed += elem.IncreaseFactor
		other.MaxSpeed += elem.IncreaseFactor
	}

	log.Printf("[DisturbingElementSystem] Element %d terminated", id)
	s.eventBus.Publish(game.Event{Type: game.EventElementTerminated, Entity: id, Position: puzzle.Undefined})
}
