package systems

import (
	"fmt"
	"image"
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/entities"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
	"github.com/gonewx/tileplayer/pkg/types"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// Board 游戏流程驱动的棋盘
// 本地棋盘和远程棋盘都实现该接口
type Board interface {
	Update(deltaTime float64, state game.StateID) error
	Activate()
	Deactivate(freezeDisturbingElements bool)
	IsActive() bool
	ResetDisturbingElements(count int)
	DefaultElementCount() int
	DisturbingElementsEnabled() bool
}

// FrameSource 瓦片背后播放的视频源
type FrameSource interface {
	Start()
	Stop()
	Reset()
}

// GameBoard 本地棋盘
//
// 职责：
//   - 管理瓦片实体（按 Order 排列）和干扰元素池（后进先出）
//   - 把手势交给 TileMotionSystem，把干扰元素交给 DisturbingElementSystem
//   - 干扰元素耗尽时打乱拼图或发出 NoDisturbingElementsLeft
//   - 把落位的瓦片排进本地玩家的移动队列
type GameBoard struct {
	entityManager *ecs.EntityManager
	session       *game.GameSession
	eventBus      *game.EventBus
	cfg           *config.GameplayConfig
	rng           *rand.Rand

	frameSource  FrameSource     // 可为 nil
	frameFeed    *game.FrameFeed // 可为 nil
	currentFrame *image.RGBA     // 最近一次取到的视频帧

	area       utils.Rect
	tileWidth  float64
	tileHeight float64
	puzzle     *puzzle.Puzzle // 已注册打乱回调的拼图

	tiles       []ecs.EntityID // 下标即 Order
	elements    []ecs.EntityID // 干扰元素池，末尾为栈顶
	elementKind types.ElementKind

	elementsLeft                 int
	disturbingElementsEnabled    bool
	disturbingElementsTerminable bool
	disturbingElementsFrozen     bool
	tileNumbersEnabled           bool
	isActive                     bool

	motion        *TileMotionSystem
	elementSystem *DisturbingElementSystem
}

// NewGameBoard 创建本地棋盘
//
// 干扰元素默认开启且可消失；调用方随后按玩家设置调用各个 Set 方法。
// 棋盘创建后处于未激活状态。
//
// 参数：
//   - em: 实体管理器
//   - session: 游戏会话，棋盘读取其中的拼图
//   - bus: 事件总线
//   - cfg: 玩法配置
//   - rng: 随机源（摆放干扰元素），为 nil 时自动创建
//
// 返回：
//   - *GameBoard: 棋盘实例
//   - error: 参数非法时返回错误
func NewGameBoard(em *ecs.EntityManager, session *game.GameSession, bus *game.EventBus, cfg *config.GameplayConfig, rng *rand.Rand) (*GameBoard, error) {
	if em == nil || session == nil || bus == nil || cfg == nil {
		return nil, fmt.Errorf("game board requires entity manager, session, event bus and config")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	b := &GameBoard{
		entityManager: em,
		session:       session,
		eventBus:      bus,
		cfg:           cfg,
		rng:           rng,
		area: utils.Rect{
			X: cfg.Board.OriginX,
			Y: cfg.Board.OriginY,
			W: cfg.Board.Width,
			H: cfg.Board.Height,
		},
		elementKind:                  types.ElementScorpion,
		disturbingElementsEnabled:    true,
		disturbingElementsTerminable: true,
	}
	b.motion = NewTileMotionSystem(b, bus, cfg.Motion, cfg.Game.TPS)
	b.elementSystem = NewDisturbingElementSystem(em, b, bus, cfg.Disturbing, rng)

	bus.Subscribe(game.EventTileMoved, b.onTileMoved)
	bus.Subscribe(game.EventElementTerminated, b.onElementTerminated)
	session.OnReset(b.onGameReset)

	b.reset()
	return b, nil
}

// SetFrameSource 设置视频源和取帧的交接点
func (b *GameBoard) SetFrameSource(src FrameSource, feed *game.FrameFeed) {
	b.frameSource = src
	b.frameFeed = feed
}

// Update 更新棋盘
//
// 顺序：取视频帧 → 检查干扰元素是否耗尽 → 瓦片运动 → 干扰元素
func (b *GameBoard) Update(deltaTime float64, state game.StateID) error {
	if b.frameFeed != nil {
		if frame, ok := b.frameFeed.Take(); ok {
			b.currentFrame = frame
		}
	}

	if b.disturbingElementsEnabled && b.elementsLeft < 1 {
		p := b.Puzzle()
		if b.session.Stopwatch.IsRunning() && !p.IsSolved() {
			log.Printf("[GameBoard] No %s left, scrambling", b.elementPluralName())
			p.Scramble()
			b.ResetDisturbingElements(b.DefaultElementCount())
		} else {
			b.eventBus.Publish(game.Event{
				Type:     game.EventNoDisturbingElementsLeft,
				Position: puzzle.Undefined,
			})
		}
	}

	b.motion.Update()

	if b.disturbingElementsEnabled {
		b.elementSystem.Update(deltaTime, state)
	}
	return nil
}

// Activate 激活棋盘：接受手势，干扰元素解冻，视频开始播放
func (b *GameBoard) Activate() {
	if b.frameSource != nil {
		b.frameSource.Start()
	}
	b.isActive = true
	b.disturbingElementsFrozen = false
}

// Deactivate 停用棋盘，可选择冻结干扰元素
func (b *GameBoard) Deactivate(freezeDisturbingElements bool) {
	if b.frameSource != nil {
		b.frameSource.Stop()
	}
	b.isActive = false
	b.disturbingElementsFrozen = freezeDisturbingElements
}

// IsActive 棋盘是否接受手势
func (b *GameBoard) IsActive() bool { return b.isActive }

// DisturbingElementsFrozen 干扰元素是否冻结
func (b *GameBoard) DisturbingElementsFrozen() bool { return b.disturbingElementsFrozen }

// DisturbingElementsEnabled 是否出现干扰元素
func (b *GameBoard) DisturbingElementsEnabled() bool { return b.disturbingElementsEnabled }

// SetDisturbingElementsEnabled 开关干扰元素
// 开启时重新生成默认数量，关闭时清空；同步“隐藏干扰元素”作弊项
func (b *GameBoard) SetDisturbingElementsEnabled(enabled bool) {
	if enabled == b.disturbingElementsEnabled {
		return
	}
	if enabled {
		b.ResetDisturbingElements(b.DefaultElementCount())
	} else {
		b.ResetDisturbingElements(0)
	}
	b.disturbingElementsEnabled = enabled
	b.session.SetCheatActive(game.CheatDisturbingElementsHiding, !enabled)
}

// DisturbingElementsTerminable 干扰元素能否消失
func (b *GameBoard) DisturbingElementsTerminable() bool { return b.disturbingElementsTerminable }

// SetDisturbingElementsTerminable 设置干扰元素能否消失，应用到池中所有元素
func (b *GameBoard) SetDisturbingElementsTerminable(terminable bool) {
	if terminable == b.disturbingElementsTerminable {
		return
	}
	for _, id := range b.elements {
		if elem, ok := ecs.GetComponent[*components.DisturbingElementComponent](b.entityManager, id); ok {
			elem.IsTerminable = terminable
		}
	}
	b.disturbingElementsTerminable = terminable
	b.session.SetCheatActive(game.CheatDisturbingElementsImmunity, !terminable)
}

// TileNumbersEnabled 瓦片上是否显示数字
func (b *GameBoard) TileNumbersEnabled() bool { return b.tileNumbersEnabled }

// SetTileNumbersEnabled 开关瓦片数字
func (b *GameBoard) SetTileNumbersEnabled(enabled bool) {
	b.tileNumbersEnabled = enabled
	b.session.SetCheatActive(game.CheatTileNumbers, enabled)
}

// DisturbingElementsLeft 尚未消失的干扰元素数量
func (b *GameBoard) DisturbingElementsLeft() int { return b.elementsLeft }

// DisturbingElementsThreshold 剩余数量不超过该值时进入警告状态
func (b *GameBoard) DisturbingElementsThreshold() int { return b.cfg.Disturbing.Threshold }

// DefaultElementCount 默认干扰元素数量（格子数）
func (b *GameBoard) DefaultElementCount() int {
	p := b.Puzzle()
	return p.Width() * p.Height()
}

// ElementKind 干扰元素种类
func (b *GameBoard) ElementKind() types.ElementKind { return b.elementKind }

// Puzzle 当前会话的拼图
func (b *GameBoard) Puzzle() *puzzle.Puzzle { return b.session.Puzzle }

// Session 游戏会话
func (b *GameBoard) Session() *game.GameSession { return b.session }

// Motion 瓦片运动系统
func (b *GameBoard) Motion() *TileMotionSystem { return b.motion }

// Tiles 瓦片实体，下标即 Order
func (b *GameBoard) Tiles() []ecs.EntityID { return b.tiles }

// DisturbingElements 干扰元素池
func (b *GameBoard) DisturbingElements() []ecs.EntityID { return b.elements }

// Area 棋盘在屏幕上的区域
func (b *GameBoard) Area() utils.Rect { return b.area }

// TileSize 单个瓦片的尺寸
func (b *GameBoard) TileSize() (float64, float64) { return b.tileWidth, b.tileHeight }

// CurrentFrame 最近一次取到的视频帧，可能为 nil
func (b *GameBoard) CurrentFrame() *image.RGBA { return b.currentFrame }

// Corner 网格坐标对应的瓦片左上角
func (b *GameBoard) Corner(pos puzzle.Position) utils.Vec2 {
	return utils.Vec2{
		X: b.area.X + float64(pos.X)*b.tileWidth,
		Y: b.area.Y + float64(pos.Y)*b.tileHeight,
	}
}

// TileAt 网格坐标上的瓦片，空白格或越界返回 ecs.InvalidEntity
func (b *GameBoard) TileAt(pos puzzle.Position) ecs.EntityID {
	order, ok := b.Puzzle().Cell(pos.X, pos.Y)
	if !ok || order == puzzle.Blank || order >= len(b.tiles) {
		return ecs.InvalidEntity
	}
	return b.tiles[order]
}

// TileAtPoint 第一个包含屏幕坐标的瓦片（按 Order 查找）
func (b *GameBoard) TileAtPoint(point utils.Vec2) ecs.EntityID {
	for _, id := range b.tiles {
		tile, ok := ecs.GetComponent[*components.TileComponent](b.entityManager, id)
		if !ok {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](b.entityManager, id)
		if !ok {
			continue
		}
		if tile.Bounds(pos).Contains(point.X, point.Y) {
			return id
		}
	}
	return ecs.InvalidEntity
}

// AlignTiles 把所有瓦片摆到拼图中对应格子的位置
func (b *GameBoard) AlignTiles() {
	p := b.Puzzle()
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			grid := puzzle.Position{X: x, Y: y}
			id := b.TileAt(grid)
			if id == ecs.InvalidEntity {
				continue
			}
			if pos, ok := ecs.GetComponent[*components.PositionComponent](b.entityManager, id); ok {
				corner := b.Corner(grid)
				pos.X, pos.Y = corner.X, corner.Y
			}
		}
	}
}

// ResetDisturbingElements 把干扰元素池调整为 count 个并重新摆放
//
// count < 1 时清空。池按栈使用：多出的从栈顶弹出，不足的压入新元素。
// 每个元素随机摆放在棋盘内，恢复为未消失状态，能否消失取棋盘当前设置。
func (b *GameBoard) ResetDisturbingElements(count int) {
	if count < 1 {
		for _, id := range b.elements {
			b.entityManager.DestroyEntity(id)
		}
		b.elements = b.elements[:0]
	} else {
		for len(b.elements) > count {
			last := len(b.elements) - 1
			b.entityManager.DestroyEntity(b.elements[last])
			b.elements = b.elements[:last]
		}
		for len(b.elements) < count {
			id, err := entities.NewDisturbingElementEntity(b.entityManager, b.elementKind, b.area, b.cfg.Disturbing, b.rng)
			if err != nil {
				log.Printf("[GameBoard] Warning: Failed to create disturbing element: %v", err)
				break
			}
			b.elements = append(b.elements, id)
		}

		for _, id := range b.elements {
			b.resetElement(id)
		}
	}
	b.entityManager.RemoveMarkedEntities()

	b.elementsLeft = len(b.elements)
}

// resetElement 随机摆放一个元素并清除消失状态
func (b *GameBoard) resetElement(id ecs.EntityID) {
	elem, ok := ecs.GetComponent[*components.DisturbingElementComponent](b.entityManager, id)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](b.entityManager, id)
	if !ok {
		return
	}

	pos.X = b.area.X + float64(b.rng.Intn(max(1, int(b.area.W-elem.Width))))
	pos.Y = b.area.Y + float64(b.rng.Intn(max(1, int(b.area.H-elem.Height))))

	elem.IsTerminated = false
	elem.IsTerminable = b.disturbingElementsTerminable
	elem.IsGoingToTerminate = false
	elem.IsOverSafeArea = true
	elem.State = components.ElementWandering
	elem.MinSpeed = b.cfg.Disturbing.MinSpeed
	elem.MaxSpeed = b.cfg.Disturbing.MaxSpeed
	elem.TerminateFrameX, elem.TerminateFrameY = 0, 0
	elem.FrameEmpty = false
	elem.UsingTerminationSprite = false
	elem.FrameElapsed = 0
	elem.ShineElapsed = 0
	elem.ShineAlpha = entities.DefaultShineAlpha
}

// reset 按当前拼图重建瓦片和干扰元素
func (b *GameBoard) reset() {
	p := b.Puzzle()
	if p != b.puzzle {
		p.OnScrambled(b.onScrambled)
		b.puzzle = p
	}

	b.tileWidth = math.Round(b.area.W / float64(p.Width()))
	b.tileHeight = math.Round(b.area.H / float64(p.Height()))

	b.session.SetCheatActive(game.CheatDisturbingElementsHiding, !b.disturbingElementsEnabled)
	b.session.SetCheatActive(game.CheatDisturbingElementsImmunity, !b.disturbingElementsTerminable)
	b.session.SetCheatActive(game.CheatTileNumbers, b.tileNumbersEnabled)

	if b.disturbingElementsEnabled {
		b.ResetDisturbingElements(b.DefaultElementCount())
	}
	b.resetTiles()
}

// resetTiles 销毁旧瓦片，按还原状态创建新瓦片
func (b *GameBoard) resetTiles() {
	for _, id := range b.tiles {
		b.entityManager.DestroyEntity(id)
	}
	b.entityManager.RemoveMarkedEntities()
	b.tiles = b.tiles[:0]

	p := b.Puzzle()
	p.Reset()
	for order := 0; order < p.TileCount(); order++ {
		x, y := order%p.Width(), order/p.Width()
		srcX, srcY := b.tileWidth*float64(x), b.tileHeight*float64(y)
		id, err := entities.NewTileEntity(b.entityManager, order,
			b.area.X+srcX, b.area.Y+srcY, b.tileWidth, b.tileHeight, srcX, srcY)
		if err != nil {
			log.Printf("[GameBoard] Warning: Failed to create tile %d: %v", order, err)
			continue
		}
		b.tiles = append(b.tiles, id)
	}
}

// onGameReset 会话重置：取消选中，视频回到开头，重建棋盘
func (b *GameBoard) onGameReset() {
	b.motion.Deselect()
	if b.frameSource != nil {
		b.frameSource.Reset()
	}
	b.reset()
}

// onScrambled 拼图打乱后瓦片对齐到新位置
// 打乱前排队的移动针对的是旧布局，一并丢弃
func (b *GameBoard) onScrambled() {
	b.motion.Deselect()
	if gamer := b.session.Gamer(); gamer != nil {
		gamer.ClearMoves()
	}
	b.AlignTiles()
	b.eventBus.Publish(game.Event{Type: game.EventPuzzleScrambled, Position: puzzle.Undefined})
}

// onTileMoved 瓦片落位，移动排进本地玩家的队列，在会话更新时提交
func (b *GameBoard) onTileMoved(e game.Event) {
	if gamer := b.session.Gamer(); gamer != nil && !e.Position.IsUndefined() {
		gamer.AddMove(e.Position)
	}
}

// onElementTerminated 池中的元素消失后剩余数量减一
func (b *GameBoard) onElementTerminated(e game.Event) {
	for _, id := range b.elements {
		if id == e.Entity {
			b.elementsLeft--
			return
		}
	}
}

// elementPluralName 干扰元素种类的复数名称（日志用）
func (b *GameBoard) elementPluralName() string {
	if spec, ok := b.elementKind.Spec(); ok {
		return spec.PluralName
	}
	return "disturbing elements"
}
