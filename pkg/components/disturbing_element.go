package components

import (
	"github.com/gonewx/tileplayer/pkg/types"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// ElementState 干扰元素的状态
type ElementState int

const (
	// ElementWandering 在瓦片上游荡
	ElementWandering ElementState = iota
	// ElementLeavingSafeArea 已离开瓦片覆盖区域，正在计时
	ElementLeavingSafeArea
	// ElementTerminating 正在播放消失动画，不可逆
	ElementTerminating
	// ElementTerminated 已消失，直到下一次重置
	ElementTerminated
)

func (s ElementState) String() string {
	switch s {
	case ElementWandering:
		return "Wandering"
	case ElementLeavingSafeArea:
		return "LeavingSafeArea"
	case ElementTerminating:
		return "Terminating"
	case ElementTerminated:
		return "Terminated"
	}
	return "Unknown"
}

// SpriteGridSize 移动和消失动画都是 4×4 帧的精灵图
const SpriteGridSize = 4

// DisturbingElementComponent 干扰元素（例如蝎子）
//
// 元素只读取棋盘上的瓦片做碰撞检测，不持有瓦片。
type DisturbingElementComponent struct {
	Kind types.ElementKind

	Width  float64 // 帧宽度(像素)
	Height float64 // 帧高度(像素)

	VelocityX float64 // 每帧水平位移
	VelocityY float64 // 每帧垂直位移

	MinSpeed       float64 // 反弹时随机速度下限
	MaxSpeed       float64 // 反弹时随机速度上限
	IncreaseFactor float64 // 每有一个同伴消失时速度范围的增量

	// MovingArea 允许活动的区域（棋盘区域）
	MovingArea utils.Rect

	IsTerminable       bool // 是否允许消失（免疫作弊会关掉）
	IsTerminated       bool // 已消失
	IsGoingToTerminate bool // 消失动画已开始
	IsOverSafeArea     bool // 本帧是否处于安全区域

	State ElementState

	// 移动动画的帧游标
	MoveFrameX, MoveFrameY int
	// 消失动画的帧游标
	TerminateFrameX, TerminateFrameY int

	// 当前显示的帧（精灵图中的格子坐标）
	FrameX, FrameY int
	// FrameEmpty 消失动画播放完毕，不再显示
	FrameEmpty bool
	// UsingTerminationSprite 当前帧取自消失动画的精灵图
	UsingTerminationSprite bool

	// FrameElapsed 消失动画帧计时(秒)
	FrameElapsed float64

	// 警告闪烁（渲染用）
	ShineElapsed float64
	ShineAlpha   uint8
}

// Bounds 元素在屏幕上的包围盒
func (d *DisturbingElementComponent) Bounds(pos *PositionComponent) utils.Rect {
	return utils.Rect{X: pos.X, Y: pos.Y, W: d.Width, H: d.Height}
}
