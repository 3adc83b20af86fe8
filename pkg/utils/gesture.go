package utils

import "math"

// GestureKind 手势事件类型
type GestureKind int

const (
	// GesturePress 按下
	GesturePress GestureKind = iota
	// GestureRelease 抬起
	GestureRelease
	// GestureDrag 拖动（每帧的位移，已锁定到一个轴）
	GestureDrag
	// GestureFlick 快速滑动（抬起时的速度，像素/秒）
	GestureFlick
)

func (k GestureKind) String() string {
	switch k {
	case GesturePress:
		return "Press"
	case GestureRelease:
		return "Release"
	case GestureDrag:
		return "Drag"
	case GestureFlick:
		return "Flick"
	}
	return "Unknown"
}

// GestureEvent 一次手势事件
type GestureEvent struct {
	Kind     GestureKind
	Position Vec2 // 指针位置（屏幕坐标）
	Delta    Vec2 // Drag: 本帧位移；Flick: 速度
}

const (
	// DefaultDragThreshold 从按下点移动超过该距离才开始拖动
	DefaultDragThreshold = 8.0
	// DefaultFlickMinSpeed 抬起时速度超过该值视为快速滑动（像素/秒）
	DefaultFlickMinSpeed = 600.0
)

// GestureTracker 把逐帧的指针状态转换成 Press/Drag/Flick/Release 事件
//
// 与 ebiten 无关，输入系统每帧读取指针后调用 Feed。
// 拖动一旦开始就锁定在首次位移较大的那个轴上。
type GestureTracker struct {
	DragThreshold float64
	FlickMinSpeed float64

	pressed  bool
	dragging bool
	axis     Vec2 // (1,0) 水平，(0,1) 垂直
	start    Vec2
	last     Vec2
	velocity Vec2
}

// NewGestureTracker 使用默认阈值创建手势跟踪器
func NewGestureTracker() *GestureTracker {
	return &GestureTracker{
		DragThreshold: DefaultDragThreshold,
		FlickMinSpeed: DefaultFlickMinSpeed,
	}
}

// Feed 输入一帧的指针状态
//
// 参数：
//   - pressed: 指针是否按下
//   - x, y: 指针位置；抬起那一帧的位置会被忽略，使用最后一次按下时的位置
//   - dt: 本帧时长（秒）
//
// 返回：
//   - 本帧产生的事件，按发生顺序排列；Flick 总在 Release 之前
func (g *GestureTracker) Feed(pressed bool, x, y, dt float64) []GestureEvent {
	var events []GestureEvent
	pos := Vec2{X: x, Y: y}

	switch {
	case pressed && !g.pressed:
		g.pressed = true
		g.dragging = false
		g.start, g.last = pos, pos
		g.velocity = Vec2{}
		events = append(events, GestureEvent{Kind: GesturePress, Position: pos})

	case pressed && g.pressed:
		frame := Vec2{X: pos.X - g.last.X, Y: pos.Y - g.last.Y}
		if dt > 0 {
			inst := frame.Scale(1 / dt)
			g.velocity = g.velocity.Scale(0.5).Add(inst.Scale(0.5))
		}

		if !g.dragging {
			total := Vec2{X: pos.X - g.start.X, Y: pos.Y - g.start.Y}
			if total.Length() >= g.DragThreshold {
				g.dragging = true
				if math.Abs(total.X) > math.Abs(total.Y) {
					g.axis = Vec2{X: 1}
				} else {
					g.axis = Vec2{Y: 1}
				}
				// 第一次拖动事件带上从按下点起累计的位移
				frame = total
			}
		}

		if g.dragging {
			d := Vec2{X: frame.X * g.axis.X, Y: frame.Y * g.axis.Y}
			if !d.IsZero() {
				events = append(events, GestureEvent{Kind: GestureDrag, Position: pos, Delta: d})
			}
		}
		g.last = pos

	case !pressed && g.pressed:
		g.pressed = false
		if g.velocity.Length() >= g.FlickMinSpeed {
			events = append(events, GestureEvent{Kind: GestureFlick, Position: g.last, Delta: g.velocity})
		}
		events = append(events, GestureEvent{Kind: GestureRelease, Position: g.last})
		g.dragging = false
		g.velocity = Vec2{}
	}

	return events
}

// IsPressed 当前是否处于按下状态
func (g *GestureTracker) IsPressed() bool {
	return g.pressed
}
