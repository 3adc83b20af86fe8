package systems

import (
	"log"

	"github.com/gonewx/tileplayer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerFunc 读取一帧的指针状态
type PointerFunc func() (pressed bool, x, y int)

// InputSystem 把指针和“摇一摇”转换成棋盘手势和开始请求
//
// 指针经 GestureTracker 变成 Press/Drag/Flick/Release 后交给瓦片运动系统。
// 桌面上没有加速度传感器，用空格键模拟摇一摇；只有传感器开启时才生效。
type InputSystem struct {
	motion  *TileMotionSystem
	tracker *utils.GestureTracker
	pointer PointerFunc

	sensorsActive bool
	shakeKey      ebiten.Key
	onShake       func() bool

	// moved 本次按下是否产生过拖动或快速滑动
	moved bool
	onTap func(p utils.Vec2)
}

// NewInputSystem 创建输入系统，默认从 ebiten 读取指针
func NewInputSystem(motion *TileMotionSystem) *InputSystem {
	return &InputSystem{
		motion:   motion,
		tracker:  utils.NewGestureTracker(),
		pointer:  utils.GetPointerState,
		shakeKey: ebiten.KeySpace,
	}
}

// SetPointerFunc 替换指针来源（测试或回放时使用）
func (s *InputSystem) SetPointerFunc(fn PointerFunc) {
	if fn == nil {
		fn = utils.GetPointerState
	}
	s.pointer = fn
}

// SetShakeHandler 设置摇一摇时的回调
func (s *InputSystem) SetShakeHandler(fn func() bool) {
	s.onShake = fn
}

// SetTapHandler 设置轻点回调：抬起时本次按下没有拖动也没有快速滑动
func (s *InputSystem) SetTapHandler(fn func(p utils.Vec2)) {
	s.onTap = fn
}

// SetSensorsActive 开关摇一摇传感器
func (s *InputSystem) SetSensorsActive(active bool) {
	s.sensorsActive = active
}

// SensorsActive 摇一摇传感器是否开启
func (s *InputSystem) SensorsActive() bool { return s.sensorsActive }

// Update 读取本帧输入
func (s *InputSystem) Update(deltaTime float64) {
	if s.sensorsActive && inpututil.IsKeyJustPressed(s.shakeKey) {
		s.Shake()
	}

	pressed, x, y := s.pointer()
	s.Feed(pressed, float64(x), float64(y), deltaTime)
}

// Feed 把一帧指针状态交给手势跟踪器，并把产生的手势分发给瓦片运动系统
//
// 返回：
//   - 本帧产生的手势
func (s *InputSystem) Feed(pressed bool, x, y, deltaTime float64) []utils.GestureEvent {
	events := s.tracker.Feed(pressed, x, y, deltaTime)
	for _, e := range events {
		s.motion.HandleGesture(e)
		switch e.Kind {
		case utils.GesturePress:
			s.moved = false
		case utils.GestureDrag, utils.GestureFlick:
			s.moved = true
		case utils.GestureRelease:
			if !s.moved && s.onTap != nil {
				s.onTap(e.Position)
			}
		}
	}
	return events
}

// Shake 触发一次摇一摇，传感器关闭时忽略
func (s *InputSystem) Shake() bool {
	if !s.sensorsActive || s.onShake == nil {
		return false
	}
	accepted := s.onShake()
	if accepted {
		log.Printf("[InputSystem] Shake accepted")
	}
	return accepted
}
