package entities

import (
	"fmt"
	"math/rand"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/types"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// DefaultShineAlpha 干扰元素正常显示时的透明度
const DefaultShineAlpha = 210

// NewDisturbingElementEntity 创建干扰元素实体
//
// 元素初始位置为 (0,0)，由棋盘在重置时随机摆放。
// 初始速度的每个分量在 [InitialSpeedMin, InitialSpeedMax] 内随机，方向随机。
//
// 参数:
//   - em: 实体管理器
//   - kind: 元素种类，必须已注册
//   - movingArea: 活动区域
//   - cfg: 干扰元素参数
//   - rng: 随机源
//
// 返回:
//   - ecs.EntityID: 创建的实体ID，失败返回 0
//   - error: 参数非法时返回错误
func NewDisturbingElementEntity(
	em *ecs.EntityManager,
	kind types.ElementKind,
	movingArea utils.Rect,
	cfg config.DisturbingConfig,
	rng *rand.Rand,
) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if rng == nil {
		return 0, fmt.Errorf("random source cannot be nil")
	}
	if _, ok := kind.Spec(); !ok {
		return 0, fmt.Errorf("unknown element kind %d", kind)
	}

	randomComponent := func() float64 {
		v := cfg.InitialSpeedMin + rng.Float64()*(cfg.InitialSpeedMax-cfg.InitialSpeedMin)
		if rng.Intn(2) == 0 {
			return -v
		}
		return v
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{})
	em.AddComponent(id, &components.DisturbingElementComponent{
		Kind:           kind,
		Width:          cfg.FrameWidth,
		Height:         cfg.FrameHeight,
		VelocityX:      randomComponent(),
		VelocityY:      randomComponent(),
		MinSpeed:       cfg.MinSpeed,
		MaxSpeed:       cfg.MaxSpeed,
		IncreaseFactor: cfg.IncreaseFactor,
		MovingArea:     movingArea,
		IsTerminable:   true,
		IsOverSafeArea: true,
		State:          components.ElementWandering,
		ShineAlpha:     DefaultShineAlpha,
	})
	return id, nil
}
