package entities

import (
	"fmt"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/ecs"
)

// NewTileEntity 创建瓦片实体
//
// 参数:
//   - em: 实体管理器
//   - order: 还原状态下的格子序号
//   - x, y: 初始屏幕坐标（左上角）
//   - width, height: 瓦片尺寸
//   - srcX, srcY: 在视频帧上截取区域的左上角
//
// 返回:
//   - ecs.EntityID: 创建的瓦片实体ID，失败返回 0
//   - error: 参数非法时返回错误
func NewTileEntity(em *ecs.EntityManager, order int, x, y, width, height, srcX, srcY float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if order < 0 {
		return 0, fmt.Errorf("invalid tile order %d", order)
	}
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid tile size %.1fx%.1f", width, height)
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.TileComponent{
		Order:   order,
		Width:   width,
		Height:  height,
		SourceX: srcX,
		SourceY: srcY,
	})
	return id, nil
}
