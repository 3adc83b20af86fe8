package components

import "github.com/gonewx/tileplayer/pkg/utils"

// TileComponent 拼图瓦片
type TileComponent struct {
	Order   int     // 还原状态下所在格子的序号（行优先），同时是瓦片上显示的数字减一
	Width   float64 // 瓦片宽度(像素)
	Height  float64 // 瓦片高度(像素)
	SourceX float64 // 在视频帧上截取区域的左上角
	SourceY float64
}

// Bounds 瓦片在屏幕上的包围盒
func (t *TileComponent) Bounds(pos *PositionComponent) utils.Rect {
	return utils.Rect{X: pos.X, Y: pos.Y, W: t.Width, H: t.Height}
}

// Source 瓦片在视频帧上的截取区域
func (t *TileComponent) Source() utils.Rect {
	return utils.Rect{X: t.SourceX, Y: t.SourceY, W: t.Width, H: t.Height}
}
