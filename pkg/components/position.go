package components

// PositionComponent 实体左上角的屏幕坐标（像素，连续值）
// 瓦片的像素位置与它在拼图中的逻辑格子相互独立，动画期间两者不一致
type PositionComponent struct {
	X, Y float64
}
