package utils

import "math"

// Vec2 二维向量（像素）
type Vec2 struct {
	X, Y float64
}

// Add 向量相加
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Scale 数乘
func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

// IsZero 两个分量都为 0
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Length 向量长度
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// DominantAxis 只保留绝对值较大的分量，另一个置 0
// 两者相等时保留 Y
func (v Vec2) DominantAxis() Vec2 {
	if math.Abs(v.X) > math.Abs(v.Y) {
		return Vec2{X: v.X}
	}
	return Vec2{Y: v.Y}
}

// Rect 轴对齐矩形，X/Y 为左上角
type Rect struct {
	X, Y, W, H float64
}

// Right 右边界
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 下边界
func (r Rect) Bottom() float64 { return r.Y + r.H }

// IsEmpty 宽或高为 0
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Contains 点是否在矩形内（左上闭、右下开）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects 两个矩形是否有重叠面积
// 仅边缘相接不算相交
func (r Rect) Intersects(o Rect) bool {
	return o.X < r.Right() && r.X < o.Right() && o.Y < r.Bottom() && r.Y < o.Bottom()
}

// Clamp 把 v 限制在 [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
