// Package types 定义共享的基础类型
package types

import "image/color"

// ElementKind 干扰元素的种类
type ElementKind int

const (
	// ElementUnknown 未知种类
	ElementUnknown ElementKind = iota
	// ElementScorpion 蝎子
	ElementScorpion
)

// ElementKindSpec 某个种类的外观和声音
type ElementKindSpec struct {
	Name       string
	PluralName string
	// MovingSprite 移动动画的精灵图 ID（4×4 帧）
	MovingSprite string
	// TerminationSprite 消失动画的精灵图 ID（4×4 帧）
	TerminationSprite string
	// TerminationSound 消失动画播放到 (1,1) 帧时的音效
	TerminationSound SoundID
	// Tint 正常状态下的颜色
	Tint color.RGBA
}

var elementKindSpecs = map[ElementKind]ElementKindSpec{
	ElementScorpion: {
		Name:              "scorpion",
		PluralName:        "scorpions",
		MovingSprite:      "WalkingScorpionGhost",
		TerminationSprite: "BurstingScorpionGhost",
		TerminationSound:  SoundScorpionBurst,
		Tint:              color.RGBA{R: 40, G: 40, B: 40, A: 210},
	},
}

// Spec 返回种类的描述，未注册的种类返回 (零值, false)
func (k ElementKind) Spec() (ElementKindSpec, bool) {
	spec, ok := elementKindSpecs[k]
	return spec, ok
}

func (k ElementKind) String() string {
	if spec, ok := elementKindSpecs[k]; ok {
		return spec.Name
	}
	return "unknown"
}
