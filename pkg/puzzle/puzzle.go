// Package puzzle 实现滑块拼图的逻辑网格
//
// 网格的每个格子保存一个瓦片序号（Order），空白格保存 Blank。
// 序号 i 的瓦片在已还原状态下位于第 i 个格子（按行优先），
// 空白格位于右下角。
package puzzle

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	// Blank 空白格的占位值
	Blank = -1

	// MinSize 网格的最小边长
	MinSize = 2
	// MaxSize 网格的最大边长（最多 25 个格子）
	MaxSize = 5
)

// ErrInvalidSize 网格尺寸超出 [MinSize, MaxSize]
var ErrInvalidSize = errors.New("puzzle: invalid size")

// Position 网格坐标
type Position struct {
	X, Y int
}

// Undefined 表示"不在网格上"的坐标
var Undefined = Position{X: -1, Y: -1}

// IsUndefined 检查坐标是否为 Undefined
func (p Position) IsUndefined() bool {
	return p == Undefined
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Puzzle N×M 滑块拼图
//
// 不是并发安全的，调用方在单一的更新循环里使用。
type Puzzle struct {
	width, height int
	cells         []int
	blank         Position

	rng         *rand.Rand
	onScrambled []func()
}

// New 创建一个已还原的拼图
//
// 参数：
//   - width, height: 网格尺寸，范围 [MinSize, MaxSize]
//
// 返回：
//   - *Puzzle: 已还原（空白格在右下角）的拼图
//   - error: 尺寸非法时返回 ErrInvalidSize
func New(width, height int) (*Puzzle, error) {
	if width < MinSize || width > MaxSize || height < MinSize || height > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	p := &Puzzle{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	p.Reset()
	return p, nil
}

// SetRand 替换打乱时使用的随机源（测试用）
func (p *Puzzle) SetRand(rng *rand.Rand) {
	if rng != nil {
		p.rng = rng
	}
}

// Width 网格宽度
func (p *Puzzle) Width() int { return p.width }

// Height 网格高度
func (p *Puzzle) Height() int { return p.height }

// TileCount 瓦片数量（不含空白格）
func (p *Puzzle) TileCount() int { return p.width*p.height - 1 }

// Reset 恢复到已还原状态
func (p *Puzzle) Reset() {
	last := len(p.cells) - 1
	for i := range p.cells {
		if i == last {
			p.cells[i] = Blank
		} else {
			p.cells[i] = i
		}
	}
	p.blank = Position{X: p.width - 1, Y: p.height - 1}
}

// Contains 检查坐标是否在网格内
func (p *Puzzle) Contains(pos Position) bool {
	return pos.X >= 0 && pos.X < p.width && pos.Y >= 0 && pos.Y < p.height
}

// Cell 返回格子中的瓦片序号
// 空白格返回 (Blank, true)，越界返回 (Blank, false)
func (p *Puzzle) Cell(x, y int) (int, bool) {
	if !p.Contains(Position{X: x, Y: y}) {
		return Blank, false
	}
	return p.cells[y*p.width+x], true
}

// SetCell 直接写入格子
//
// 用于构建自定义布局；调用方负责保证结果仍是一个排列。
// 写入 Blank 会更新空白格位置。
func (p *Puzzle) SetCell(x, y, order int) {
	if !p.Contains(Position{X: x, Y: y}) {
		return
	}
	p.cells[y*p.width+x] = order
	if order == Blank {
		p.blank = Position{X: x, Y: y}
	}
}

// BlankPosition 空白格坐标
func (p *Puzzle) BlankPosition() Position {
	return p.blank
}

// PositionOf 查找序号所在的格子，找不到返回 Undefined
func (p *Puzzle) PositionOf(order int) Position {
	for i, v := range p.cells {
		if v == order {
			return Position{X: i % p.width, Y: i / p.width}
		}
	}
	return Undefined
}

// IsSolved 所有瓦片都在自己的初始格子上
func (p *Puzzle) IsSolved() bool {
	last := len(p.cells) - 1
	for i := 0; i < last; i++ {
		if p.cells[i] != i {
			return false
		}
	}
	return p.cells[last] == Blank
}

// CanMove 检查坐标上的瓦片能否滑向空白格（同行或同列，且不是空白格本身）
func (p *Puzzle) CanMove(pos Position) bool {
	if !p.Contains(pos) || pos == p.blank {
		return false
	}
	return pos.X == p.blank.X || pos.Y == p.blank.Y
}

// Move 把 pos 与空白格之间的整列瓦片朝空白格方向推一格
//
// 返回：
//   - bool: 是否发生了移动；不共线时为 false，网格保持不变
func (p *Puzzle) Move(pos Position) bool {
	if !p.CanMove(pos) {
		return false
	}

	dx, dy := sign(pos.X-p.blank.X), sign(pos.Y-p.blank.Y)
	cur := p.blank
	for cur != pos {
		next := Position{X: cur.X + dx, Y: cur.Y + dy}
		p.cells[cur.Y*p.width+cur.X] = p.cells[next.Y*p.width+next.X]
		cur = next
	}
	p.cells[pos.Y*p.width+pos.X] = Blank
	p.blank = pos
	return true
}

// OnScrambled 注册打乱完成后的回调
func (p *Puzzle) OnScrambled(fn func()) {
	if fn != nil {
		p.onScrambled = append(p.onScrambled, fn)
	}
}

// Scramble 随机打乱
//
// 通过让空白格随机游走完成，所以结果总是可解的。
// 打乱后保证不是已还原状态，然后依次调用 OnScrambled 回调。
func (p *Puzzle) Scramble() {
	steps := p.width * p.height * 20
	for {
		prev := Undefined
		for i := 0; i < steps; i++ {
			candidates := p.neighboursOfBlank(prev)
			next := candidates[p.rng.Intn(len(candidates))]
			prev = p.blank
			p.Move(next)
		}
		if !p.IsSolved() {
			break
		}
	}

	for _, fn := range p.onScrambled {
		fn()
	}
}

// neighboursOfBlank 空白格的相邻格子，排除刚离开的格子以免原地来回
func (p *Puzzle) neighboursOfBlank(exclude Position) []Position {
	result := make([]Position, 0, 4)
	for _, d := range [4]Position{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		n := Position{X: p.blank.X + d.X, Y: p.blank.Y + d.Y}
		if p.Contains(n) && n != exclude {
			result = append(result, n)
		}
	}
	return result
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
