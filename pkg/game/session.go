package game

import (
	"log"
	"math"

	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/puzzle"
)

// GameSession 一局游戏的状态
//
// 持有拼图、计时器、步数计数器和作弊项。棋盘只负责动画，
// 拼图的变更统一在 Update 中从玩家的移动队列提交。
type GameSession struct {
	Puzzle    *puzzle.Puzzle
	Stopwatch Stopwatch
	// Counter 实际提交的步数
	Counter int
	// penalizedMoves 按作弊倍率加权后的步数，只用于扣分
	penalizedMoves int

	gamer    *Gamer
	cheats   map[CheatID]*Cheat
	scoreCfg config.ScoreConfig
	onReset  []func()
}

// NewGameSession 创建游戏会话
//
// 参数：
//   - p: 拼图
//   - gamer: 本地玩家
//   - scoreCfg: 计分参数
func NewGameSession(p *puzzle.Puzzle, gamer *Gamer, scoreCfg config.ScoreConfig) *GameSession {
	return &GameSession{
		Puzzle:   p,
		gamer:    gamer,
		cheats:   newCheats(),
		scoreCfg: scoreCfg,
	}
}

// Gamer 本地玩家
func (s *GameSession) Gamer() *Gamer { return s.gamer }

// Join 替换本地玩家，未提交的移动随旧玩家丢弃
func (s *GameSession) Join(g *Gamer) {
	s.gamer = g
	log.Printf("[GameSession] %s joined the session", g.Gamertag)
}

// OnReset 注册重置回调，棋盘在这里重建瓦片
func (s *GameSession) OnReset(fn func()) {
	s.onReset = append(s.onReset, fn)
}

// Reset 拼图回到完成状态，计时器和计数器清零
func (s *GameSession) Reset() {
	s.Puzzle.Reset()
	s.Stopwatch.Reset()
	s.Counter = 0
	s.penalizedMoves = 0
	if s.gamer != nil {
		s.gamer.ClearMoves()
	}
	for _, fn := range s.onReset {
		fn()
	}
}

// Update 推进计时器并提交排队的移动
//
// 返回：
//   - int: 本次提交成功的移动数
func (s *GameSession) Update(deltaTime float64) int {
	s.Stopwatch.Advance(deltaTime * s.ElapseFactor())

	if s.gamer == nil {
		return 0
	}
	applied := 0
	for pos := s.gamer.NextMove(); !pos.IsUndefined(); pos = s.gamer.NextMove() {
		if !s.Puzzle.Move(pos) {
			log.Printf("[GameSession] Warning: Rejected queued move at %s", pos)
			continue
		}
		s.Counter++
		s.penalizedMoves += s.IncrementFactor()
		applied++
	}
	return applied
}

// PenalizedMoves 计入扣分的步数，每步按提交时启用的作弊倍率放大
func (s *GameSession) PenalizedMoves() int { return s.penalizedMoves }

// Score 当前得分，不低于 0
// 瓦片越多起始分越高，耗时和加权步数各自扣分
func (s *GameSession) Score() float64 {
	score := s.scoreCfg.PointsPerTile*float64(s.Puzzle.TileCount()) -
		s.Stopwatch.Elapsed().Seconds()*s.scoreCfg.TimePenalty -
		float64(s.penalizedMoves)*s.scoreCfg.MovePenalty
	return math.Max(0, score)
}

// SetCheatActive 启用或停用作弊项
func (s *GameSession) SetCheatActive(id CheatID, active bool) {
	if c, ok := s.cheats[id]; ok {
		c.IsActive = active
	}
}

// IsCheatActive 作弊项是否启用
func (s *GameSession) IsCheatActive(id CheatID) bool {
	c, ok := s.cheats[id]
	return ok && c.IsActive
}

// ElapseFactor 所有已启用作弊项的计时倍率之积
func (s *GameSession) ElapseFactor() float64 {
	f := 1.0
	for _, c := range s.cheats {
		if c.IsActive {
			f *= c.ElapseFactor
		}
	}
	return f
}

// IncrementFactor 所有已启用作弊项的步数倍率之积
func (s *GameSession) IncrementFactor() int {
	f := 1
	for _, c := range s.cheats {
		if c.IsActive {
			f *= c.IncrementFactor
		}
	}
	return f
}
