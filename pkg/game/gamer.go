package game

import (
	"github.com/google/uuid"

	"github.com/gonewx/tileplayer/pkg/puzzle"
)

// Gamer 参与会话的玩家
//
// 棋盘把落位的瓦片坐标排进玩家的移动队列，会话在下一次 Update 时
// 取出并提交到拼图。远程玩家只有身份，没有本地棋盘。
type Gamer struct {
	ID       uuid.UUID
	Gamertag string

	local bool
	moves []puzzle.Position
}

// NewLocalGamer 创建本地玩家
func NewLocalGamer(id uuid.UUID, gamertag string) *Gamer {
	return &Gamer{ID: id, Gamertag: gamertag, local: true}
}

// NewRemoteGamer 创建远程玩家
func NewRemoteGamer(id uuid.UUID, gamertag string) *Gamer {
	return &Gamer{ID: id, Gamertag: gamertag}
}

// IsLocal 是否为本地玩家
func (g *Gamer) IsLocal() bool { return g.local }

// AddMove 排队一次移动
func (g *Gamer) AddMove(pos puzzle.Position) {
	g.moves = append(g.moves, pos)
}

// NextMove 取出最早的一次移动，队列为空时返回 puzzle.Undefined
func (g *Gamer) NextMove() puzzle.Position {
	if len(g.moves) == 0 {
		return puzzle.Undefined
	}
	pos := g.moves[0]
	g.moves = g.moves[1:]
	return pos
}

// PendingMoves 尚未提交的移动数量
func (g *Gamer) PendingMoves() int { return len(g.moves) }

// ClearMoves 丢弃所有未提交的移动
func (g *Gamer) ClearMoves() { g.moves = g.moves[:0] }
