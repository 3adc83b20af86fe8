package systems

import (
	"errors"

	"github.com/gonewx/tileplayer/pkg/game"
)

// ErrRemoteBoardNotImplemented 远程棋盘尚未实现
var ErrRemoteBoardNotImplemented = errors.New("remote game board is not implemented")

// RemoteGameBoard 远程玩家的棋盘
// 只保留接口形状；更新时立即返回错误，不会静默地什么都不做
type RemoteGameBoard struct {
	gamer *game.Gamer
}

// NewRemoteGameBoard 为远程玩家创建棋盘
func NewRemoteGameBoard(gamer *game.Gamer) *RemoteGameBoard {
	return &RemoteGameBoard{gamer: gamer}
}

// Gamer 棋盘所属的远程玩家
func (b *RemoteGameBoard) Gamer() *game.Gamer { return b.gamer }

// Update 总是返回 ErrRemoteBoardNotImplemented
func (b *RemoteGameBoard) Update(deltaTime float64, state game.StateID) error {
	return ErrRemoteBoardNotImplemented
}

func (b *RemoteGameBoard) Activate() {}

func (b *RemoteGameBoard) Deactivate(freezeDisturbingElements bool) {}

func (b *RemoteGameBoard) IsActive() bool { return false }

func (b *RemoteGameBoard) ResetDisturbingElements(count int) {}

func (b *RemoteGameBoard) DefaultElementCount() int { return 0 }

func (b *RemoteGameBoard) DisturbingElementsEnabled() bool { return false }
