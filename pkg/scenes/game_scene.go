package scenes

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
	"github.com/gonewx/tileplayer/pkg/systems"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// Command 场景层的菜单命令
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandStop
	CommandToggleDisturbing
	CommandToggleImmunity
	CommandToggleNumbers
	CommandToggleMusic
	CommandSize3
	CommandSize4
	CommandSize5
	CommandBack
)

// keyCommands 桌面键位
var keyCommands = map[ebiten.Key]Command{
	ebiten.KeyEnter:  CommandPlay,
	ebiten.KeyP:      CommandPause,
	ebiten.KeyS:      CommandStop,
	ebiten.KeyD:      CommandToggleDisturbing,
	ebiten.KeyI:      CommandToggleImmunity,
	ebiten.KeyN:      CommandToggleNumbers,
	ebiten.KeyM:      CommandToggleMusic,
	ebiten.Key3:      CommandSize3,
	ebiten.Key4:      CommandSize4,
	ebiten.Key5:      CommandSize5,
	ebiten.KeyEscape: CommandBack,
}

// GameSceneOptions 创建游戏场景所需的依赖
type GameSceneOptions struct {
	Config   *config.GameplayConfig
	Settings *game.SettingsManager // 可为 nil
	Audio    *game.AudioManager    // 可为 nil

	// FrameSource/FrameFeed 瓦片背后的视频，可为 nil
	FrameSource systems.FrameSource
	FrameFeed   *game.FrameFeed

	// Rand 随机源，为 nil 时自动创建
	Rand *rand.Rand
}

// GameScene 拼图游戏场景
//
// 把会话、本地棋盘、流程状态机、输入、反馈和渲染组装在一起。
// 每帧顺序：命令 → 输入 → 棋盘 → 流程 → 渲染计时。
// 棋盘先于流程更新，落位的瓦片在同一帧由会话提交。
type GameScene struct {
	cfg      *config.GameplayConfig
	settings *game.SettingsManager
	audio    *game.AudioManager

	entityManager *ecs.EntityManager
	eventBus      *game.EventBus
	session       *game.GameSession
	board         *systems.GameBoard
	remoteBoards  []systems.Board

	inputSystem    *systems.InputSystem
	flowSystem     *systems.GameFlowSystem
	feedbackSystem *systems.FeedbackSystem
	renderSystem   *systems.RenderSystem

	readCommands func() []Command
	isFocused    func() bool
	wasFocused   bool
}

// NewGameScene 创建游戏场景
//
// 拼图尺寸、干扰元素开关、免疫和瓦片数字取自玩家设置；
// 已注册的玩家直接加入会话，未注册时由流程在启动画面之后注册。
func NewGameScene(opts GameSceneOptions) (*GameScene, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultGameplayConfig()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	size := cfg.Board.DefaultSize
	gamer := game.NewLocalGamer(uuid.Nil, "")
	if opts.Settings != nil {
		settings := opts.Settings.GetSettings()
		size = settings.PuzzleSize
		if id, err := uuid.Parse(settings.GamerID); err == nil {
			gamer = game.NewLocalGamer(id, settings.Gamertag)
		}
	}

	p, err := puzzle.New(size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create %dx%d puzzle: %w", size, size, err)
	}
	p.SetRand(rand.New(rand.NewSource(rng.Int63())))

	em := ecs.NewEntityManager()
	bus := game.NewEventBus()
	session := game.NewGameSession(p, gamer, cfg.Score)

	board, err := systems.NewGameBoard(em, session, bus, cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create game board: %w", err)
	}
	if opts.FrameSource != nil {
		board.SetFrameSource(opts.FrameSource, opts.FrameFeed)
	}
	if opts.Settings != nil {
		settings := opts.Settings.GetSettings()
		board.SetDisturbingElementsEnabled(settings.DisturbingElementsEnabled)
		board.SetDisturbingElementsTerminable(settings.DisturbingElementsTerminable)
		board.SetTileNumbersEnabled(settings.TileNumbersEnabled)
	}

	s := &GameScene{
		cfg:           cfg,
		settings:      opts.Settings,
		audio:         opts.Audio,
		entityManager: em,
		eventBus:      bus,
		session:       session,
		board:         board,
		readCommands:  keyboardCommands,
		isFocused:     ebiten.IsFocused,
		wasFocused:    true,
	}

	s.inputSystem = systems.NewInputSystem(board.Motion())
	s.flowSystem = systems.NewGameFlowSystem(session, board, bus, opts.Settings, opts.Audio, s.inputSystem, cfg.Game.SplashMinShowTime)
	s.inputSystem.SetShakeHandler(s.flowSystem.Shake)
	s.inputSystem.SetTapHandler(s.handleTap)

	var sounds systems.SoundPlayer
	if opts.Audio != nil {
		sounds = opts.Audio
	}
	s.feedbackSystem = systems.NewFeedbackSystem(bus, sounds, opts.Settings, board.ElementKind(), cfg.Game.VibrateMillis)
	s.renderSystem = systems.NewRenderSystem(em, board, s.flowSystem)

	log.Printf("[GameScene] Created %dx%d board", size, size)
	return s, nil
}

// Update 更新一帧
//
// 返回：
//   - ebiten.Termination: 玩家请求退出
//   - 其他错误: 某个棋盘更新失败
func (s *GameScene) Update(deltaTime float64) error {
	s.checkFocus()

	for _, cmd := range s.readCommands() {
		exit, err := s.HandleCommand(cmd)
		if err != nil {
			log.Printf("[GameScene] Warning: Command %d failed: %v", cmd, err)
		}
		if exit {
			s.SaveOnExit()
			return ebiten.Termination
		}
	}

	s.inputSystem.Update(deltaTime)

	state := s.flowSystem.Current()
	if err := s.board.Update(deltaTime, state); err != nil {
		return fmt.Errorf("local board: %w", err)
	}
	for i, b := range s.remoteBoards {
		if err := b.Update(deltaTime, state); err != nil {
			return fmt.Errorf("remote board %d: %w", i, err)
		}
	}

	s.flowSystem.Update(deltaTime)
	s.renderSystem.Update(deltaTime)
	return nil
}

// Draw 绘制一帧
func (s *GameScene) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)
}

// HandleCommand 执行一条菜单命令
//
// 返回：
//   - exit: 是否应该退出程序
//   - error: 命令执行失败
func (s *GameScene) HandleCommand(cmd Command) (exit bool, err error) {
	switch cmd {
	case CommandPlay:
		s.flowSystem.RequestRunning()
	case CommandPause:
		s.flowSystem.RequestPaused()
	case CommandStop:
		s.flowSystem.RequestReady()

	case CommandToggleDisturbing:
		if s.flowSystem.Current() == game.StatePaused {
			return false, nil
		}
		enabled := !s.board.DisturbingElementsEnabled()
		s.board.SetDisturbingElementsEnabled(enabled)
		if s.settings != nil {
			s.settings.SetDisturbingElementsEnabled(enabled)
		}

	case CommandToggleImmunity:
		terminable := !s.board.DisturbingElementsTerminable()
		s.board.SetDisturbingElementsTerminable(terminable)
		if s.settings != nil {
			s.settings.SetDisturbingElementsTerminable(terminable)
		}

	case CommandToggleNumbers:
		enabled := !s.board.TileNumbersEnabled()
		s.board.SetTileNumbersEnabled(enabled)
		if s.settings != nil {
			s.settings.SetTileNumbersEnabled(enabled)
		}

	case CommandToggleMusic:
		if s.settings != nil {
			enabled := !s.settings.GetSettings().MusicEnabled
			s.settings.SetMusicEnabled(enabled)
			if s.audio != nil {
				s.audio.SetMusicEnabled(enabled)
			}
		}

	case CommandSize3, CommandSize4, CommandSize5:
		return false, s.flowSystem.ChangePuzzleSize(3 + int(cmd-CommandSize3))

	case CommandBack:
		return s.flowSystem.Back(), nil
	}
	return false, nil
}

// AddRemoteGamer 为远程玩家加一块棋盘
func (s *GameScene) AddRemoteGamer(g *game.Gamer) {
	s.remoteBoards = append(s.remoteBoards, systems.NewRemoteGameBoard(g))
	log.Printf("[GameScene] Remote gamer %s joined", g.Gamertag)
}

// SaveOnExit 保存玩家设置
func (s *GameScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[GameScene] Warning: Failed to save settings: %v", err)
		return false
	}
	return true
}

// Session 当前会话
func (s *GameScene) Session() *game.GameSession { return s.session }

// Board 本地棋盘
func (s *GameScene) Board() *systems.GameBoard { return s.board }

// Flow 流程状态机
func (s *GameScene) Flow() *systems.GameFlowSystem { return s.flowSystem }

// Input 输入系统
func (s *GameScene) Input() *systems.InputSystem { return s.inputSystem }

// handleTap 在棋盘外轻点：开始、暂停、继续或重新开始
// 棋盘内的轻点只用于选中瓦片
func (s *GameScene) handleTap(p utils.Vec2) {
	if s.board.Area().Contains(p.X, p.Y) {
		return
	}
	var cmd Command
	switch s.flowSystem.Current() {
	case game.StateReady, game.StatePaused:
		cmd = CommandPlay
	case game.StateRunning:
		cmd = CommandPause
	case game.StateGameOver:
		cmd = CommandStop
	default:
		return
	}
	if _, err := s.HandleCommand(cmd); err != nil {
		log.Printf("[GameScene] Warning: Tap command %d failed: %v", cmd, err)
	}
}

// checkFocus 窗口失去焦点时暂停进行中的游戏
func (s *GameScene) checkFocus() {
	focused := s.isFocused()
	if s.wasFocused && !focused && s.flowSystem.Current() == game.StateRunning {
		log.Printf("[GameScene] Focus lost, pausing")
		s.flowSystem.RequestPaused()
	}
	s.wasFocused = focused
}

// keyboardCommands 本帧按下的键对应的命令
func keyboardCommands() []Command {
	var cmds []Command
	for _, key := range inpututil.AppendJustPressedKeys(nil) {
		if cmd, ok := keyCommands[key]; ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
