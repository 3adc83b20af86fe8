package systems

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/puzzle"
)

// Sensors 摇一摇传感器开关
type Sensors interface {
	SetSensorsActive(active bool)
}

// GameFlowSystem 游戏流程状态机
//
// 每个状态对应一个更新函数，返回值成为下一帧的 Current，
// 因此更新函数可以根据 Current 判断自己是从哪个状态进入的。
// 请求（开始、暂停、停止）只替换下一帧要执行的更新函数。
//
//	Undefined → Loading → Loaded → Starting → Started → Ready → Running ⇄ Paused → GameOver
type GameFlowSystem struct {
	session  *game.GameSession
	board    *GameBoard
	eventBus *game.EventBus
	settings *game.SettingsManager // 可为 nil
	audio    *game.AudioManager    // 可为 nil
	sensors  Sensors               // 可为 nil

	splashMinShowTime float64
	splashElapsed     float64
	splashVisible     bool

	update  func(deltaTime float64) game.StateID
	current game.StateID
}

// NewGameFlowSystem 创建游戏流程状态机，初始状态为 Undefined
//
// 参数：
//   - session: 游戏会话
//   - board: 本地棋盘
//   - bus: 事件总线
//   - settings: 设置管理器（注册玩家），可为 nil
//   - audio: 音频管理器（背景音乐），可为 nil
//   - sensors: 摇一摇传感器，可为 nil
//   - splashMinShowTime: 启动画面最短显示时间（秒）
func NewGameFlowSystem(
	session *game.GameSession,
	board *GameBoard,
	bus *game.EventBus,
	settings *game.SettingsManager,
	audio *game.AudioManager,
	sensors Sensors,
	splashMinShowTime float64,
) *GameFlowSystem {
	s := &GameFlowSystem{
		session:           session,
		board:             board,
		eventBus:          bus,
		settings:          settings,
		audio:             audio,
		sensors:           sensors,
		splashMinShowTime: splashMinShowTime,
		current:           game.StateUndefined,
	}
	s.update = s.updateUndefined

	bus.Subscribe(game.EventNoDisturbingElementsLeft, func(game.Event) {
		s.RequestRunning()
	})
	return s
}

// Update 执行当前状态的更新函数
func (s *GameFlowSystem) Update(deltaTime float64) {
	if s.splashVisible {
		s.splashElapsed += deltaTime
	}

	next := s.update(deltaTime)
	if next != s.current {
		log.Printf("[GameFlowSystem] %s -> %s", s.current, next)
	}
	s.current = next
}

// Current 上一帧更新函数返回的状态
func (s *GameFlowSystem) Current() game.StateID { return s.current }

// IsSplashVisible 启动画面是否还在显示
func (s *GameFlowSystem) IsSplashVisible() bool { return s.splashVisible }

// RequestRunning 请求开始或继续游戏，Ready、Paused、Running 时有效
func (s *GameFlowSystem) RequestRunning() bool {
	switch s.current {
	case game.StateReady, game.StatePaused, game.StateRunning:
		s.update = s.updateRunning
		return true
	}
	return false
}

// RequestPaused 请求暂停，Ready、Running 时有效
func (s *GameFlowSystem) RequestPaused() bool {
	switch s.current {
	case game.StateReady, game.StateRunning:
		s.update = s.updatePaused
		return true
	}
	return false
}

// RequestReady 请求停止并回到就绪状态，Ready、Running、Paused、GameOver 时有效
func (s *GameFlowSystem) RequestReady() bool {
	switch s.current {
	case game.StateReady, game.StateRunning, game.StatePaused, game.StateGameOver:
		s.update = s.updateReady
		return true
	}
	return false
}

// Shake 摇一摇开始游戏
func (s *GameFlowSystem) Shake() bool {
	return s.RequestRunning()
}

// Back 返回键：游戏进行中时暂停，否则请求退出
//
// 返回：
//   - bool: 是否应该退出程序
func (s *GameFlowSystem) Back() bool {
	if s.current == game.StateRunning {
		s.RequestPaused()
		return false
	}
	return true
}

// ChangePuzzleSize 换成 size×size 的新拼图并回到就绪状态
func (s *GameFlowSystem) ChangePuzzleSize(size int) error {
	if s.current < game.StateReady {
		return fmt.Errorf("cannot change puzzle size while %s", s.current)
	}
	p, err := puzzle.New(size, size)
	if err != nil {
		return fmt.Errorf("failed to create %dx%d puzzle: %w", size, size, err)
	}

	s.session.Puzzle = p
	s.session.Reset()
	if s.settings != nil {
		s.settings.SetPuzzleSize(size)
	}
	s.RequestReady()
	log.Printf("[GameFlowSystem] Puzzle size changed to %dx%d", size, size)
	return nil
}

func (s *GameFlowSystem) updateUndefined(deltaTime float64) game.StateID {
	s.splashVisible = true
	s.splashElapsed = 0
	s.update = s.updateLoading
	return game.StateUndefined
}

func (s *GameFlowSystem) updateLoading(deltaTime float64) game.StateID {
	if s.board.DisturbingElementsEnabled() {
		s.board.ResetDisturbingElements(s.board.DefaultElementCount())
	}
	s.update = s.updateLoaded
	return game.StateLoading
}

func (s *GameFlowSystem) updateLoaded(deltaTime float64) game.StateID {
	if s.splashElapsed < s.splashMinShowTime {
		return game.StateLoaded
	}

	if s.settings != nil && !s.settings.IsSignedUp() {
		s.signUp()
		return game.StateLoaded
	}

	if s.audio != nil {
		s.audio.PlayMusic()
	}
	s.splashVisible = false
	s.update = s.updateStarting
	return game.StateLoaded
}

func (s *GameFlowSystem) updateStarting(deltaTime float64) game.StateID {
	s.update = s.updateStarted
	return game.StateStarting
}

func (s *GameFlowSystem) updateStarted(deltaTime float64) game.StateID {
	s.setSensorsActive(true)
	s.update = s.updateReady
	return game.StateStarted
}

func (s *GameFlowSystem) updateReady(deltaTime float64) game.StateID {
	switch s.current {
	case game.StateReady:
		if s.board.IsActive() {
			s.stop()
		}
	case game.StateRunning, game.StatePaused:
		s.stop()
	}
	return game.StateReady
}

// stop 重置会话，停用棋盘但不冻结干扰元素
func (s *GameFlowSystem) stop() {
	s.session.Reset()
	s.board.Deactivate(false)
	if s.board.DisturbingElementsEnabled() {
		s.board.ResetDisturbingElements(s.board.DefaultElementCount())
	}
	s.setSensorsActive(true)
}

func (s *GameFlowSystem) updateRunning(deltaTime float64) game.StateID {
	switch s.current {
	case game.StateReady:
		s.session.Reset()
		s.session.Puzzle.Scramble()
		s.session.Stopwatch.Start()
		s.setSensorsActive(false)
		s.board.Activate()

	case game.StatePaused:
		if s.session.Puzzle.IsSolved() {
			s.board.Activate()
			s.update = s.updateReady
		} else {
			s.session.Stopwatch.Start()
			s.setSensorsActive(false)
			s.board.Activate()
		}

	default:
		s.session.Update(deltaTime)
		solved := s.session.Puzzle.IsSolved()
		moved := s.session.Counter > 0

		switch {
		case solved && moved:
			log.Printf("[GameFlowSystem] Puzzle solved in %d moves, score %.0f", s.session.Counter, s.session.Score())
			s.eventBus.Publish(game.Event{Type: game.EventPuzzleSolved, Position: puzzle.Undefined})
			s.update = s.updateGameOver

		case !solved && moved && s.session.Score() < 1:
			s.session.Stopwatch.Stop()
			log.Printf("[GameFlowSystem] Game over after %d moves", s.session.Counter)
			s.eventBus.Publish(game.Event{Type: game.EventGameOver, Position: puzzle.Undefined})
			s.session.Reset()
			s.board.Deactivate(false)
			s.update = s.updateGameOver
		}
	}
	return game.StateRunning
}

func (s *GameFlowSystem) updatePaused(deltaTime float64) game.StateID {
	switch s.current {
	case game.StateReady:
		if s.board.IsActive() {
			s.board.Deactivate(true)
			s.setSensorsActive(true)
		}
	case game.StateRunning:
		s.session.Stopwatch.Stop()
		s.board.Deactivate(true)
		s.setSensorsActive(true)
	}
	return game.StatePaused
}

func (s *GameFlowSystem) updateGameOver(deltaTime float64) game.StateID {
	return game.StateGameOver
}

// signUp 用默认玩家名注册本地玩家并加入会话
func (s *GameFlowSystem) signUp() {
	id := s.settings.SignUp(DefaultGamertag())
	gamertag := s.settings.GetSettings().Gamertag
	s.session.Join(game.NewLocalGamer(id, gamertag))
	if err := s.settings.Save(); err != nil {
		log.Printf("[GameFlowSystem] Warning: Failed to save sign up: %v", err)
	}
	log.Printf("[GameFlowSystem] Signed up as %s", gamertag)
}

func (s *GameFlowSystem) setSensorsActive(active bool) {
	if s.sensors != nil {
		s.sensors.SetSensorsActive(active)
	}
}

// DefaultGamertag 未注册时使用的玩家名：系统用户名，其次主机名
func DefaultGamertag() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "Player"
}
