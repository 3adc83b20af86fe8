// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/tileplayer/internal/video"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/scenes"
	"github.com/gonewx/tileplayer/pkg/utils"
)

// AppName gdata 存储使用的应用名
const AppName = "tileplayer"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 外部玩法配置文件，为空时只用内嵌默认值
	ConfigPath string
	// Size 拼图边长，0 表示使用上次保存的设置
	Size int
	// NoDisturbing 关闭干扰元素
	NoDisturbing bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	gameplay     *config.GameplayConfig
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	verbose      bool
	deltaTime    float64

	cancel context.CancelFunc
	group  *errgroup.Group

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 视频解码在后台 goroutine 中运行，退出前必须调用 Close。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameplay, err := config.LoadGameplayConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("玩法配置加载失败: %w", err)
	}

	settings, err := game.NewSettingsManager(openStorage())
	if err != nil {
		return nil, fmt.Errorf("设置加载失败: %w", err)
	}
	if err := applyOverrides(settings, gameplay, cfg); err != nil {
		return nil, err
	}

	audioContext := audio.NewContext(game.SampleRate)
	audioManager := game.NewAudioManager(audioContext, settings)
	log.Printf("[App] AudioManager initialized")

	decoder, err := video.NewDecoder(int(gameplay.Board.Width), int(gameplay.Board.Height), gameplay.Game.TPS)
	if err != nil {
		return nil, fmt.Errorf("视频解码器创建失败: %w", err)
	}
	feed := &game.FrameFeed{}

	scene, err := scenes.NewGameScene(scenes.GameSceneOptions{
		Config:      gameplay,
		Settings:    settings,
		Audio:       audioManager,
		FrameSource: decoder,
		FrameFeed:   feed,
	})
	if err != nil {
		return nil, fmt.Errorf("游戏场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return decoder.Run(gctx, feed.Push)
	})

	ebiten.SetTPS(gameplay.Game.TPS)
	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		gameplay:     gameplay,
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
		deltaTime:    1.0 / float64(gameplay.Game.TPS),
		cancel:       cancel,
		group:        g,
	}, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil（设置只保存在内存中）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: Failed to prepare storage dir: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		return nil
	}
	log.Printf("[App] Settings stored in %s", storageLocation(utils.GetStoragePath()))
	return manager
}

// storageLocation 日志里展示的存储位置，平台没有固定目录时由 gdata 决定
func storageLocation(path string) string {
	if path == "" {
		return "the gdata default location for " + AppName
	}
	return path
}

// applyOverrides 把命令行选项写入玩家设置
//
// 返回：
//   - error: 拼图边长不在可选范围内
func applyOverrides(settings *game.SettingsManager, gameplay *config.GameplayConfig, cfg Config) error {
	if cfg.Size != 0 {
		if !slices.Contains(gameplay.Board.Sizes, cfg.Size) {
			return fmt.Errorf("unsupported puzzle size %d, want one of %v", cfg.Size, gameplay.Board.Sizes)
		}
		settings.SetPuzzleSize(cfg.Size)
	}
	if cfg.NoDisturbing {
		settings.SetDisturbingElementsEnabled(false)
	}
	return nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（TPS 由玩法配置决定）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.gameplay.Screen.Width, a.gameplay.Screen.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.gameplay.Screen.Width, a.gameplay.Screen.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	err := a.sceneManager.Update(a.deltaTime)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("[App] ERROR: Scene update failed: %v", err)
	}
	return err
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.gameplay.Screen.Width, a.gameplay.Screen.Height
}

// ScreenSize 逻辑屏幕尺寸，用于设置初始窗口大小
func (a *App) ScreenSize() (int, int) {
	return a.gameplay.Screen.Width, a.gameplay.Screen.Height
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Close 停止视频解码并保存设置
//
// 返回：
//   - error: 后台 goroutine 的错误
func (a *App) Close() error {
	a.cancel()
	err := a.group.Wait()
	a.sceneManager.SaveOnExit()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("video decoder: %w", err)
	}
	return nil
}
