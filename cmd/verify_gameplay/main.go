// verify_gameplay 独立运行一块棋盘，用固定随机种子复现打乱和干扰元素的走位
//
// 不读写玩家设置，不播放声音，跳过启动画面。
//
//	go run ./cmd/verify_gameplay --seed 42 --size 3 --immune
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/tileplayer/internal/video"
	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/scenes"
)

// VerifyGameplayGame 只包含一个游戏场景的验证程序
type VerifyGameplayGame struct {
	cfg       *config.GameplayConfig
	scene     *scenes.GameScene
	deltaTime float64
	lastState game.StateID
}

func (g *VerifyGameplayGame) Update() error {
	if err := g.scene.Update(g.deltaTime); err != nil {
		return err
	}
	if state := g.scene.Flow().Current(); state != g.lastState {
		log.Printf("[Verify] %s -> %s (left=%d)", g.lastState, state, g.scene.Board().DisturbingElementsLeft())
		g.lastState = state
	}
	return nil
}

func (g *VerifyGameplayGame) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	session := g.scene.Session()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("state=%s moves=%d score=%.0f tps=%.0f",
		g.scene.Flow().Current(), session.Counter, session.Score(), ebiten.ActualTPS()), 4, 4)
}

func (g *VerifyGameplayGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Screen.Width, g.cfg.Screen.Height
}

func main() {
	cmd := &cli.Command{
		Name:  "verify_gameplay",
		Usage: "统一游戏验证程序",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "显示详细调试信息"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "随机种子"},
			&cli.IntFlag{Name: "size", Value: 4, Usage: "拼图边长"},
			&cli.StringFlag{Name: "config", Usage: "玩法配置文件"},
			&cli.BoolFlag{Name: "immune", Usage: "干扰元素免疫"},
			&cli.BoolFlag{Name: "numbers", Usage: "显示瓦片数字"},
			&cli.BoolFlag{Name: "no-video", Usage: "不播放视频，瓦片用纯色"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "verify_gameplay: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("verbose") {
		log.SetOutput(os.Stdout)
	}

	cfg, err := config.LoadGameplayConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	cfg.Board.DefaultSize = int(cmd.Int("size"))
	cfg.Game.SplashMinShowTime = 0
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := scenes.GameSceneOptions{
		Config: cfg,
		Rand:   rand.New(rand.NewSource(cmd.Int64("seed"))),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if !cmd.Bool("no-video") {
		decoder, err := video.NewDecoder(int(cfg.Board.Width), int(cfg.Board.Height), cfg.Game.TPS)
		if err != nil {
			return err
		}
		feed := &game.FrameFeed{}
		opts.FrameSource = decoder
		opts.FrameFeed = feed
		g.Go(func() error { return decoder.Run(gctx, feed.Push) })
	}

	scene, err := scenes.NewGameScene(opts)
	if err != nil {
		return err
	}
	scene.Board().SetDisturbingElementsTerminable(!cmd.Bool("immune"))
	scene.Board().SetTileNumbersEnabled(cmd.Bool("numbers"))

	verifyGame := &VerifyGameplayGame{
		cfg:       cfg,
		scene:     scene,
		deltaTime: 1.0 / float64(cfg.Game.TPS),
	}

	ebiten.SetTPS(cfg.Game.TPS)
	ebiten.SetWindowTitle("统一游戏验证程序")
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)

	runErr := ebiten.RunGame(verifyGame)
	cancel()
	return errors.Join(runErr, g.Wait())
}
