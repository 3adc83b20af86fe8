package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/gonewx/tileplayer/pkg/app"
)

func main() {
	cmd := &cli.Command{
		Name:  "tileplayer",
		Usage: "Sliding tile puzzle over a looping video",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable verbose logging",
				Sources: cli.EnvVars("TILEPLAYER_VERBOSE"),
			},
			&cli.IntFlag{
				Name:    "size",
				Usage:   "puzzle side length (3, 4 or 5); 0 keeps the saved setting",
				Sources: cli.EnvVars("TILEPLAYER_SIZE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "gameplay YAML overriding the built-in defaults",
				Sources: cli.EnvVars("TILEPLAYER_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "no-disturbing",
				Usage:   "start with disturbing elements disabled",
				Sources: cli.EnvVars("TILEPLAYER_NO_DISTURBING"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tileplayer: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	gameApp, err := app.NewApp(app.Config{
		Verbose:      cmd.Bool("verbose"),
		ConfigPath:   cmd.String("config"),
		Size:         int(cmd.Int("size")),
		NoDisturbing: cmd.Bool("no-disturbing"),
	})
	if err != nil {
		return fmt.Errorf("游戏初始化失败: %w", err)
	}

	w, h := gameApp.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Tile Player")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(gameApp)
	return errors.Join(runErr, gameApp.Close())
}
