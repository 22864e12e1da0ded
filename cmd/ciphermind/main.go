// Command ciphermind is the terminal version of the game.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"example.com/ciphermind/internal/app"
	"example.com/ciphermind/internal/config"
	"example.com/ciphermind/internal/game"
	"example.com/ciphermind/internal/terminal"
	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	// stdout belongs to the game; diagnostics go to stderr, quietly
	if cfg.Log.Level < slog.LevelWarn {
		cfg.Log.Level = slog.LevelWarn
	}
	log := app.NewLogger(cfg, os.Stderr)

	color := cfg.Terminal.Color && term.IsTerminal(int(os.Stdout.Fd()))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.Terminal.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	renderer := terminal.NewRenderer(rl.Stdout(), color)
	shell := terminal.NewShell(rl, renderer, game.DefaultRules(), game.DefaultSource, log)
	return shell.Run()
}
