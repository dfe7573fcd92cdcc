package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chat-room/internal"
	"chat-room/moderation"
	"chat-room/runtime"
	"chat-room/sink"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service
// manager (e.g., systemd). Anything that keeps the server from being built
// or bound exits with 1.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because it ensures all 'defer' statements run
// before the program exits and keeps the wiring testable.
func run() (int, error) {
	// A .env file is a development convenience; its absence is not an error.
	_ = godotenv.Load()

	// 1. Configuration: environment first, flags override.
	var cfg internal.Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return exitFailure, fmt.Errorf("config error: %w", err)
	}

	addr := flag.String("addr", cfg.Host, "IPv4 address to bind")
	port := flag.Int("port", cfg.Port, "TCP port to bind (0 picks an ephemeral port)")
	flag.Parse()
	cfg.Host = *addr
	cfg.Port = *port

	if err := cfg.Validate(); err != nil {
		return exitFailure, fmt.Errorf("invalid config: %w", err)
	}

	charReplacement, err := internal.CharacterRune(cfg.CharReplacement)
	if err != nil {
		return exitFailure, err
	}

	logger := logs.GetLoggerFromString(cfg.LogLevel)

	// 2. Moderation dictionaries (embedded in the binary).
	words, err := runtime.LoadCensoredWords()
	if err != nil {
		return exitFailure, fmt.Errorf("failed to load censored words: %w", err)
	}
	logger.Info("Loaded censored dictionaries",
		"languages", words.Languages, "words", len(words.Words))

	moderator, err := moderation.NewModerator(words.Words, charReplacement, logger)
	if err != nil {
		return exitFailure, fmt.Errorf("failed to build moderator: %w", err)
	}

	// 3. Server assembly. A bind failure surfaces here, before anything runs.
	stats := sink.NewStatsSink()
	server, err := runtime.NewServer(logger, cfg, moderator, sink.NewLogSink(logger), stats)
	if err != nil {
		return exitFailure, err
	}

	// 4. Signals: Ctrl+C or SIGTERM cancels the context and triggers the
	// shutdown sequence inside Run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		return exitFailure, err
	}

	// 5. Session summary once everything is down.
	fmt.Println("Session summary:")
	stats.RenderTable(os.Stdout)
	return exitOK, nil
}
