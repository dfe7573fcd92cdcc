package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"chat-room/errors"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitFailure = 1
)

const readBufferSize = 4096

// Config defines the client-side environment variables. Flags override them.
type Config struct {
	Host     string `env:"HOST,default=127.0.0.1"`
	Port     int    `env:"PORT,default=8080"`
	Colours  bool   `env:"COLOURS,default=true"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat client terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return exitFailure, fmt.Errorf("config error: %w", err)
	}

	addr := flag.String("addr", cfg.Host, "server IPv4 address")
	port := flag.Int("port", cfg.Port, "server TCP port")
	flag.Parse()

	logger := logs.GetLoggerFromString(cfg.LogLevel)

	target := fmt.Sprintf("%s:%d", *addr, *port)
	conn, err := net.Dial("tcp", target)
	if err != nil {
		return exitFailure, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	defer func() { _ = conn.Close() }()

	logger.Info("Connected to chat server", "addr", target)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The receive loop owns the socket read side; it ends when the server
	// closes the connection or when Ctrl+C closes it from under the read.
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, readBufferSize)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if !errors.IsBenignClose(err) {
					logger.Warn("Read failed", "error", err)
				}
				return
			}
			printPayload(string(buf[:n]), cfg.Colours)
		}
	}()

	// The send loop reads stdin lines and ships them raw, one write per
	// line, mirroring the one-read-one-message wire behavior.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if _, err := conn.Write([]byte(scanner.Text())); err != nil {
				if !errors.IsBenignClose(err) {
					logger.Warn("Write failed", "error", err)
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Interrupted, closing connection")
		_ = conn.Close()
		<-done
	case <-done:
		logger.Info("Server closed the connection")
	}
	return exitOK, nil
}

// printPayload renders one received payload. Notices are what the server
// sends outside of chat lines; there is no framing to tell them apart, so
// colour is applied uniformly.
func printPayload(payload string, colours bool) {
	if colours {
		payload = color.New(color.FgCyan).Render(payload)
	}
	fmt.Println(payload)
}
