package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config carries every knob of the chat server. All fields have defaults so
// the binary runs out of the box; flags may override Host and Port on top.
type Config struct {
	Host       string `env:"HOST,default=127.0.0.1" validate:"ip4_addr"`
	Port       int    `env:"PORT,default=8080"`
	MaxClients int    `env:"MAX_CLIENTS,default=100" validate:"gt=0"`
	// Backlog is advisory: Go's listener does not expose the accept queue
	// length, the kernel manages it. Kept as a config field for fidelity
	// with deployments that tune it at the OS level.
	Backlog  int    `env:"BACKLOG,default=10" validate:"gt=0"`
	RoomName string `env:"ROOM_NAME,default=Link's Chatroom" validate:"required"`
	TimeZone string `env:"TIME_ZONE,default=US/Eastern" validate:"required"`

	// ReadBufferSize bounds a single read; one read is one logical message.
	ReadBufferSize int `env:"READ_BUFFER_SIZE,default=4096" validate:"gt=0"`
	// BufferSize is the capacity of the server event channel.
	BufferSize int `env:"BUFFER_SIZE,default=256" validate:"gt=0"`

	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`

	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
	LogLevel        string `env:"LOG_LEVEL,default=INFO"`
}

// Validate checks the struct tags, then the port rule: 0 binds an ephemeral
// port (used by tests), 1-1023 are reserved, anything above is fine.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Port != 0 && (c.Port < 1024 || c.Port > 65535) {
		return fmt.Errorf("PORT must be 0 or between 1024 and 65535, got %d", c.Port)
	}
	return nil
}

// Addr renders the host:port pair the listener binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
