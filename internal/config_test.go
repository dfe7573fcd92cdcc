package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8080,
		MaxClients:      100,
		Backlog:         10,
		RoomName:        "Link's Chatroom",
		TimeZone:        "US/Eastern",
		ReadBufferSize:  4096,
		BufferSize:      256,
		CharReplacement: "*",
		LogLevel:        "INFO",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "Defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "Port zero binds an ephemeral port",
			mutate: func(c *Config) { c.Port = 0 },
		},
		{
			name:    "Reserved port is refused",
			mutate:  func(c *Config) { c.Port = 80 },
			wantErr: true,
		},
		{
			name:    "Port above the range is refused",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "Hostname instead of an IPv4 address is refused",
			mutate:  func(c *Config) { c.Host = "localhost" },
			wantErr: true,
		},
		{
			name:    "Zero max clients is refused",
			mutate:  func(c *Config) { c.MaxClients = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	_, err = CharacterRune("")
	req.Error(err)

	_, err = CharacterRune("ab")
	req.Error(err)
}

func TestConfig_Addr(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, "127.0.0.1:8080", cfg.Addr())
}
