package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/vovakirdan/chatview-go/chatroom"
)

// Settings is the environment-driven configuration.
type Settings struct {
	URL              string        `env:"CHATVIEW_URL"`
	Protocol         string        `env:"CHATVIEW_PROTOCOL,default=socketio"`
	Path             string        `env:"CHATVIEW_PATH,default=/socket.io/"`
	HandshakeTimeout time.Duration `env:"CHATVIEW_HANDSHAKE_TIMEOUT,default=30s"`
	ReadTimeout      time.Duration `env:"CHATVIEW_READ_TIMEOUT,default=0s"`
	WriteTimeout     time.Duration `env:"CHATVIEW_WRITE_TIMEOUT,default=10s"`
	LogLevel         string        `env:"CHATVIEW_LOG_LEVEL,default=info"`
	LogFile          string        `env:"CHATVIEW_LOG_FILE"`
	Username         string        `env:"CHATVIEW_USERNAME"`
}

// loadSettings reads .env when present, then the process environment, then
// applies the command-line overrides.
func loadSettings(f *flags) (Settings, error) {
	_ = godotenv.Load()
	return parseSettings(os.Environ(), f)
}

func parseSettings(environ []string, f *flags) (Settings, error) {
	var s Settings
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return s, &configError{err}
	}
	if err := env.Unmarshal(es, &s); err != nil {
		return s, &configError{err}
	}
	if s.URL == "" {
		s.URL = chatroom.DefaultURL
	}
	if f != nil {
		if f.url != "" {
			s.URL = f.url
		}
		if f.protocol != "" {
			s.Protocol = f.protocol
		}
		if f.debug {
			s.LogLevel = "debug"
		}
	}
	if _, err := s.Level(); err != nil {
		return s, &configError{err}
	}
	if err := s.ClientConfig().Validate(); err != nil {
		return s, &configError{err}
	}
	return s, nil
}

// ClientConfig maps the settings onto the chat client configuration.
func (s Settings) ClientConfig() chatroom.Config {
	cfg := chatroom.DefaultConfig()
	cfg.URL = s.URL
	cfg.Protocol = strings.ToLower(s.Protocol)
	cfg.Path = s.Path
	cfg.HandshakeTimeout = s.HandshakeTimeout
	cfg.ReadTimeout = s.ReadTimeout
	cfg.WriteTimeout = s.WriteTimeout
	return cfg
}

// Level parses LogLevel.
func (s Settings) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return lvl, nil
}

// Logger builds a text logger writing to LogFile, or to fallback when unset.
// The returned func closes the log file.
func (s Settings) Logger(fallback io.Writer) (*slog.Logger, func(), error) {
	lvl, err := s.Level()
	if err != nil {
		return nil, nil, &configError{err}
	}
	w, closeFn := fallback, func() {}
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	return logger, closeFn, nil
}
