package chatroom

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultURL is the public chat server the client talks to out of the box.
const DefaultURL = "https://vercel-backend-2-ixtg.onrender.com/"

var validate = validator.New()

// Config controls how the client connects.
type Config struct {
	URL string `validate:"required,url"`
	// Path is the Engine.IO mount point. The JSON protocol only uses it when
	// URL has no path.
	Path             string        `validate:"omitempty,startswith=/"`
	Protocol         string        `validate:"oneof=socketio json"`
	HandshakeTimeout time.Duration `validate:"gte=0"`
	// ReadTimeout of 0 derives the deadline from the server heartbeat when the
	// protocol has one, and disables it otherwise.
	ReadTimeout  time.Duration `validate:"gte=0"`
	WriteTimeout time.Duration `validate:"gte=0"`
	// ReadLimit caps a single inbound frame; history snapshots can be large.
	ReadLimit int64 `validate:"gte=0"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:              DefaultURL,
		Path:             "/socket.io/",
		Protocol:         ProtocolSocketIO,
		HandshakeTimeout: 30 * time.Second,
		WriteTimeout:     10 * time.Second,
		ReadLimit:        1 << 20,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	return validate.Struct(c)
}
