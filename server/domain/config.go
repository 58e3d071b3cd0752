package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultListenAddress = ":3143"
	DefaultAdminAddress  = ":50051"
	DefaultRoomName      = "Lobby"
	DefaultHistorySize   = 50
	DefaultMaxFileSize   = 10 << 20
	DefaultSendQueueSize = 256
	DefaultCloseGrace    = 2 * time.Second
)

var DefaultAllowedExtensions = []string{"txt", "md", "pdf", "png", "jpg", "jpeg", "gif", "zip", "csv", "json"}

type Config struct {
	ListenAddress     string
	AdminAddress      string
	WebSocketAddress  string
	AllowedOrigins    []string
	DatabasePath      string
	RoomsDir          string
	DefaultRoom       string
	HistorySize       int
	MaxFileSize       int64
	AllowedExtensions []string
	SendQueueSize     int
	WriteTimeout      time.Duration
	CloseGrace        time.Duration
	LogLevel          string
}

func NewConfig() Config {
	return Config{
		ListenAddress:     DefaultListenAddress,
		AdminAddress:      DefaultAdminAddress,
		DatabasePath:      "./roomchat.db",
		RoomsDir:          "room_files",
		DefaultRoom:       DefaultRoomName,
		HistorySize:       DefaultHistorySize,
		MaxFileSize:       DefaultMaxFileSize,
		AllowedExtensions: append([]string(nil), DefaultAllowedExtensions...),
		SendQueueSize:     DefaultSendQueueSize,
		CloseGrace:        DefaultCloseGrace,
		LogLevel:          "info",
	}
}

// Validate rejects settings the server cannot run with and normalises the
// extension allow-list to lower case without leading dots.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return errors.New("listen address must not be empty")
	}
	if err := ValidateRoomName(c.DefaultRoom); err != nil {
		return fmt.Errorf("default room %q: %w", c.DefaultRoom, err)
	}
	if c.RoomsDir == "" {
		return errors.New("rooms directory must not be empty")
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history size must be positive, got %d", c.HistorySize)
	}
	if c.MaxFileSize <= 0 || c.MaxFileSize > MaxBlobSize {
		return fmt.Errorf("max file size must be in (0, %d], got %d", MaxBlobSize, c.MaxFileSize)
	}
	if c.SendQueueSize <= 0 {
		return fmt.Errorf("send queue size must be positive, got %d", c.SendQueueSize)
	}
	if c.WriteTimeout < 0 || c.CloseGrace < 0 {
		return errors.New("timeouts must not be negative")
	}
	exts := make([]string, 0, len(c.AllowedExtensions))
	for _, ext := range c.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return errors.New("at least one allowed file extension is required")
	}
	c.AllowedExtensions = exts
	return nil
}
