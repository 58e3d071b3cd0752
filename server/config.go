package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ponyo877/roomchat/server/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	listenAddressKey     = "listen_address"
	adminAddressKey      = "admin_address"
	websocketAddressKey  = "websocket_address"
	allowedOriginsKey    = "allowed_origins"
	databasePathKey      = "database_path"
	roomsDirKey          = "rooms_dir"
	defaultRoomKey       = "default_room"
	historySizeKey       = "history_size"
	maxFileSizeKey       = "max_file_size"
	allowedExtensionsKey = "allowed_extensions"
	sendQueueSizeKey     = "send_queue_size"
	writeTimeoutKey      = "write_timeout"
	closeGraceKey        = "close_grace"
	logLevelKey          = "log_level"
)

func bindFlags(cmd *cobra.Command) {
	def := domain.NewConfig()
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.roomchat.yaml)")
	flags.String("listen", def.ListenAddress, "TCP address for chat clients")
	flags.String("admin", def.AdminAddress, "gRPC admin address, empty disables")
	flags.String("websocket", def.WebSocketAddress, "WebSocket address, empty disables")
	flags.StringSlice("allowed-origins", nil, "origins allowed to open WebSocket connections")
	flags.String("database", def.DatabasePath, "SQLite database path")
	flags.String("rooms-dir", def.RoomsDir, "directory holding room files")
	flags.String("default-room", def.DefaultRoom, "room every client joins after READY")
	flags.Int("history-size", def.HistorySize, "chat lines replayed on join")
	flags.Int64("max-file-size", def.MaxFileSize, "upload size limit in bytes")
	flags.StringSlice("allowed-extensions", def.AllowedExtensions, "file extensions accepted for upload")
	flags.Int("send-queue-size", def.SendQueueSize, "outbound frames buffered per session")
	flags.Duration("write-timeout", def.WriteTimeout, "per frame write deadline, 0 disables")
	flags.Duration("close-grace", def.CloseGrace, "time a closing session gets to flush")
	flags.String("log-level", def.LogLevel, "debug, info, warn or error")

	for key, flag := range map[string]string{
		listenAddressKey:     "listen",
		adminAddressKey:      "admin",
		websocketAddressKey:  "websocket",
		allowedOriginsKey:    "allowed-origins",
		databasePathKey:      "database",
		roomsDirKey:          "rooms-dir",
		defaultRoomKey:       "default-room",
		historySizeKey:       "history-size",
		maxFileSizeKey:       "max-file-size",
		allowedExtensionsKey: "allowed-extensions",
		sendQueueSizeKey:     "send-queue-size",
		writeTimeoutKey:      "write-timeout",
		closeGraceKey:        "close-grace",
		logLevelKey:          "log-level",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".roomchat")
	}

	viper.SetEnvPrefix("roomchat")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

func loadConfig() (domain.Config, error) {
	cfg := domain.Config{
		ListenAddress:     viper.GetString(listenAddressKey),
		AdminAddress:      viper.GetString(adminAddressKey),
		WebSocketAddress:  viper.GetString(websocketAddressKey),
		AllowedOrigins:    viper.GetStringSlice(allowedOriginsKey),
		DatabasePath:      viper.GetString(databasePathKey),
		RoomsDir:          viper.GetString(roomsDirKey),
		DefaultRoom:       viper.GetString(defaultRoomKey),
		HistorySize:       viper.GetInt(historySizeKey),
		MaxFileSize:       viper.GetInt64(maxFileSizeKey),
		AllowedExtensions: viper.GetStringSlice(allowedExtensionsKey),
		SendQueueSize:     viper.GetInt(sendQueueSizeKey),
		WriteTimeout:      viper.GetDuration(writeTimeoutKey),
		CloseGrace:        viper.GetDuration(closeGraceKey),
		LogLevel:          viper.GetString(logLevelKey),
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
