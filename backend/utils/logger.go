package utils

import (
	"io"
	"log"
	"os"

	"taskaura/backend/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the server logger. With LOG_FILE set the log is written
// through a rotating file writer as well as stdout.
func InitLogger(cfg *config.Config) *log.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		})
	}

	return log.New(out, "[TaskAura] ", log.LstdFlags|log.LUTC)
}
