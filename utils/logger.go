package utils

import (
	"log"
	"os"
)

// Level controls logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging through the standard log package.
type Logger struct {
	level Level
}

// NewLogger creates a logger whose level is taken from LOG_LEVEL
// (ERROR, WARN, INFO, DEBUG), defaulting to INFO.
func NewLogger() *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "DEBUG":
		level = LevelDebug
	}
	return &Logger{level: level}
}

func (l *Logger) Error(format string, args ...any) {
	if l.level >= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.level >= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l.level >= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if l.level >= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
