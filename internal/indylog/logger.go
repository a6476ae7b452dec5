// Package indylog provides the small structured logger shared by the
// resolution pipeline, pool registry, and HTTP front end.
package indylog

import (
	"fmt"
	"log"
	"os"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a component-scoped structured logger over stdout.
type Logger struct {
	component string
	level     Level
	out       *log.Logger
}

// New creates a logger for a component, logging at level and above.
func New(component string, level Level) *Logger {
	return &Logger{component: component, level: level, out: log.New(os.Stdout, "", 0)}
}

func (l *Logger) shouldLog(level Level) bool {
	return level >= l.level
}

func (l *Logger) format(level Level, msg string, fields map[string]interface{}) string {
	formatted := fmt.Sprintf("[%s] %s %s: %s", time.Now().Format(time.RFC3339), level, l.component, msg)
	for k, v := range fields {
		formatted += fmt.Sprintf(" %s=%v", k, v)
	}
	return formatted
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]interface{})  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]interface{})  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]interface{}) { l.log(LevelError, msg, fields) }

func (l *Logger) log(level Level, msg string, fields []map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}
	var f map[string]interface{}
	if len(fields) > 0 {
		f = fields[0]
	}
	l.out.Println(l.format(level, msg, f))
}
