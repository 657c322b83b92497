// Package logger provides leveled, component-tagged logging for wordclaw.
//
// Output goes to stderr so that command stdout stays scriptable. Components
// are short lowercase tags ("bridge", "delivery", ...) that group related
// log lines together.
package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	mu       sync.Mutex
	minLevel = INFO

	debugColor = color.New(color.FgHiBlack)
	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

func levelName(l Level) string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	default:
		return "ERROR"
	}
}

func levelColor(l Level) *color.Color {
	switch l {
	case DEBUG:
		return debugColor
	case INFO:
		return infoColor
	case WARN:
		return warnColor
	default:
		return errorColor
	}
}

func logC(l Level, component, msg string, fields map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	if l < minLevel {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(levelColor(l).Sprintf("%-5s", levelName(l)))
	sb.WriteString(" [")
	sb.WriteString(component)
	sb.WriteString("] ")
	sb.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
		}
	}

	fmt.Fprintln(os.Stderr, sb.String())
}

func DebugC(component, msg string) { logC(DEBUG, component, msg, nil) }
func InfoC(component, msg string)  { logC(INFO, component, msg, nil) }
func WarnC(component, msg string)  { logC(WARN, component, msg, nil) }
func ErrorC(component, msg string) { logC(ERROR, component, msg, nil) }

func DebugCF(component, msg string, fields map[string]any) { logC(DEBUG, component, msg, fields) }
func InfoCF(component, msg string, fields map[string]any)  { logC(INFO, component, msg, fields) }
func WarnCF(component, msg string, fields map[string]any)  { logC(WARN, component, msg, fields) }
func ErrorCF(component, msg string, fields map[string]any) { logC(ERROR, component, msg, fields) }
