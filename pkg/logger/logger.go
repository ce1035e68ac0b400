package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

var levelOrder = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

// Logger is a small leveled logger with structured key-value fields.
// Output is either logfmt-style lines or JSON, chosen at Init time.
type Logger struct {
	mu         sync.Mutex
	level      LogLevel
	jsonFormat bool
	out        io.Writer
	context    map[string]interface{}
}

var (
	global     *Logger
	globalOnce sync.Once
)

// Init configures the process-wide logger. A nil writer discards output
// (useful in tests).
func Init(level LogLevel, jsonFormat bool, out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	if _, ok := levelOrder[level]; !ok {
		level = INFO
	}
	global = &Logger{
		level:      level,
		jsonFormat: jsonFormat,
		out:        out,
		context:    map[string]interface{}{},
	}
}

func GetLogger() *Logger {
	globalOnce.Do(func() {
		if global == nil {
			Init(INFO, false, os.Stdout)
		}
	})
	if global == nil {
		Init(INFO, false, os.Stdout)
	}
	return global
}

// WithContext returns a child logger that includes the given field on
// every line it emits.
func (l *Logger) WithContext(key string, value interface{}) *Logger {
	ctx := make(map[string]interface{}, len(l.context)+1)
	for k, v := range l.context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Logger{
		level:      l.level,
		jsonFormat: l.jsonFormat,
		out:        l.out,
		context:    ctx,
	}
}

func (l *Logger) Debug(event string, kv ...interface{}) { l.log(DEBUG, event, kv...) }
func (l *Logger) Info(event string, kv ...interface{})  { l.log(INFO, event, kv...) }
func (l *Logger) Warn(event string, kv ...interface{})  { l.log(WARN, event, kv...) }
func (l *Logger) Error(event string, kv ...interface{}) { l.log(ERROR, event, kv...) }

// Package-level helpers that write through the global logger.
func Debug(event string, kv ...interface{}) { GetLogger().Debug(event, kv...) }
func Info(event string, kv ...interface{})  { GetLogger().Info(event, kv...) }
func Warn(event string, kv ...interface{})  { GetLogger().Warn(event, kv...) }
func Error(event string, kv ...interface{}) { GetLogger().Error(event, kv...) }

func WithContext(key string, value interface{}) *Logger {
	return GetLogger().WithContext(key, value)
}

func (l *Logger) log(level LogLevel, event string, kv ...interface{}) {
	if levelOrder[level] < levelOrder[l.level] {
		return
	}

	fields := make(map[string]interface{}, len(l.context)+len(kv)/2)
	for k, v := range l.context {
		fields[k] = v
	}
	// Accept either alternating key/value pairs or a single map.
	if len(kv) == 1 {
		if m, ok := kv[0].(map[string]interface{}); ok {
			for k, v := range m {
				fields[k] = v
			}
			kv = nil
		}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kv[i])
		}
		fields[key] = kv[i+1]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().UTC().Format(time.RFC3339)
	if l.jsonFormat {
		entry := map[string]interface{}{
			"timestamp": ts,
			"level":     string(level),
			"event":     event,
		}
		for k, v := range fields {
			entry[k] = v
		}
		line, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out, `{"timestamp":%q,"level":%q,"event":%q}`+"\n", ts, level, event)
			return
		}
		l.out.Write(append(line, '\n'))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", ts, level, event)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')
	l.out.Write([]byte(b.String()))
}
