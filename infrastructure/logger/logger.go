package logger

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger for a Backend.
type Logger struct {
	lvl       Level // atomic
	tag       string
	b         *Backend
	writeChan chan<- logEntry
}

type logEntry struct {
	log   []byte
	level Level
}

// Trace formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelTrace.
func (l *Logger) Trace(args ...interface{}) {
	l.print(LevelTrace, args...)
}

// Tracef formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.printf(LevelTrace, format, args...)
}

// Debug formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelDebug.
func (l *Logger) Debug(args ...interface{}) {
	l.print(LevelDebug, args...)
}

// Debugf formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(LevelDebug, format, args...)
}

// Info formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelInfo.
func (l *Logger) Info(args ...interface{}) {
	l.print(LevelInfo, args...)
}

// Infof formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(LevelInfo, format, args...)
}

// Warn formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelWarn.
func (l *Logger) Warn(args ...interface{}) {
	l.print(LevelWarn, args...)
}

// Warnf formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.printf(LevelWarn, format, args...)
}

// Error formats message using the default formats for its operands, prepends
// the prefix as necessary, and writes to log with LevelError.
func (l *Logger) Error(args ...interface{}) {
	l.print(LevelError, args...)
}

// Errorf formats message according to format specifier, prepends the prefix
// as necessary, and writes to log with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(LevelError, format, args...)
}

// Critical formats message using the default formats for its operands,
// prepends the prefix as necessary, and writes to log with LevelCritical.
func (l *Logger) Critical(args ...interface{}) {
	l.print(LevelCritical, args...)
}

// Criticalf formats message according to format specifier, prepends the
// prefix as necessary, and writes to log with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.printf(LevelCritical, format, args...)
}

// Level returns the current logging level
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(level))
}

// Backend returns the backend of the logger.
func (l *Logger) Backend() *Backend {
	return l.b
}

func (l *Logger) print(level Level, args ...interface{}) {
	if l.Level() > level {
		return
	}
	l.write(level, fmt.Sprintln(args...))
}

func (l *Logger) printf(level Level, format string, args ...interface{}) {
	if l.Level() > level {
		return
	}
	l.write(level, fmt.Sprintf(format, args...)+"\n")
}

// write formats the log entry with the standard header and hands it to
// the backend's write channel. If the backend is not running yet the entry
// is written to stderr so that early startup errors are not swallowed.
func (l *Logger) write(level Level, message string) {
	entry := logEntry{
		log:   l.formatEntry(level, message),
		level: level,
	}
	if !l.b.IsRunning() {
		_, _ = os.Stderr.Write(entry.log)
		return
	}
	l.writeChan <- entry
}

func (l *Logger) formatEntry(level Level, message string) []byte {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	buf := make([]byte, 0, normalLogSize+len(message))
	buf = append(buf, timestamp...)
	buf = append(buf, " ["...)
	buf = append(buf, level.String()...)
	buf = append(buf, "] "...)
	buf = append(buf, l.tag...)
	if callsite := l.callsite(); callsite != "" {
		buf = append(buf, ' ')
		buf = append(buf, callsite...)
	}
	buf = append(buf, ": "...)
	buf = append(buf, message...)
	return buf
}

// callsiteSkipLevel is the number of stack frames between the logging
// callsite and the runtime.Caller call in callsite().
const callsiteSkipLevel = 5

func (l *Logger) callsite() string {
	flag := l.b.flag
	if flag&(LogFlagShortFile|LogFlagLongFile) == 0 {
		return ""
	}

	file, line := "???", 0
	_, callerFile, callerLine, ok := runtime.Caller(callsiteSkipLevel)
	if ok {
		file, line = callerFile, callerLine
	}
	if flag&LogFlagShortFile != 0 {
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				file = file[i+1:]
				break
			}
		}
	}
	return fmt.Sprintf("%s:%d", file, line)
}
