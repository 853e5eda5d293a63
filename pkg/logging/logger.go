package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// NewSyncWriter wraps w so concurrent writers never interleave a line.
func NewSyncWriter(w io.Writer) *SyncWriter {
	if sw, ok := w.(*SyncWriter); ok {
		return sw
	}
	return &SyncWriter{w: w}
}

// Write writes p under the writer's lock.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// WriteString writes str under the writer's lock.
func (s *SyncWriter) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// NewJSONLogger creates a logger writing one JSON object per line
func NewJSONLogger(w io.Writer, level Level) Logger {
	return newLogger(w, level, encodeJSON)
}

// NewTextLogger creates a logger writing human-readable lines of the form
//
//	2006-01-02T15:04:05Z INFO  decoded file=init.lua delta=0x9e3779b9
func NewTextLogger(w io.Writer, level Level) Logger {
	return newLogger(w, level, encodeText)
}

// New returns a logger for the given format
func New(w io.Writer, format Format, level Level) Logger {
	if format == FormatJSON {
		return NewJSONLogger(w, level)
	}
	return NewTextLogger(w, level)
}

func newLogger(w io.Writer, level Level, enc encoder) *logger {
	return &logger{
		out:   NewSyncWriter(w),
		enc:   enc,
		level: &levelVar{l: level},
	}
}

// log is the internal logging method
func (l *logger) log(level Level, msg string, fields ...Field) {
	if level < l.GetLevel() {
		return
	}

	entry := LogEntry{
		Time:    time.Now().UTC().Format(time.RFC3339),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		entry.order = make([]string, 0, n)
		for _, set := range [][]Field{l.fields, fields} {
			for _, f := range set {
				if _, dup := entry.Fields[f.Key]; !dup {
					entry.order = append(entry.order, f.Key)
				}
				entry.Fields[f.Key] = f.Value
			}
		}
	}

	data, err := l.enc(entry)
	if err != nil {
		fmt.Fprintf(l.out, "[ERROR] Failed to encode log entry: %v\n", err)
		return
	}
	l.out.Write(append(data, '\n'))
}

func (l *logger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }
func (l *logger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields...) }
func (l *logger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields...) }
func (l *logger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

// With creates a child logger with the given fields pre-set. The child
// shares the parent's writer and level.
func (l *logger) With(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &logger{
		out:    l.out,
		enc:    l.enc,
		level:  l.level,
		fields: newFields,
	}
}

// SetLevel sets the minimum log level
func (l *logger) SetLevel(level Level) {
	l.level.mu.Lock()
	defer l.level.mu.Unlock()
	l.level.l = level
}

// GetLevel returns the current log level
func (l *logger) GetLevel() Level {
	l.level.mu.RLock()
	defer l.level.mu.RUnlock()
	return l.level.l
}

func encodeJSON(e LogEntry) ([]byte, error) {
	return json.Marshal(e)
}

func encodeText(e LogEntry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(e.Time)
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s ", e.Level)
	b.WriteString(e.Message)
	for _, k := range e.order {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		v := fmt.Sprint(e.Fields[k])
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		b.WriteString(v)
	}
	return []byte(b.String()), nil
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since StartTimer
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation with its duration at debug level
func (t *TimedOperation) End(fields ...Field) time.Duration {
	elapsed := t.Elapsed()
	all := append(append(t.fields[:len(t.fields):len(t.fields)], fields...), Latency(elapsed))
	t.logger.Debug(t.msg, all...)
	return elapsed
}
