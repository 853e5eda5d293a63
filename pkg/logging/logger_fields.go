package logging

import (
	"fmt"
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field {
	return String("component", name)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

// File names the file being processed.
func File(path string) Field {
	return String("file", path)
}

// Delta renders a key schedule constant in hex.
func Delta(d uint32) Field {
	return String("delta", fmt.Sprintf("0x%08x", d))
}

// Kind names an error kind such as "BadMagic".
func Kind(kind string) Field {
	return String("kind", kind)
}

func Attempts(n int) Field {
	return Int("attempts", n)
}

func RunID(id string) Field {
	return String("run_id", id)
}
