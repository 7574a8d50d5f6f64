package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugFlag is read on every Log call.
type DebugFlag interface {
	Debug() bool
}

// DebugLog writes namespace-tagged lines while the debug flag is set.
type DebugLog struct {
	flag DebugFlag
	out  *zap.Logger
}

// NewDebugLog creates a debug log reading flag at call time. A nil out
// writes plain lines to stderr.
func NewDebugLog(flag DebugFlag, out *zap.Logger) *DebugLog {
	if out == nil {
		out = NewDiagnostic(zapcore.Lock(os.Stderr))
	}
	return &DebugLog{flag: flag, out: out}
}

// NewDiagnostic builds a logger that writes only the message, one line per
// entry, to w.
func NewDiagnostic(w zapcore.WriteSyncer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "M",
		LineEnding: zapcore.DefaultLineEnding,
	})
	return zap.New(zapcore.NewCore(enc, w, zapcore.DebugLevel))
}

// Log writes "[namespace]: v1 v2 ..." when debug is enabled, and nothing
// otherwise.
func (d *DebugLog) Log(namespace string, values ...any) {
	if d == nil || d.flag == nil || !d.flag.Debug() {
		return
	}
	d.out.Debug(Format(namespace, values...))
}

// Format renders a debug line.
func Format(namespace string, values ...any) string {
	parts := make([]string, 0, len(values)+1)
	parts = append(parts, "["+namespace+"]:")
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, " ")
}
