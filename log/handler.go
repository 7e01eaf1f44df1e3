package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-stack/stack"
)

var levelNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelCrit:  "CRIT",
}

func levelName(l slog.Level) string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return l.String()
}

// terminalHandler formats records the way go-ethereum's console output
// does: "LEVEL [date|time] msg          key=val key=val".
type terminalHandler struct {
	mu     sync.Mutex
	wr     io.Writer
	level  slog.Level
	useColor bool
	attrs  []slog.Attr
}

// NewTerminalHandlerWithLevel returns a slog.Handler that writes
// human-readable lines to wr, filtering anything below level.
func NewTerminalHandlerWithLevel(wr io.Writer, level slog.Level, useColor bool) slog.Handler {
	return &terminalHandler{wr: wr, level: level, useColor: useColor}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-5s[%s] %s", levelName(r.Level), r.Time.Format("01-02|15:04:05.000"), r.Message)
	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	for _, a := range attrs {
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value.Any())
	}
	buf.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf.Bytes())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *terminalHandler) WithGroup(name string) slog.Handler { return h }

// glogHandler wraps an inner handler with go-ethereum's "glog" verbosity
// model: a global level plus per-file vmodule overrides matched against
// the caller's source file via go-stack/stack frame capture.
type glogHandler struct {
	inner slog.Handler

	mu       sync.RWMutex
	level    slog.Level
	patterns []vmodulePattern
}

type vmodulePattern struct {
	re    *regexp.Regexp
	level slog.Level
}

// NewGlogHandler wraps h with verbosity and vmodule filtering.
func NewGlogHandler(h slog.Handler) *glogHandler {
	return &glogHandler{inner: h, level: LevelInfo}
}

// Verbosity sets the global verbosity threshold.
func (g *glogHandler) Verbosity(level slog.Level) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.level = level
}

// Vmodule sets file-pattern-specific verbosity overrides, e.g.
// "logger_test.go=5" following go-ethereum's glog syntax (pattern=level,
// comma separated). A malformed entry makes Vmodule return an error and
// leaves the previous overrides in place.
func (g *glogHandler) Vmodule(spec string) error {
	var patterns []vmodulePattern
	for _, part := range strings.Split(spec, ",") {
		if part == "" {
			continue
		}
		fields := strings.Split(part, "=")
		if len(fields) != 2 {
			return fmt.Errorf("log: invalid vmodule entry %q", part)
		}
		pat, err := globToRegexp(fields[0])
		if err != nil {
			return err
		}
		var lvl int
		if _, err := fmt.Sscanf(fields[1], "%d", &lvl); err != nil {
			return fmt.Errorf("log: invalid vmodule level %q", fields[1])
		}
		patterns = append(patterns, vmodulePattern{re: pat, level: slog.Level(lvl)})
	}
	g.mu.Lock()
	g.patterns = patterns
	g.mu.Unlock()
	return nil
}

func globToRegexp(glob string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(glob)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)
	return regexp.Compile("^" + escaped + "$")
}

func (g *glogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if level >= g.level {
		return true
	}
	if len(g.patterns) == 0 {
		return false
	}
	file := callerFile()
	for _, p := range g.patterns {
		if p.re.MatchString(file) && level >= p.level {
			return true
		}
	}
	return false
}

func callerFile() string {
	trace := stack.Trace().TrimRuntime()
	if len(trace) == 0 {
		return ""
	}
	for _, c := range trace {
		f := fmt.Sprintf("%s", stack.Call(c))
		if !strings.Contains(f, "/log/") {
			return filepath.Base(strings.SplitN(f, ":", 2)[0])
		}
	}
	return ""
}

func (g *glogHandler) Handle(ctx context.Context, r slog.Record) error {
	return g.inner.Handle(ctx, r)
}

func (g *glogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &glogHandler{inner: g.inner.WithAttrs(attrs), level: g.level, patterns: g.patterns}
}

func (g *glogHandler) WithGroup(name string) slog.Handler {
	return &glogHandler{inner: g.inner.WithGroup(name), level: g.level, patterns: g.patterns}
}

