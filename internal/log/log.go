package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = newLogger(os.Stdout)
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = time.RFC3339
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// Setup points the logger at stdout, plus an append-only file when path is set.
// The returned closer releases the file; it is never nil.
func Setup(level, path string) (io.Closer, error) {
	var closer io.Closer = nopCloser{}
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return closer, err
		}
		out = zerolog.MultiLevelWriter(os.Stdout, f)
		closer = f
	}
	SetOutput(out)
	SetLevel(level)
	return closer, nil
}

// SetOutput swaps the sink and returns a func restoring the previous one.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	prev := base
	base = newLogger(w).Level(prev.GetLevel())
	mu.Unlock()
	return func() {
		mu.Lock()
		base = prev
		mu.Unlock()
	}
}

func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	base = base.Level(lvl)
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := current()
	var ev *zerolog.Event
	switch level {
	case "error":
		ev = l.Error()
	case "warn":
		ev = l.Warn()
	case "audit":
		// audit entries bypass the level filter
		ev = l.Log().Str("level", "audit")
	default:
		ev = l.Info()
	}
	if ev == nil {
		return
	}
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			ev = ev.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if uid, ok := c.Locals("userID").(string); ok && uid != "" {
			ev = ev.Str("user_id", uid)
		}
	}
	if action != "" {
		ev = ev.Str("action", action)
	}
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Interface("fields", fields)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
