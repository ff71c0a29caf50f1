package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

// fixedNow pins elapsed-time math so date tests do not drift.
var fixedNow = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

func newTestContext() *Context {
	return &Context{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	}
}

// runStage applies a single named stage to src with a fresh context.
func runStage(t *testing.T, name, src string) string {
	t.Helper()
	return runStageWith(t, name, src, newTestContext())
}

func runStageWith(t *testing.T, name, src string, c *Context) string {
	t.Helper()
	for _, s := range Stages() {
		if s.Name == name {
			out, err := s.Fn(src, c)
			if err != nil {
				t.Fatalf("stage %s: %v", name, err)
			}
			return out
		}
	}
	t.Fatalf("unknown stage %s", name)
	return ""
}

type staticResolver map[string]*Asset

func (r staticResolver) Resolve(key string) (*Asset, error) {
	if a, ok := r[key]; ok {
		return a, nil
	}
	return nil, ErrAssetNotFound
}
