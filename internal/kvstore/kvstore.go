// Package kvstore provides the per-session key/value backends behind the
// cart and favorites stores.
package kvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tiflisi/internal/cartstore"
	"tiflisi/internal/config"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
)

// Backend stores opaque values under (namespace, key). A missing value
// reports ok == false with a nil error.
type Backend interface {
	Get(ctx context.Context, ns, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns, key string) error
}

// Scope binds a backend to one namespace so it can serve as a cartstore.Storage.
func Scope(ctx context.Context, b Backend, ns string) cartstore.Storage {
	return scoped{ctx: ctx, b: b, ns: ns}
}

type scoped struct {
	ctx context.Context
	b   Backend
	ns  string
}

func (s scoped) Load(key string) ([]byte, bool, error) { return s.b.Get(s.ctx, s.ns, key) }
func (s scoped) Save(key string, data []byte) error    { return s.b.Set(s.ctx, s.ns, key, data) }
func (s scoped) Remove(key string) error               { return s.b.Delete(s.ctx, s.ns, key) }

// Open builds the backend named by cfg.StorageBackend. The returned close
// func is never nil.
func Open(ctx context.Context, cfg config.Config, kv *repos.KVRepo) (Backend, func() error, error) {
	nop := func() error { return nil }
	var (
		b     Backend
		close = nop
		err   error
	)
	switch cfg.StorageBackend {
	case "sqlite", "":
		if kv == nil {
			return nil, nop, fmt.Errorf("kvstore: sqlite backend needs a KV repo")
		}
		s := NewSQLite(kv)
		if cfg.SessionTTL > 0 {
			go s.Sweep(ctx, cfg.SessionTTL, time.Hour)
		}
		b = s
	case "memory":
		b = NewMemory()
	case "redis":
		var r *Redis
		r, err = NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err == nil {
			b, close = r, r.Close
		}
	case "firestore":
		var f *Firestore
		f, err = NewFirestore(ctx, cfg.FirestoreProject, cfg.GCPCredentials)
		if err == nil {
			b, close = f, f.Close
		}
	default:
		err = fmt.Errorf("kvstore: unknown backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, nop, err
	}
	applog.Info(nil, "kvstore.open", map[string]any{"backend": cfg.StorageBackend})
	return b, close, nil
}

// SQLite keeps entries in the kv_entries table.
type SQLite struct{ repo *repos.KVRepo }

func NewSQLite(repo *repos.KVRepo) *SQLite { return &SQLite{repo: repo} }

func (s *SQLite) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	return s.repo.Get(ctx, ns, key)
}

func (s *SQLite) Set(ctx context.Context, ns, key string, value []byte) error {
	return s.repo.Set(ctx, ns, key, value)
}

func (s *SQLite) Delete(ctx context.Context, ns, key string) error {
	return s.repo.Delete(ctx, ns, key)
}

// PurgeIdle drops entries not written within maxAge.
func (s *SQLite) PurgeIdle(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.repo.PurgeBefore(ctx, time.Now().Add(-maxAge))
}

// Sweep calls PurgeIdle every interval until ctx is done.
func (s *SQLite) Sweep(ctx context.Context, maxAge, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.PurgeIdle(ctx, maxAge)
			if err != nil {
				applog.Error(nil, "kvstore.sweep.fail", err, nil)
				continue
			}
			if n > 0 {
				applog.Info(nil, "kvstore.sweep", map[string]any{"purged": n})
			}
		}
	}
}

// Memory keeps entries in process memory; used in tests and single-process demos.
type Memory struct {
	mu sync.Mutex
	m  map[string]map[string][]byte
}

func NewMemory() *Memory { return &Memory{m: map[string]map[string][]byte{}} }

func (m *Memory) Get(_ context.Context, ns, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[ns][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, ns, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.m[ns] == nil {
		m.m[ns] = map[string][]byte{}
	}
	m.m[ns][key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, ns, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m[ns], key)
	if len(m.m[ns]) == 0 {
		delete(m.m, ns)
	}
	return nil
}
