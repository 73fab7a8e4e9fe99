package cartstore

import (
	"encoding/json"

	applog "tiflisi/internal/log"
)

// hydrate reads a JSON array stored under key. It never fails: a missing key,
// a read error or a value that does not parse all yield an empty collection.
// Unparseable values are removed so they are not read again.
func hydrate[T any](s Storage, key string) []T {
	raw, ok, err := s.Load(key)
	if err != nil {
		applog.Error(nil, "cartstore.load.fail", err, map[string]any{"key": key})
		return nil
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		applog.Error(nil, "cartstore.parse.fail", err, map[string]any{"key": key, "bytes": len(raw)})
		if rerr := s.Remove(key); rerr != nil {
			applog.Error(nil, "cartstore.remove.fail", rerr, map[string]any{"key": key})
		}
		return nil
	}
	return out
}

// persist writes the full collection. Failures are logged and swallowed;
// the in-memory state stays as it is.
func persist[T any](s Storage, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		applog.Error(nil, "cartstore.encode.fail", err, map[string]any{"key": key})
		return
	}
	if err := s.Save(key, raw); err != nil {
		applog.Error(nil, "cartstore.save.fail", err, map[string]any{"key": key, "items": len(items)})
	}
}
