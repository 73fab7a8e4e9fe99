package cartstore

import (
	"sync"

	"tiflisi/internal/domain"
)

// FavoritesKey is the storage key of the favorites collection.
const FavoritesKey = "tiflisi_favorites_store"

// FavoritesStore keeps product snapshots keyed by product id. Favorites are
// not variant specific.
type FavoritesStore struct {
	mu          sync.Mutex
	storage     Storage
	items       []domain.Product
	initialized bool
}

func NewFavorites(s Storage) *FavoritesStore {
	if s == nil {
		s = NopStorage{}
	}
	return &FavoritesStore{storage: s}
}

func OpenFavorites(s Storage) *FavoritesStore {
	f := NewFavorites(s)
	f.Hydrate()
	return f
}

func (f *FavoritesStore) Hydrate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hydrateLocked()
}

func (f *FavoritesStore) hydrateLocked() {
	if f.initialized {
		return
	}
	seen := map[string]bool{}
	for _, p := range hydrate[domain.Product](f.storage, FavoritesKey) {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		f.items = append(f.items, p)
	}
	f.initialized = true
}

func (f *FavoritesStore) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

func (f *FavoritesStore) indexOf(id string) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Toggle removes p when present and adds it otherwise. It reports whether p
// is a favorite afterwards.
func (f *FavoritesStore) Toggle(p domain.Product) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hydrateLocked()

	fav := false
	if i := f.indexOf(p.ID); i >= 0 {
		f.items = append(f.items[:i], f.items[i+1:]...)
	} else {
		f.items = append(f.items, p)
		fav = true
	}
	persist(f.storage, FavoritesKey, f.items)
	return fav
}

func (f *FavoritesStore) IsFavorite(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(id) >= 0
}

func (f *FavoritesStore) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Items is empty until the store is initialized.
func (f *FavoritesStore) Items() []domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized {
		return []domain.Product{}
	}
	return append([]domain.Product{}, f.items...)
}

// IDs returns the favorite ids as a set, for marking product cards.
func (f *FavoritesStore) IDs() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.items))
	for _, p := range f.items {
		out[p.ID] = true
	}
	return out
}
