package convo

import (
	"github.com/patrickmn/go-cache"
)

// Store is the key-value contract for conversation state, keyed by the
// opaque user identifier. Implementations may later swap in persistent
// storage; the in-memory one below is the production default.
type Store interface {
	Get(userID string) (*State, bool)
	Save(state *State)
	Delete(userID string)
	GetOrCreate(userID string, historyLimit int) *State
}

// CacheStore keeps states in a go-cache instance. Entries never expire;
// a state lives as long as the process does.
type CacheStore struct {
	cache *cache.Cache
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *CacheStore) Get(userID string) (*State, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*State), true
	}
	return nil, false
}

func (r *CacheStore) Save(state *State) {
	r.cache.Set(state.UserID, state, cache.NoExpiration)
}

func (r *CacheStore) Delete(userID string) {
	r.cache.Delete(userID)
}

func (r *CacheStore) GetOrCreate(userID string, historyLimit int) *State {
	if s, found := r.Get(userID); found {
		return s
	}
	s := NewState(userID, historyLimit)
	r.Save(s)
	return s
}
