package drafts

import (
	"context"
	"time"

	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps drafts in process memory
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates an in-process store whose entries expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Get(_ context.Context, uid string) (flow.Flow, bool, error) {
	v, ok := s.cache.Get(key(uid))
	if !ok {
		return flow.Flow{}, false, nil
	}
	f, ok := v.(flow.Flow)
	if !ok {
		s.cache.Delete(key(uid))
		return flow.Flow{}, false, nil
	}
	return f, true, nil
}

func (s *MemoryStore) Save(_ context.Context, uid string, f flow.Flow) error {
	s.cache.Set(key(uid), f, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, uid string) error {
	s.cache.Delete(key(uid))
	return nil
}

func (s *MemoryStore) Name() string { return "memory" }

// Len reports how many drafts are held
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
