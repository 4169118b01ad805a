package n8n

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

type resourceClass string

const (
	classWorkflows  resourceClass = "workflows"
	classExecutions resourceClass = "executions"
)

// responseCache is a TTL cache for read responses. Invalidation is per
// resource class: every key embeds the class generation counter, and any
// mutation of a class bumps its counter, making previously cached entries
// unreachable immediately. A nil *responseCache is a no-op.
type responseCache struct {
	cache *ristretto.Cache[string, any]
	ttl   time.Duration

	workflowGen  atomic.Uint64
	executionGen atomic.Uint64
}

func newResponseCache(ttl time.Duration) (*responseCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 10_000,
		MaxCost:     1 << 22,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &responseCache{cache: cache, ttl: ttl}, nil
}

func (rc *responseCache) generation(class resourceClass) uint64 {
	switch class {
	case classExecutions:
		return rc.executionGen.Load()
	default:
		return rc.workflowGen.Load()
	}
}

func (rc *responseCache) key(class resourceClass, key string) string {
	return fmt.Sprintf("%s:%d:%s", class, rc.generation(class), key)
}

func (rc *responseCache) get(class resourceClass, key string) (any, bool) {
	if rc == nil {
		return nil, false
	}
	return rc.cache.Get(rc.key(class, key))
}

func (rc *responseCache) set(class resourceClass, key string, value any) {
	if rc == nil {
		return
	}
	rc.cache.SetWithTTL(rc.key(class, key), value, 1, rc.ttl)
	// Ristretto admits writes asynchronously; wait so a read issued after
	// this call observes the entry.
	rc.cache.Wait()
}

// invalidate bumps the class generation so every cached entry of that class
// is unreachable from now on. Stale entries age out via TTL.
func (rc *responseCache) invalidate(class resourceClass) {
	if rc == nil {
		return
	}
	switch class {
	case classExecutions:
		rc.executionGen.Add(1)
	default:
		rc.workflowGen.Add(1)
	}
}
