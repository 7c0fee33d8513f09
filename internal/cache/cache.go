package cache

import "context"

// LangCache caches external language lookups keyed by provider id. Both
// implementations are explicit objects with a TTL, passed to whoever
// issues the lookups; there is no process-global cache.
type LangCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Close() error
}
