package deck

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a loaded deck is served from cache.
const DefaultTTL = 5 * time.Minute

// Repository caches decks with a TTL so remote loaders are not hit on
// every quiz start. Concurrent misses for one id share a single load.
type Repository struct {
	catalog Catalog
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedDeck
}

type cachedDeck struct {
	deck      Deck
	expiresAt time.Time
}

// NewRepository wraps catalog with a cache. ttl <= 0 disables caching.
func NewRepository(catalog Catalog, ttl time.Duration) *Repository {
	return &Repository{
		catalog: catalog,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedDeck),
	}
}

func (r *Repository) LoadDeck(ctx context.Context, id string) (Deck, error) {
	if d, ok := r.cached(id); ok {
		return d, nil
	}

	result, err, _ := r.sf.Do(id, func() (interface{}, error) {
		if d, ok := r.cached(id); ok {
			return d, nil
		}
		d, err := r.catalog.LoadDeck(ctx, id)
		if err != nil {
			return Deck{}, err
		}
		if r.ttl > 0 {
			expiresAt := r.clock().Add(r.ttlWithJitter())
			r.mu.Lock()
			r.cache[id] = cachedDeck{deck: d, expiresAt: expiresAt}
			r.mu.Unlock()
		}
		return d, nil
	})
	if err != nil {
		return Deck{}, err
	}
	return result.(Deck), nil
}

// ListDecks is not cached; listings are cheap and should reflect new packs.
func (r *Repository) ListDecks(ctx context.Context) ([]Summary, error) {
	return r.catalog.ListDecks(ctx)
}

// Invalidate drops every cached deck, e.g. after a deck pack was pulled.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]cachedDeck)
	r.mu.Unlock()
}

func (r *Repository) cached(id string) (Deck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[id]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return Deck{}, false
	}
	return entry.deck, true
}

// ttlWithJitter adds up to 10% to spread expirations.
func (r *Repository) ttlWithJitter() time.Duration {
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
