package notifications

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
)

const (
	DefaultDedupWindow = 5 * time.Minute
	dedupCacheSize     = 512
)

// ContentHash identifies notifications with the same content for the same profile
func ContentHash(n Notification) string {
	h := sha256.New()
	profileId := ""
	if n.ProfileId != nil {
		profileId = *n.ProfileId
	}
	for _, part := range []string{string(n.Type), profileId, n.Title, n.Message} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Deduplicator remembers when notification content was last accepted. The least
// recently accepted content is forgotten first when the cache is full.
type Deduplicator struct {
	window time.Duration
	mu     sync.Mutex
	lru    *simplelru.LRU
}

func NewDeduplicator(window time.Duration) (*Deduplicator, error) {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	var onEvict simplelru.EvictCallback
	lru, err := simplelru.NewLRU(dedupCacheSize, onEvict)
	if err != nil {
		return nil, err
	}
	return &Deduplicator{window: window, lru: lru}, nil
}

// Accept returns false if the same content was accepted within the window
// before now. Duplicates don't extend the window.
func (d *Deduplicator) Accept(n Notification, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := ContentHash(n)
	if v, ok := d.lru.Get(key); ok {
		if now.Sub(v.(time.Time)) < d.window {
			return false
		}
	}
	d.lru.Add(key, now)
	return true
}

func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lru.Purge()
}
