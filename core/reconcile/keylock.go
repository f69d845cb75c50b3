package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// keyLocks serializes work per key. Entries are dropped once no caller
// holds or waits for them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until key is free and returns its unlock function.
func (k *keyLocks) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// recordDigest fingerprints everything that influences a record's outcome.
// ok is false when the payload cannot be encoded.
func recordDigest(rec SyncRecord, opts Options) (digest string, ok bool) {
	var modified string
	if rec.ModifiedAt != nil {
		modified = rec.ModifiedAt.UTC().Format(time.RFC3339Nano)
	}
	raw, err := json.Marshal(struct {
		Modified string         `json:"m"`
		Options  Options        `json:"o"`
		Payload  map[string]any `json:"p"`
	}{modified, opts, rec.Payload})
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), true
}
