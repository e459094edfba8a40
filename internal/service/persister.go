package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"reflect"
	"sync"
	"time"

	"aura/internal/domain"
	"aura/internal/history"
	"aura/internal/storage"
)

// DefaultSessionKey is the fixed key the live document is stored under.
const DefaultSessionKey = "aura-components"

const saveTimeout = 5 * time.Second

// Persister saves the latest document (and optionally the timeline) to a
// KV store and rehydrates it at startup. It never fails an edit: storage
// errors are logged and corrupt data is replaced by an empty document.
type Persister struct {
	kv             storage.KV
	key            string
	persistHistory bool

	mu        sync.Mutex
	lastEmpty bool // the last stored (or loaded) document had no blocks
}

// NewPersister creates a Persister for key (DefaultSessionKey when empty).
func NewPersister(kv storage.KV, key string, persistHistory bool) *Persister {
	if key == "" {
		key = DefaultSessionKey
	}
	return &Persister{kv: kv, key: key, persistHistory: persistHistory, lastEmpty: true}
}

// Key returns the document key.
func (p *Persister) Key() string { return p.key }

// HistoryKey returns the key the timeline is stored under.
func (p *Persister) HistoryKey() string { return p.key + ":history" }

// Load returns the persisted document, or an empty one when nothing usable
// is stored.
func (p *Persister) Load(ctx context.Context) domain.Document {
	data, err := p.kv.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Document{}
	}
	if err != nil {
		log.Printf("[SESSION] load %s: %v (starting empty)", p.key, err)
		return domain.Document{}
	}
	doc, err := domain.UnmarshalDocument(data)
	if err != nil {
		log.Printf("[SESSION] corrupt document under %s: %v (starting empty)", p.key, err)
		return domain.Document{}
	}

	p.mu.Lock()
	p.lastEmpty = len(doc) == 0
	p.mu.Unlock()
	return doc
}

// LoadTimeline returns the persisted timeline when history persistence is
// on and the timeline's current entry matches doc.
func (p *Persister) LoadTimeline(ctx context.Context, doc domain.Document) (history.Timeline, bool) {
	if !p.persistHistory {
		return history.Timeline{}, false
	}
	data, err := p.kv.Get(ctx, p.HistoryKey())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[SESSION] load %s: %v", p.HistoryKey(), err)
		}
		return history.Timeline{}, false
	}
	var tl history.Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		log.Printf("[SESSION] corrupt history under %s: %v", p.HistoryKey(), err)
		return history.Timeline{}, false
	}
	if !reflect.DeepEqual(tl.Current(), doc) {
		log.Printf("[SESSION] history under %s does not match the document, discarding", p.HistoryKey())
		return history.Timeline{}, false
	}
	return tl, true
}

// Save implements SnapshotSink. Concurrent calls are serialised.
func (p *Persister) Save(ctx context.Context, doc domain.Document, tl history.Timeline) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	// Held across the writes: lastEmpty must match what was last stored.
	p.mu.Lock()
	defer p.mu.Unlock()

	if !(len(doc) == 0 && p.lastEmpty) {
		data, err := domain.MarshalDocument(doc)
		if err != nil {
			log.Printf("[SESSION] encode document: %v", err)
		} else if err := p.kv.Put(ctx, p.key, data); err != nil {
			log.Printf("[SESSION] save %s: %v", p.key, err)
		} else {
			p.lastEmpty = len(doc) == 0
		}
	}

	if !p.persistHistory {
		return
	}
	data, err := json.Marshal(tl)
	if err != nil {
		log.Printf("[SESSION] encode history: %v", err)
		return
	}
	if err := p.kv.Put(ctx, p.HistoryKey(), data); err != nil {
		log.Printf("[SESSION] save %s: %v", p.HistoryKey(), err)
	}
}
