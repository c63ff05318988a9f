package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"example.com/millops/internal/document"
	"example.com/millops/internal/metrics"
	"example.com/millops/internal/store"
)

// Unknown is the display fallback for dangling references. Deleting a
// customer, product or driver never cascades into orders, so lookups
// must tolerate missing entities; the helpers below keep that fallback
// in one place.
const Unknown = "Unknown"

// ErrNoChange is returned by an Update fn to report that it left the
// document untouched. Update treats it as success and skips the save,
// so derived passes that find nothing to do produce no write and no
// change event.
var ErrNoChange = errors.New("repository: no change")

// Document is the single-writer boundary around the shared document.
// Every mutation goes through Update, which holds a mutex across the
// whole load-mutate-store cycle, so concurrent callers within one
// process can never clobber each other's writes.
type Document struct {
	mu      sync.Mutex
	store   store.Store
	metrics *metrics.Metrics
}

// NewDocument creates a repository over the given store
func NewDocument(s store.Store) *Document {
	return &Document{store: s}
}

// Instrument attaches a metrics collector; without one the repository
// runs unmetered
func (r *Document) Instrument(m *metrics.Metrics) {
	r.metrics = m
}

// Get loads and parses the current document. An absent key yields the
// seeded default document. A parse failure is reported as an error;
// the stored data is never silently discarded.
func (r *Document) Get(ctx context.Context) (*document.Document, error) {
	data, err := r.store.Load(ctx, store.DocumentKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return document.DefaultDocument(), nil
		}
		return nil, errors.Wrap(err, "failed to load document")
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "stored document is malformed")
	}
	doc.Normalize()
	return &doc, nil
}

// Update applies fn to the current document and persists the result.
// The mutex makes the read-modify-write atomic within this process;
// an error from fn aborts the update with nothing written, and
// ErrNoChange skips the save without failing.
func (r *Document) Update(ctx context.Context, fn func(*document.Document) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	doc, err := r.Get(ctx)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}

	if err := r.save(ctx, doc); err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.RecordTimer(metrics.TimerDocumentUpdate, time.Since(start))
	}
	return nil
}

// Replace overwrites the whole document, used by restore flows
func (r *Document) Replace(ctx context.Context, doc *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, doc)
}

func (r *Document) save(ctx context.Context, doc *document.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to serialize document")
	}
	if err := r.store.Save(ctx, store.DocumentKey, data); err != nil {
		if r.metrics != nil {
			r.metrics.IncrementCounter(metrics.CounterStoreWriteFailures)
		}
		return errors.Wrap(err, "failed to store document")
	}
	if r.metrics != nil {
		r.metrics.IncrementCounter(metrics.CounterStoreWrites)
		r.metrics.SetGauge(metrics.GaugeDocumentBytes, int64(len(data)))
	}
	return nil
}

// LoadAux reads an auxiliary per-user blob (cart, saved items,
// preferences, delivery proofs) into value. Returns store.ErrNotFound
// when the key has never been written.
func (r *Document) LoadAux(ctx context.Context, key string, value interface{}) error {
	data, err := r.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return errors.Wrap(err, "stored auxiliary blob is malformed")
	}
	return nil
}

// SaveAux writes an auxiliary per-user blob
func (r *Document) SaveAux(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to serialize auxiliary blob")
	}
	if err := r.store.Save(ctx, key, data); err != nil {
		if r.metrics != nil {
			r.metrics.IncrementCounter(metrics.CounterStoreWriteFailures)
		}
		return err
	}
	if r.metrics != nil {
		r.metrics.IncrementCounter(metrics.CounterStoreWrites)
	}
	return nil
}

// DeleteAux removes an auxiliary per-user blob
func (r *Document) DeleteAux(ctx context.Context, key string) error {
	return r.store.Delete(ctx, key)
}

// CustomerName resolves a customer ID for display, tolerating dangling
// references
func CustomerName(doc *document.Document, id int64) string {
	if c := doc.FindCustomer(id); c != nil {
		return c.Name
	}
	return Unknown
}

// ProductName resolves a product ID for display, tolerating dangling
// references
func ProductName(doc *document.Document, id int64) string {
	if p := doc.FindProduct(id); p != nil {
		return p.Name
	}
	return Unknown
}

// DriverName resolves a driver ID for display, tolerating dangling
// references
func DriverName(doc *document.Document, id int64) string {
	if d := doc.FindDriver(id); d != nil {
		return d.Name
	}
	return Unknown
}
