package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Key is the versioned storage key of the persisted ledger. Bump the version
// when the persisted shape changes incompatibly.
const Key = "picverb.ledger.v1"

// ErrStorageUnavailable marks a failed storage operation. Book only logs it.
var ErrStorageUnavailable = errors.New("ledger: storage unavailable")

// Storage is the durable key-value port the ledger is persisted through.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Book loads, saves and resets the ledger. Storage failures degrade it to
// in-memory operation and are never returned to the caller.
type Book struct {
	storage  Storage
	log      logrus.FieldLogger
	now      func() time.Time
	degraded bool
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the logger for storage failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Book) {
		if log != nil {
			b.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Book) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBook returns a Book over storage. A nil storage keeps everything in memory.
func NewBook(storage Storage, opts ...Option) *Book {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	b := &Book{
		storage: storage,
		log:     discard,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Degraded reports whether a storage operation has failed in this session.
func (b *Book) Degraded() bool {
	return b.degraded
}

// Load returns the persisted ledger, or an empty one when nothing usable is stored.
func (b *Book) Load(ctx context.Context) Ledger {
	if b.storage == nil {
		return New(b.now())
	}
	raw, ok, err := b.storage.Get(ctx, Key)
	if err != nil {
		b.storageFailed("load", err)
		return New(b.now())
	}
	if !ok {
		return New(b.now())
	}
	return Decode(raw, b.now())
}

// Save persists l on a best-effort basis.
func (b *Book) Save(ctx context.Context, l Ledger) {
	if b.storage == nil {
		return
	}
	raw, err := Encode(l)
	if err != nil {
		b.storageFailed("encode", err)
		return
	}
	if err := b.storage.Set(ctx, Key, raw); err != nil {
		b.storageFailed("save", err)
	}
}

// Record adds one attempt to l, persists the result and returns it.
func (b *Book) Record(ctx context.Context, l Ledger, itemID string, correct bool) Ledger {
	next := l.Record(itemID, correct, b.now())
	b.Save(ctx, next)
	return next
}

// Reset removes the persisted record and returns an empty ledger.
func (b *Book) Reset(ctx context.Context) Ledger {
	fresh := New(b.now())
	if b.storage == nil {
		return fresh
	}
	if err := b.storage.Remove(ctx, Key); err != nil {
		b.storageFailed("reset", err)
	}
	return fresh
}

func (b *Book) storageFailed(op string, err error) {
	wrapped := fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	entry := b.log.WithError(wrapped).WithField("key", Key)
	if !b.degraded {
		entry.Warn("ledger storage failed; continuing in memory")
		b.degraded = true
		return
	}
	entry.Debug("ledger storage failed")
}
