// Package snapshot persists computed risk responses to Redis on a
// best-effort basis. Writes happen in the background and never fail the
// request that produced them.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Record is one persisted computation.
type Record struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	StoredAt string          `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Writer pushes records to Redis. A nil Writer is valid and drops everything,
// so callers need no persistence-configured branch.
type Writer struct {
	rdb     redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	// onError is invoked once per failed save, for error accounting.
	onError func()
}

// NewWriter creates a Writer. onError may be nil; when set it is called on
// every failed save (typically a metrics counter increment).
func NewWriter(rdb redis.UniversalClient, ttl time.Duration, onError func()) *Writer {
	return &Writer{
		rdb:     rdb,
		ttl:     ttl,
		timeout: 5 * time.Second,
		now:     time.Now,
		onError: onError,
	}
}

func (w *Writer) fail() {
	if w.onError != nil {
		w.onError()
	}
}

// Save serializes payload and writes it in the background. Errors are logged,
// never returned; snapshots are an audit trail, not a dependency.
func (w *Writer) Save(kind string, lat, lon float64, payload any) {
	if w == nil || w.rdb == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("snapshot: marshal %s failed: %v", kind, err)
		w.fail()
		return
	}
	rec := Record{
		ID:       uuid.NewString(),
		Kind:     kind,
		Lat:      lat,
		Lon:      lon,
		StoredAt: w.now().UTC().Format(time.RFC3339),
		Payload:  body,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.write(ctx, rec); err != nil {
			log.Printf("snapshot: write %s failed: %v", kind, err)
			w.fail()
		}
	}()
}

func (w *Writer) write(ctx context.Context, rec Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("snapshot:%s:%s", rec.Kind, rec.ID)
	if err := w.rdb.Set(ctx, key, doc, w.ttl).Err(); err != nil {
		return err
	}
	// Secondary index so recent snapshots per kind are listable.
	idx := fmt.Sprintf("snapshot-index:%s", rec.Kind)
	if err := w.rdb.LPush(ctx, idx, key).Err(); err != nil {
		return err
	}
	return w.rdb.LTrim(ctx, idx, 0, 99).Err()
}

// Recent returns up to n keys of the latest snapshots of one kind.
func (w *Writer) Recent(ctx context.Context, kind string, n int64) ([]string, error) {
	if w == nil || w.rdb == nil {
		return nil, nil
	}
	return w.rdb.LRange(ctx, fmt.Sprintf("snapshot-index:%s", kind), 0, n-1).Result()
}
