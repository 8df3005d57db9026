package store

import (
	"context"
	"sync"
	"time"

	"github.com/7phs/membuf/buf"
	"github.com/7phs/membuf/internal/config"
	"github.com/minio/highwayhash"
)

var (
	_ Store = (*InMemStore)(nil)
)

// Store keeps values as pooled, reference-counted buffers under opaque byte
// keys. Adding to an existing key appends to its value without copying it.
type Store interface {
	ID() string
	Add(key, body []byte) error
	Get(key []byte) (buf.Buffer, error)
	Delete(key []byte) bool
	Clean(ctx context.Context) error
}

type InMemStore struct {
	sync.Map

	pool     buf.Pool
	time     config.TimeSource
	nonce    [32]byte
	expired  time.Duration
	maxValue int
	direct   bool
}

func NewInMemStore(conf config.Config, pool buf.Pool) Store {
	if pool == nil {
		pool = buf.NonPooling{}
	}

	return &InMemStore{
		pool:     pool,
		time:     conf.Time(),
		expired:  conf.Expiration(),
		maxValue: conf.MaxValue(),
		direct:   conf.Direct(),
	}
}

func (o *InMemStore) ID() string {
	return "in-memory-store"
}

// Add copies the body into a pooled buffer once; the record appends it as a
// retained fragment, so repeated adds to one key never recopy earlier parts.
func (o *InMemStore) Add(key, body []byte) error {
	now := o.time.Now()
	expiration := now.Add(o.expired)

	buffer := o.pool.Acquire(len(body), o.direct)
	buffer.Append(buf.NewSpan(body))

	err := o.loadOrCreate(o.hash(key)).append(buffer, now, expiration)

	buffer.Release()

	return err
}

func (o *InMemStore) Get(key []byte) (buf.Buffer, error) {
	v, ok := o.Load(o.hash(key))
	if !ok {
		return nil, ErrKeyNotFound
	}

	rec, ok := v.(*record)
	if !ok {
		return nil, ErrKeyNotFound
	}

	return rec.slice(o.time.Now())
}

func (o *InMemStore) Delete(key []byte) bool {
	v, ok := o.LoadAndDelete(o.hash(key))
	if !ok {
		return false
	}

	rec, ok := v.(*record)
	if !ok {
		return false
	}

	rec.release()

	return true
}

// Clean drops up to a bounded batch of expired records per run; the next
// maintenance cycle picks up the rest.
func (o *InMemStore) Clean(ctx context.Context) error {
	expired := [100]uint64{}
	index := 0
	now := o.time.Now()

	o.Range(func(key, value interface{}) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		rec, ok := value.(*record)
		if !ok {
			return true
		}

		if !rec.expiredAt(now) {
			return true
		}

		k, ok := key.(uint64)
		if !ok {
			return true
		}

		expired[index] = k
		index++

		return index < len(expired)
	})

	for _, key := range expired[:index] {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		v, ok := o.LoadAndDelete(key)
		if !ok {
			continue
		}

		rec, ok := v.(*record)
		if !ok {
			continue
		}

		rec.release()
	}

	return nil
}

func (o *InMemStore) loadOrCreate(key uint64) *record {
	if v, ok := o.Load(key); ok {
		if rec, ok := v.(*record); ok {
			return rec
		}
	}

	rec := newRecord(o.pool, o.direct, o.maxValue)

	actual, loaded := o.LoadOrStore(key, rec)
	if loaded {
		rec.release()

		return actual.(*record)
	}

	return rec
}

func (o *InMemStore) hash(key []byte) uint64 {
	return highwayhash.Sum64(key, o.nonce[:])
}
