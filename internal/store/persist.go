package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/internal/kv"
)

// writer persists durable snapshots in the background. It holds at most one
// pending snapshot; a newer snapshot replaces an unwritten older one, so the
// blob never regresses to an older state.
type writer struct {
	blobs   kv.Store
	key     string
	timeout time.Duration
	log     *zap.Logger
	onError func(error)

	mu         sync.Mutex
	pending    *DurableState
	pendingSeq uint64
	seq        uint64 // last scheduled
	writtenSeq uint64 // last written or attempted
	lastErr    error
	closed     bool
	changed    chan struct{} // closed after every write attempt

	kick chan struct{}
	done chan struct{}
}

func newWriter(blobs kv.Store, key string, timeout time.Duration, log *zap.Logger, onError func(error)) *writer {
	w := &writer{
		blobs:   blobs,
		key:     key,
		timeout: timeout,
		log:     log,
		onError: onError,
		changed: make(chan struct{}),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// schedule queues snap for writing and returns immediately.
func (w *writer) schedule(snap DurableState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.log.Warn("store closed, durable write dropped", zap.String("key", w.key))
		return
	}

	w.seq++
	w.pending = &snap
	w.pendingSeq = w.seq

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)

	for range w.kick {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			continue
		}
		snap, seq := *w.pending, w.pendingSeq
		w.pending = nil
		w.mu.Unlock()

		err := w.write(snap)
		if err != nil {
			w.log.Error("failed to persist state", zap.String("key", w.key), zap.Error(err))
			if w.onError != nil {
				w.onError(err)
			}
		}

		// flush waiters wake only after the handler has seen the error
		w.mu.Lock()
		w.writtenSeq = seq
		w.lastErr = err
		close(w.changed)
		w.changed = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *writer) write(snap DurableState) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.blobs.Put(ctx, w.key, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// flush waits until every snapshot scheduled before the call has been
// attempted and returns the error of the most recent attempt.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.seq
	for w.writtenSeq < target {
		ch := w.changed
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}

		w.mu.Lock()
	}
	err := w.lastErr
	w.mu.Unlock()
	return err
}

func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.kick)
	}
	w.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
