package lfpipe

import (
	"errors"
	"sync"
	"time"

	"github.com/thedevsaddam/retry"
)

// errDrainHasMore is returned from Drain's inner retry.DoFunc callback
// to mean "there was still a value, keep going". retry.DoFunc treats
// any non-nil error as "call me again", so this keeps the loop running
// until the pipe genuinely reports empty.
var errDrainHasMore = errors.New("lfpipe: drain has more data")

// BlockingQueue composes a Pipe with a mutex, a condition variable,
// and a running flag, the exact pattern the pipe's own design notes
// recommend for callers that want blocking semantics. Push flushes
// and, if Flush reports the consumer asleep, takes the lock and
// signals; Pop tries a non-blocking Read first and only waits on the
// condvar when that comes up empty.
type BlockingQueue[T any] struct {
	pipe *Pipe[T]

	mu        sync.Mutex
	cond      *sync.Cond
	hasNotify bool
	running   bool
}

// NewBlockingQueue creates a BlockingQueue around a Pipe configured
// with the given chunk and pool sizes (see NewPipe).
func NewBlockingQueue[T any](chunkSize, poolSize int) *BlockingQueue[T] {
	q := &BlockingQueue[T]{
		pipe:    NewPipe[T](chunkSize, poolSize),
		running: true,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push writes and flushes value, waking a sleeping reader if Flush
// reports one. The returned error, if any, is ErrOutOfMemory from the
// underlying Write.
func (q *BlockingQueue[T]) Push(value T) error {
	if err := q.pipe.Write(value, false); err != nil {
		return err
	}

	if awake := q.pipe.Flush(); !awake {
		q.mu.Lock()
		q.hasNotify = true
		q.mu.Unlock()
		q.cond.Signal()
	}
	return nil
}

// Pop blocks until a value is available or the queue is closed. The
// bool return is false only when the queue has been closed and
// drained.
func (q *BlockingQueue[T]) Pop() (T, bool) {
	for {
		if v, ok := q.pipe.Read(); ok {
			return v, true
		}

		q.mu.Lock()
		for !q.hasNotify && q.running {
			q.cond.Wait()
		}
		stillRunning := q.running
		q.hasNotify = false
		q.mu.Unlock()

		if !stillRunning {
			return q.pipe.Read()
		}
	}
}

// Close stops the queue and wakes any goroutine blocked in Pop.
func (q *BlockingQueue[T]) Close() {
	q.mu.Lock()
	q.running = false
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Drain reads buffered values into sink one at a time through
// retry.DoFunc, which waits (starting from delay) before each further
// call. It returns nil at the first read that finds the pipe empty; if
// all attempts calls read a value, it stops there and returns a
// non-nil error, and values may remain in the pipe. It's meant for a final best-effort flush right before
// Close, when no producer is going to call Push (and so Pop) again.
func (q *BlockingQueue[T]) Drain(attempts uint, delay time.Duration, sink func(T)) error {
	return retry.DoFunc(attempts, delay, func() error {
		v, ok := q.pipe.Read()
		if !ok {
			return nil
		}
		sink(v)
		return errDrainHasMore
	})
}
