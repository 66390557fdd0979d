package lfpipe

import "sync/atomic"

// Default chunk and pool cache size for NewPipe: a chunk size of 128
// and a pool cache of 1.
const (
	DefaultChunkSize = 128
	DefaultPoolSize  = 1
)

// Pipe is a non-blocking single-producer/single-consumer queue built
// on ChunkList. Writes are batched: they become visible to the
// consumer only once Flush advances the single shared atomic pointer,
// commitEnd. Pipe never blocks and never spawns a goroutine; callers
// that want blocking semantics compose one on top (see BlockingQueue).
//
// Exactly one goroutine may call the producer methods (Write, Unwrite,
// Flush) and exactly one goroutine may call the consumer methods
// (CheckRead, Read); the two may run concurrently with each other.
// Violating single-producer/single-consumer is undefined behaviour.
// ChunkList assumes it.
type Pipe[T any] struct {
	list *ChunkList[T]

	// producer-private
	lastFlushEnd *T
	flushEnd     *T

	// consumer-private
	readEnd *T

	// the sole cross-thread synchronization point. A nil value is the
	// sentinel meaning "the consumer has gone to sleep".
	commitEnd atomic.Pointer[T]

	flushes      atomic.Uint64
	sleepSignals atomic.Uint64
	wakeEvents   atomic.Uint64
}

// NewPipe creates an empty pipe whose ChunkList uses chunkSize slots
// per chunk and a CachedPool caching up to poolSize freed chunks.
// chunkSize <= 0 defaults to DefaultChunkSize; poolSize follows
// CachedPool's own size semantics (0 and 1 are its degenerate cases).
func NewPipe[T any](chunkSize, poolSize int) *Pipe[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	list := NewChunkList[T](chunkSize, poolSize)
	// The list's chunk allocator never returns nil, so this can never
	// return ErrOutOfMemory.
	_ = list.Push()

	back := list.Back()
	p := &Pipe[T]{
		list:         list,
		lastFlushEnd: back,
		flushEnd:     back,
		readEnd:      back,
	}
	p.commitEnd.Store(back)
	return p
}

// Write constructs value in the slot currently exposed by the chunk
// list's back and reserves the next one. If incomplete is false,
// the write becomes eligible for the next Flush; if true, the
// producer may still retract it with Unwrite before any Flush
// publishes it.
//
// An error (always ErrOutOfMemory) means the write did not happen at
// all. State is restored so calling Write again with the same value
// is safe.
func (p *Pipe[T]) Write(value T, incomplete bool) error {
	back := p.list.Back()
	*back = value

	if err := p.list.Push(); err != nil {
		var zero T
		*back = zero
		return err
	}

	if !incomplete {
		p.flushEnd = p.list.Back()
	}
	return nil
}

// Unwrite retracts the most recent write that has not yet been made
// eligible for flushing. Returns false (leaving out untouched) if
// there is nothing to retract.
func (p *Pipe[T]) Unwrite(out *T) bool {
	if p.flushEnd == p.list.Back() {
		return false
	}

	p.list.Unpush()
	back := p.list.Back()
	*out = *back
	var zero T
	*back = zero
	return true
}

// Flush publishes every write made eligible (incomplete == false)
// since the last Flush. It returns true if the consumer had not gone
// to sleep since the last Flush; it returns false if the consumer had
// gone to sleep (CheckRead observed emptiness and slept), in which
// case the caller MUST wake the consumer through its own out-of-band
// mechanism. Flush itself never blocks and never signals anyone.
func (p *Pipe[T]) Flush() bool {
	if p.lastFlushEnd == p.flushEnd {
		return true
	}
	p.flushes.Add(1)

	if p.commitEnd.CompareAndSwap(p.lastFlushEnd, p.flushEnd) {
		p.lastFlushEnd = p.flushEnd
		return true
	}

	p.commitEnd.Store(p.flushEnd)
	p.lastFlushEnd = p.flushEnd
	p.wakeEvents.Add(1)
	return false
}

// CheckRead reports whether Read would currently succeed, without
// consuming anything. A false return means the consumer is marked
// asleep (commitEnd is nil, set by this call or an earlier one); the next Flush
// that advances the frontier will report that back to the producer.
func (p *Pipe[T]) CheckRead() bool {
	front := p.list.Front()
	if p.readEnd != nil && front != p.readEnd {
		return true
	}

	if p.commitEnd.CompareAndSwap(p.readEnd, nil) {
		p.sleepSignals.Add(1)
		return false
	}

	// The CAS failed either because the producer had already advanced
	// commitEnd to a new frontier, or because a prior call already put
	// us to sleep (commitEnd is still nil and no Flush has run since).
	// Only the first case means there's something to read; reload and
	// stay asleep otherwise instead of adopting a stale nil frontier.
	v := p.commitEnd.Load()
	if v == nil {
		return false
	}
	p.readEnd = v
	return true
}

// Read moves the front element out into the returned value and
// advances the list. Returns false (the primary "go check again
// later, or sleep" signal, not an error) if nothing is visible.
func (p *Pipe[T]) Read() (T, bool) {
	var zero T
	if !p.CheckRead() {
		return zero, false
	}

	front := p.list.Front()
	v := *front
	*front = zero
	p.list.Pop()
	return v, true
}

// Stats reports counters useful for observing the sleep/wake protocol
// in tests and diagnostics: how many times Flush had new writes to
// publish (a Flush with nothing new is not counted), how many times
// the consumer marked itself asleep, and how many times a Flush found
// the consumer asleep and had to report a required wake-up.
type Stats struct {
	Flushes      uint64
	SleepSignals uint64
	WakeEvents   uint64
}

// Stats returns a snapshot of the pipe's flush/sleep counters.
func (p *Pipe[T]) Stats() Stats {
	return Stats{
		Flushes:      p.flushes.Load(),
		SleepSignals: p.sleepSignals.Load(),
		WakeEvents:   p.wakeEvents.Load(),
	}
}
