// Package lfpipe implements a layered set of lock-free, in-process
// concurrency primitives for single-producer/single-consumer message
// passing: a bounded cached memory pool, a chunked unrolled linked
// list built on it, and a non-blocking SPSC pipe built on that.
//
// None of the three layers block. The pipe signals when its consumer
// has gone to sleep (via Flush's bool return) so that callers can
// layer their own wakeup mechanism on top. See BlockingQueue for the
// mutex/condvar composition the pipe is designed to support.
package lfpipe
