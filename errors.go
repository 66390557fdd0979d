package lfpipe

import "errors"

// ErrOutOfMemory is returned by Write when the chunk list needed a new
// chunk to hold the reservation and the underlying allocator reported
// failure. Go's own allocator panics rather than returning nil on
// real exhaustion; this sentinel exists so the allocation path stays
// testable and so callers get an error return instead of a panic when
// a pool is wired to an allocFunc that can fail (see NewCachedPool).
var ErrOutOfMemory = errors.New("lfpipe: allocator returned nil")
