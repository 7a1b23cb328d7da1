package sparse

import "errors"

// ErrKeyNotFound is returned by KeySet.At for an absent key.
var ErrKeyNotFound = errors.New("sparse: key not found")

// errProbeOverflow means a probe wrapped around the whole table, which the
// load factor rules out. It is raised as a panic, never returned.
var errProbeOverflow = errors.New("sparse: probe exceeded table capacity")
