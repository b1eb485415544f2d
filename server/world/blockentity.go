package world

// BlockEntity is an opaque piece of per-block state (signs, hoppers, ...). The
// wire encoding of a block entity is outside this package's scope; C1 only stores
// and retrieves the value associated with a position.
type BlockEntity any
