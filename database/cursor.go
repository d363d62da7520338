package database

// Cursor iterates over database entries given some bucket.
type Cursor interface {
	// Next moves the iterator to the next key/value pair. It
	// returns false once the iterator is exhausted.
	Next() bool

	// First moves the iterator to the first key/value pair. It
	// returns false if such a pair does not exist.
	First() bool

	// Seek moves the iterator to the first key/value pair whose
	// key is greater than or equal to the given key. It returns
	// ErrNotFound if the given key itself does not exist.
	Seek(key *Key) error

	// Key returns the key of the current key/value pair, or
	// ErrNotFound if done. Note that the key is trimmed to not
	// include the prefix the cursor was opened with.
	Key() (*Key, error)

	// Value returns the value of the current key/value pair, or
	// ErrNotFound if done.
	Value() ([]byte, error)

	// Close releases associated resources.
	Close() error
}
