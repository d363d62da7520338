package dbaccess

import (
	"github.com/pkg/errors"

	"github.com/dagnet/dagd/database"
	"github.com/dagnet/dagd/util/daghash"
)

var summariesBucket = database.MakeBucket([]byte("summaries"))

func summaryKey(hash *daghash.Hash) *database.Key {
	return summariesBucket.Key(hash[:])
}

// StoreSummary stores the given serialized block summary in the database.
func StoreSummary(context Context, hash *daghash.Hash, summaryBytes []byte) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	// Make sure that the summary does not already exist.
	exists, err := HasSummary(context, hash)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("summary %s already exists", hash)
	}

	return accessor.Put(summaryKey(hash), summaryBytes)
}

// FetchSummary returns the serialized block summary of the given hash.
// Returns ErrNotFound if the summary had not been previously stored.
func FetchSummary(context Context, hash *daghash.Hash) ([]byte, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}
	return accessor.Get(summaryKey(hash))
}

// HasSummary returns whether the block summary of the given hash has been
// previously inserted into the database.
func HasSummary(context Context, hash *daghash.Hash) (bool, error) {
	accessor, err := context.accessor()
	if err != nil {
		return false, err
	}
	return accessor.Has(summaryKey(hash))
}
