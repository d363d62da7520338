package dbaccess

import (
	"github.com/dagnet/dagd/database"
	"github.com/dagnet/dagd/util/daghash"
)

var tipsBucket = database.MakeBucket([]byte("tips"))

func tipKey(hash *daghash.Hash) *database.Key {
	return tipsBucket.Key(hash[:])
}

// AddTip marks the given hash as a tip of the DAG.
func AddTip(context Context, hash *daghash.Hash) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}
	return accessor.Put(tipKey(hash), []byte{})
}

// RemoveTip unmarks the given hash as a tip of the DAG. Removing a hash that
// is not a tip is not an error.
func RemoveTip(context Context, hash *daghash.Hash) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}
	return accessor.Delete(tipKey(hash))
}

// Tips returns the current tips of the DAG.
func Tips(context Context) ([]*daghash.Hash, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	cursor, err := accessor.Cursor(tipsBucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	tips := []*daghash.Hash{}
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		tip, err := daghash.NewHash(key.Key())
		if err != nil {
			return nil, err
		}
		tips = append(tips, tip)
	}
	return tips, nil
}
