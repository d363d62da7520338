package dbaccess

import (
	"github.com/dagnet/dagd/database"
	"github.com/dagnet/dagd/util/daghash"
)

var justificationsBucket = database.MakeBucket([]byte("justifications"))

func justificationKey(validatorPublicKey []byte) *database.Key {
	return justificationsBucket.Key(validatorPublicKey)
}

// StoreJustification stores the hash of the latest known block of the given
// validator. It overwrites any previously stored hash for that validator.
func StoreJustification(context Context, validatorPublicKey []byte, latestBlockHash *daghash.Hash) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}
	return accessor.Put(justificationKey(validatorPublicKey), latestBlockHash[:])
}

// FetchJustification returns the hash of the latest known block of the given
// validator. Returns ErrNotFound if no justification had been stored for it.
func FetchJustification(context Context, validatorPublicKey []byte) (*daghash.Hash, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}
	hashBytes, err := accessor.Get(justificationKey(validatorPublicKey))
	if err != nil {
		return nil, err
	}
	return daghash.NewHash(hashBytes)
}

// Justifications returns the latest known block hash of every validator that
// has one stored.
func Justifications(context Context) ([]*daghash.Hash, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	cursor, err := accessor.Cursor(justificationsBucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	justifications := []*daghash.Hash{}
	for cursor.Next() {
		value, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		justification, err := daghash.NewHash(value)
		if err != nil {
			return nil, err
		}
		justifications = append(justifications, justification)
	}
	return justifications, nil
}
