// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package daghash

import (
	"encoding/hex"
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// HashSize of array used to store hashes. See Hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a hash
// string that has too many characters.
var ErrHashStrSize = errors.Errorf("max hash string length is %d bytes", MaxHashStringSize)

// Hash is used in several of the messages and common structures. It typically
// represents the blake2b digest of a block summary header.
type Hash [HashSize]byte

// ZeroHash is the Hash value of all zero bytes, defined here for convenience.
var ZeroHash Hash

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash.
func (hash Hash) String() string {
	for i := 0; i < HashSize/2; i++ {
		hash[i], hash[HashSize-1-i] = hash[HashSize-1-i], hash[i]
	}
	return hex.EncodeToString(hash[:])
}

// Strings returns a slice of strings representing the hashes in the given
// slice of hashes
func Strings(hashes []*Hash) []string {
	strings := make([]string, len(hashes))
	for i, hash := range hashes {
		strings[i] = hash.String()
	}

	return strings
}

// JoinHashesStrings joins all the stringified hashes separated by a separator
func JoinHashesStrings(hashes []*Hash, separator string) string {
	return strings.Join(Strings(hashes), separator)
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
//
// NOTE: It is generally cheaper to just slice the hash directly thereby reusing
// the same bytes rather than calling this method.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])

	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return errors.Errorf("invalid hash length of %d, want %d", nhlen,
			HashSize)
	}
	copy(hash[:], newHash)

	return nil
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// AreEqual returns true if both slices contain the same hashes.
// Either slice must not contain duplicates.
func AreEqual(first []*Hash, second []*Hash) bool {
	if len(first) != len(second) {
		return false
	}

	for i := range first {
		if !first[i].IsEqual(second[i]) {
			return false
		}
	}

	return true
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	err := sh.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &sh, err
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the hexadecimal string of a hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the hexadecimal string encoding of a Hash to a destination.
func Decode(dst *Hash, src string) error {
	// Return error if hash string is too long.
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	// Hex decoder expects the hash to be a multiple of two.
	srcBytes := []byte(src)
	if len(src)%2 != 0 {
		srcBytes = append([]byte("0"), srcBytes...)
	}

	var reversedHash [HashSize]byte
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	// Un-reverse the decoded bytes, copying into place.
	for i := 0; i < HashSize; i++ {
		dst[i] = reversedHash[HashSize-1-i]
	}
	return nil
}

// HashToBig converts hash, read as a little-endian number, into a big.Int.
func HashToBig(hash *Hash) *big.Int {
	buf := *hash
	for i := 0; i < HashSize/2; i++ {
		buf[i], buf[HashSize-1-i] = buf[HashSize-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// Cmp compares hash and target as numbers and returns -1, 0 or +1.
func (hash *Hash) Cmp(target *Hash) int {
	return HashToBig(hash).Cmp(HashToBig(target))
}

// Sort sorts a slice of hashes
func Sort(hashes []*Hash) {
	sort.Slice(hashes, func(i, j int) bool {
		return Less(hashes[i], hashes[j])
	})
}

// Less returns true if hashA is less than hashB
func Less(hashA *Hash, hashB *Hash) bool {
	for i := 0; i < HashSize; i++ {
		if hashA[i] < hashB[i] {
			return true
		}
		if hashA[i] > hashB[i] {
			return false
		}
	}
	return false
}
