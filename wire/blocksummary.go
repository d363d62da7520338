// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/dagnet/dagd/util/daghash"
)

// MaxParentsPerSummary is the maximum number of parent hashes a single block
// summary may reference.
const MaxParentsPerSummary = 255

// MaxJustificationsPerSummary is the maximum number of justifications a
// single block summary may carry.
const MaxJustificationsPerSummary = 1024

// MaxValidatorPublicKeySize is the maximum serialized size of a validator
// public key carried in a summary header or justification.
const MaxValidatorPublicKeySize = 66

// MaxSignatureSize is the maximum serialized size of a summary header
// signature.
const MaxSignatureSize = 96

// SummaryHeader holds the consensus metadata of a block summary: its rank in
// the DAG, its creation time in milliseconds since the unix epoch, and the
// identity and signature of the validator that produced it.
type SummaryHeader struct {
	Rank               uint64
	Timestamp          int64
	ValidatorPublicKey []byte
	Signature          []byte
}

// Justification attests that the creator of a summary has seen the latest
// block of another validator at creation time.
type Justification struct {
	ValidatorPublicKey []byte
	LatestBlockHash    *daghash.Hash
}

// BlockSummary is a lightweight stand-in for a full block. It carries just
// enough structure to stitch the block DAG together: the block's own hash,
// its parent hashes, and the justifications observed at creation time.
type BlockSummary struct {
	BlockHash      *daghash.Hash
	ParentHashes   []*daghash.Hash
	Justifications []*Justification
	Header         *SummaryHeader
}

// Dependencies returns the set of hashes this summary requires to be present
// before it may be integrated: its parents plus the latest block hash of
// every justification. The result is deduplicated and preserves first
// appearance order.
func (bs *BlockSummary) Dependencies() []*daghash.Hash {
	seen := make(map[daghash.Hash]struct{})
	dependencies := make([]*daghash.Hash, 0, len(bs.ParentHashes)+len(bs.Justifications))
	add := func(hash *daghash.Hash) {
		if hash == nil {
			return
		}
		if _, ok := seen[*hash]; ok {
			return
		}
		seen[*hash] = struct{}{}
		dependencies = append(dependencies, hash)
	}
	for _, parentHash := range bs.ParentHashes {
		add(parentHash)
	}
	for _, justification := range bs.Justifications {
		add(justification.LatestBlockHash)
	}
	return dependencies
}

// ComputeHash serializes the identity-bearing parts of the summary (all
// fields except BlockHash and the header signature) and returns their
// blake2b-256 digest. A well-formed summary has BlockHash equal to this
// value, and its header signature signs this digest.
func (bs *BlockSummary) ComputeHash() (*daghash.Hash, error) {
	buf := &bytes.Buffer{}
	err := bs.serializeForHashing(buf)
	if err != nil {
		return nil, err
	}
	digest := blake2b.Sum256(buf.Bytes())
	hash := daghash.Hash(digest)
	return &hash, nil
}

func (bs *BlockSummary) serializeForHashing(w io.Writer) error {
	err := WriteHashSlice(w, bs.ParentHashes)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(len(bs.Justifications)))
	if err != nil {
		return err
	}
	for _, justification := range bs.Justifications {
		err := justification.Serialize(w)
		if err != nil {
			return err
		}
	}

	if bs.Header == nil {
		return errors.New("cannot hash a block summary with no header")
	}
	err = WriteElement(w, bs.Header.Rank)
	if err != nil {
		return err
	}
	err = WriteElement(w, bs.Header.Timestamp)
	if err != nil {
		return err
	}
	return WriteVarBytes(w, bs.Header.ValidatorPublicKey)
}

// Serialize encodes the justification to w.
func (j *Justification) Serialize(w io.Writer) error {
	err := WriteVarBytes(w, j.ValidatorPublicKey)
	if err != nil {
		return err
	}
	if j.LatestBlockHash == nil {
		return errors.New("cannot serialize a justification with no latest block hash")
	}
	return WriteElement(w, j.LatestBlockHash)
}

// Deserialize decodes a justification from r into the receiver.
func (j *Justification) Deserialize(r io.Reader) error {
	validatorPublicKey, err := ReadVarBytes(r, MaxValidatorPublicKeySize, "justification validator public key")
	if err != nil {
		return err
	}
	j.ValidatorPublicKey = validatorPublicKey

	j.LatestBlockHash = &daghash.Hash{}
	return ReadElement(r, j.LatestBlockHash)
}

// Serialize encodes the summary header to w.
func (h *SummaryHeader) Serialize(w io.Writer) error {
	err := WriteElement(w, h.Rank)
	if err != nil {
		return err
	}
	err = WriteElement(w, h.Timestamp)
	if err != nil {
		return err
	}
	err = WriteVarBytes(w, h.ValidatorPublicKey)
	if err != nil {
		return err
	}
	return WriteVarBytes(w, h.Signature)
}

// Deserialize decodes a summary header from r into the receiver.
func (h *SummaryHeader) Deserialize(r io.Reader) error {
	err := ReadElement(r, &h.Rank)
	if err != nil {
		return err
	}
	err = ReadElement(r, &h.Timestamp)
	if err != nil {
		return err
	}
	h.ValidatorPublicKey, err = ReadVarBytes(r, MaxValidatorPublicKeySize, "header validator public key")
	if err != nil {
		return err
	}
	h.Signature, err = ReadVarBytes(r, MaxSignatureSize, "header signature")
	return err
}

// Serialize encodes the block summary to w.
func (bs *BlockSummary) Serialize(w io.Writer) error {
	if bs.BlockHash == nil {
		return errors.New("cannot serialize a block summary with no block hash")
	}
	err := WriteElement(w, bs.BlockHash)
	if err != nil {
		return err
	}

	err = WriteHashSlice(w, bs.ParentHashes)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(len(bs.Justifications)))
	if err != nil {
		return err
	}
	for _, justification := range bs.Justifications {
		err := justification.Serialize(w)
		if err != nil {
			return err
		}
	}

	if bs.Header == nil {
		return errors.New("cannot serialize a block summary with no header")
	}
	return bs.Header.Serialize(w)
}

// Deserialize decodes a block summary from r into the receiver.
func (bs *BlockSummary) Deserialize(r io.Reader) error {
	bs.BlockHash = &daghash.Hash{}
	err := ReadElement(r, bs.BlockHash)
	if err != nil {
		return err
	}

	bs.ParentHashes, err = ReadHashSlice(r, MaxParentsPerSummary, "parent hashes")
	if err != nil {
		return err
	}

	justificationCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if justificationCount > MaxJustificationsPerSummary {
		return errors.Errorf("too many justifications in block summary [count %d, max %d]",
			justificationCount, MaxJustificationsPerSummary)
	}
	bs.Justifications = make([]*Justification, justificationCount)
	for i := uint64(0); i < justificationCount; i++ {
		justification := &Justification{}
		err := justification.Deserialize(r)
		if err != nil {
			return err
		}
		bs.Justifications[i] = justification
	}

	bs.Header = &SummaryHeader{}
	return bs.Header.Deserialize(r)
}
