// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/dagnet/dagd/util/daghash"
)

// MaxRequestAncestorSummariesHashes is the maximum number of hashes that may
// appear in either hash list of a RequestAncestorSummaries message.
const MaxRequestAncestorSummariesHashes = 1 << 16

// MsgRequestAncestorSummaries implements the Message interface and represents
// a dagnet RequestAncestorSummaries message. It asks a peer to stream the
// summaries of TargetHashes and their ancestors up to MaxDepth hops from the
// targets, without walking past the hashes in KnownHashes. The peer answers with a sequence of
// BlockSummary messages terminated by a DoneAncestorSummaries message.
type MsgRequestAncestorSummaries struct {
	TargetHashes []*daghash.Hash
	KnownHashes  []*daghash.Hash
	MaxDepth     uint64
}

// DagDecode decodes r using the dagnet protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgRequestAncestorSummaries) DagDecode(r io.Reader, pver uint32) error {
	targetHashes, err := ReadHashSlice(r, MaxRequestAncestorSummariesHashes, "target hashes")
	if err != nil {
		return err
	}
	msg.TargetHashes = targetHashes

	knownHashes, err := ReadHashSlice(r, MaxRequestAncestorSummariesHashes, "known hashes")
	if err != nil {
		return err
	}
	msg.KnownHashes = knownHashes

	return ReadElement(r, &msg.MaxDepth)
}

// DagEncode encodes the receiver to w using the dagnet protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgRequestAncestorSummaries) DagEncode(w io.Writer, pver uint32) error {
	err := WriteHashSlice(w, msg.TargetHashes)
	if err != nil {
		return err
	}

	err = WriteHashSlice(w, msg.KnownHashes)
	if err != nil {
		return err
	}

	return WriteElement(w, msg.MaxDepth)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgRequestAncestorSummaries) Command() MessageCommand {
	return CmdRequestAncestorSummaries
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgRequestAncestorSummaries) MaxPayloadLength(pver uint32) uint32 {
	// Two varInt-prefixed hash lists + MaxDepth.
	return 2*(MaxVarIntPayload+MaxRequestAncestorSummariesHashes*daghash.HashSize) + 8
}

// NewMsgRequestAncestorSummaries returns a new dagnet RequestAncestorSummaries
// message that conforms to the Message interface using the passed parameters.
func NewMsgRequestAncestorSummaries(targetHashes, knownHashes []*daghash.Hash,
	maxDepth uint64) *MsgRequestAncestorSummaries {

	return &MsgRequestAncestorSummaries{
		TargetHashes: targetHashes,
		KnownHashes:  knownHashes,
		MaxDepth:     maxDepth,
	}
}
