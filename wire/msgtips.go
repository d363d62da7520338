// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/dagnet/dagd/util/daghash"
)

// MaxTipHashes is the maximum number of tip hashes a single Tips message may
// carry.
const MaxTipHashes = 1 << 16

// MsgTips implements the Message interface and represents a dagnet Tips
// message. It is sent in response to a RequestTips message and carries the
// current tips of the sender's block DAG.
type MsgTips struct {
	TipHashes []*daghash.Hash
}

// DagDecode decodes r using the dagnet protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgTips) DagDecode(r io.Reader, pver uint32) error {
	tipHashes, err := ReadHashSlice(r, MaxTipHashes, "tip hashes")
	if err != nil {
		return err
	}
	msg.TipHashes = tipHashes
	return nil
}

// DagEncode encodes the receiver to w using the dagnet protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgTips) DagEncode(w io.Writer, pver uint32) error {
	return WriteHashSlice(w, msg.TipHashes)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgTips) Command() MessageCommand {
	return CmdTips
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgTips) MaxPayloadLength(pver uint32) uint32 {
	return MaxVarIntPayload + MaxTipHashes*daghash.HashSize
}

// NewMsgTips returns a new dagnet Tips message that conforms to the Message
// interface using the passed tip hashes.
func NewMsgTips(tipHashes []*daghash.Hash) *MsgTips {
	return &MsgTips{TipHashes: tipHashes}
}
