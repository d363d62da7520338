// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgBlockSummary implements the Message interface and represents a dagnet
// BlockSummary message. It carries a single block summary, streamed in answer
// to a RequestAncestorSummaries message.
type MsgBlockSummary struct {
	Summary *BlockSummary
}

// DagDecode decodes r using the dagnet protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgBlockSummary) DagDecode(r io.Reader, pver uint32) error {
	msg.Summary = &BlockSummary{}
	return msg.Summary.Deserialize(r)
}

// DagEncode encodes the receiver to w using the dagnet protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgBlockSummary) DagEncode(w io.Writer, pver uint32) error {
	return msg.Summary.Serialize(w)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgBlockSummary) Command() MessageCommand {
	return CmdBlockSummary
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgBlockSummary) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgBlockSummary returns a new dagnet BlockSummary message that conforms
// to the Message interface using the passed summary.
func NewMsgBlockSummary(summary *BlockSummary) *MsgBlockSummary {
	return &MsgBlockSummary{Summary: summary}
}
