// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgDoneAncestorSummaries implements the Message interface and represents a
// dagnet DoneAncestorSummaries message. It is sent by a peer to mark the end
// of a stream of BlockSummary messages.
//
// This message has no payload.
type MsgDoneAncestorSummaries struct{}

// DagDecode decodes r using the dagnet protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgDoneAncestorSummaries) DagDecode(r io.Reader, pver uint32) error {
	return nil
}

// DagEncode encodes the receiver to w using the dagnet protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgDoneAncestorSummaries) DagEncode(w io.Writer, pver uint32) error {
	return nil
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgDoneAncestorSummaries) Command() MessageCommand {
	return CmdDoneAncestorSummaries
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgDoneAncestorSummaries) MaxPayloadLength(pver uint32) uint32 {
	return 0
}

// NewMsgDoneAncestorSummaries returns a new dagnet DoneAncestorSummaries
// message that conforms to the Message interface.
func NewMsgDoneAncestorSummaries() *MsgDoneAncestorSummaries {
	return &MsgDoneAncestorSummaries{}
}
