// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgRequestTips implements the Message interface and represents a dagnet
// RequestTips message. It is used to ask a peer for the current tips of its
// block DAG, which in turn seed an ancestor summaries request.
//
// This message has no payload.
type MsgRequestTips struct{}

// DagDecode decodes r using the dagnet protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgRequestTips) DagDecode(r io.Reader, pver uint32) error {
	return nil
}

// DagEncode encodes the receiver to w using the dagnet protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgRequestTips) DagEncode(w io.Writer, pver uint32) error {
	return nil
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgRequestTips) Command() MessageCommand {
	return CmdRequestTips
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgRequestTips) MaxPayloadLength(pver uint32) uint32 {
	return 0
}

// NewMsgRequestTips returns a new dagnet RequestTips message that conforms to
// the Message interface.
func NewMsgRequestTips() *MsgRequestTips {
	return &MsgRequestTips{}
}
