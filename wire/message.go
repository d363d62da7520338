// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/pkg/errors"
)

// ProtocolVersion is the latest supported protocol version.
const ProtocolVersion uint32 = 1

// MaxMessagePayload is the maximum bytes a message can be regardless of other
// individual limits imposed by messages themselves.
const MaxMessagePayload = 1024 * 1024 * 32 // 32MB

// MessageCommand is a number in the header of a message that represents its type.
type MessageCommand uint32

func (cmd MessageCommand) String() string {
	cmdString, ok := messageCommandToString[cmd]
	if !ok {
		cmdString = "unknown command"
	}
	return cmdString
}

// Commands for the message headers of all supported messages.
const (
	CmdPing MessageCommand = iota
	CmdPong
	CmdRequestTips
	CmdTips
	CmdRequestAncestorSummaries
	CmdBlockSummary
	CmdDoneAncestorSummaries
)

var messageCommandToString = map[MessageCommand]string{
	CmdPing:                     "Ping",
	CmdPong:                     "Pong",
	CmdRequestTips:              "RequestTips",
	CmdTips:                     "Tips",
	CmdRequestAncestorSummaries: "RequestAncestorSummaries",
	CmdBlockSummary:             "BlockSummary",
	CmdDoneAncestorSummaries:    "DoneAncestorSummaries",
}

// Message is an interface that describes a dagnet message. A type that
// implements Message has complete control over the representation of its data
// and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	DagDecode(r io.Reader, pver uint32) error
	DagEncode(w io.Writer, pver uint32) error
	Command() MessageCommand
	MaxPayloadLength(pver uint32) uint32
}

// MakeEmptyMessage creates a message of the appropriate concrete type based
// on the command.
func MakeEmptyMessage(command MessageCommand) (Message, error) {
	var msg Message
	switch command {
	case CmdPing:
		msg = &MsgPing{}

	case CmdPong:
		msg = &MsgPong{}

	case CmdRequestTips:
		msg = &MsgRequestTips{}

	case CmdTips:
		msg = &MsgTips{}

	case CmdRequestAncestorSummaries:
		msg = &MsgRequestAncestorSummaries{}

	case CmdBlockSummary:
		msg = &MsgBlockSummary{}

	case CmdDoneAncestorSummaries:
		msg = &MsgDoneAncestorSummaries{}

	default:
		return nil, errors.Errorf("unhandled command [%s]", command)
	}
	return msg, nil
}
