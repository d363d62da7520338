// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// WriteMessage writes the given message to w, prefixed by its command. The
// written frame is self-describing and can be read back with ReadMessage.
func WriteMessage(w io.Writer, msg Message, pver uint32) error {
	payloadBuffer := &bytes.Buffer{}
	err := msg.DagEncode(payloadBuffer, pver)
	if err != nil {
		return err
	}
	payload := payloadBuffer.Bytes()

	maxPayloadLength := msg.MaxPayloadLength(pver)
	if uint32(len(payload)) > maxPayloadLength {
		return errors.Errorf("message %s payload is %d bytes, which exceeds the "+
			"maximum allowed %d bytes", msg.Command(), len(payload), maxPayloadLength)
	}

	err = WriteElement(w, uint32(msg.Command()))
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadMessage reads the next message frame from r. The concrete message type
// is determined by the command prefix written by WriteMessage.
func ReadMessage(r io.Reader, pver uint32) (Message, error) {
	var command uint32
	err := ReadElement(r, &command)
	if err != nil {
		return nil, err
	}

	msg, err := MakeEmptyMessage(MessageCommand(command))
	if err != nil {
		return nil, err
	}

	limitedReader := io.LimitReader(r, int64(msg.MaxPayloadLength(pver)))
	err = msg.DagDecode(limitedReader, pver)
	if err != nil {
		return nil, err
	}
	return msg, nil
}
