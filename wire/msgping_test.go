// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestPing tests the MsgPing API against the latest protocol version.
func TestPing(t *testing.T) {
	pver := ProtocolVersion

	// Ensure we get the same nonce back out.
	nonce := uint64(0x61c2c5535902862)
	msg := NewMsgPing(nonce)
	if msg.Nonce != nonce {
		t.Errorf("NewMsgPing: wrong nonce - got %v, want %v",
			msg.Nonce, nonce)
	}

	// Ensure the command is expected value.
	wantCmd := MessageCommand(0)
	if cmd := msg.Command(); cmd != wantCmd {
		t.Errorf("NewMsgPing: wrong command - got %v want %v",
			cmd, wantCmd)
	}

	// Ensure max payload is expected value for latest protocol version.
	wantPayload := uint32(8)
	maxPayload := msg.MaxPayloadLength(pver)
	if maxPayload != wantPayload {
		t.Errorf("MaxPayloadLength: wrong max payload length for "+
			"protocol version %d - got %v, want %v", pver,
			maxPayload, wantPayload)
	}
}

// TestPingWire tests the MsgPing wire encode and decode.
func TestPingWire(t *testing.T) {
	msg := NewMsgPing(0x1122334455667788)
	msgEncoded := []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}

	var buf bytes.Buffer
	err := msg.DagEncode(&buf, ProtocolVersion)
	if err != nil {
		t.Fatalf("DagEncode: unexpected error %v", err)
	}
	if !bytes.Equal(buf.Bytes(), msgEncoded) {
		t.Errorf("DagEncode:\n got: %s want: %s",
			spew.Sdump(buf.Bytes()), spew.Sdump(msgEncoded))
	}

	var decoded MsgPing
	err = decoded.DagDecode(bytes.NewReader(msgEncoded), ProtocolVersion)
	if err != nil {
		t.Fatalf("DagDecode: unexpected error %v", err)
	}
	if !reflect.DeepEqual(&decoded, msg) {
		t.Errorf("DagDecode:\n got: %s want: %s",
			spew.Sdump(&decoded), spew.Sdump(msg))
	}
}
