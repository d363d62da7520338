package router

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/wire"
)

func TestRouterRouting(t *testing.T) {
	router := NewRouter()
	route, err := router.AddIncomingRoute("test", []wire.MessageCommand{wire.CmdPing})
	if err != nil {
		t.Fatalf("TestRouterRouting: AddIncomingRoute failed: %+v", err)
	}

	_, err = router.AddIncomingRoute("duplicate", []wire.MessageCommand{wire.CmdPing})
	if err == nil {
		t.Fatalf("TestRouterRouting: expected an error when adding a duplicate route")
	}

	err = router.EnqueueIncomingMessage(wire.NewMsgPing(1))
	if err != nil {
		t.Fatalf("TestRouterRouting: EnqueueIncomingMessage failed: %+v", err)
	}

	message, err := route.Dequeue()
	if err != nil {
		t.Fatalf("TestRouterRouting: Dequeue failed: %+v", err)
	}
	ping, ok := message.(*wire.MsgPing)
	if !ok {
		t.Fatalf("TestRouterRouting: expected *wire.MsgPing, got %T", message)
	}
	if ping.Nonce != 1 {
		t.Fatalf("TestRouterRouting: expected nonce 1, got %d", ping.Nonce)
	}

	err = router.EnqueueIncomingMessage(wire.NewMsgPong(1))
	if err == nil {
		t.Fatalf("TestRouterRouting: expected an error when enqueueing a message with no route")
	}
}

func TestRouteCapacity(t *testing.T) {
	const capacity = 2
	route := newRouteWithCapacity("test", capacity)
	for i := 0; i < capacity; i++ {
		err := route.Enqueue(wire.NewMsgPing(uint64(i)))
		if err != nil {
			t.Fatalf("TestRouteCapacity: Enqueue failed: %+v", err)
		}
	}

	err := route.Enqueue(wire.NewMsgPing(uint64(capacity)))
	if !errors.Is(err, ErrRouteCapacityReached) {
		t.Fatalf("TestRouteCapacity: expected ErrRouteCapacityReached, got: %+v", err)
	}
}

func TestRouteClose(t *testing.T) {
	route := NewRoute("test")
	route.Close()
	route.Close() // closing twice should be a no-op

	err := route.Enqueue(wire.NewMsgPing(1))
	if !errors.Is(err, ErrRouteClosed) {
		t.Fatalf("TestRouteClose: expected ErrRouteClosed on enqueue, got: %+v", err)
	}

	_, err = route.Dequeue()
	if !errors.Is(err, ErrRouteClosed) {
		t.Fatalf("TestRouteClose: expected ErrRouteClosed on dequeue, got: %+v", err)
	}
}

func TestDequeueWithTimeout(t *testing.T) {
	const timeout = 10 * time.Millisecond
	route := NewRoute("test")

	_, err := route.DequeueWithTimeout(timeout)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("TestDequeueWithTimeout: expected ErrTimeout, got: %+v", err)
	}

	err = route.Enqueue(wire.NewMsgPing(1))
	if err != nil {
		t.Fatalf("TestDequeueWithTimeout: Enqueue failed: %+v", err)
	}
	message, err := route.DequeueWithTimeout(timeout)
	if err != nil {
		t.Fatalf("TestDequeueWithTimeout: DequeueWithTimeout failed: %+v", err)
	}
	if message.Command() != wire.CmdPing {
		t.Fatalf("TestDequeueWithTimeout: expected '%s', got '%s'", wire.CmdPing, message.Command())
	}
}
