package grpcserver

import (
	"io"

	"github.com/pkg/errors"
)

func (c *gRPCConnection) connectionLoops() error {
	errChan := make(chan error, 1) // buffered channel because one of the loops might try to write after disconnection

	spawn(func() { errChan <- c.receiveLoop() })
	spawn(func() { errChan <- c.sendLoop() })

	err := <-errChan

	c.Disconnect()

	return err
}

func (c *gRPCConnection) sendLoop() error {
	outgoingRoute := c.router.OutgoingRoute()
	for c.IsConnected() {
		message, err := outgoingRoute.Dequeue()
		if err != nil {
			return err
		}

		log.Debugf("outgoing '%s' message to %s", message.Command(), c)

		frame, err := frameFromMessage(message)
		if err != nil {
			return err
		}
		err = c.send(frame)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *gRPCConnection) receiveLoop() error {
	for c.IsConnected() {
		frame, err := c.receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			return err
		}

		message, err := frame.toMessage()
		if err != nil {
			c.onInvalidMessage(err)
			return err
		}

		log.Debugf("incoming '%s' message from %s", message.Command(), c)

		err = c.router.EnqueueIncomingMessage(message)
		if err != nil {
			c.onInvalidMessage(err)
			return err
		}
	}
	return nil
}

func (c *gRPCConnection) onInvalidMessage(err error) {
	if c.onInvalidMessageHandler != nil {
		c.onInvalidMessageHandler(err)
	}
}
