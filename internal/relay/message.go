// Package relay implements the WebSocket side of the line relay: dialing
// the remote endpoint, splitting the connection into its send and receive
// halves, and pumping messages between those halves and the local queues.
package relay

import "github.com/coder/websocket"

// QueueCapacity is the size of the bounded queues connecting the local
// stream tasks to the forwarding loops. A full queue suspends its
// producer; messages are never dropped.
const QueueCapacity = 32

// Message is a single WebSocket data frame moving through the relay.
// It is immutable after construction; ownership passes from producer to
// queue to consumer.
type Message struct {
	Type    websocket.MessageType
	Payload []byte
}

// Text constructs a text message wrapping s verbatim, including any
// trailing line terminator.
func Text(s string) Message {
	return Message{Type: websocket.MessageText, Payload: []byte(s)}
}

// IsText reports whether the message is a text frame. The relay only
// produces text messages; binary frames can still arrive from the peer
// and are passed through for the consumer to drop.
func (m Message) IsText() bool {
	return m.Type == websocket.MessageText
}
