package domain

// Message is one opaque event payload for the message broker.
type Message struct {
	Key   []byte
	Value []byte
}

// EventPublisher is the outbound port for pricing events.
type EventPublisher interface {
	Publish(topic string, msgs ...Message) error
}
