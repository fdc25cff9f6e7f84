package messaging

// Message is a broker-neutral envelope. Body is the serialized payload, Key
// groups related messages (Kafka partitioning) and Headers travel as broker
// metadata.
type Message struct {
	ID      string
	Key     string
	Body    []byte
	Headers map[string]string
}
