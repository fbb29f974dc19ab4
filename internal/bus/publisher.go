// internal/bus/publisher.go
package bus

import (
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publishClient is the exact contract the publisher uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type publishClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type outbound struct {
	topic   string
	payload []byte
}

// QueuePublisher serializes publishes through one background goroutine so
// measurement paths never block on broker round-trips. Payloads leave in
// the order they were appended; a failed delivery is logged and dropped.
type QueuePublisher struct {
	cli  publishClient
	qos  byte
	msgs chan outbound
	done chan struct{}
}

// NewQueuePublisher starts the delivery goroutine. depth bounds the number
// of pending payloads; Append blocks once the queue fills.
func NewQueuePublisher(cli publishClient, qos byte, depth int) *QueuePublisher {
	if depth <= 0 {
		depth = 64
	}
	p := &QueuePublisher{
		cli:  cli,
		qos:  qos,
		msgs: make(chan outbound, depth),
		done: make(chan struct{}),
	}
	go p.deliver()
	return p
}

func (p *QueuePublisher) deliver() {
	defer close(p.done)
	for m := range p.msgs {
		if err := CheckToken(p.cli.Publish(m.topic, p.qos, false, m.payload)); err != nil {
			log.Printf("bus: publish to %s failed: %v", m.topic, err)
		}
	}
}

// Append queues one payload for delivery.
func (p *QueuePublisher) Append(topic string, payload []byte) {
	p.msgs <- outbound{topic: topic, payload: payload}
}

// Close drains the queue, stops the delivery goroutine and waits for it.
func (p *QueuePublisher) Close() {
	close(p.msgs)
	<-p.done
}
