// internal/bus/bus.go

// Package bus wraps the MQTT connection to the measurement network: client
// construction, a serialized publish queue, and the log record format
// shared with the measurement server.
package bus

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Will is a last-will registration announcing an unclean exit.
type Will struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// Options describes one broker connection.
type Options struct {
	Broker         string
	ClientID       string
	ConnectTimeout time.Duration // paho default if zero
	KeepAlive      time.Duration // paho default if zero
	Will           *Will

	// OnConnect runs on every successful (re)connect. Subscriptions placed
	// here survive broker reconnects.
	OnConnect mqtt.OnConnectHandler
}

// Dial connects one paho client and blocks until the broker accepts or
// rejects the session.
func Dial(o Options) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true)
	if o.ConnectTimeout > 0 {
		opts.SetConnectTimeout(o.ConnectTimeout)
	}
	if o.KeepAlive > 0 {
		opts.SetKeepAlive(o.KeepAlive)
	}
	if o.Will != nil {
		opts.SetBinaryWill(o.Will.Topic, o.Will.Payload, o.Will.QoS, o.Will.Retain)
	}
	if o.OnConnect != nil {
		opts.SetOnConnectHandler(o.OnConnect)
	}

	cli := mqtt.NewClient(opts)
	if err := CheckToken(cli.Connect()); err != nil {
		return nil, fmt.Errorf("bus: connect %s: %w", o.Broker, err)
	}
	return cli, nil
}

// CheckToken waits on a paho token and surfaces its error.
func CheckToken(t mqtt.Token) error {
	t.Wait()
	return t.Error()
}
