// cmd/daq-mqtt/main.go
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	pet7018z "github.com/pvtools/pet7018z-go"
	"github.com/pvtools/pet7018z-go/internal/bus"
	"github.com/pvtools/pet7018z-go/internal/config"
	"github.com/pvtools/pet7018z-go/internal/worker"
	"github.com/pvtools/pet7018z-go/modbus"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: daq-mqtt <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	qos := byte(*cfg.MQTT.QoS)
	clientID := cfg.MQTT.ClientIDPrefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Instrument + worker
	// --------------------

	tr := &modbus.Transport{SlaveID: cfg.DAQ.NetID}
	if cfg.Log.Debug {
		tr.Logger = log.New(os.Stderr, "modbus: ", log.LstdFlags)
	}
	dev := pet7018z.New(tr)

	// Publisher and subscriber ride separate connections so measurement
	// data keeps flowing while the dispatch side is busy.

	pubCli, err := bus.Dial(bus.Options{
		Broker:         cfg.MQTT.Broker,
		ClientID:       clientID + "-pub",
		ConnectTimeout: time.Duration(cfg.MQTT.ConnectTimeoutMs) * time.Millisecond,
		KeepAlive:      time.Duration(cfg.MQTT.KeepAliveS) * time.Second,
	})
	if err != nil {
		log.Fatalf("broker connect failed (pub): %v", err)
	}
	defer pubCli.Disconnect(250)

	pub := bus.NewQueuePublisher(pubCli, qos, 64)

	w := worker.New(dev, pub)

	onMessage := func(_ mqtt.Client, m mqtt.Message) {
		w.Enqueue(worker.Message{Topic: m.Topic(), Payload: m.Payload()})
	}

	// --------------------
	// Subscriber with last will
	// --------------------

	subCli, err := bus.Dial(bus.Options{
		Broker:         cfg.MQTT.Broker,
		ClientID:       clientID,
		ConnectTimeout: time.Duration(cfg.MQTT.ConnectTimeoutMs) * time.Millisecond,
		KeepAlive:      time.Duration(cfg.MQTT.KeepAliveS) * time.Second,
		Will: &bus.Will{
			Topic:   worker.TopicDAQStatus,
			Payload: mustJSON(clientID + " offline"),
			QoS:     qos,
			Retain:  true,
		},
		// Subscribing on connect keeps the filters alive across broker
		// reconnects.
		OnConnect: func(c mqtt.Client) {
			for _, filter := range worker.Subscriptions {
				if err := bus.CheckToken(c.Subscribe(filter, qos, onMessage)); err != nil {
					log.Printf("subscribe failed topic=%s err=%v", filter, err)
				}
			}
		},
	})
	if err != nil {
		log.Fatalf("broker connect failed (sub): %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		w.RunContinuous(ctx)
	}()

	pub.Append(worker.TopicDAQStatus, mustJSON(clientID+" ready"))
	log.Printf("%s connected!", clientID)

	// --------------------
	// Block until shutdown signal
	// --------------------

	<-ctx.Done()
	stop()
	log.Print("shutting down")

	// The will only fires on an unclean exit, so announce the retained
	// offline status before disconnecting.
	if err := bus.CheckToken(subCli.Publish(worker.TopicDAQStatus, qos, true, mustJSON(clientID+" offline"))); err != nil {
		log.Printf("offline publish failed: %v", err)
	}
	subCli.Disconnect(250)

	// Let the dispatch and continuous loops finish before the queue closes
	// and the instrument session is torn down.
	wg.Wait()
	pub.Close()

	if err := dev.Disconnect(); err != nil {
		log.Printf("instrument disconnect failed: %v", err)
	}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
