// internal/worker/worker.go

// Package worker dispatches measurement requests arriving over the bus to
// a PET-7018Z instrument and reports data and progress back.
package worker

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync/atomic"
	"time"

	pet7018z "github.com/pvtools/pet7018z-go"
	"github.com/pvtools/pet7018z-go/internal/bus"
	"github.com/pvtools/pet7018z-go/internal/config"
)

// Publisher is the exact contract the worker reports through; bus.QueuePublisher
// satisfies it.
type Publisher interface {
	Append(topic string, payload []byte)
}

// Message is one inbound bus message routed to the worker.
type Message struct {
	Topic   string
	Payload []byte
}

// Pacing knobs; package vars so tests can shorten them.
var (
	settleDelay = 100 * time.Millisecond // after each channel is configured
	stopGrace   = time.Second            // extra drain time after a stop
)

// Worker owns the instrument. All register traffic runs either on the
// dispatch goroutine or on the continuous loop while the dispatch side is
// idle; the running flag keeps the two apart.
type Worker struct {
	dev *pet7018z.Device
	pub Publisher

	msgs    chan Message
	running atomic.Bool
	run     atomic.Pointer[config.Run]
}

// New returns a worker that drives dev and reports through pub.
func New(dev *pet7018z.Device, pub Publisher) *Worker {
	return &Worker{
		dev:  dev,
		pub:  pub,
		msgs: make(chan Message, 64),
	}
}

// Enqueue hands one bus message to the dispatch loop without blocking the
// MQTT router. Overflow is dropped with a log line.
func (w *Worker) Enqueue(m Message) {
	select {
	case w.msgs <- m:
	default:
		log.Printf("worker: queue full, dropping %s", m.Topic)
	}
}

// Run drains the request queue until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-w.msgs:
			w.dispatch(m)
		}
	}
}

func (w *Worker) dispatch(m Message) {
	switch m.Topic {
	case topicStart:
		w.running.Store(true)
		log.Print("worker: Starting continuous mode...")

	case topicStop:
		w.running.Store(false)
		log.Print("worker: Continuous mode stopped.")

	case topicSingle:
		if w.running.Load() {
			w.logToBus(bus.LevelWarning, "Cannot run single measurement: DAQ running in continuous mode.")
			return
		}
		if err := w.single(); err != nil {
			w.logToBus(bus.LevelError, "Measurement failed! "+err.Error())
		}

	case topicRun:
		if w.running.Load() {
			w.logToBus(bus.LevelWarning, "Cannot update config/setup: DAQ running in continuous mode.")
			return
		}
		log.Print("worker: Received run message")
		run, err := config.DecodeRun(m.Payload)
		if err != nil {
			w.logToBus(bus.LevelError, "DAQ setup failed! "+err.Error())
			return
		}
		w.run.Store(run)
		w.setup(run)

	case topicLog:
		w.onServerLog(m.Payload)

	case topicStatus:
		w.onServerStatus(m.Payload)
	}
}

// onServerLog watches the measurement log for run termination messages and
// stops continuous mode when one arrives.
func (w *Worker) onServerLog(payload []byte) {
	var rec bus.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		log.Printf("worker: undecodable log record: %v", err)
		return
	}
	if !w.running.Load() {
		return
	}
	if rec.Msg == "Run complete!" || strings.HasPrefix(rec.Msg, "RUN ABORTED!") {
		w.running.Store(false)
		w.waitForLastSweep()
		log.Printf("worker: %s", rec.Msg)
	}
}

// onServerStatus stops continuous mode when the measurement server reports
// it has gone offline or returned to ready.
func (w *Worker) onServerStatus(payload []byte) {
	var status string
	if err := json.Unmarshal(payload, &status); err != nil {
		log.Printf("worker: undecodable status: %v", err)
		return
	}
	if (status == "Offline" || status == "Ready") && w.running.Load() {
		w.running.Store(false)
		w.waitForLastSweep()
		log.Printf("worker: measurement server is %s", status)
	}
}

// waitForLastSweep blocks one sweep delay plus a grace period so a sweep
// started just before the stop can finish publishing.
func (w *Worker) waitForLastSweep() {
	delay := stopGrace
	if run := w.run.Load(); run != nil {
		delay += run.DAQ.Delay()
	}
	time.Sleep(delay)
}

// logToBus mirrors an operator-facing message onto the measurement log.
func (w *Worker) logToBus(level bus.Level, msg string) {
	log.Printf("worker: %s", msg)
	b, err := json.Marshal(bus.Record{Level: level, Msg: msg})
	if err != nil {
		log.Printf("worker: marshal log record: %v", err)
		return
	}
	w.pub.Append(topicLog, b)
}
