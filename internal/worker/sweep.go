// internal/worker/sweep.go
package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	pet7018z "github.com/pvtools/pet7018z-go"
	"github.com/pvtools/pet7018z-go/internal/bus"
	"github.com/pvtools/pet7018z-go/internal/config"
)

// DataPayload is the raw-data message shape the measurement server stores.
type DataPayload struct {
	Data  []float64      `json:"data"`
	Pixel map[string]any `json:"pixel"`
	Sweep string         `json:"sweep"`
}

// setup prepares the instrument for a run: verified session, all channels
// off, global filter and CJC settings, then type code and enable for each
// channel in use. Failures are reported to the measurement log; the server
// decides what to do with a client that could not arm.
func (w *Worker) setup(run *config.Run) {
	p := pet7018z.ConnectParams{
		Host:    run.DAQ.Host,
		Port:    run.DAQ.Port,
		Timeout: run.DAQ.Timeout(),
		Reset:   true,
	}
	id, step, err := pet7018z.EnsureConnected(w.dev, p, log.Printf)
	if err != nil {
		w.logToBus(bus.LevelError, "DAQ setup failed! "+err.Error())
		return
	}
	if step != pet7018z.StepNone {
		log.Printf("worker: session restored by %s", step)
	}
	log.Printf("worker: Connected to '%s'!", id)

	if err := w.configure(run); err != nil {
		w.logToBus(bus.LevelError, "DAQ setup failed! "+err.Error())
	}
}

func (w *Worker) configure(run *config.Run) error {
	// clean slate: no analog inputs enabled
	for ch := 0; ch < pet7018z.NumAIChannels; ch++ {
		if err := w.dev.EnableAI(ch, false); err != nil {
			return err
		}
	}

	if err := w.dev.SetNoiseFilter(run.DAQ.PLF); err != nil {
		return err
	}
	if err := w.dev.EnableCJC(true); err != nil {
		return err
	}

	// the channel must be enabled before its type code is written
	for _, ch := range run.DAQ.SortedChannels() {
		if err := w.dev.EnableAI(ch, true); err != nil {
			return err
		}
		if err := w.dev.SetAIRange(ch, run.DAQ.Channels[ch]); err != nil {
			return err
		}
		time.Sleep(settleDelay)
	}
	return nil
}

// single performs one measurement sweep and publishes the row: a unix
// timestamp followed by one value per configured channel in ascending
// channel order.
func (w *Worker) single() error {
	run := w.run.Load()
	if run == nil {
		return errors.New("no run configuration received")
	}

	row := make([]float64, 0, len(run.DAQ.Channels)+1)
	row = append(row, float64(time.Now().UnixNano())/1e9)
	for _, ch := range run.DAQ.SortedChannels() {
		v, err := w.dev.Measure(ch)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}
		row = append(row, v)
	}
	w.publishRow(row)
	return nil
}

func (w *Worker) publishRow(row []float64) {
	b, err := json.Marshal(DataPayload{Data: row, Pixel: map[string]any{}, Sweep: ""})
	if err != nil {
		log.Printf("worker: marshal data row: %v", err)
		return
	}
	w.pub.Append(topicData, b)
}
