package runner

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Event is one JSONL line of the run log.
type Event struct {
	Kind       string  `json:"kind"`
	Job        int     `json:"job"`
	Tests      int     `json:"tests,omitempty"`
	Status     string  `json:"status,omitempty"`
	Error      string  `json:"error,omitempty"`
	StartMS    float64 `json:"start_ms"`
	DurationMS float64 `json:"duration_ms"`
	EndMS      float64 `json:"end_ms"`
}

type eventRecorder struct {
	enabled bool
	start   time.Time
	mu      sync.Mutex
	file    *os.File
	enc     *json.Encoder
	err     error
}

func newEventRecorder(start time.Time, path string) *eventRecorder {
	er := &eventRecorder{start: start}
	if path == "" {
		return er
	}
	f, err := os.Create(path)
	if err != nil {
		er.err = err
		return er
	}
	er.enabled = true
	er.file = f
	er.enc = json.NewEncoder(f)
	return er
}

func (er *eventRecorder) Err() error {
	if er == nil {
		return nil
	}
	return er.err
}

func (er *eventRecorder) Close() {
	if er == nil || er.file == nil {
		return
	}
	_ = er.file.Close()
}

func (er *eventRecorder) record(ev Event, start time.Time, duration time.Duration) {
	if er == nil || !er.enabled {
		return
	}
	ev.StartMS = durationToMS(start.Sub(er.start))
	ev.DurationMS = durationToMS(duration)
	ev.EndMS = ev.StartMS + ev.DurationMS
	er.mu.Lock()
	if er.enc != nil {
		_ = er.enc.Encode(ev)
	}
	er.mu.Unlock()
}

func durationToMS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000_000.0
}
