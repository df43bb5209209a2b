// Package telemetry tracks request activity and host resource usage.
//
// The Recorder is a process-lifetime object: HTTP handlers record request
// events, a single background sampler refreshes the resource gauges, and
// Snapshot returns a read-only copy for the telemetry endpoint.
package telemetry

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventWindowSize bounds the rolling window of recent request events.
const EventWindowSize = 50

// RequestEvent is one recorded inbound request.
type RequestEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	ClientIP     string    `json:"client_ip"`
	APIKey       string    `json:"api_key"`
	PromptLength int       `json:"prompt_length"`
}

// Gauges are the latest sampled resource readings.
type Gauges struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

// Snapshot is a point-in-time copy of the recorder state.
type Snapshot struct {
	TotalRequests  int64          `json:"total_requests"`
	LastRequestAt  *time.Time     `json:"last_request_at"`
	RecentRequests []RequestEvent `json:"recent_requests"`
	Gauges
}

// Recorder is the in-memory telemetry state.
type Recorder struct {
	mu            sync.Mutex
	totalRequests int64
	lastRequestAt time.Time
	events        []RequestEvent
	gauges        Gauges
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordRequest counts one inbound request and pushes it into the rolling
// event window, evicting the oldest event on overflow.
func (r *Recorder) RecordRequest(clientIP, apiKey string, promptLength int) {
	r.mu.Lock()
	r.totalRequests++
	r.lastRequestAt = time.Now().UTC()
	r.events = append(r.events, RequestEvent{
		Timestamp:    r.lastRequestAt,
		ClientIP:     clientIP,
		APIKey:       apiKey,
		PromptLength: promptLength,
	})
	if len(r.events) > EventWindowSize {
		r.events = r.events[len(r.events)-EventWindowSize:]
	}
	total := r.totalRequests
	r.mu.Unlock()

	log.Info().
		Int64("request", total).
		Str("client_ip", clientIP).
		Int("prompt_length", promptLength).
		Msg("telemetry request recorded")
}

func (r *Recorder) setGauges(g Gauges) {
	r.mu.Lock()
	r.gauges = g
	r.mu.Unlock()
}

// Snapshot returns a copy of the current counters, event window and gauges.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		TotalRequests:  r.totalRequests,
		RecentRequests: append([]RequestEvent(nil), r.events...),
		Gauges:         r.gauges,
	}
	if !r.lastRequestAt.IsZero() {
		t := r.lastRequestAt
		snap.LastRequestAt = &t
	}
	return snap
}
