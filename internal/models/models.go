package models

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Target is the concrete (IP, port) pair a server spec resolves to.
type Target struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// Addr returns the target in host:port form suitable for dialing.
func (t Target) Addr() string {
	return net.JoinHostPort(t.IP, strconv.Itoa(t.Port))
}

// Attempt captures the outcome of a single timed resolution attempt.
type Attempt struct {
	Index     int       `json:"index"`
	Target    Target    `json:"target"`
	OK        bool      `json:"ok"`
	LatencyMS *float64  `json:"latency_ms,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Line renders the per-attempt progress line shown to the user.
func (a Attempt) Line() string {
	if a.OK && a.LatencyMS != nil {
		return fmt.Sprintf("attempt %d: succeeded, latency: %.2f ms", a.Index, *a.LatencyMS)
	}
	return fmt.Sprintf("attempt %d: failed, reason: %s", a.Index, a.Reason)
}

// Report stores the results of one complete probe session.
type Report struct {
	Server     string    `json:"server"`
	Domain     string    `json:"domain"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempts   []Attempt `json:"attempts"`
}

// Latencies returns the successful latencies in attempt order.
func (r Report) Latencies() []float64 {
	out := make([]float64, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		if a.OK && a.LatencyMS != nil {
			out = append(out, *a.LatencyMS)
		}
	}
	return out
}
