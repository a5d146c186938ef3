package models

import "testing"

func TestAttemptLine(t *testing.T) {
	latency := 23.456
	success := Attempt{Index: 1, OK: true, LatencyMS: &latency}
	if got, want := success.Line(), "attempt 1: succeeded, latency: 23.46 ms"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	failure := Attempt{Index: 2, Reason: "timeout: i/o timeout"}
	if got, want := failure.Line(), "attempt 2: failed, reason: timeout: i/o timeout"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTargetAddr(t *testing.T) {
	if got := (Target{IP: "8.8.8.8", Port: 53}).Addr(); got != "8.8.8.8:53" {
		t.Fatalf("got %q", got)
	}
}

func TestReportLatencies(t *testing.T) {
	a, b := 10.0, 30.0
	report := Report{Attempts: []Attempt{
		{Index: 1, OK: true, LatencyMS: &a},
		{Index: 2, Reason: "failed"},
		{Index: 3, OK: true, LatencyMS: &b},
	}}

	latencies := report.Latencies()
	if len(latencies) != 2 || latencies[0] != 10.0 || latencies[1] != 30.0 {
		t.Fatalf("latencies = %v", latencies)
	}
}
