package internal

import "time"

// CallRecord is one journaled call to the translator service.
type CallRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Operation  string    `json:"operation" yaml:"operation"`
	Subject    string    `json:"subject" yaml:"subject"`
	StatusCode int       `json:"status_code" yaml:"status_code"`
	LatencyMs  int64     `json:"latency_ms" yaml:"latency_ms"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}
