package main

import (
	"bytes"
	"encoding/json"
	"time"

	queuectl "github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/job"
)

// specInput mirrors the recognized JSON job-spec fields accepted on the
// command line or from a file. Unknown fields are rejected at decode time
// rather than silently ignored.
type specInput struct {
	ID             *string `json:"id"`
	Command        string  `json:"command"`
	Priority       *int    `json:"priority"`
	MaxRetries     *int    `json:"max_retries"`
	TimeoutSeconds *int    `json:"timeout_seconds"`
	RunAt          *string `json:"run_at"`
}

func decodeJobSpec(raw []byte) (job.Spec, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var in specInput
	if err := dec.Decode(&in); err != nil {
		return job.Spec{}, queuectl.NewValidationError("invalid job spec: %v", err)
	}
	return in.toSpec()
}

func (in specInput) toSpec() (job.Spec, error) {
	spec := job.Spec{
		Command:        in.Command,
		MaxRetries:     in.MaxRetries,
		TimeoutSeconds: in.TimeoutSeconds,
	}
	if in.ID != nil {
		spec.ID = *in.ID
	}
	if in.Priority != nil {
		spec.Priority = *in.Priority
	}
	if in.RunAt != nil && *in.RunAt != "" {
		t, err := time.Parse(time.RFC3339, *in.RunAt)
		if err != nil {
			return job.Spec{}, queuectl.NewValidationError("invalid run_at %q: %v", *in.RunAt, err)
		}
		spec.RunAt = &t
	}
	return spec, nil
}
