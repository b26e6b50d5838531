package queuectl

import (
	"os"

	"github.com/google/uuid"
)

func randomID() string {
	return uuid.NewString()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
