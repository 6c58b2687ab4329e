// Package status keeps the append-only client heartbeat log. Checks are
// created and listed, never updated or deleted.
package status

import (
	"time"

	"github.com/google/uuid"
)

type Check struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

func New(clientName string) Check {
	return Check{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
}
