// internal/poller/types.go
package poller

import (
	"time"

	"github.com/Station-Manager/spe"
)

// Sample is one MEAS:ALL:INFO? reading.
type Sample struct {
	Port string    `json:"port"`
	At   time.Time `json:"at"`

	spe.MeasureAllInfoOutput
	ModeName string `json:"mode_name"`
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Sample Sample
	Err    error // non-nil means the poll cycle failed
}
