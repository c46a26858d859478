package spe

import (
	"fmt"

	gobug "go.bug.st/serial"
)

type StopBits gobug.StopBits

func (sb StopBits) Get() gobug.StopBits {
	return gobug.StopBits(sb)
}

const (
	StopBits1     = StopBits(gobug.OneStopBit)
	StopBits1Half = StopBits(gobug.OnePointFiveStopBits)
	StopBits2     = StopBits(gobug.TwoStopBits)
)

// ParseStopBits maps 1, 1.5 or 2 to StopBits. Zero means one stop bit.
func ParseStopBits(n float64) (StopBits, error) {
	switch n {
	case 0, 1:
		return StopBits1, nil
	case 1.5:
		return StopBits1Half, nil
	case 2:
		return StopBits2, nil
	}
	return StopBits1, fmt.Errorf("stop bits must be 1, 1.5 or 2, got: %.1f", n)
}
