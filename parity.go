package spe

import (
	"fmt"
	"strings"

	gobug "go.bug.st/serial"
)

type Parity gobug.Parity

func (pa Parity) Get() gobug.Parity {
	return gobug.Parity(pa)
}

const (
	ParityNone  = Parity(gobug.NoParity)
	ParityOdd   = Parity(gobug.OddParity)
	ParityEven  = Parity(gobug.EvenParity)
	ParityMark  = Parity(gobug.MarkParity)
	ParitySpace = Parity(gobug.SpaceParity)
)

// ParseParity maps the usual one-letter notation (N, E, O, M, S) to a
// Parity. The empty string means none.
func ParseParity(s string) (Parity, error) {
	switch strings.ToUpper(s) {
	case "", "N", "NONE":
		return ParityNone, nil
	case "E", "EVEN":
		return ParityEven, nil
	case "O", "ODD":
		return ParityOdd, nil
	case "M", "MARK":
		return ParityMark, nil
	case "S", "SPACE":
		return ParitySpace, nil
	}
	return ParityNone, fmt.Errorf("unsupported parity %q (use N, E, O, M or S)", s)
}
