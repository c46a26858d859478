package spe

import (
	"errors"
	"strconv"
	"strings"
)

// errToken marks a malformed or missing token. Operations turn it into a
// DecodeError carrying the command and the whole line.
var errToken = errors.New("bad token")

func parseBool(token string) (bool, error) {
	switch token {
	case "ON", "1":
		return true, nil
	case "OFF", "0":
		return false, nil
	}
	return false, errToken
}

// parseFloat32 accepts plain decimal notation only. Out of range values
// saturate to ±Inf.
func parseFloat32(token string) (float32, error) {
	if strings.ContainsAny(token, "xX_") {
		return 0, errToken
	}
	v, err := strconv.ParseFloat(token, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errToken
	}
	return float32(v), nil
}

func parseMode(token string) (Mode, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, errToken
	}
	m := Mode(n)
	if !m.Valid() {
		return 0, errToken
	}
	return m, nil
}

// fieldReader pops comma separated fields off a reply line in order.
// Fields past the last one read are ignored.
type fieldReader struct {
	fields []string
	err    error
}

func newFieldReader(line string) *fieldReader {
	return &fieldReader{fields: strings.Split(line, ",")}
}

func (r *fieldReader) next() (string, bool) {
	if r.err != nil {
		return "", false
	}
	if len(r.fields) == 0 {
		r.err = errToken
		return "", false
	}
	f := r.fields[0]
	r.fields = r.fields[1:]
	return f, true
}

func (r *fieldReader) text() string {
	f, _ := r.next()
	return f
}

func (r *fieldReader) float32() float32 {
	f, ok := r.next()
	if !ok {
		return 0
	}
	v, err := parseFloat32(f)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *fieldReader) bool() bool {
	f, ok := r.next()
	if !ok {
		return false
	}
	v, err := parseBool(f)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *fieldReader) mode() Mode {
	f, ok := r.next()
	if !ok {
		return 0
	}
	v, err := parseMode(f)
	if err != nil {
		r.err = err
	}
	return v
}

// formatValue renders a set-command argument with the shortest decimal
// that reads back as the same float32.
func formatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
