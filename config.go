package spe

import (
	"time"

	gobug "go.bug.st/serial"
)

// DefaultReadTimeout bounds a single port read.
const DefaultReadTimeout = 5 * time.Second

// SerialConfig holds configuration for opening the instrument's serial port.
type SerialConfig struct {
	// PortName is the path to the serial device, e.g. /dev/ttyUSB0 or COM3.
	PortName string `yaml:"port"`

	BaudRate int     `yaml:"baud_rate"`
	DataBits int     `yaml:"data_bits"`
	Parity   string  `yaml:"parity"`    // N, E, O, M or S
	StopBits float64 `yaml:"stop_bits"` // 1, 1.5 or 2

	// ReadTimeout is the underlying port read timeout. Zero means
	// DefaultReadTimeout.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// DTR and RTS are applied as given; the zero value drives both low.
	DTR bool `yaml:"dtr"`
	RTS bool `yaml:"rts"`
}

// DefaultSerialConfig returns the settings the instrument expects:
// 115200 8N1 with a five second read timeout.
func DefaultSerialConfig(portName string) SerialConfig {
	return SerialConfig{
		PortName:    portName,
		BaudRate:    DefaultBaudRate.Int(),
		DataBits:    DataBits8.Int(),
		Parity:      "N",
		StopBits:    1,
		ReadTimeout: DefaultReadTimeout,
		DTR:         true,
		RTS:         true,
	}
}

// withDefaults fills the unset line parameters and read timeout from
// DefaultSerialConfig. An empty parity already means none, and the control
// lines keep their zero values.
func (cfg SerialConfig) withDefaults() SerialConfig {
	def := DefaultSerialConfig(cfg.PortName)
	if cfg.BaudRate == 0 {
		cfg.BaudRate = def.BaudRate
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = def.DataBits
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = def.StopBits
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	return cfg
}

// mode converts a validated config to go.bug.st/serial terms.
func (cfg SerialConfig) mode() (*gobug.Mode, error) {
	parity, err := ParseParity(cfg.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := ParseStopBits(cfg.StopBits)
	if err != nil {
		return nil, err
	}
	return &gobug.Mode{
		BaudRate: BaudRate(cfg.BaudRate).Int(),
		DataBits: DataBits(cfg.DataBits).Int(),
		Parity:   parity.Get(),
		StopBits: stopBits.Get(),
	}, nil
}
