package spe

import (
	"fmt"
)

// ValidateConfig validates serial port configuration parameters
func ValidateConfig(cfg *SerialConfig) error {
	// Validate port name
	if cfg.PortName == "" {
		return fmt.Errorf("port name cannot be empty")
	}

	// Validate baud rate
	if !BaudRate(cfg.BaudRate).Valid() {
		return fmt.Errorf("invalid baud rate %d, must be one of: %v", cfg.BaudRate, validBaudRates)
	}

	// Validate data bits
	if cfg.DataBits != DataBits7.Int() && cfg.DataBits != DataBits8.Int() {
		return fmt.Errorf("data bits must be 7 or 8, got: %d", cfg.DataBits)
	}

	if _, err := ParseParity(cfg.Parity); err != nil {
		return err
	}
	if _, err := ParseStopBits(cfg.StopBits); err != nil {
		return err
	}

	// Validate timeouts
	if cfg.ReadTimeout < 0 {
		return fmt.Errorf("read timeout cannot be negative: %v", cfg.ReadTimeout)
	}

	return nil
}
