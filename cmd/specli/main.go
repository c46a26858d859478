package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/spe"
)

const usage = `usage: specli [flags] [port] <command>

commands:
  idn
  reset
  output [on | off | volt V | volt-limit V | current A | current-limit A]
  measure [volt | current | power | all | all-info]

The port may also be given with -port or SPE_PORT.
`

// instrument is the subset of *spe.SPE the commands use.
type instrument interface {
	Identify() (spe.IdentifyInfo, error)
	Reset() error
	EnableOutput() error
	DisableOutput() error
	Output() (bool, error)
	SetVolt(float32) error
	Volt() (float32, error)
	SetVoltLimit(float32) error
	VoltLimit() (float32, error)
	SetCurrent(float32) error
	Current() (float32, error)
	SetCurrentLimit(float32) error
	CurrentLimit() (float32, error)
	MeasureVolt() (float32, error)
	MeasureCurrent() (float32, error)
	MeasurePower() (float32, error)
	MeasureAll() (spe.MeasureAllOutput, error)
	MeasureAllInfo() (spe.MeasureAllInfoOutput, error)
}

var errUsage = errors.New("invalid usage")

func main() {
	// .env is optional
	_ = godotenv.Load()

	port := flag.String("port", os.Getenv("SPE_PORT"), "serial device path")
	baud := flag.Int("baud", getEnvAsInt("SPE_BAUD", spe.DefaultBaudRate.Int()), "baud rate")
	timeout := flag.Duration("read-timeout", spe.DefaultReadTimeout, "read timeout per reply")
	logLevel := flag.String("log-level", getEnv("LOG_LEVEL", "warn"), "log level; debug traces the wire")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := spe.NewLogger(spe.LogConfig{Level: *logLevel, Output: "stderr"})

	args := flag.Args()
	if *port == "" {
		if len(args) == 0 {
			flag.Usage()
			os.Exit(2)
		}
		*port, args = args[0], args[1:]
	}

	cfg := spe.DefaultSerialConfig(*port)
	cfg.BaudRate = *baud
	cfg.ReadTimeout = *timeout

	client, err := spe.Open(cfg, spe.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("open")
	}
	defer client.Close()

	if err = run(client, args, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			client.Close()
			os.Exit(2)
		}
		logger.WithFields(logrus.Fields{
			"port":    *port,
			"command": strings.Join(args, " "),
		}).WithError(err).Error("command failed")
		client.Close()
		os.Exit(1)
	}
}

func run(s instrument, args []string, w io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "idn":
		idn, err := s.Identify()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Model: %s, Serial: %s, Firmware: %s\n", idn.Model, idn.Serial, idn.Firmware)
		return nil
	case "reset":
		return s.Reset()
	case "output":
		return output(s, args[1:], w)
	case "measure":
		return measure(s, args[1:], w)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func output(s instrument, args []string, w io.Writer) error {
	if len(args) == 0 {
		on, err := s.Output()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Output: %t\n", on)
		for _, q := range []struct {
			label string
			fn    func() (float32, error)
		}{
			{"Voltage", s.Volt},
			{"Voltage Limit", s.VoltLimit},
			{"Current", s.Current},
			{"Current Limit", s.CurrentLimit},
		} {
			v, err := q.fn()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %v\n", q.label, v)
		}
		return nil
	}

	switch args[0] {
	case "on":
		return s.EnableOutput()
	case "off":
		return s.DisableOutput()
	}

	set := map[string]func(float32) error{
		"volt":          s.SetVolt,
		"volt-limit":    s.SetVoltLimit,
		"current":       s.SetCurrent,
		"current-limit": s.SetCurrentLimit,
	}[args[0]]
	if set == nil {
		return fmt.Errorf("%w: unknown output command %q", errUsage, args[0])
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: output %s needs one value", errUsage, args[0])
	}
	v, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("%w: bad value %q", errUsage, args[1])
	}
	return set(float32(v))
}

func measure(s instrument, args []string, w io.Writer) error {
	sub := "all-info"
	if len(args) > 0 {
		sub = args[0]
	}

	var (
		v   float32
		err error
	)
	switch sub {
	case "volt":
		v, err = s.MeasureVolt()
	case "current":
		v, err = s.MeasureCurrent()
	case "power":
		v, err = s.MeasurePower()
	case "all":
		o, err := s.MeasureAll()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Volt: %v\nCurrent: %v\n", o.Volt, o.Current)
		return nil
	case "all-info":
		o, err := s.MeasureAllInfo()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Volt: %v\n", o.Volt)
		fmt.Fprintf(w, "Current: %v\n", o.Current)
		fmt.Fprintf(w, "Power: %v\n", o.Power)
		fmt.Fprintf(w, "Overvoltage: %t\n", o.OverVoltage)
		fmt.Fprintf(w, "Overcurrent: %t\n", o.OverCurrent)
		fmt.Fprintf(w, "OverTemperature: %t\n", o.OverTemperature)
		fmt.Fprintf(w, "Mode: %s\n", o.Mode)
		return nil
	default:
		return fmt.Errorf("%w: unknown measurement %q", errUsage, sub)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %v\n", strings.ToUpper(sub[:1])+sub[1:], v)
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return value
	}
	return defaultValue
}
