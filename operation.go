package spe

// OperationKind identifies an instrument command.
type OperationKind int

const (
	// IEEE 488.2 common commands
	OpIdentify OperationKind = iota
	OpReset

	// Output control
	OpOutputOn
	OpOutputOff
	OpOutput
	OpSetVolt
	OpSetVoltLimit
	OpSetCurrent
	OpSetCurrentLimit
	OpVolt
	OpVoltLimit
	OpCurrent
	OpCurrentLimit

	// Measurements
	OpMeasureVolt
	OpMeasureCurrent
	OpMeasurePower
	OpMeasureAll
	OpMeasureAllInfo
)

var kindNames = map[OperationKind]string{
	OpIdentify:        "identify",
	OpReset:           "reset",
	OpOutputOn:        "output-on",
	OpOutputOff:       "output-off",
	OpOutput:          "output",
	OpSetVolt:         "set-volt",
	OpSetVoltLimit:    "set-volt-limit",
	OpSetCurrent:      "set-current",
	OpSetCurrentLimit: "set-current-limit",
	OpVolt:            "volt",
	OpVoltLimit:       "volt-limit",
	OpCurrent:         "current",
	OpCurrentLimit:    "current-limit",
	OpMeasureVolt:     "measure-volt",
	OpMeasureCurrent:  "measure-current",
	OpMeasurePower:    "measure-power",
	OpMeasureAll:      "measure-all",
	OpMeasureAllInfo:  "measure-all-info",
}

func (k OperationKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether k is a known instrument command.
func (k OperationKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Operation describes one instrument command: what to send and how to
// decode the reply. Use the constructor functions (IdentifyOp, SetVoltOp,
// etc.) to create Operation values. Only the set operations use Value.
type Operation struct {
	Kind  OperationKind
	Value float32
}

// Operation constructors.

func IdentifyOp() Operation       { return Operation{Kind: OpIdentify} }
func ResetOp() Operation          { return Operation{Kind: OpReset} }
func OutputOnOp() Operation       { return Operation{Kind: OpOutputOn} }
func OutputOffOp() Operation      { return Operation{Kind: OpOutputOff} }
func OutputOp() Operation         { return Operation{Kind: OpOutput} }
func VoltOp() Operation           { return Operation{Kind: OpVolt} }
func VoltLimitOp() Operation      { return Operation{Kind: OpVoltLimit} }
func CurrentOp() Operation        { return Operation{Kind: OpCurrent} }
func CurrentLimitOp() Operation   { return Operation{Kind: OpCurrentLimit} }
func MeasureVoltOp() Operation    { return Operation{Kind: OpMeasureVolt} }
func MeasureCurrentOp() Operation { return Operation{Kind: OpMeasureCurrent} }
func MeasurePowerOp() Operation   { return Operation{Kind: OpMeasurePower} }
func MeasureAllOp() Operation     { return Operation{Kind: OpMeasureAll} }
func MeasureAllInfoOp() Operation { return Operation{Kind: OpMeasureAllInfo} }

func SetVoltOp(volt float32) Operation {
	return Operation{Kind: OpSetVolt, Value: volt}
}

func SetVoltLimitOp(volt float32) Operation {
	return Operation{Kind: OpSetVoltLimit, Value: volt}
}

func SetCurrentOp(current float32) Operation {
	return Operation{Kind: OpSetCurrent, Value: current}
}

func SetCurrentLimitOp(current float32) Operation {
	return Operation{Kind: OpSetCurrentLimit, Value: current}
}

// Command returns the wire form of the operation without the terminator.
func (o Operation) Command() string {
	switch o.Kind {
	case OpIdentify:
		return "*IDN?"
	case OpReset:
		return "*RST"
	case OpOutputOn:
		return "OUTP ON"
	case OpOutputOff:
		return "OUTP OFF"
	case OpOutput:
		return "OUTP?"
	case OpSetVolt:
		return "VOLT " + formatValue(o.Value)
	case OpSetVoltLimit:
		return "VOLT:LIMIT " + formatValue(o.Value)
	case OpSetCurrent:
		return "CURR " + formatValue(o.Value)
	case OpSetCurrentLimit:
		return "CURR:LIMIT " + formatValue(o.Value)
	case OpVolt:
		return "VOLT?"
	case OpVoltLimit:
		return "VOLT:LIM?"
	case OpCurrent:
		return "CURR?"
	case OpCurrentLimit:
		return "CURR:LIM?"
	case OpMeasureVolt:
		return "MEAS:VOLT?"
	case OpMeasureCurrent:
		return "MEAS:Current?"
	case OpMeasurePower:
		return "MEAS:Power?"
	case OpMeasureAll:
		return "MEAS:ALL?"
	case OpMeasureAllInfo:
		return "MEAS:ALL:INFO?"
	default:
		return ""
	}
}

// HasOutput reports whether the instrument answers the command with a
// reply line. Action and set commands are fire-and-forget.
func (o Operation) HasOutput() bool {
	switch o.Kind {
	case OpReset, OpOutputOn, OpOutputOff,
		OpSetVolt, OpSetVoltLimit, OpSetCurrent, OpSetCurrentLimit:
		return false
	}
	return true
}

// ParseLine decodes a reply line, already stripped of its terminator.
// Operations without output decode every line to a nil Reply.
func (o Operation) ParseLine(line string) (Reply, error) {
	var (
		out Reply
		err error
	)
	switch o.Kind {
	case OpIdentify:
		out, err = parseIdentify(line)
	case OpOutput:
		out, err = parseBool(line)
	case OpVolt, OpVoltLimit, OpCurrent, OpCurrentLimit,
		OpMeasureVolt, OpMeasureCurrent, OpMeasurePower:
		out, err = parseFloat32(line)
	case OpMeasureAll:
		out, err = parseMeasureAll(line)
	case OpMeasureAllInfo:
		out, err = parseMeasureAllInfo(line)
	default:
		if !o.Kind.Valid() {
			return nil, &DecodeError{Command: o.Command(), Line: line}
		}
		return nil, nil
	}
	if err != nil {
		return nil, &DecodeError{Command: o.Command(), Line: line}
	}
	return out, nil
}

func parseIdentify(line string) (IdentifyInfo, error) {
	r := newFieldReader(line)
	_ = r.text() // vendor
	info := IdentifyInfo{
		Model:    r.text(),
		Serial:   r.text(),
		Firmware: r.text(),
	}
	return info, r.err
}

func parseMeasureAll(line string) (MeasureAllOutput, error) {
	r := newFieldReader(line)
	out := MeasureAllOutput{
		Volt:    r.float32(),
		Current: r.float32(),
	}
	return out, r.err
}

func parseMeasureAllInfo(line string) (MeasureAllInfoOutput, error) {
	r := newFieldReader(line)
	out := MeasureAllInfoOutput{
		Volt:            r.float32(),
		Current:         r.float32(),
		Power:           r.float32(),
		OverVoltage:     r.bool(),
		OverCurrent:     r.bool(),
		OverTemperature: r.bool(),
		Mode:            r.mode(),
	}
	return out, r.err
}
