package spe

// Reply is the decoded result of an operation. Its dynamic type is one of
// IdentifyInfo, bool, float32, MeasureAllOutput or MeasureAllInfoOutput,
// or nil for operations that expect no reply.
type Reply interface{}

// IdentifyInfo is the decoded *IDN? reply. The vendor field is dropped.
type IdentifyInfo struct {
	Model    string `json:"model"`
	Serial   string `json:"serial"`
	Firmware string `json:"firmware"`
}

// MeasureAllOutput is the decoded MEAS:ALL? reply.
type MeasureAllOutput struct {
	Volt    float32 `json:"volt"`
	Current float32 `json:"current"`
}

// MeasureAllInfoOutput is the decoded MEAS:ALL:INFO? reply.
type MeasureAllInfoOutput struct {
	Volt            float32 `json:"volt"`
	Current         float32 `json:"current"`
	Power           float32 `json:"power"`
	OverVoltage     bool    `json:"over_voltage"`
	OverCurrent     bool    `json:"over_current"`
	OverTemperature bool    `json:"over_temperature"`
	Mode            Mode    `json:"mode"`
}

// Mode is the operating state reported by MEAS:ALL:INFO?.
type Mode int

const (
	ModeStandby Mode = iota
	ModeConstantVoltage
	ModeConstantCurrent
	ModeFailed
)

// Valid reports whether m is one of the four wire values.
func (m Mode) Valid() bool {
	return m >= ModeStandby && m <= ModeFailed
}

func (m Mode) String() string {
	switch m {
	case ModeStandby:
		return "Standby"
	case ModeConstantVoltage:
		return "Constant Voltage"
	case ModeConstantCurrent:
		return "Constant Current"
	case ModeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
