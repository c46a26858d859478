package spe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	op    Operation
	reply Reply
	kind  string // "", "io" or "decode"
}

// The blocking and context-aware clients must agree call for call.
func TestClientsAgree(t *testing.T) {
	scenarios := []struct {
		name  string
		setup func(dev *fakeInstrument)
		steps []step
	}{
		{
			name: "identify and measure",
			steps: []step{
				{op: IdentifyOp(), reply: IdentifyInfo{Model: "SPE1234", Serial: "SN001", Firmware: "1.0.2"}},
				{op: MeasureVoltOp(), reply: float32(4.987)},
				{op: MeasureCurrentOp(), reply: float32(0.514)},
				{op: MeasurePowerOp(), reply: float32(2.56)},
				{op: MeasureAllOp(), reply: MeasureAllOutput{Volt: 1, Current: 2}},
				{op: MeasureAllInfoOp(), reply: MeasureAllInfoOutput{
					Volt: 4.987, Current: 0.514, Power: 2.56, Mode: ModeConstantVoltage,
				}},
			},
		},
		{
			name: "set then query",
			steps: []step{
				{op: SetVoltOp(12.5)},
				{op: VoltOp(), reply: float32(12.5)},
				{op: SetVoltLimitOp(20)},
				{op: VoltLimitOp(), reply: float32(20)},
				{op: SetCurrentOp(0.25)},
				{op: CurrentOp(), reply: float32(0.25)},
				{op: SetCurrentLimitOp(2.5)},
				{op: CurrentLimitOp(), reply: float32(2.5)},
				{op: OutputOp(), reply: false},
				{op: OutputOnOp()},
				{op: OutputOp(), reply: true},
				{op: OutputOffOp()},
				{op: OutputOp(), reply: false},
				{op: ResetOp()},
				{op: VoltOp(), reply: float32(0)},
			},
		},
		{
			name: "decode errors do not poison",
			setup: func(dev *fakeInstrument) {
				dev.reply("MEAS:ALL:INFO?", "4.987,0.514,2.560,OFF,OFF,OFF,9")
				dev.reply("*IDN?", "OWON,SPE1234")
				dev.reply("MEAS:VOLT?", "n/a")
			},
			steps: []step{
				{op: MeasureAllInfoOp(), kind: "decode"},
				{op: IdentifyOp(), kind: "decode"},
				{op: MeasureVoltOp(), kind: "decode"},
				{op: OutputOp(), reply: false},
				{op: MeasureAllOp(), reply: MeasureAllOutput{Volt: 1, Current: 2}},
			},
		},
		{
			name: "hangup mid reply",
			setup: func(dev *fakeInstrument) {
				dev.hangup("MEAS:ALL?", "1.00")
			},
			steps: []step{
				{op: MeasureVoltOp(), reply: float32(4.987)},
				{op: MeasureAllOp(), kind: "io"},
				{op: MeasureVoltOp(), kind: "io"},
			},
		},
	}

	for _, sc := range scenarios {
		for _, h := range harnesses {
			t.Run(sc.name+"/"+h.name, func(t *testing.T) {
				dev := newFakeInstrument()
				if sc.setup != nil {
					sc.setup(dev)
				}
				exec := h.open(t, dev)

				for i, st := range sc.steps {
					got, err := exec(st.op)
					require.Equal(t, st.kind, errorKind(err), "step %d (%s): %v", i, st.op.Kind, err)
					if st.kind == "" {
						assert.Equal(t, st.reply, got, "step %d (%s)", i, st.op.Kind)
					} else {
						assert.Nil(t, got, "step %d (%s)", i, st.op.Kind)
					}
				}
			})
		}
	}
}

// Every operation sends exactly one command, and only queries read.
func TestClientsSendOneCommandPerCall(t *testing.T) {
	ops := []Operation{
		IdentifyOp(), ResetOp(), OutputOnOp(), OutputOffOp(), OutputOp(),
		SetVoltOp(1), SetVoltLimitOp(2), SetCurrentOp(3), SetCurrentLimitOp(4),
		VoltOp(), VoltLimitOp(), CurrentOp(), CurrentLimitOp(),
		MeasureVoltOp(), MeasureCurrentOp(), MeasurePowerOp(),
		MeasureAllOp(), MeasureAllInfoOp(),
	}

	for _, h := range harnesses {
		t.Run(h.name, func(t *testing.T) {
			dev := newFakeInstrument()
			exec := h.open(t, dev)

			var want []string
			for _, op := range ops {
				_, err := exec(op)
				require.NoError(t, err, op.Kind.String())
				want = append(want, op.Command())
			}
			assert.Equal(t, want, dev.commands())
		})
	}
}
