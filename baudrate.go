package spe

type BaudRate int

func (b BaudRate) Int() int {
	return int(b)
}

const (
	Baud9600   BaudRate = 9600
	Baud19200  BaudRate = 19200
	Baud38400  BaudRate = 38400
	Baud57600  BaudRate = 57600
	Baud115200 BaudRate = 115200
)

// DefaultBaudRate is the rate the SPE series ships with.
const DefaultBaudRate = Baud115200

var validBaudRates = []BaudRate{Baud9600, Baud19200, Baud38400, Baud57600, Baud115200}

func (b BaudRate) Valid() bool {
	for _, v := range validBaudRates {
		if b == v {
			return true
		}
	}
	return false
}
