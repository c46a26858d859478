package spe

type DataBits int

func (d DataBits) Int() int {
	return int(d)
}

const (
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)
