package spe_test

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/spe"
)

func Example() {
	logger := logrus.New()

	client, err := spe.Open(spe.DefaultSerialConfig("/dev/ttyUSB0"), spe.WithLogger(logger))
	if err != nil {
		fmt.Println("open error:", err)
		return
	}
	defer client.Close()

	if err = client.SetVolt(5); err != nil {
		fmt.Println("set error:", err)
		return
	}
	info, err := client.MeasureAllInfo()
	if err != nil {
		fmt.Println("measure error:", err)
		return
	}
	fmt.Printf("%.3fV %.3fA %s\n", info.Volt, info.Current, info.Mode)
}

func ExampleAsyncSPE() {
	client, err := spe.OpenAsync(spe.DefaultSerialConfig("/dev/ttyUSB0"))
	if err != nil {
		fmt.Println("open error:", err)
		return
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	on, err := client.Output(ctx)
	if err != nil {
		fmt.Println("query error:", err)
		return
	}
	fmt.Println("output on:", on)
}
