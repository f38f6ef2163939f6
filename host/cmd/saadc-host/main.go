package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"saadc/host/monitor"
	"saadc/host/serial"
	"saadc/protocol"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Print every sample buffer, not just limit events")
)

func main() {
	flag.Parse()

	fmt.Println("ADC Stream Monitor")
	fmt.Println("==================")

	mon := monitor.New()
	mon.OnSamples(printSamples)
	mon.OnLimit(printLimit)

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Connecting to %s...\n", *device)
	if err := mon.ConnectWithConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer mon.Close()

	// Close the port on Ctrl-C so Run unblocks.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nShutting down...")
		mon.Close()
	}()

	if err := mon.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	stats := mon.Stats()
	fmt.Printf("Received %d frames, %d samples, %d limit events (%d sequence gaps, %d bad payloads)\n",
		stats.Frames, stats.Samples, stats.Limits, stats.SeqGaps, stats.BadPayload)
}

func printSamples(firstChannel uint8, values []int16) {
	if !*verbose {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "samples ch%d+:", firstChannel)
	for _, v := range values {
		fmt.Fprintf(&sb, " %6d", v)
	}
	fmt.Println(sb.String())
}

func printLimit(channel uint8, kind uint8) {
	name := "low"
	if kind == protocol.LimitKindHigh {
		name = "high"
	}
	fmt.Printf("limit: channel %d crossed %s threshold\n", channel, name)
}
