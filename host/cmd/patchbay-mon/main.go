// patchbay-mon tails the device's debug console over a serial port,
// timestamping each line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"patchbay/host/serial"
)

func main() {
	device := flag.String("device", "/dev/ttyACM0", "serial device path")
	baud := flag.Int("baud", 115200, "baud rate")
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = 0 // block on reads, we only tail

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *device, err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("connected to %s at %d baud\n", *device, *baud)

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		fmt.Printf("%s  %s\n", time.Now().Format("15:04:05.000"), scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
}
