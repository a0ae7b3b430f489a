// Command trexctl is a standalone diagnostics tool for the quadruped's debug
// UART — a serial line separate from the I²C servo/power buses, used to
// dump raw calibration telemetry while bench-testing a leg. Modeled on the
// teacher's cmd/cli read_servo.go/raw_servo.go one-shot debug tools.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.bug.st/serial"
)

func main() {
	port := flag.String("port", "/dev/ttyUSB0", "debug UART device path")
	baud := flag.Int("baud", 115200, "baud rate")
	timeout := flag.Duration("timeout", 2*time.Second, "read timeout per line")
	flag.Parse()

	mode := &serial.Mode{
		BaudRate: *baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	conn, err := serial.Open(*port, mode)
	if err != nil {
		log.Fatalf("opening %s: %v", *port, err)
	}
	defer conn.Close()

	if err := conn.SetReadTimeout(*timeout); err != nil {
		log.Fatalf("setting read timeout: %v", err)
	}

	fmt.Printf("trexctl: listening on %s at %d baud (Ctrl-C to stop)\n", *port, *baud)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "trexctl: read error: %v\n", err)
		os.Exit(1)
	}
}
