// Package blackboxserial writes fc.Snapshot records to a serial port
// as CSV lines, implementing fc.BlackboxSink. It is the diagnostic
// sink spec §6 describes as optional — a flight can run with
// Blackbox left nil.
package blackboxserial

import (
	"fmt"
	"io"

	"github.com/tarm/serial"

	"github.com/bskari/flightcore/fc"
)

// Sink writes one CSV line per tick to an open serial port, matching
// telemetry.go's tarm/serial usage pattern (that file opens the GPS
// port the same way; this one is the write side).
type Sink struct {
	port io.WriteCloser
}

// Open opens portName at baud for writing.
func Open(portName string, baud int) (*Sink, error) {
	cfg := &serial.Config{Name: portName, Baud: baud}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &Sink{port: port}, nil
}

// Write implements fc.BlackboxSink.
func (s *Sink) Write(snap fc.Snapshot) error {
	_, err := fmt.Fprintf(s.port, "%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
		snap.TimeMicros,
		snap.AxisPID[0], snap.AxisPID[1], snap.AxisPID[2],
		snap.AxisPIDP[0], snap.AxisPIDP[1], snap.AxisPIDP[2],
		snap.AxisPIDI[0], snap.AxisPIDI[1], snap.AxisPIDI[2],
		snap.AxisPIDD[0], snap.AxisPIDD[1], snap.AxisPIDD[2],
		snap.Throttle,
	)
	return err
}

// Close releases the underlying serial port.
func (s *Sink) Close() error {
	return s.port.Close()
}
