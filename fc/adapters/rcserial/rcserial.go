// Package rcserial adapts an RC receiver speaking a simple framed
// serial protocol (four channel values per frame) into fc.RxSource.
// Stick scaling and curve lookup tables are out of scope for this
// core (spec §1); this adapter only centers the stick around midrc
// and hands back raw microsecond-ish values plus the mode flags a
// separate switch-channel decode derives.
package rcserial

import (
	"encoding/binary"
	"io"

	"github.com/tarm/serial"

	"github.com/bskari/flightcore/fc"
)

// frameLen is four uint16 channel values: roll, pitch, yaw, throttle.
const frameLen = 8

// Source reads fixed-length RC frames from a serial receiver and
// implements fc.RxSource.
type Source struct {
	port   io.ReadWriteCloser
	midRC  int
	deadband3D int

	switchChannel func(raw [4]uint16) fc.ModeFlags
}

// Open opens portName via tarm/serial at baud and returns a
// Source. switchChannel, if non-nil, derives ModeFlags from the raw
// channel values (e.g. a 5th AUX channel this simple 4-channel frame
// doesn't carry would be read by a fuller decoder; tests typically
// supply a stub).
func Open(portName string, baud, midRC, deadband3D int, switchChannel func(raw [4]uint16) fc.ModeFlags) (*Source, error) {
	cfg := &serial.Config{Name: portName, Baud: baud}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &Source{port: port, midRC: midRC, deadband3D: deadband3D, switchChannel: switchChannel}, nil
}

// ReadRx implements fc.RxSource: it reads one frame, centers roll/
// pitch/yaw around midRC, and leaves throttle as the raw receiver
// value for the altitude cascade to interpret.
func (s *Source) ReadRx() (fc.RxInput, fc.ModeFlags, error) {
	var buf [frameLen]byte
	if _, err := io.ReadFull(s.port, buf[:]); err != nil {
		return fc.RxInput{}, 0, err
	}

	var raw [4]uint16
	for i := 0; i < 4; i++ {
		raw[i] = binary.LittleEndian.Uint16(buf[i*2 : i*2+2])
	}

	var rx fc.RxInput
	rx.Stick[fc.Roll] = int(raw[0]) - s.midRC
	rx.Stick[fc.Pitch] = int(raw[1]) - s.midRC
	rx.Stick[fc.Yaw] = int(raw[2]) - s.midRC
	rx.Throttle = int(raw[3])

	var flags fc.ModeFlags
	if s.switchChannel != nil {
		flags = s.switchChannel(raw)
	}
	return rx, flags, nil
}

// Close releases the underlying serial port.
func (s *Source) Close() error {
	return s.port.Close()
}
