// Package magheading adapts an HMC5883L magnetometer on I2C into an
// fc.MagSource, tilt-compensating the raw reading with the estimator's
// current roll/pitch so ReadHeadingDeg returns a true compass heading
// regardless of aircraft attitude.
package magheading

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/mmr"
)

// Rate selects the device's internal output data rate.
type Rate int

const (
	Rate0_75Hz Rate = 0x00
	Rate1_5Hz  Rate = 0x01
	Rate3Hz    Rate = 0x02
	Rate7_5Hz  Rate = 0x03
	Rate15Hz   Rate = 0x04
	Rate30Hz   Rate = 0x05
	Rate75Hz   Rate = 0x06
)

// Gain selects the device's measurement range; the multiplier
// converts a raw reading into milligauss.
type Gain int

const (
	Gain0_88Ga Gain = 0b000 << 5
	Gain1_3Ga  Gain = 0b001 << 5
	Gain1_9Ga  Gain = 0b010 << 5
	Gain2_5Ga  Gain = 0b011 << 5
	Gain4_0Ga  Gain = 0b100 << 5
	Gain4_7Ga  Gain = 0b101 << 5
	Gain5_6Ga  Gain = 0b110 << 5
	Gain8_1Ga  Gain = 0b111 << 5
)

// MeasurementMode selects continuous, single-shot, or idle sampling.
type MeasurementMode int

const (
	ModeContinuous MeasurementMode = 0
	ModeSingle     MeasurementMode = 1
	ModeIdle       MeasurementMode = 2
)

// SampleAveraging selects how many internal samples the device
// averages per reading.
type SampleAveraging int

const (
	Samples1 SampleAveraging = 0b00 << 5
	Samples2 SampleAveraging = 0b01 << 5
	Samples4 SampleAveraging = 0b10 << 5
	Samples8 SampleAveraging = 0b11 << 5
)

// AttitudeSource is the narrow tilt-compensation input this adapter
// needs. fc.AttitudeSource does not satisfy it directly (it returns an
// fc.AttitudeInput struct), so a caller wraps it.
type AttitudeSource interface {
	ReadAttitude() (rollDeg, pitchDeg float64, err error)
}

// HMC5883L drives the register-level protocol for the compass over
// I2C and exposes ReadHeadingDeg, implementing fc.MagSource.
type HMC5883L struct {
	mmr  mmr.Dev8
	gain Gain

	declinationDeg float64
	attitude       AttitudeSource
}

// New probes and configures an HMC5883L on bus, verifying the chip ID
// registers before touching anything else. declinationDeg corrects
// magnetic north to true north for the flying site; attitude supplies
// the tilt compensation, and may be nil to skip compensation (flat
// ground testing).
func New(bus i2c.Bus, declinationDeg float64, attitude AttitudeSource) (*HMC5883L, error) {
	device := &HMC5883L{
		mmr: mmr.Dev8{
			Conn:  &i2c.Dev{Bus: bus, Addr: uint16(readAddress)},
			Order: binary.BigEndian,
		},
		gain:           Gain1_3Ga,
		declinationDeg: declinationDeg,
		attitude:       attitude,
	}

	for reg, want := range map[uint8]uint8{
		identificationRegisterA: 0x48,
		identificationRegisterB: 0x34,
		identificationRegisterC: 0x33,
	} {
		got, err := device.mmr.ReadUint8(reg)
		if err != nil {
			return nil, err
		}
		if got != want {
			return nil, fmt.Errorf("magheading: no HMC5883L detected at register %#x: got %#x want %#x", reg, got, want)
		}
	}

	if err := device.SetRate(Rate15Hz); err != nil {
		return nil, err
	}
	if err := device.SetRange(Gain1_3Ga); err != nil {
		return nil, err
	}
	if err := device.SetMeasurementMode(ModeContinuous); err != nil {
		return nil, err
	}
	if err := device.SetSampleAveraging(Samples2); err != nil {
		return nil, err
	}

	return device, nil
}

// SetRate updates the output data rate without disturbing the
// averaging bits already set in the same register.
func (d *HMC5883L) SetRate(rate Rate) error {
	value, err := d.mmr.ReadUint8(configurationRegisterA)
	if err != nil {
		return err
	}
	value = value&0b11100011 | uint8(rate)<<2
	if err := d.mmr.WriteUint8(configurationRegisterA, value); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

// SetRange updates the measurement gain.
func (d *HMC5883L) SetRange(gain Gain) error {
	d.gain = gain
	if err := d.mmr.WriteUint8(configurationRegisterB, uint8(gain)); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

// SetMeasurementMode updates the sampling mode.
func (d *HMC5883L) SetMeasurementMode(mode MeasurementMode) error {
	if err := d.mmr.WriteUint8(modeRegister, uint8(mode)); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

// SetSampleAveraging updates the internal averaging count without
// disturbing the rate bits already set in the same register.
func (d *HMC5883L) SetSampleAveraging(samples SampleAveraging) error {
	value, err := d.mmr.ReadUint8(configurationRegisterA)
	if err != nil {
		return err
	}
	value = value&0b10011111 | uint8(samples)
	if err := d.mmr.WriteUint8(configurationRegisterA, value); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

// SenseRaw reads one X/Y/Z sample. The device's register layout
// interleaves Z between X and Y.
func (d *HMC5883L) SenseRaw() (x, y, z int16, err error) {
	var buffer [6]byte
	if err := d.mmr.Conn.Tx([]byte{dataOutputXMSBRegister}, buffer[:]); err != nil {
		return 0, 0, 0, err
	}
	reader := bytes.NewReader(buffer[:])
	if err := binary.Read(reader, binary.BigEndian, &x); err != nil {
		return 0, 0, 0, err
	}
	if err := binary.Read(reader, binary.BigEndian, &z); err != nil {
		return 0, 0, 0, err
	}
	if err := binary.Read(reader, binary.BigEndian, &y); err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

// ReadHeadingDeg implements fc.MagSource: it reads one raw sample,
// tilt-compensates it against the current roll/pitch, and returns a
// declination-corrected heading in [0, 360) degrees.
func (d *HMC5883L) ReadHeadingDeg() (float64, error) {
	x, y, z, err := d.SenseRaw()
	if err != nil {
		return 0, err
	}

	var rollRad, pitchRad float64
	if d.attitude != nil {
		rollDeg, pitchDeg, err := d.attitude.ReadAttitude()
		if err != nil {
			return 0, err
		}
		rollRad = rollDeg * math.Pi / 180.0
		pitchRad = pitchDeg * math.Pi / 180.0
	}

	xf, yf, zf := float64(x), float64(y), float64(z)
	xHorizontal := xf*math.Cos(pitchRad) + yf*math.Sin(rollRad)*math.Sin(pitchRad) - zf*math.Cos(rollRad)*math.Sin(pitchRad)
	yHorizontal := yf*math.Cos(rollRad) + zf*math.Sin(rollRad)

	headingDeg := math.Atan2(yHorizontal, xHorizontal)*180.0/math.Pi + d.declinationDeg
	for headingDeg < 0 {
		headingDeg += 360
	}
	for headingDeg >= 360 {
		headingDeg -= 360
	}
	return headingDeg, nil
}

func getGainMultiplier(gain Gain) float64 {
	switch gain {
	case Gain0_88Ga:
		return 0.073
	case Gain1_3Ga:
		return 0.92
	case Gain1_9Ga:
		return 1.22
	case Gain2_5Ga:
		return 1.52
	case Gain4_0Ga:
		return 2.27
	case Gain4_7Ga:
		return 2.56
	case Gain5_6Ga:
		return 3.03
	case Gain8_1Ga:
		return 4.35
	}
	return 0.92
}

// Register map, from the HMC5883L datasheet.
const (
	configurationRegisterA = 0
	configurationRegisterB = 1
	modeRegister            = 2
	dataOutputXMSBRegister = 3
	dataOutputZMSBRegister = 5
	dataOutputYMSBRegister = 7
	statusRegister          = 9
	identificationRegisterA = 10
	identificationRegisterB = 11
	identificationRegisterC = 12

	readAddress = 0x1E
)
