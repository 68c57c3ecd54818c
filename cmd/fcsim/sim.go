package main

import (
	"math/rand"
	"time"

	"github.com/bskari/flightcore/fc"
)

// simClock drives every simulated source's deterministic-ish timing,
// mirroring dump_sensors.go's dummyReader pattern of faking a sensor
// feed when no hardware is present.
type simClock struct {
	start time.Time
}

func newSimClock() *simClock { return &simClock{start: time.Now()} }

// simGyro synthesizes a gyro signal that settles toward zero rate,
// standing in for a real IMU during bench testing.
type simGyro struct {
	rate [3]float64
}

func (s *simGyro) ReadGyro() (fc.GyroInput, error) {
	for axis := 0; axis < 3; axis++ {
		s.rate[axis] += (rand.Float64() - 0.5) * 2.0
		s.rate[axis] *= 0.95
	}
	return fc.GyroInput{Rate: s.rate}, nil
}

// simAttitude tracks a slowly drifting level attitude.
type simAttitude struct {
	rollDeci, pitchDeci, yawDeci float64
}

func (s *simAttitude) ReadAttitude() (fc.AttitudeInput, error) {
	s.rollDeci *= 0.98
	s.pitchDeci *= 0.98
	return fc.AttitudeInput{Angle: [2]float64{s.rollDeci, s.pitchDeci}, YawDeci: s.yawDeci}, nil
}

// simRx holds the stick centered, throttle at hover, with ANGLE mode
// and ARMED set, standing in for an RC receiver.
type simRx struct {
	throttle int
}

func newSimRx(hoverThrottle int) *simRx { return &simRx{throttle: hoverThrottle} }

func (s *simRx) ReadRx() (fc.RxInput, fc.ModeFlags, error) {
	rx := fc.RxInput{Throttle: s.throttle}
	flags := fc.AngleMode | fc.Armed | fc.SmallAngle
	return rx, flags, nil
}

// simPosition holds a fixed GPS-denied position with no valid sensor,
// forcing the horizontal cascade into bypass, matching the "loss of
// position fix" degraded mode spec §4.4 describes.
type simPosition struct{}

func (s *simPosition) ReadPosition() (fc.NavActualState, fc.NavSensorFlags, error) {
	return fc.NavActualState{}, fc.NavSensorFlags{}, nil
}
