// Package nmeaposition adapts a GPS feed speaking NMEA 0183 over a
// serial port into fc.PositionSource: it parses $GPRMC/$GPGGA/$GPVTG
// sentences and projects the resulting lat/lon fix onto a local NED
// plane centered on the first fix it receives.
package nmeaposition

import (
	"bufio"
	"io"
	"math"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"

	"github.com/bskari/flightcore/fc"
)

// earthRadiusM is the mean earth radius used by the equirectangular
// projection, matching the source's RADIUS_M.
const earthRadiusM = 6371e3

// Fix is one parsed GPS sample.
type Fix struct {
	LatitudeDeg, LongitudeDeg float64
	AltitudeM                 float64
	SpeedMPS                  float64
	HasLock                   bool
}

// Source reads NMEA sentences from a serial GPS, converts fixes to a
// local NED frame, and implements fc.PositionSource.
type Source struct {
	reader *bufio.Reader

	origin      Fix
	haveOrigin  bool
	cosOriginLat float64

	recent      Fix
	lastFixTime time.Time
}

// Open opens the serial port and returns a Source reading from it.
// portName/baud are passed straight through to tarm/serial, matching
// telemetry.go's GPS port setup.
func Open(portName string, baud int) (*Source, error) {
	cfg := &serial.Config{Name: portName, Baud: baud, ReadTimeout: 0}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &Source{reader: bufio.NewReader(port)}, nil
}

// NewFromReader wraps an already-open reader, useful for tests and
// for simulation where the GPS feed is a recorded sentence log.
func NewFromReader(r io.Reader) *Source {
	return &Source{reader: bufio.NewReader(r)}
}

// ReadPosition implements fc.PositionSource: it drains every queued
// sentence, updates the local NED projection from the most recent
// fix, and reports sensor-validity flags.
func (s *Source) ReadPosition() (fc.NavActualState, fc.NavSensorFlags, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fc.NavActualState{}, fc.NavSensorFlags{}, err
		}
		s.parseSentence(strings.TrimSpace(line))
	}

	var actual fc.NavActualState
	var sensors fc.NavSensorFlags

	if !s.recent.HasLock {
		return actual, sensors, nil
	}

	if !s.haveOrigin {
		s.origin = s.recent
		s.cosOriginLat = math.Cos(toRadians(s.origin.LatitudeDeg))
		s.haveOrigin = true
	}

	north, east := s.projectNED(s.recent)
	actual.Pos.X = north
	actual.Pos.Y = east
	actual.Pos.Z = s.recent.AltitudeM * 100.0
	actual.VelXY = s.recent.SpeedMPS * 100.0

	sensors.HasValidPositionSensor = true
	sensors.HasValidAltitudeSensor = true
	sensors.HorizontalPositionDataNew = true
	sensors.VerticalPositionDataNew = true

	return actual, sensors, nil
}

// projectNED implements the equirectangular projection used by
// navigation.go's equirectangularDistance/latitudeDistance/
// longitudeDistance, centered on s.origin, and returns centimeters.
func (s *Source) projectNED(fix Fix) (north, east float64) {
	north = toRadians(fix.LatitudeDeg-s.origin.LatitudeDeg) * earthRadiusM * 100.0
	east = toRadians(fix.LongitudeDeg-s.origin.LongitudeDeg) * s.cosOriginLat * earthRadiusM * 100.0
	return north, east
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// parseSentence mirrors telemetry.go's parseSentence dispatch over
// the subset of NMEA talkers this core needs.
func (s *Source) parseSentence(sentence string) {
	if strings.HasPrefix(sentence, "$GPRMC") {
		parsed, err := nmea.Parse(sentence)
		if err != nil {
			return
		}
		msg := parsed.(nmea.RMC)
		s.recent.HasLock = msg.Validity == nmea.ValidRMC
		s.recent.LatitudeDeg = msg.Latitude
		s.recent.LongitudeDeg = msg.Longitude
		s.lastFixTime = time.Now()
	} else if strings.HasPrefix(sentence, "$GPGGA") {
		parsed, err := nmea.Parse(sentence)
		if err != nil {
			return
		}
		msg := parsed.(nmea.GGA)
		s.recent.LatitudeDeg = msg.Latitude
		s.recent.LongitudeDeg = msg.Longitude
		s.recent.AltitudeM = msg.Altitude
	} else if strings.HasPrefix(sentence, "$GPVTG") {
		parsed, err := nmea.Parse(sentence)
		if err != nil {
			return
		}
		msg := parsed.(nmea.VTG)
		s.recent.SpeedMPS = msg.GroundSpeedKPH * 1000.0 / 3600.0
	}
}
