package nmeaposition

import (
	"math"
	"strings"
	"testing"
)

const sentenceRMC = "$GPRMC,081836,A,3700.00,N,13300.00,W,000.0,360.0,130998,011.3,E*69\n"
const sentenceGGA = "$GPGGA,134658.00,4300.00,S,04000,E,2,09,1.0,1048.47,M,-16.27,M,08,AAAA*43\n"
const sentenceVTG = "$GPVTG,054.7,T,034.4,M,005.5,N,007.2,K*4E\n"

func TestReadPositionFirstFixBecomesOrigin(t *testing.T) {
	src := NewFromReader(strings.NewReader(sentenceRMC))
	actual, sensors, err := src.ReadPosition()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sensors.HasValidPositionSensor {
		t.Fatalf("expected a valid position sensor after the first fix")
	}
	if math.Abs(actual.Pos.X) > 1e-6 || math.Abs(actual.Pos.Y) > 1e-6 {
		t.Errorf("expected the first fix to project to the origin, got %+v", actual.Pos)
	}
}

func TestReadPositionParsesAltitudeAndSpeed(t *testing.T) {
	src := NewFromReader(strings.NewReader(sentenceRMC + sentenceGGA + sentenceVTG))
	actual, sensors, err := src.ReadPosition()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sensors.HasValidAltitudeSensor {
		t.Fatalf("expected a valid altitude sensor with a locked fix")
	}
	if actual.VelXY <= 0 {
		t.Errorf("expected a positive horizontal speed from the VTG sentence, got %v", actual.VelXY)
	}
}

func TestReadPositionWithoutLockReturnsNoSensors(t *testing.T) {
	src := NewFromReader(strings.NewReader(""))
	actual, sensors, err := src.ReadPosition()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sensors.HasValidPositionSensor {
		t.Errorf("expected no valid position sensor without any fix, got %+v / %+v", actual, sensors)
	}
}

func TestProjectNEDSecondFixOffsetFromOrigin(t *testing.T) {
	src := NewFromReader(strings.NewReader(sentenceRMC))
	src.ReadPosition()

	north, east := src.projectNED(Fix{LatitudeDeg: 38.0, LongitudeDeg: -133.0})
	if north <= 0 {
		t.Errorf("expected a positive northward offset for a fix one degree further north, got %v", north)
	}
	if math.Abs(east) > 1e-6 {
		t.Errorf("expected zero east offset for a fix at the same longitude, got %v", east)
	}
}
