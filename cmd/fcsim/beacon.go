package main

import (
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/bskari/flightcore/fc"
)

// rpioBeaconPin adapts a go-rpio output pin to fc.BeaconPin, the same
// rpio.Pin usage control.go's NewControl drives a servo with, just
// toggled on/off instead of PWM'd.
type rpioBeaconPin struct {
	pin rpio.Pin
}

func newRpioBeaconPin(pinNumber int) (*rpioBeaconPin, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	pin := rpio.Pin(pinNumber)
	pin.Output()
	return &rpioBeaconPin{pin: pin}, nil
}

func (p *rpioBeaconPin) High() { p.pin.High() }
func (p *rpioBeaconPin) Low()  { p.pin.Low() }

// beaconStateFor picks the blink pattern a status beacon should show
// for the current tick, mirroring glide.go's IsPi/button-driven LED
// feedback but keyed off the flight controller's own state instead of
// a physical button.
func beaconStateFor(ctx *fc.ControllerContext, result fc.TickResult) fc.BeaconState {
	switch {
	case ctx.NavStateFlags.Has(fc.NavCtlEmerg):
		return fc.BeaconEmergency
	case result.Landed:
		return fc.BeaconLanded
	case ctx.ModeFlags.Has(fc.Armed):
		return fc.BeaconArmed
	default:
		return fc.BeaconDisarmed
	}
}
