package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nsf/termbox-go"

	"github.com/bskari/flightcore/fc"
)

func main() {
	configPathPtr := flag.String("config", "", "Path to a TOML tuning file; defaults built in if empty")
	simPtr := flag.Bool("sim", true, "Run against the built-in simulated sources instead of real hardware")
	gyroHzPtr := flag.Float64("gyro-hz", 500, "Gyro loop rate in Hz")
	beaconPinPtr := flag.Int("beacon-pin", -1, "GPIO pin driving the status LED over go-rpio; -1 disables it")
	flag.Parse()

	cfg := fc.DefaultConfig()
	if *configPathPtr != "" {
		file, err := os.Open(*configPathPtr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to open config: %v\n", err)
			os.Exit(1)
		}
		loaded, err := fc.LoadConfig(file)
		file.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to parse config: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	if !*simPtr {
		fmt.Fprintln(os.Stderr, "hardware sources are not wired into this build; run with -sim")
		os.Exit(1)
	}

	gyro := &simGyro{}
	attitude := &simAttitude{}
	rx := newSimRx(cfg.Nav.MCHoverThrottle)
	position := &simPosition{}

	ctx := fc.NewControllerContext(cfg, gyro, attitude, rx, position, nil, nil)
	ctx.NavStateFlags = fc.NavCtlAlt

	mixer := &quadXMixer{}
	ctx.Mixer = mixer

	scheduler := fc.NewScheduler(ctx, *gyroHzPtr)

	var beacon *fc.StatusBeacon
	if *beaconPinPtr >= 0 {
		beaconPin, err := newRpioBeaconPin(*beaconPinPtr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to open beacon pin %d: %v\n", *beaconPinPtr, err)
			os.Exit(1)
		}
		beacon = fc.NewStatusBeacon(beaconPin)
	}

	if err := termbox.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "unable to start dashboard: %v\n", err)
		os.Exit(1)
	}
	defer termbox.Close()

	dashboard := NewDashboard(ctx)
	dashboard.Log("flightcore simulator armed")
	color.New(color.FgGreen).Println("flightcore simulator started; press any key to quit")

	eventQueue := make(chan termbox.Event)
	go func() {
		for {
			eventQueue <- termbox.PollEvent()
		}
	}()

	stop := make(chan struct{})
	go func() {
		<-eventQueue
		close(stop)
	}()

	if beacon != nil {
		go beacon.Run(stop)
	}

	for {
		select {
		case <-stop:
			return
		default:
			result := scheduler.Tick()
			mixer.Update(&ctx.Config, result)
			if beacon != nil {
				beacon.SetState(beaconStateFor(ctx, result))
			}
			dashboard.Draw(result)
		}
	}
}
