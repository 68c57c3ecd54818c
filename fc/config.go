package fc

import (
	"io"

	"github.com/BurntSushi/toml"
)

// PIDIndex enumerates the ten gain slots carried in a PIDProfile,
// mirroring the source firmware's pidIndex_e. Most are per-axis rate
// gains; a few (PIDLEVEL, PIDMAG, PIDPOS, PIDPOSR, PIDALT, PIDVEL) are
// shared tuning slots consumed by the outer loop and the self-level /
// heading-lock stages of the inner loop.
type PIDIndex int

const (
	PIDRoll PIDIndex = iota
	PIDPitch
	PIDYaw
	PIDAlt
	PIDPos
	PIDPosR
	PIDNavR
	PIDLevel
	PIDMag
	PIDVel
	pidItemCount
)

// UserControlMode selects how pilot stick input is interpreted while
// the horizontal position controller is active.
type UserControlMode int

const (
	NavGPSAtti UserControlMode = iota
	NavGPSCruise
)

// PIDProfile is the Go-native form of the source's pidProfile_t: ten
// gain slots plus the filter/limit knobs the inner loop reads.
type PIDProfile struct {
	P8 [pidItemCount]int
	I8 [pidItemCount]int
	D8 [pidItemCount]int

	DtermLPFHz        int
	YawLPFHz          int
	YawPLimit         int
	MaxAngleInclination [2]int // [Roll, Pitch], deci-degrees
	MagHoldRateLimit  int
}

// ControlRateConfig carries the per-axis stick-to-rate scaling and
// the TPA (thrust PID attenuation) knobs.
type ControlRateConfig struct {
	Rates        [3]int
	DynThrPID    int
	TPABreakpoint int
}

// RxConfig describes the RC receiver's calibrated stick range.
type RxConfig struct {
	MinCheck int
	MaxCheck int
	MidRC    int
}

// EscAndServoConfig bounds the throttle value sent to the mixer.
type EscAndServoConfig struct {
	MinThrottle int
	MaxThrottle int
}

// RcControlsConfig carries the deadbands applied to pilot-override
// stick interpretation.
type RcControlsConfig struct {
	AltHoldDeadband     int
	PosHoldDeadband     int
	Deadband3DThrottle  int
}

// NavConfig carries the multirotor-specific outer-loop tuning knobs.
type NavConfig struct {
	MCHoverThrottle     int
	MCMinFlyThrottle    int
	MCMaxBankAngle      int // degrees
	MaxManualClimbRate  float64
	MaxManualSpeed      float64
	EmergDescentRate    float64
	UseThrMidForAltHold bool
	UserControlMode     UserControlMode

	MaxSpeed            float64
	PosResponseExpo     float64
	PosDecelerationTime float64
}

// Config bundles every tunable the core reads. A Config value is
// immutable once loaded: every stage takes the slice of Config it
// needs as a parameter rather than reading from a package-level
// mutable global, per the Design Notes.
type Config struct {
	PID        PIDProfile
	Rate       ControlRateConfig
	Rx         RxConfig
	EscServo   EscAndServoConfig
	RcControls RcControlsConfig
	Nav        NavConfig
}

// tomlConfig is the on-disk shape; it exists separately from Config
// so the TOML tags can stay terse while Config's Go field names stay
// idiomatic.
type tomlConfig struct {
	PID struct {
		P                   [pidItemCount]int `toml:"p"`
		I                   [pidItemCount]int `toml:"i"`
		D                   [pidItemCount]int `toml:"d"`
		DtermLPFHz          int               `toml:"dterm_lpf_hz"`
		YawLPFHz            int               `toml:"yaw_lpf_hz"`
		YawPLimit           int               `toml:"yaw_p_limit"`
		MaxAngleInclination [2]int            `toml:"max_angle_inclination"`
		MagHoldRateLimit    int               `toml:"mag_hold_rate_limit"`
	} `toml:"pid"`
	Rate struct {
		Rates         [3]int `toml:"rates"`
		DynThrPID     int    `toml:"dyn_thr_pid"`
		TPABreakpoint int    `toml:"tpa_breakpoint"`
	} `toml:"rate"`
	Rx struct {
		MinCheck int `toml:"mincheck"`
		MaxCheck int `toml:"maxcheck"`
		MidRC    int `toml:"midrc"`
	} `toml:"rx"`
	EscServo struct {
		MinThrottle int `toml:"minthrottle"`
		MaxThrottle int `toml:"maxthrottle"`
	} `toml:"esc_servo"`
	RcControls struct {
		AltHoldDeadband    int `toml:"alt_hold_deadband"`
		PosHoldDeadband    int `toml:"pos_hold_deadband"`
		Deadband3DThrottle int `toml:"deadband3d_throttle"`
	} `toml:"rc_controls"`
	Nav struct {
		MCHoverThrottle     int     `toml:"mc_hover_throttle"`
		MCMinFlyThrottle    int     `toml:"mc_min_fly_throttle"`
		MCMaxBankAngle      int     `toml:"mc_max_bank_angle"`
		MaxManualClimbRate  float64 `toml:"max_manual_climb_rate"`
		MaxManualSpeed      float64 `toml:"max_manual_speed"`
		EmergDescentRate    float64 `toml:"emerg_descent_rate"`
		UseThrMidForAltHold bool    `toml:"use_thr_mid_for_althold"`
		UserControlMode     string  `toml:"user_control_mode"` // "gps_atti" | "gps_cruise"
		MaxSpeed            float64 `toml:"max_speed"`
		PosResponseExpo     float64 `toml:"pos_response_expo"`
		PosDecelerationTime float64 `toml:"pos_deceleration_time"`
	} `toml:"nav"`
}

// LoadConfig decodes a TOML document into a Config. The file layout
// mirrors the source firmware's CLI "set" namespace so a Cleanflight
// dump is mechanically translatable to this format.
func LoadConfig(r io.Reader) (*Config, error) {
	var raw tomlConfig
	if _, err := toml.DecodeReader(r, &raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		PID: PIDProfile{
			P8:                  raw.PID.P,
			I8:                  raw.PID.I,
			D8:                  raw.PID.D,
			DtermLPFHz:          raw.PID.DtermLPFHz,
			YawLPFHz:            raw.PID.YawLPFHz,
			YawPLimit:           raw.PID.YawPLimit,
			MaxAngleInclination: raw.PID.MaxAngleInclination,
			MagHoldRateLimit:    raw.PID.MagHoldRateLimit,
		},
		Rate: ControlRateConfig{
			Rates:         raw.Rate.Rates,
			DynThrPID:     raw.Rate.DynThrPID,
			TPABreakpoint: raw.Rate.TPABreakpoint,
		},
		Rx: RxConfig{
			MinCheck: raw.Rx.MinCheck,
			MaxCheck: raw.Rx.MaxCheck,
			MidRC:    raw.Rx.MidRC,
		},
		EscServo: EscAndServoConfig{
			MinThrottle: raw.EscServo.MinThrottle,
			MaxThrottle: raw.EscServo.MaxThrottle,
		},
		RcControls: RcControlsConfig{
			AltHoldDeadband:    raw.RcControls.AltHoldDeadband,
			PosHoldDeadband:    raw.RcControls.PosHoldDeadband,
			Deadband3DThrottle: raw.RcControls.Deadband3DThrottle,
		},
		Nav: NavConfig{
			MCHoverThrottle:     raw.Nav.MCHoverThrottle,
			MCMinFlyThrottle:    raw.Nav.MCMinFlyThrottle,
			MCMaxBankAngle:      raw.Nav.MCMaxBankAngle,
			MaxManualClimbRate:  raw.Nav.MaxManualClimbRate,
			MaxManualSpeed:      raw.Nav.MaxManualSpeed,
			EmergDescentRate:    raw.Nav.EmergDescentRate,
			UseThrMidForAltHold: raw.Nav.UseThrMidForAltHold,
			MaxSpeed:            raw.Nav.MaxSpeed,
			PosResponseExpo:     raw.Nav.PosResponseExpo,
			PosDecelerationTime: raw.Nav.PosDecelerationTime,
		},
	}
	if raw.Nav.UserControlMode == "gps_cruise" {
		cfg.Nav.UserControlMode = NavGPSCruise
	} else {
		cfg.Nav.UserControlMode = NavGPSAtti
	}
	return cfg, nil
}

// DefaultConfig returns the tuning values the source firmware ships
// as defaults, useful for tests and for cmd/fcsim's simulation
// mode when no TOML file is supplied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.PID.P8 = [pidItemCount]int{40, 40, 85, 50, 65, 35, 10, 20, 40, 100}
	cfg.PID.I8 = [pidItemCount]int{30, 30, 45, 0, 0, 14, 5, 10, 0, 50}
	cfg.PID.D8 = [pidItemCount]int{23, 23, 0, 0, 0, 0, 0, 0, 0, 10}
	cfg.PID.DtermLPFHz = 17
	cfg.PID.YawLPFHz = 0
	cfg.PID.YawPLimit = 300
	cfg.PID.MaxAngleInclination = [2]int{300, 300}
	cfg.PID.MagHoldRateLimit = 90

	cfg.Rate.Rates = [3]int{70, 70, 60}
	cfg.Rate.DynThrPID = 0
	cfg.Rate.TPABreakpoint = 1500

	cfg.Rx.MinCheck = 1100
	cfg.Rx.MaxCheck = 1900
	cfg.Rx.MidRC = 1500

	cfg.EscServo.MinThrottle = 1150
	cfg.EscServo.MaxThrottle = 1850

	cfg.RcControls.AltHoldDeadband = 40
	cfg.RcControls.PosHoldDeadband = 20
	cfg.RcControls.Deadband3DThrottle = 50

	cfg.Nav.MCHoverThrottle = 1500
	cfg.Nav.MCMinFlyThrottle = 1200
	cfg.Nav.MCMaxBankAngle = 30
	cfg.Nav.MaxManualClimbRate = 200
	cfg.Nav.MaxManualSpeed = 300
	cfg.Nav.EmergDescentRate = 500
	cfg.Nav.UseThrMidForAltHold = false
	cfg.Nav.UserControlMode = NavGPSCruise
	cfg.Nav.MaxSpeed = 300
	cfg.Nav.PosResponseExpo = 0
	cfg.Nav.PosDecelerationTime = 1.2
	return cfg
}
