package fc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLoadConfiguration mirrors the teacher's TestTomlConfiguration:
// load a TOML document through LoadConfig and check a few fields
// landed where expected, rather than round-tripping every field.
func TestLoadConfiguration(t *testing.T) {
	doc := `
[pid]
p = [40, 40, 85, 50, 65, 35, 10, 20, 40, 100]
i = [30, 30, 45, 0, 0, 14, 5, 10, 0, 50]
d = [23, 23, 0, 0, 0, 0, 0, 0, 0, 10]
dterm_lpf_hz = 17
yaw_lpf_hz = 0
yaw_p_limit = 300
max_angle_inclination = [300, 300]
mag_hold_rate_limit = 90

[rate]
rates = [70, 70, 60]
dyn_thr_pid = 0
tpa_breakpoint = 1500

[rx]
mincheck = 1100
maxcheck = 1900
midrc = 1500

[esc_servo]
minthrottle = 1150
maxthrottle = 1850

[rc_controls]
alt_hold_deadband = 40
pos_hold_deadband = 20
deadband3d_throttle = 50

[nav]
mc_hover_throttle = 1500
mc_min_fly_throttle = 1200
mc_max_bank_angle = 30
max_manual_climb_rate = 200
max_manual_speed = 300
emerg_descent_rate = 500
use_thr_mid_for_althold = false
user_control_mode = "gps_cruise"
max_speed = 300
pos_response_expo = 0
pos_deceleration_time = 1.2
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	assert.NoError(t, err)
	assert.Equal(t, 40, cfg.PID.P8[PIDRoll])
	assert.Equal(t, 1500, cfg.Rx.MidRC)
	assert.Equal(t, 1150, cfg.EscServo.MinThrottle)
	assert.Equal(t, NavGPSCruise, cfg.Nav.UserControlMode)
	assert.InDelta(t, 1.2, cfg.Nav.PosDecelerationTime, 1e-9)
}

func TestLoadConfigurationDefaultsUserControlModeToGPSAtti(t *testing.T) {
	doc := `
[nav]
mc_hover_throttle = 1500
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	assert.NoError(t, err)
	assert.Equal(t, NavGPSAtti, cfg.Nav.UserControlMode)
}

func TestLoadConfigurationRejectsMalformedToml(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("not valid = = toml"))
	assert.Error(t, err)
}

func TestDefaultConfigIsUsable(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.EscServo.MaxThrottle, cfg.EscServo.MinThrottle)
	assert.Greater(t, cfg.Rx.MaxCheck, cfg.Rx.MinCheck)
	assert.Equal(t, NavGPSCruise, cfg.Nav.UserControlMode)
}
