package magheading

import "testing"

func TestGetGainMultiplierKnownGains(t *testing.T) {
	cases := map[Gain]float64{
		Gain0_88Ga: 0.073,
		Gain1_3Ga:  0.92,
		Gain8_1Ga:  4.35,
	}
	for gain, want := range cases {
		if got := getGainMultiplier(gain); got != want {
			t.Errorf("getGainMultiplier(%v) = %v, want %v", gain, got, want)
		}
	}
}

func TestGetGainMultiplierUnknownGainDefaultsTo1_3(t *testing.T) {
	if got := getGainMultiplier(Gain(0xFF)); got != 0.92 {
		t.Errorf("expected the 1.3Ga default for an unrecognized gain, got %v", got)
	}
}
