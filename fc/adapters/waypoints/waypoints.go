// Package waypoints adapts a simple lat/lon waypoint list into the
// desired-position targets the horizontal cascade (fc.PositionController)
// consumes, projected into the same local NED frame the position
// source uses.
package waypoints

import "math"

// earthRadiusM mirrors navigation.go's RADIUS_M.
const earthRadiusM = 6371e3

// Point is one waypoint, in WGS84 degrees. SpeedCMS is the cruise
// speed for the leg ending at this waypoint (cm/s); zero means "use
// the configured max speed instead", matching getActiveWaypointSpeed's
// below-50cm/s-is-invalid fallback.
type Point struct {
	LatitudeDeg, LongitudeDeg float64
	SpeedCMS                  float64
}

// List walks through an initial leg once, then repeats a loop of
// waypoints, matching waypoints.go's first/repeating split.
type List struct {
	first     []Point
	repeating []Point
	index     int

	inRange          bool
	previousDistance float64

	reachedDistanceM float64
	inRangeDistanceM float64
}

// New builds a List. reachedDistanceM is how close counts as "hit";
// inRangeDistanceM arms the early-reached check once within range and
// the distance starts increasing again (the aircraft passed the
// waypoint without getting exactly on top of it).
func New(first, repeating []Point, reachedDistanceM, inRangeDistanceM float64) *List {
	return &List{
		first:            first,
		repeating:        repeating,
		previousDistance: math.MaxFloat64,
		reachedDistanceM: reachedDistanceM,
		inRangeDistanceM: inRangeDistanceM,
	}
}

// Current returns the active waypoint, or the zero Point if the list
// is empty.
func (l *List) Current() Point {
	if l.index < len(l.first) {
		return l.first[l.index]
	}
	if l.index < len(l.first)+len(l.repeating) {
		return l.repeating[l.index-len(l.first)]
	}
	return Point{}
}

// Next advances to the next waypoint, wrapping within the repeating
// leg once the list is exhausted.
func (l *List) Next() {
	l.index++
	if l.index >= len(l.first)+len(l.repeating) {
		l.index = len(l.first)
	}
	l.inRange = false
	l.previousDistance = math.MaxFloat64
}

// Reached reports whether the aircraft at (latDeg, lonDeg) has
// reached the current waypoint, ported from waypoints.go's Reached:
// either within reachedDistanceM outright, or it was within
// inRangeDistanceM and has now started moving away again.
func (l *List) Reached(latDeg, lonDeg float64) bool {
	target := l.Current()
	distance := haversineDistanceM(latDeg, lonDeg, target.LatitudeDeg, target.LongitudeDeg)

	if distance < l.reachedDistanceM {
		return true
	}
	if l.inRange && distance > l.previousDistance {
		return true
	}
	l.previousDistance = distance
	if distance < l.inRangeDistanceM {
		l.inRange = true
	}
	return false
}

func haversineDistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lon2 - lon1)
	a := math.Sin(deltaPhi*0.5)*math.Sin(deltaPhi*0.5) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda*0.5)*math.Sin(deltaLambda*0.5)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ActiveSpeed returns the current waypoint's cruise speed, or
// fallbackCMS when the list is empty or the waypoint carries no speed
// of its own (below 50cm/s or above fallbackCMS), ported from
// getActiveWaypointSpeed's invalid-range fallback to navConfig's
// max_speed.
func (l *List) ActiveSpeed(fallbackCMS float64) float64 {
	speed := l.Current().SpeedCMS
	if speed < 50.0 || speed > fallbackCMS {
		return fallbackCMS
	}
	return speed
}

// LocalTargetNED projects the current waypoint into the same local
// NED frame a position source centered at (originLatDeg, originLonDeg)
// would use, in centimeters, matching nmeaposition's equirectangular
// projection exactly so waypoint targets and position fixes share one
// frame.
func (l *List) LocalTargetNED(originLatDeg, originLonDeg float64) (north, east float64) {
	target := l.Current()
	north = toRadians(target.LatitudeDeg-originLatDeg) * earthRadiusM * 100.0
	east = toRadians(target.LongitudeDeg-originLonDeg) * math.Cos(toRadians(originLatDeg)) * earthRadiusM * 100.0
	return north, east
}
