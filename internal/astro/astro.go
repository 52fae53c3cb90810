// Package astro holds the engine-native time and angle conventions.
//
// The embedded engine keeps its clock as a Modified Julian Date and its
// spherical angles in the range conventions of its own math library. The
// conversions live here so the rest of the code deals in time.Time and
// plain degrees.
package astro

import "time"

// mjdEpochDays is the MJD of the Unix epoch (1970-01-01T00:00:00Z).
const mjdEpochDays = 40587.0

const millisPerDay = 86400000.0

// UnixMillisToMJD converts Unix milliseconds to a Modified Julian Date.
// This is the representation the engine stores in observer.utc.
func UnixMillisToMJD(ms float64) float64 {
	return ms/millisPerDay + mjdEpochDays
}

// TimeToMJD converts a time.Time to a Modified Julian Date.
func TimeToMJD(t time.Time) float64 {
	return UnixMillisToMJD(float64(t.UnixMilli()))
}

// MJDToTime converts a Modified Julian Date back to a UTC time.Time.
func MJDToTime(mjd float64) time.Time {
	ms := (mjd - mjdEpochDays) * millisPerDay
	return time.UnixMilli(int64(ms)).UTC()
}

// NormalizeAltitude folds a raw positive-normalized angle into (-180, 180]
// degrees. The engine's anp() yields [0, 360); anything above 180 is the
// same direction measured below the horizon.
func NormalizeAltitude(deg float64) float64 {
	if deg > 180 {
		return deg - 360
	}
	return deg
}

// ClampLatitude restricts a latitude to [-90, 90] degrees.
func ClampLatitude(deg float64) float64 {
	return clamp(deg, -90, 90)
}

// ClampLongitude restricts a longitude to [-180, 180] degrees.
func ClampLongitude(deg float64) float64 {
	return clamp(deg, -180, 180)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
