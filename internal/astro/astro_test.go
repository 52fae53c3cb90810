package astro

import (
	"math"
	"testing"
	"time"
)

func TestUnixMillisToMJD(t *testing.T) {
	// Unix epoch is MJD 40587 by definition.
	if got := UnixMillisToMJD(0); got != 40587.0 {
		t.Errorf("MJD of Unix epoch: got %v, want 40587", got)
	}

	// One day later.
	if got := UnixMillisToMJD(86400000); got != 40588.0 {
		t.Errorf("MJD of epoch+1d: got %v, want 40588", got)
	}

	// J2000.0 (2000-01-01T12:00:00Z) is MJD 51544.5.
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := TimeToMJD(j2000); math.Abs(got-51544.5) > 1e-9 {
		t.Errorf("MJD of J2000: got %v, want 51544.5", got)
	}
}

func TestMJDRoundTrip(t *testing.T) {
	orig := time.Date(2025, 6, 21, 12, 30, 0, 0, time.UTC)
	back := MJDToTime(TimeToMJD(orig))

	// Round trip through float64 days can lose sub-millisecond precision.
	if diff := back.Sub(orig); diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("round trip drifted by %v (got %v, want %v)", diff, back, orig)
	}
}

func TestNormalizeAltitude(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{200, -160},
		{170, 170},
		{180, 180},
		{0, 0},
		{359.9, -0.1},
	}
	for _, c := range cases {
		got := NormalizeAltitude(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeAltitude(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampLatitude(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{120, 90},
		{-200, -90},
		{40.03784, 40.03784},
		{90, 90},
		{-90, -90},
	}
	for _, c := range cases {
		if got := ClampLatitude(c.in); got != c.want {
			t.Errorf("ClampLatitude(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampLongitude(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{190, 180},
		{-190, -180},
		{-75.34238, -75.34238},
	}
	for _, c := range cases {
		if got := ClampLongitude(c.in); got != c.want {
			t.Errorf("ClampLongitude(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
