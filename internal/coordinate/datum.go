// Package coordinate models geodetic datums and converts between geodetic
// and Earth-centered cartesian coordinates.
//
// A Datum is a bi-axial ellipsoid plus a prime meridian offset. Spherical
// bodies use equal semi-axes. Angles are in degrees and distances in
// meters throughout.
package coordinate

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrDatumNotFound = errors.New("datum not found")
	ErrParse         = errors.New("cannot parse datum")
)

// Datum describes a reference ellipsoid and prime meridian
type Datum struct {
	Name           string  `json:"name"`
	SpheroidName   string  `json:"spheroid_name"`
	MeridianName   string  `json:"meridian_name"`
	SemiMajor      float64 `json:"semi_major_axis"`
	SemiMinor      float64 `json:"semi_minor_axis"`
	MeridianOffset float64 `json:"meridian_offset"`
	Geocentric     bool    `json:"geocentric"`
}

// WGS84 returns the default Earth datum
func WGS84() Datum {
	return Datum{
		Name:         "WGS_1984",
		SpheroidName: "WGS 84",
		MeridianName: "Greenwich",
		SemiMajor:    6378137,
		SemiMinor:    6356752.314245179,
	}
}

// IsSpherical reports whether both semi-axes are equal
func (d Datum) IsSpherical() bool {
	return d.SemiMajor == d.SemiMinor
}

// Flattening returns (a - b) / a
func (d Datum) Flattening() float64 {
	if d.SemiMajor == 0 {
		return 0
	}
	return (d.SemiMajor - d.SemiMinor) / d.SemiMajor
}

// EccentricitySq returns 1 - b²/a²
func (d Datum) EccentricitySq() float64 {
	if d.SemiMajor == 0 {
		return 0
	}
	return 1 - (d.SemiMinor*d.SemiMinor)/(d.SemiMajor*d.SemiMajor)
}

// Radius returns the distance from the body center to the ellipsoid
// surface at latitude lat
func (d Datum) Radius(lat float64) float64 {
	if d.IsSpherical() {
		return d.SemiMajor
	}
	a, b := d.SemiMajor, d.SemiMinor
	t := math.Atan((a / b) * math.Tan(lat*math.Pi/180))
	x := a * math.Cos(t)
	y := b * math.Sin(t)
	return math.Sqrt(x*x + y*y)
}

// ProjString renders the datum as "+a=.. +b=.." with optional +pm and +geoc
func (d Datum) ProjString() string {
	var sb strings.Builder
	sb.WriteString("+a=")
	sb.WriteString(formatFloat(d.SemiMajor))
	sb.WriteString(" +b=")
	sb.WriteString(formatFloat(d.SemiMinor))
	if d.MeridianOffset != 0 {
		sb.WriteString(" +pm=")
		sb.WriteString(formatFloat(d.MeridianOffset))
	}
	if d.Geocentric {
		sb.WriteString(" +geoc")
	}
	return sb.String()
}

func (d Datum) String() string {
	return d.Name + " (" + d.ProjString() + ")"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FromName resolves a well-known datum name, ignoring case
func FromName(name string) (Datum, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "WGS84", "WGS_1984", "WGS 1984", "WGS1984", "WORLD GEODETIC SYSTEM 1984", "EARTH":
		return FromProjString("+proj=longlat +datum=WGS84 +no_defs")
	case "WGS72", "WGS_1972":
		return FromProjString("+proj=longlat +ellps=WGS72 +no_defs")
	case "NAD83", "NORTH_AMERICAN_DATUM_1983":
		return FromProjString("+proj=longlat +ellps=GRS80 +datum=NAD83 +no_defs")
	case "NAD27", "NORTH_AMERICAN_DATUM_1927":
		return FromProjString("+proj=longlat +datum=NAD27 +no_defs")
	case "D_MOON", "MOON":
		return body("D_MOON", "MOON", 1737400), nil
	case "D_MARS", "MARS":
		return body("D_MARS", "MARS", 3396190), nil
	case "MOLA":
		return body("D_MARS", "MARS", 3396000), nil
	}
	return Datum{}, &NotFoundError{Name: name}
}

func body(name, spheroid string, radius float64) Datum {
	return Datum{
		Name:         name,
		SpheroidName: spheroid,
		MeridianName: "Reference Meridian",
		SemiMajor:    radius,
		SemiMinor:    radius,
	}
}

// NotFoundError carries the unmatched datum name
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "no datum found matching name '" + e.Name + "'"
}

func (e *NotFoundError) Unwrap() error {
	return ErrDatumNotFound
}
