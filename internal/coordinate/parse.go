package coordinate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

type ellipsoid struct {
	name string
	a    float64
	b    float64 // zero when rf defines the shape
	rf   float64
}

func (e ellipsoid) semiMinor() float64 {
	if e.b != 0 {
		return e.b
	}
	if e.rf == 0 {
		return e.a
	}
	return e.a * (1 - 1/e.rf)
}

var ellipsoids = map[string]ellipsoid{
	"WGS84":  {name: "WGS 84", a: 6378137, rf: 298.257223563},
	"GRS80":  {name: "GRS 1980", a: 6378137, rf: 298.257222101},
	"WGS72":  {name: "WGS 72", a: 6378135, rf: 298.26},
	"CLRK66": {name: "Clarke 1866", a: 6378206.4, b: 6356583.8},
	"INTL":   {name: "International 1924", a: 6378388, rf: 297},
	"BESSEL": {name: "Bessel 1841", a: 6377397.155, rf: 299.1528128},
	"AIRY":   {name: "Airy 1830", a: 6377563.396, b: 6356256.910},
	"SPHERE": {name: "Normal Sphere (r=6370997)", a: 6370997, b: 6370997},
}

var datums = map[string]struct {
	name  string
	ellps string
}{
	"WGS84": {name: "WGS_1984", ellps: "WGS84"},
	"NAD83": {name: "North_American_Datum_1983", ellps: "GRS80"},
	"NAD27": {name: "North_American_Datum_1927", ellps: "CLRK66"},
}

var primeMeridians = map[string]float64{
	"greenwich": 0,
	"paris":     2.33722917,
	"ferro":     -17.66666666666667,
}

// FromProjString parses a proj.4 style definition. Recognized keys are
// +a, +b, +R, +ellps, +datum, +rf, +f, +pm and +geoc; anything else is
// ignored. At least one of +a, +R, +ellps or +datum must be present.
func FromProjString(s string) (Datum, error) {
	params := map[string]string{}
	flags := map[string]bool{}
	for _, tok := range strings.Fields(s) {
		if !strings.HasPrefix(tok, "+") {
			return Datum{}, fmt.Errorf("%w: token %q in %q", ErrParse, tok, s)
		}
		key, value, ok := strings.Cut(tok[1:], "=")
		if ok {
			params[key] = value
		} else {
			flags[key] = true
		}
	}

	d := Datum{Name: "unknown", SpheroidName: "unknown", MeridianName: "Greenwich"}
	var (
		ell    ellipsoid
		hasEll bool
	)

	if name, ok := params["datum"]; ok {
		def, found := datums[strings.ToUpper(name)]
		if !found {
			return Datum{}, fmt.Errorf("%w: unknown datum %q", ErrParse, name)
		}
		d.Name = def.name
		ell, hasEll = ellipsoids[def.ellps], true
	}
	if name, ok := params["ellps"]; ok {
		e, found := ellipsoids[strings.ToUpper(name)]
		if !found {
			return Datum{}, fmt.Errorf("%w: unknown ellipsoid %q", ErrParse, name)
		}
		ell, hasEll = e, true
	}
	if hasEll {
		d.SpheroidName = ell.name
		d.SemiMajor = ell.a
		d.SemiMinor = ell.semiMinor()
	}

	num := func(key string) (float64, bool, error) {
		raw, ok := params[key]
		if !ok {
			return 0, false, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: +%s=%s", ErrParse, key, raw)
		}
		return v, true, nil
	}

	if r, ok, err := num("R"); err != nil {
		return Datum{}, err
	} else if ok {
		d.SemiMajor, d.SemiMinor = r, r
		hasEll = true
	}
	if a, ok, err := num("a"); err != nil {
		return Datum{}, err
	} else if ok {
		if !hasEll {
			d.SemiMinor = a
		}
		d.SemiMajor = a
		hasEll = true
	}
	if !hasEll {
		return Datum{}, fmt.Errorf("%w: no ellipsoid in %q", ErrParse, s)
	}

	if b, ok, err := num("b"); err != nil {
		return Datum{}, err
	} else if ok {
		d.SemiMinor = b
	} else if rf, ok, err := num("rf"); err != nil {
		return Datum{}, err
	} else if ok && rf != 0 {
		d.SemiMinor = d.SemiMajor * (1 - 1/rf)
	} else if f, ok, err := num("f"); err != nil {
		return Datum{}, err
	} else if ok {
		d.SemiMinor = d.SemiMajor * (1 - f)
	}

	if pm, ok := params["pm"]; ok {
		offset, err := parseMeridian(pm)
		if err != nil {
			return Datum{}, err
		}
		d.MeridianOffset = offset
		d.MeridianName = pm
	}
	d.Geocentric = flags["geoc"]

	if err := d.checkShape(); err != nil {
		return Datum{}, fmt.Errorf("%w in %q", err, s)
	}
	return d, nil
}

// checkShape rejects non-finite or non-positive axes and a non-finite
// meridian offset
func (d Datum) checkShape() error {
	if !(vector.Vector{d.SemiMajor, d.SemiMinor, d.MeridianOffset}).IsFinite() {
		return fmt.Errorf("%w: non-finite parameter", ErrParse)
	}
	if d.SemiMajor <= 0 || d.SemiMinor <= 0 {
		return fmt.Errorf("%w: non-positive axis", ErrParse)
	}
	return nil
}

func parseMeridian(pm string) (float64, error) {
	if v, ok := primeMeridians[strings.ToLower(pm)]; ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(pm, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: prime meridian %q", ErrParse, pm)
	}
	return v, nil
}

var wktNode = regexp.MustCompile(`(?i)\b(DATUM|SPHEROID|ELLIPSOID|PRIMEM)\[\s*"([^"]*)"\s*(?:,\s*([-+0-9.eE]+))?(?:\s*,\s*([-+0-9.eE]+))?`)

// FromWKT reads the DATUM, SPHEROID (or ELLIPSOID) and PRIMEM nodes of a
// WKT coordinate system. An inverse flattening of zero means a sphere.
func FromWKT(s string) (Datum, error) {
	d := Datum{Name: "unknown", SpheroidName: "unknown", MeridianName: "Greenwich"}
	var hasSpheroid bool

	for _, m := range wktNode.FindAllStringSubmatch(s, -1) {
		switch strings.ToUpper(m[1]) {
		case "DATUM":
			d.Name = m[2]
		case "SPHEROID", "ELLIPSOID":
			if m[3] == "" || m[4] == "" {
				return Datum{}, fmt.Errorf("%w: %s %q needs axis and inverse flattening", ErrParse, m[1], m[2])
			}
			a, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				return Datum{}, fmt.Errorf("%w: semi-major %q", ErrParse, m[3])
			}
			rf, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				return Datum{}, fmt.Errorf("%w: inverse flattening %q", ErrParse, m[4])
			}
			d.SpheroidName = m[2]
			d.SemiMajor = a
			d.SemiMinor = ellipsoid{a: a, rf: rf}.semiMinor()
			hasSpheroid = true
		case "PRIMEM":
			d.MeridianName = m[2]
			if m[3] != "" {
				v, err := strconv.ParseFloat(m[3], 64)
				if err != nil {
					return Datum{}, fmt.Errorf("%w: prime meridian %q", ErrParse, m[3])
				}
				d.MeridianOffset = v
			}
		}
	}

	if !hasSpheroid {
		return Datum{}, fmt.Errorf("%w: no spheroid in WKT", ErrParse)
	}
	if err := d.checkShape(); err != nil {
		return Datum{}, err
	}
	return d, nil
}

// Parse picks FromProjString, FromWKT or FromName based on the shape of s
func Parse(s string) (Datum, error) {
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(trimmed, "+"):
		return FromProjString(trimmed)
	case strings.Contains(trimmed, "["):
		return FromWKT(trimmed)
	default:
		return FromName(trimmed)
	}
}
