package coordinate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/math/vector"
)

func TestFromName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		datum    string
		major    float64
		minor    float64
		spheroid string
	}{
		{"wgs84", "wgs84", "WGS_1984", 6378137, 6356752.314245, "WGS 84"},
		{"earth alias", "Earth", "WGS_1984", 6378137, 6356752.314245, "WGS 84"},
		{"wgs72", "WGS_1972", "unknown", 6378135, 6356750.520016, "WGS 72"},
		{"nad83", "North_American_Datum_1983", "North_American_Datum_1983", 6378137, 6356752.314140, "GRS 1980"},
		{"nad27", "nad27", "North_American_Datum_1927", 6378206.4, 6356583.8, "Clarke 1866"},
		{"moon", "D_MOON", "D_MOON", 1737400, 1737400, "MOON"},
		{"mars", "mars", "D_MARS", 3396190, 3396190, "MARS"},
		{"mola", "MOLA", "D_MARS", 3396000, 3396000, "MARS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FromName(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.datum, d.Name)
			assert.Equal(t, tt.spheroid, d.SpheroidName)
			assert.InDelta(t, tt.major, d.SemiMajor, 1e-6)
			assert.InDelta(t, tt.minor, d.SemiMinor, 1e-6)
		})
	}

	_, err := FromName("pluto")
	assert.ErrorIs(t, err, ErrDatumNotFound)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "pluto", nf.Name)
}

func TestFromProjString(t *testing.T) {
	t.Run("axes", func(t *testing.T) {
		d, err := FromProjString("+proj=longlat +a=3396190 +b=3376200 +no_defs")
		require.NoError(t, err)
		assert.Equal(t, 3396190.0, d.SemiMajor)
		assert.Equal(t, 3376200.0, d.SemiMinor)
		assert.False(t, d.IsSpherical())
	})

	t.Run("sphere radius", func(t *testing.T) {
		d, err := FromProjString("+R=1737400 +geoc")
		require.NoError(t, err)
		assert.True(t, d.IsSpherical())
		assert.True(t, d.Geocentric)
		assert.Equal(t, "+a=1737400 +b=1737400 +geoc", d.ProjString())
	})

	t.Run("inverse flattening", func(t *testing.T) {
		d, err := FromProjString("+a=6378137 +rf=298.257223563")
		require.NoError(t, err)
		assert.InDelta(t, 6356752.314245, d.SemiMinor, 1e-6)
	})

	t.Run("prime meridian", func(t *testing.T) {
		d, err := FromProjString("+ellps=intl +pm=paris")
		require.NoError(t, err)
		assert.InDelta(t, 2.33722917, d.MeridianOffset, 1e-12)
		assert.Equal(t, "paris", d.MeridianName)
	})

	t.Run("round trip", func(t *testing.T) {
		orig := Datum{SemiMajor: 10, SemiMinor: 9.5, MeridianOffset: 12.5, Geocentric: true}
		d, err := FromProjString(orig.ProjString())
		require.NoError(t, err)
		assert.Equal(t, orig.SemiMajor, d.SemiMajor)
		assert.Equal(t, orig.SemiMinor, d.SemiMinor)
		assert.Equal(t, orig.MeridianOffset, d.MeridianOffset)
		assert.True(t, d.Geocentric)
	})

	for _, bad := range []string{"", "+proj=longlat +no_defs", "+ellps=nope", "+a=abc", "a=1"} {
		_, err := FromProjString(bad)
		assert.ErrorIs(t, err, ErrParse, bad)
	}
}

func TestFromWKT(t *testing.T) {
	wkt := `GEOGCS["GCS_Mars_2000",DATUM["D_Mars_2000",SPHEROID["Mars_2000_IAU_IAG",3396190.0,169.894447223612]],PRIMEM["Reference_Meridian",0.0],UNIT["Degree",0.0174532925199433]]`

	d, err := FromWKT(wkt)
	require.NoError(t, err)
	assert.Equal(t, "D_Mars_2000", d.Name)
	assert.Equal(t, "Mars_2000_IAU_IAG", d.SpheroidName)
	assert.Equal(t, "Reference_Meridian", d.MeridianName)
	assert.Equal(t, 3396190.0, d.SemiMajor)
	assert.InDelta(t, 3376200.0, d.SemiMinor, 0.01)

	moon, err := FromWKT(`GEOGCS["Moon",DATUM["D_Moon",SPHEROID["Moon",1737400,0]],PRIMEM["Reference_Meridian",0]]`)
	require.NoError(t, err)
	assert.True(t, moon.IsSpherical())

	_, err = FromWKT(`GEOGCS["x",DATUM["y"]]`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseDispatch(t *testing.T) {
	d, err := Parse("  moon ")
	require.NoError(t, err)
	assert.Equal(t, "D_MOON", d.Name)

	d, err = Parse("+R=10")
	require.NoError(t, err)
	assert.Equal(t, 10.0, d.SemiMajor)
}

func TestRadius(t *testing.T) {
	moon, err := FromName("moon")
	require.NoError(t, err)
	assert.Equal(t, 1737400.0, moon.Radius(45))

	wgs := WGS84()
	assert.InDelta(t, wgs.SemiMajor, wgs.Radius(0), 1e-6)
	assert.InDelta(t, wgs.SemiMinor, wgs.Radius(90), 1e-3)
	assert.Less(t, wgs.Radius(45), wgs.SemiMajor)
	assert.Greater(t, wgs.Radius(45), wgs.SemiMinor)
}

func TestCache(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	_, hit, err := c.Get("WGS84")
	require.NoError(t, err)
	assert.False(t, hit)

	d, hit, err := c.Get("WGS84")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "WGS_1984", d.Name)

	_, _, err = c.Get("unknown-body")
	assert.ErrorIs(t, err, ErrDatumNotFound)

	_, _, _ = c.Get("moon")
	_, _, _ = c.Get("mars")
	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(4), stats.Misses)

	c.Purge()
	assert.Equal(t, 0, c.Stats().Size)
}

func TestGeodeticRoundTrip(t *testing.T) {
	wgs := WGS84()
	points := []vector.Vector{
		{0, 0, 0},
		{-122.4194, 37.7749, 52},
		{151.2093, -33.8688, 1200},
		{179.5, 89.9, -30},
		{10, 90, 0},
	}

	for _, llh := range points {
		xyz, err := wgs.GeodeticToCartesian(llh)
		require.NoError(t, err)

		back, err := wgs.CartesianToGeodetic(xyz)
		require.NoError(t, err)

		assert.InDelta(t, llh[1], back[1], 1e-9, "lat %v", llh)
		assert.InDelta(t, llh[2], back[2], 1e-5, "height %v", llh)
		if math.Abs(llh[1]) < 90 {
			assert.InDelta(t, llh[0], back[0], 1e-9, "lon %v", llh)
		}
	}

	xyz, err := wgs.GeodeticToCartesian(vector.Vector{0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 6378137.0, xyz[0], 1e-6)

	_, err = wgs.GeodeticToCartesian(vector.Vector{1, 2})
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestGeodeticMeridianOffset(t *testing.T) {
	d := WGS84()
	d.MeridianOffset = 10

	xyz, err := d.GeodeticToCartesian(vector.Vector{80, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, xyz[0], 1e-6)

	back, err := d.CartesianToGeodetic(xyz)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, back[0], 1e-9)
}

func TestGeodeticHugeMeridianOffset(t *testing.T) {
	d, err := FromProjString("+proj=longlat +datum=WGS84 +pm=1e300")
	require.NoError(t, err)

	back, err := d.CartesianToGeodetic(vector.Vector{6378137, 0, 0})
	require.NoError(t, err)
	assert.Greater(t, back[0], -180.0)
	assert.LessOrEqual(t, back[0], 180.0)
}

func TestWrapLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{540, 180},
		{721, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, wrapLongitude(tt.in), 1e-9, "lon %v", tt.in)
	}
}

func TestParseRejectsNonFinite(t *testing.T) {
	inputs := []string{
		"+a=NaN +b=NaN",
		"+a=Inf",
		"+R=-Inf",
		"+a=6378137 +rf=NaN",
		"+a=6378137 +f=Inf",
		"+datum=WGS84 +pm=NaN",
		"+datum=WGS84 +pm=+Inf",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := FromProjString(in)
			assert.ErrorIs(t, err, ErrParse)
		})
	}

	_, err := FromWKT(`GEOGCS["x",DATUM["d",SPHEROID["s",1e999,298]]]`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestNEDRotation(t *testing.T) {
	r := NEDRotation(0, 0)

	// at the origin north is +Z, east is +Y and down is -X
	expect := [][]float64{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}}
	for i := range expect {
		for j := range expect[i] {
			v, err := r.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, expect[i][j], v, 1e-12)
		}
	}

	// orthonormal at an arbitrary location
	r = NEDRotation(33, -47)
	product, err := r.Transpose().Mul(r)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, _ := product.At(i, j)
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, v, 1e-12)
		}
	}
}
