package mrp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"attitude-engine/internal/mathutil"
)

func assertVecInDelta(t *testing.T, want, got mathutil.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestShadowOfIsInvolution(t *testing.T) {
	for _, sigma := range []mathutil.Vec3{
		{0.1, -0.2, 0.3},
		{1, 0, 0},
		{2.5, 4, -7},
		{1e-3, 0, 0},
	} {
		s := Set{Sigma: sigma}
		twice := s.Switch().Switch()
		assert.False(t, twice.Shadow)
		assertVecInDelta(t, sigma, twice.Sigma, 1e-12)
		assert.True(t, s.Switch().Shadow)
	}
}

func TestShadowOfInvertsMagnitude(t *testing.T) {
	sigma := mathutil.Vec3{0, 2, 0}
	assertVecInDelta(t, mathutil.Vec3{0, -0.5, 0}, ShadowOf(sigma), 1e-15)
	assert.InDelta(t, 1/sigma.LenSq(), ShadowOf(sigma).LenSq(), 1e-15)
}

func TestShadowOfZero(t *testing.T) {
	assert.Equal(t, mathutil.Vec3{}, ShadowOf(mathutil.Vec3{}))
}

func TestSelect(t *testing.T) {
	small := Set{Sigma: mathutil.Vec3{0.2, 0, 0}}
	boundary := Set{Sigma: mathutil.Vec3{1, 0, 0}}
	large := Set{Sigma: mathutil.Vec3{0, 3, 0}}
	largeShadow := Set{Sigma: mathutil.Vec3{0, 0, -2}, Shadow: true}

	cases := []struct {
		name          string
		in            Set
		requestShadow bool
		auto          bool
		wantShadow    bool
		wantSigma     mathutil.Vec3
	}{
		{"auto keeps small primary", small, false, true, false, small.Sigma},
		{"auto ignores request", small, true, true, false, small.Sigma},
		{"auto switches boundary", boundary, false, true, true, mathutil.Vec3{-1, 0, 0}},
		{"auto switches large primary", large, false, true, true, mathutil.Vec3{0, -1.0 / 3, 0}},
		{"auto switches large shadow back", largeShadow, false, true, false, mathutil.Vec3{0, 0, 0.5}},
		{"manual keeps primary", large, false, false, false, large.Sigma},
		{"manual honours shadow request", small, true, false, true, mathutil.Vec3{-5, 0, 0}},
		{"manual honours primary request", largeShadow, false, false, false, mathutil.Vec3{0, 0, 0.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Select(tc.in, tc.requestShadow, tc.auto)
			assert.Equal(t, tc.wantShadow, got.Shadow)
			assertVecInDelta(t, tc.wantSigma, got.Sigma, 1e-12)
		})
	}
}

func TestSelectAutoBoundsMagnitude(t *testing.T) {
	for _, n := range []float64{0.5, 1, 1.0001, 4, 100} {
		got := Select(Set{Sigma: mathutil.Vec3{n, 0, 0}}, false, true)
		assert.LessOrEqual(t, got.NormSq(), 1.0+1e-12, "n=%v", n)
	}
}
