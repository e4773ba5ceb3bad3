package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attitude-engine/internal/imageio"
	"attitude-engine/pkg/attitude"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func convertResult(t *testing.T, args ...string) *attitude.ConversionResult {
	t.Helper()
	out, _, err := run(t, append([]string{"convert"}, args...)...)
	require.NoError(t, err)
	var res attitude.ConversionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return &res
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, attitude.Version()+"\n", out)
}

func TestConvertQuaternion(t *testing.T) {
	res := convertResult(t, "quaternion", "1", "0", "0", "0")
	assert.Equal(t, attitude.Quaternion{W: 1}, res.Quaternion)
	assert.Equal(t, "ZYX", res.Euler.Order)
	assert.Nil(t, res.Euler.GimbalLock)
	assert.Zero(t, res.AxisAngle.Angle)
}

func TestConvertCommaSeparated(t *testing.T) {
	res := convertResult(t, "axis-angle", "--order", "XYZ", "1,0,0,1.5707963267948966")
	assert.InDelta(t, math.Pi/2, res.Euler.Angle1, 1e-9)
	assert.Equal(t, "XYZ", res.Euler.Order)
}

func TestConvertDegreesGimbalLock(t *testing.T) {
	res := convertResult(t, "euler", "--degrees", "--", "30", "-90", "10")
	require.NotNil(t, res.Euler.GimbalLock)
	assert.Equal(t, "negative", res.Euler.GimbalLock.LockType)
	assert.InDelta(t, -90, res.Euler.Angle2, 1e-6)
	// ZYX at -90°: only angle1+angle3 is determined
	assert.InDelta(t, 40, res.Euler.GimbalLock.CombinedAngle, 1e-6)
	assert.InDelta(t, 40, res.Euler.Angle1, 1e-6)
	assert.Zero(t, res.Euler.Angle3)
}

func TestConvertTolerance(t *testing.T) {
	nearLock := strconv.FormatFloat(math.Pi/2-1e-7, 'g', -1, 64)

	res := convertResult(t, "euler", "--order", "XYZ", "0.3", nearLock, "0.2")
	assert.NotNil(t, res.Euler.GimbalLock, "inside the default band")

	res = convertResult(t, "euler", "--order", "XYZ", "--tolerance", "0", "0.3", nearLock, "0.2")
	assert.Nil(t, res.Euler.GimbalLock, "exact boundary only")
	assert.InDelta(t, 0.3, res.Euler.Angle1, 1e-6)

	path := filepath.Join(t.TempDir(), "exact.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance: 0\n"), 0644))
	res = convertResult(t, "--config", path, "euler", "--order", "XYZ", "0.3", nearLock, "0.2")
	assert.Nil(t, res.Euler.GimbalLock, "tolerance 0 from the config file")
}

func TestConvertMRPShadow(t *testing.T) {
	res := convertResult(t, "mrp", "--shadow", "--auto-shadow=false", "2,0,0")
	assert.True(t, res.MRP.IsShadow)

	res = convertResult(t, "mrp", "--shadow", "2,0,0")
	assert.False(t, res.MRP.IsShadow)
	assert.InDelta(t, -0.5, res.MRP.Sigma1, 1e-12)
}

func TestConvertMatrixYAML(t *testing.T) {
	out, _, err := run(t, "convert", "-o", "yaml", "matrix", "1", "0", "0", "0", "0", "-1", "0", "1", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "quaternion:")
	assert.Contains(t, out, "rotation_matrix:")
	assert.Contains(t, out, "gimbal_lock: null")
}

func TestConvertDegenerateWarns(t *testing.T) {
	out, errOut, err := run(t, "convert", "quaternion", "0", "0", "0", "0")
	require.NoError(t, err)
	assert.Contains(t, errOut, "degenerate")
	assert.Contains(t, out, `"w": 1`)
}

func TestConvertErrors(t *testing.T) {
	_, _, err := run(t, "convert", "euler", "--order", "QQQ", "0", "0", "0")
	assert.ErrorContains(t, err, "default_order")

	_, _, err = run(t, "convert", "euler", "0", "0")
	assert.ErrorContains(t, err, "expects 3 values, got 2")

	_, _, err = run(t, "convert", "spinor", "0", "0")
	assert.ErrorIs(t, err, attitude.ErrUnknownSource)

	_, _, err = run(t, "convert", "euler", "0", "x", "0")
	assert.ErrorContains(t, err, `invalid number "x"`)

	_, _, err = run(t, "convert", "-o", "xml", "euler", "0", "0", "0")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestConfigFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attitude.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_order: zxz\ndegrees: true\n"), 0644))

	res := convertResult(t, "--config", path, "euler", "10", "20", "30")
	assert.Equal(t, "zxz", res.Euler.Order)
	assert.InDelta(t, 20, res.Euler.Angle2, 1e-9)

	// flags win over the file
	res = convertResult(t, "--config", path, "--degrees=false", "--order", "XYZ", "euler", "0.1", "0.2", "0.3")
	assert.Equal(t, "XYZ", res.Euler.Order)
	assert.InDelta(t, 0.2, res.Euler.Angle2, 1e-9)
}

func TestOrders(t *testing.T) {
	out, _, err := run(t, "orders")
	require.NoError(t, err)
	var orders []attitude.OrderInfo
	require.NoError(t, json.Unmarshal([]byte(out), &orders))
	assert.Len(t, orders, 24)

	out, _, err = run(t, "orders", "--table")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 25)
	assert.True(t, strings.HasPrefix(lines[0], "ORDER"))
}

func TestAngleConversion(t *testing.T) {
	out, _, err := run(t, "deg2rad", "180", "90")
	require.NoError(t, err)
	assert.Equal(t, "3.14159265358979\n1.5707963267949\n", out)

	out, _, err = run(t, "rad2deg", "--", "-3.141592653589793")
	require.NoError(t, err)
	assert.Equal(t, "-180\n", out)
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "out", "snap.tga")

	out, _, err := run(t, "preview", "--size", "32", "-f", file, "euler", "0.3", "0.2", "0.1")
	require.NoError(t, err)
	assert.Equal(t, file+"\n", out)

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	img, err := imageio.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestPreviewStages(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stages.webp")
	_, _, err := run(t, "preview", "--size", "32", "--stages", "-f", file, "quaternion", "0.9", "0.1", "0.3", "0.2")
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Contains(t, string(data), "ANIM")

	_, _, err = run(t, "preview", "--stages", "--format", "tga", "-f", filepath.Join(t.TempDir(), "x.tga"), "euler", "0", "0", "0")
	assert.ErrorContains(t, err, "--stages needs the webp format")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	reqs := filepath.Join(dir, "requests.yaml")
	require.NoError(t, os.WriteFile(reqs, []byte(`
- name: identity
  source: quaternion
  values: [1, 0, 0, 0]
- name: locked
  source: euler
  order: XYZ
  values: [10, 90, 20]
  degrees: true
  preview: true
`), 0644))

	outDir := filepath.Join(dir, "out")
	out, _, err := run(t, "batch", reqs, "--output-dir", outDir, "--workers", "2", "--size", "32")
	require.NoError(t, err)
	assert.Contains(t, out, "2 requests: 2 succeeded, 0 failed, 1 gimbal lock, 0 degenerate")

	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)
	var m struct {
		Entries []struct {
			Name  string `json:"name"`
			Image string `json:"image"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	require.Len(t, m.Entries, 2)
	assert.Empty(t, m.Entries[0].Image)
	assert.FileExists(t, filepath.Join(outDir, m.Entries[1].Image))
	assert.FileExists(t, filepath.Join(outDir, "results.json"))
}

func TestBatchFailures(t *testing.T) {
	dir := t.TempDir()
	reqs := filepath.Join(dir, "requests.yaml")
	require.NoError(t, os.WriteFile(reqs, []byte("- source: euler\n  order: QQQ\n  values: [0, 0, 0]\n"), 0644))

	_, _, err := run(t, "batch", reqs, "--output-dir", filepath.Join(dir, "out"))
	assert.ErrorContains(t, err, "1 of 1 requests failed")
	assert.FileExists(t, filepath.Join(dir, "out", "manifest.json"))
}
