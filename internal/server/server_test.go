package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"attitude-engine/internal/imageio"
	"attitude-engine/internal/metrics"
	"attitude-engine/internal/preview"
	"attitude-engine/pkg/attitude"
)

func newTestServer(t *testing.T, d Defaults) (*httptest.Server, *metrics.Recorder) {
	t.Helper()
	rec := metrics.New()
	s := New(Options{
		Engine:   attitude.NewEngine(attitude.WithObserver(rec)),
		Renderer: preview.NewRenderer(preview.Options{Size: 32, Supersample: 1}),
		Metrics:  rec,
		Defaults: d,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, rec
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) attitude.ConversionResult {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var res attitude.ConversionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestConvertNamedParameters(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{AutoShadow: true})

	res := decodeResult(t, post(t, ts.URL+"/api/convert/quaternion", `{"w":0.7071068,"x":0.7071068,"y":0,"z":0,"order":"ZYX","auto_shadow":true}`))
	assert.InDelta(t, math.Pi/2, res.AxisAngle.Angle, 1e-6)
	assert.InDelta(t, 1, res.AxisAngle.Axis[0], 1e-9)

	res = decodeResult(t, post(t, ts.URL+"/api/convert/euler", `{"angle1":0.3,"angle2":1.5707963267948966,"angle3":0.2,"order":"XYZ"}`))
	require.NotNil(t, res.Euler.GimbalLock)
	assert.Equal(t, "positive", res.Euler.GimbalLock.LockType)
	assert.InDelta(t, 0.5, res.Euler.GimbalLock.CombinedAngle, 1e-9)

	res = decodeResult(t, post(t, ts.URL+"/api/convert/mrp", `{"sigma1":1,"sigma2":0,"sigma3":0,"is_shadow":false}`))
	assert.True(t, res.MRP.IsShadow, "server default auto-shadow")
	assert.Equal(t, "ZYX", res.Euler.Order, "server default order")

	res = decodeResult(t, post(t, ts.URL+"/api/convert/axis-angle", `{"axis_x":0,"axis_y":0,"axis_z":1,"angle":90,"degrees":true}`))
	assert.InDelta(t, math.Pi/2, res.Euler.Angle1, 1e-9)

	res = decodeResult(t, post(t, ts.URL+"/api/convert/matrix", `{"matrix":[[1,0,0],[0,1,0],[0,0,1]],"order":"zxz"}`))
	assert.InDelta(t, 1, res.Quaternion.W, 1e-12)
	assert.Equal(t, "zxz", res.Euler.Order)
}

func TestConvertWireShape(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{})
	resp := post(t, ts.URL+"/api/convert/quaternion", `{"w":1,"x":0,"y":0,"z":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Len(t, raw, 5)
	assert.JSONEq(t, `{"angle1":0,"angle2":0,"angle3":0,"order":"ZYX","gimbal_lock":null}`, string(raw["euler"]))
	assert.JSONEq(t, `{"matrix":[[1,0,0],[0,1,0],[0,0,1]]}`, string(raw["rotation_matrix"]))
	assert.JSONEq(t, `{"axis":[0,0,1],"angle":0}`, string(raw["axis_angle"]))
	assert.JSONEq(t, `{"sigma1":0,"sigma2":0,"sigma3":0,"is_shadow":false}`, string(raw["mrp"]))
	assert.JSONEq(t, `{"w":1,"x":0,"y":0,"z":0}`, string(raw["quaternion"]))
}

func TestConvertFlatInput(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{Order: "XYZ", Degrees: true})

	res := decodeResult(t, post(t, ts.URL+"/api/convert", `{"source":"euler","values":[0,0,45]}`))
	assert.Equal(t, "XYZ", res.Euler.Order)
	assert.InDelta(t, math.Pi/4, res.Euler.Angle3, 1e-9)

	res = decodeResult(t, post(t, ts.URL+"/api/convert", `{"source":"euler","values":[0,0,0.5],"degrees":false}`))
	assert.InDelta(t, 0.5, res.Euler.Angle3, 1e-9)

	resp := post(t, ts.URL+"/api/convert", `{"source":"euler","values":[0,0]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/convert", `{"source":"gibbs","values":[0,0,0]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "bad source field in the body")
	var e map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Contains(t, e["error"], "unknown source")
}

func TestConvertErrors(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{})

	tests := []struct {
		path string
		body string
		code int
		msg  string
	}{
		{"/api/convert/euler", `{"angle1":0,"angle2":0,"angle3":0,"order":"ABC"}`, http.StatusBadRequest, "invalid euler order"},
		{"/api/convert/euler", `{"angle1":0,"angle2":0}`, http.StatusBadRequest, `missing field "angle3"`},
		{"/api/convert/matrix", `{}`, http.StatusBadRequest, `missing field "matrix"`},
		{"/api/convert/euler", `{"angle1":0,"bogus":1}`, http.StatusBadRequest, "invalid request body"},
		{"/api/convert/euler", `not json`, http.StatusBadRequest, "invalid request body"},
		{"/api/convert/rodrigues", `{}`, http.StatusNotFound, "unknown source"},
	}
	for _, tt := range tests {
		resp := post(t, ts.URL+tt.path, tt.body)
		assert.Equal(t, tt.code, resp.StatusCode, tt.body)
		var e map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Contains(t, e["error"], tt.msg)
	}

	resp, err := http.Get(ts.URL + "/api/convert/euler")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	assert.Contains(t, scrape(t, ts.URL), `attitude_conversion_errors_total{source="euler"} 1`)
}

func TestDegenerateHeader(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{})
	resp := post(t, ts.URL+"/api/convert/axis_angle", `{"axis_x":0,"axis_y":0,"axis_z":0,"angle":1}`)
	res := decodeResult(t, resp)
	assert.Equal(t, "true", resp.Header.Get(DegenerateHeader))
	assert.Equal(t, attitude.Quaternion{W: 1}, res.Quaternion)

	resp = post(t, ts.URL+"/api/convert/axis_angle", `{"axis_x":0,"axis_y":0,"axis_z":1,"angle":1}`)
	decodeResult(t, resp)
	assert.Empty(t, resp.Header.Get(DegenerateHeader))
}

func TestOrdersVersionHealth(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{})

	resp, err := http.Get(ts.URL + "/api/orders")
	require.NoError(t, err)
	defer resp.Body.Close()
	var orders [][3]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	require.Len(t, orders, 24)
	assert.Equal(t, [3]string{"XYZ", "Tait-Bryan", "Roll-Pitch-Yaw"}, orders[0])

	for path, want := range map[string]string{
		"/api/version": `{"version":"0.1.0"}`,
		"/api/health":  `{"status":"ok"}`,
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.JSONEq(t, want, string(body))
	}
}

func TestPreview(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{})

	resp := post(t, ts.URL+"/api/preview/euler", `{"angle1":0.4,"angle2":0.2,"angle3":-0.3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))
	img, err := imageio.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	resp = post(t, ts.URL+"/api/preview/quaternion", `{"w":1,"x":0,"y":0,"z":0,"format":"tga"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/x-tga", resp.Header.Get("Content-Type"))

	resp = post(t, ts.URL+"/api/preview/euler", `{"angle1":0.4,"angle2":0.2,"angle3":-0.3,"stages":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 4, bytes.Count(body, []byte("ANMF")))

	resp = post(t, ts.URL+"/api/preview/euler", `{"angle1":0,"angle2":0,"angle3":0,"stages":true,"format":"tga"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/preview/euler", `{"angle1":0,"angle2":0,"angle3":0,"format":"gif"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type brokenWriter struct {
	header http.Header
	code   int
}

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) WriteHeader(code int) { w.code = code }
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestPreviewWriteFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	klog.LogToStderr(false)
	klog.SetOutput(&logs)
	t.Cleanup(func() { klog.LogToStderr(true) })

	s := New(Options{Renderer: preview.NewRenderer(preview.Options{Size: 16, Supersample: 1})})
	w := &brokenWriter{header: http.Header{}}
	req := httptest.NewRequest(http.MethodPost, "/api/preview/euler", strings.NewReader(`{"angle1":0,"angle2":0,"angle3":0}`))
	s.Handler().ServeHTTP(w, req)
	klog.Flush()

	assert.Equal(t, http.StatusOK, w.code)
	assert.Contains(t, logs.String(), "Failed to write image")
	assert.Contains(t, logs.String(), "connection reset")
}

func scrape(t *testing.T, base string) string {
	t.Helper()
	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, Defaults{})
	decodeResult(t, post(t, ts.URL+"/api/convert/euler", `{"angle1":0,"angle2":0,"angle3":0,"order":"ZXZ"}`))

	out := scrape(t, ts.URL)
	assert.Contains(t, out, `attitude_conversions_total{order="ZXZ",source="euler"} 1`)
	assert.Contains(t, out, `attitude_gimbal_locks_total{lock_type="positive"} 1`)
	assert.Contains(t, out, `attitude_http_request_duration_seconds_count{code="200",route="POST /api/convert/{source}"} 1`)

	plain := httptest.NewServer(New(Options{}).Handler())
	defer plain.Close()
	resp, err := http.Get(plain.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
