package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/SmartRes/pkg/resolution"
)

// MockCalculator lets tests observe the invalidation contract.
type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) Calculate(req resolution.Request) (*resolution.Result, error) {
	args := m.Called(req)
	if res := args.Get(0); res != nil {
		return res.(*resolution.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCalculator) InvalidateCache() {
	m.Called()
}

func newTestServer() *Server {
	engine := resolution.NewEngine()
	return NewServer(engine, "127.0.0.1:0", 16)
}

func TestNewServer(t *testing.T) {
	s := newTestServer()
	assert.NotNil(t, s)
	assert.NotNil(t, s.Handler())
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer()
	s.SetVersion("1.0.0")

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running")
	assert.Contains(t, rr.Body.String(), "1.0.0")
}

func TestHealthIncludesUpdateInfo(t *testing.T) {
	s := newTestServer()
	s.SetUpdateInfo(&UpdateInfo{UpdateAvailable: true, LatestVersion: "v2.0.0"})

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Contains(t, rr.Body.String(), "v2.0.0")
}

func TestHealthReportsShutdown(t *testing.T) {
	s := newTestServer()
	require.NoError(t, s.Stop())

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "shutting_down")
}

func TestCalculateEndpoint(t *testing.T) {
	s := newTestServer()

	body := `{
		"width": {"enabled": true, "value": 1920},
		"dropdown_ratio": "16:9 (Panorama)",
		"divisible_by": 16
	}`
	req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, resolution.ModeWidthWithAR, resp.Mode)
	assert.Equal(t, 5, resp.Priority)
	assert.Equal(t, 1920, resp.BaseW)
	assert.Equal(t, 1080, resp.BaseH)
	assert.Equal(t, 1920, resp.PreviewW)
	assert.Equal(t, 1088, resp.PreviewH)
}

func TestCalculateSnapsPreviewDims(t *testing.T) {
	s := newTestServer()

	// 1.5 MP at the implied 16:9 resolves to 1633x919 before snapping.
	body := `{
		"width": {"enabled": true, "value": 1920},
		"height": {"enabled": true, "value": 1080},
		"megapixel": {"enabled": true, "value": 1.5},
		"dropdown_ratio": "16:9",
		"divisible_by": 16
	}`
	req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp calculateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1633, resp.BaseW)
	assert.Equal(t, 919, resp.BaseH)
	assert.Equal(t, 1632, resp.PreviewW)
	assert.Equal(t, 912, resp.PreviewH)
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	s := newTestServer()

	body := `{"width": {"enabled": true, "value": -5}, "dropdown_ratio": "16:9"}`
	req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCalculateRejectsBadJSON(t *testing.T) {
	s := newTestServer()

	req, _ := http.NewRequest("POST", "/calculate", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalculateRejectsGet(t *testing.T) {
	s := newTestServer()

	req, _ := http.NewRequest("GET", "/calculate", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHostInvalidatesOnChangedSnapshot(t *testing.T) {
	calc := new(MockCalculator)
	s := NewServer(calc, "127.0.0.1:0", 16)

	result := &resolution.Result{Mode: resolution.ModeWidthWithAR, Priority: 5, BaseW: 1920, BaseH: 1080}
	calc.On("Calculate", mock.Anything).Return(result, nil)
	calc.On("InvalidateCache").Return()

	post := func(body string) {
		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(body))
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	first := `{"width": {"enabled": true, "value": 1920}, "dropdown_ratio": "16:9"}`
	changed := `{"width": {"enabled": true, "value": 1280}, "dropdown_ratio": "16:9"}`

	post(first)
	post(first) // identical snapshot, no further invalidation
	post(changed)

	calc.AssertNumberOfCalls(t, "InvalidateCache", 2)
	calc.AssertNumberOfCalls(t, "Calculate", 3)
}

func TestWebSocketHelloAndPingPong(t *testing.T) {
	s := newTestServer()
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	var hello map[string]string
	require.NoError(t, ws.ReadJSON(&hello))
	assert.Equal(t, "hello", hello["type"])
	assert.NotEmpty(t, hello["client_id"])

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	var pong map[string]string
	require.NoError(t, ws.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func TestWebSocketCalculate(t *testing.T) {
	s := newTestServer()
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	var hello map[string]string
	require.NoError(t, ws.ReadJSON(&hello))

	msg := `{"type":"calculate","request":{"height":{"enabled":true,"value":1080},"dropdown_ratio":"16:9"}}`
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(msg)))

	var update struct {
		Type   string            `json:"type"`
		Result calculateResponse `json:"result"`
	}
	require.NoError(t, ws.ReadJSON(&update))
	assert.Equal(t, "resolution_update", update.Type)
	assert.Equal(t, resolution.ModeHeightWithAR, update.Result.Mode)
	assert.Equal(t, 1920, update.Result.BaseW)
}

func TestWebSocketBroadcastOnHTTPCalculate(t *testing.T) {
	s := newTestServer()
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	var hello map[string]string
	require.NoError(t, ws.ReadJSON(&hello))

	body := `{"width": {"enabled": true, "value": 1920}, "dropdown_ratio": "16:9"}`
	req, _ := http.NewRequest("POST", server.URL+"/calculate", strings.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var update struct {
		Type string `json:"type"`
	}
	require.NoError(t, ws.ReadJSON(&update))
	assert.Equal(t, "resolution_update", update.Type)
}
