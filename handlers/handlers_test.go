package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"engagement-prediction-api/config"
	"engagement-prediction-api/models"
	"engagement-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type halfSource struct{}

func (halfSource) Float64() float64 { return 0.5 }

type testEnv struct {
	router   *gin.Engine
	notifier *services.Notifier
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: "*"},
		Pacing:    config.PacingConfig{ToastTTL: 3 * time.Second},
		Telemetry: config.TelemetryConfig{TraceExporter: "none"},
	}
	insights, err := services.LoadInsights()
	require.NoError(t, err)
	cache := &services.CacheService{}
	notifier := services.NewNotifier(cache, cfg.Pacing.ToastTTL)

	router, err := NewRouter(Deps{
		Config:    cfg,
		Predictor: services.NewPredictor(halfSource{}),
		Insights:  insights,
		Charts:    services.NewChartRenderer(insights, cache, time.Minute),
		Notifier:  notifier,
	})
	require.NoError(t, err)
	return testEnv{router: router, notifier: notifier}
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"platform":  {"Instagram"},
		"post_type": {"poll"},
		"trending":  {"yes"},
		"month":     {"1"},
		"day":       {"1"},
		"weekday":   {"5"},
		"hour":      {"19"},
		"minute":    {"0"},
	}
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"UP"`)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "engagement_http_requests_total")
}

func TestShowPageSections(t *testing.T) {
	env := newTestEnv(t)

	t.Run("prediction is the default", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="prediction-form"`)
		assert.Contains(t, body, `id="hour-value">12:00<`)
		assert.NotContains(t, body, "/charts/")
	})

	t.Run("explorer shows dataset charts only", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/?section=explorer", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "/charts/platform-chart.svg")
		assert.Contains(t, body, "/charts/post-type-chart.svg")
		assert.NotContains(t, body, "feature-importance-chart.svg")
		assert.NotContains(t, body, `id="prediction-form"`)
	})

	t.Run("insights shows feature importance", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/?section=insights", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/charts/feature-importance-chart.svg")
	})

	t.Run("client id is kept", func(t *testing.T) {
		id := uuid.NewString()
		rec := env.do(httptest.NewRequest(http.MethodGet, "/?client="+id, nil))
		assert.Contains(t, rec.Body.String(), `data-client-id="`+id+`"`)
	})
}

func TestShowPagePreset(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/?preset=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Loaded: Facebook poll (6222 engagement)")
	assert.Contains(t, body, `<option value="poll" selected>`)
	assert.Contains(t, body, `id="hour-value">13:00<`)
	assert.Contains(t, body, `id="minute-value">45<`)
}

func TestShowPageUnknownPresetKeepsDefaults(t *testing.T) {
	env := newTestEnv(t)

	for _, raw := range []string{"9", "-1", "abc"} {
		t.Run(raw, func(t *testing.T) {
			rec := env.do(httptest.NewRequest(http.MethodGet, "/?section=insights&preset="+raw, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

			body := rec.Body.String()
			assert.Contains(t, body, `id="prediction-form"`)
			assert.Contains(t, body, `id="hour-value">12:00<`)
			assert.NotContains(t, body, "Loaded:")
			assert.NotContains(t, body, "toast--")
			assert.NotContains(t, body, "/charts/")
		})
	}
}

func TestSubmitForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(postForm(validForm()))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="predicted-engagement">9,110<`)
	assert.Contains(t, body, `id="confidence-level">75%<`)
	assert.Contains(t, body, `id="performance-category">Excellent<`)
	assert.Contains(t, body, "Trending content receives algorithm boost.")
	assert.Contains(t, body, msgPredictionComplete)
}

func TestSubmitFormIncomplete(t *testing.T) {
	env := newTestEnv(t)

	values := validForm()
	values.Set("trending", "")
	rec := env.do(postForm(values))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, msgIncompleteForm)
	assert.Contains(t, body, "toast--error")
	assert.Contains(t, body, `id="prediction-form"`)
	assert.Contains(t, body, `<option value="Instagram" selected>`)
	assert.NotContains(t, body, `id="predicted-engagement"`)
}

func TestCreatePredictionAPI(t *testing.T) {
	env := newTestEnv(t)

	body := `{"platform":"Instagram","post_type":"poll","trending":"yes","month":1,"day":1,"weekday":5,"hour":19,"minute":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 9110, resp.Engagement)
	assert.Equal(t, 75, resp.Confidence)
	assert.Equal(t, models.CategoryExcellent, resp.Category)
	assert.Len(t, resp.Factors, 5)
	assert.Equal(t, 19, resp.Attributes.Hour)
}

func TestCreatePredictionAPIRejects(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty platform", `{"platform":"","post_type":"poll","trending":"yes"}`},
		{"unparsed hour", `{"platform":"Twitter","post_type":"poll","trending":"yes","hour":"late"}`},
		{"malformed json", `{"platform":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := env.do(req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), msgIncompleteForm)
		})
	}
}

func TestCreatePredictionNotifiesPage(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()

	toasts, cancel := env.notifier.Subscribe(context.Background(), id)
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(`{"platform":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(clientIDHeader, id)
	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	select {
	case toast := <-toasts:
		assert.Equal(t, msgIncompleteForm, toast.Message)
		assert.Equal(t, models.ToastError, toast.Kind)
	case <-time.After(time.Second):
		t.Fatal("no toast received")
	}
}

func TestInsightsAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FeatureImportance   []models.FeatureWeight    `json:"feature_importance"`
		PlatformPerformance []models.GroupPerformance `json:"platform_performance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.FeatureImportance, 17)
	assert.Equal(t, "platform_Instagram", resp.FeatureImportance[0].Feature)
	assert.Len(t, resp.PlatformPerformance, 3)
}

func TestPresetsAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Instagram video (6198 engagement)")

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/v1/presets/0/load", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Preset     models.Preset         `json:"preset"`
		Attributes models.PostAttributes `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Facebook video (6410 engagement)", resp.Preset.Name)
	assert.Equal(t, 6, resp.Attributes.Weekday)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/v1/presets/x/load", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/v1/presets/7/load", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetChart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/charts/platform-chart.svg?theme=dark&width=480", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/charts/platform-chart.svg?section=insights", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/charts/feature-importance-chart.svg?section=insights", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/charts/pie.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/ws/toasts")
}

func TestToastWebSocket(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/toasts"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	id := uuid.NewString()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?client="+id, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the subscription is registered after the upgrade; retry until delivered
	deadline := time.Now().Add(2 * time.Second)
	var msg struct {
		Type string       `json:"type"`
		Data models.Toast `json:"data"`
	}
	received := make(chan error, 1)
	go func() { received <- conn.ReadJSON(&msg) }()

	for {
		require.NoError(t, env.notifier.Notify(context.Background(), id, "Loaded: Instagram video (6198 engagement)", models.ToastSuccess))
		select {
		case err := <-received:
			require.NoError(t, err)
			assert.Equal(t, "toast", msg.Type)
			assert.Equal(t, "Loaded: Instagram video (6198 engagement)", msg.Data.Message)
			assert.Equal(t, int64(3000), msg.Data.TTLMS)
			return
		case <-time.After(50 * time.Millisecond):
			if time.Now().After(deadline) {
				t.Fatal("toast never reached the socket")
			}
		}
	}
}

func TestPacer(t *testing.T) {
	assert.NoError(t, Pacer{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Pacer{Delay: time.Minute}.Wait(ctx), context.Canceled)

	start := time.Now()
	require.NoError(t, Pacer{Delay: 20 * time.Millisecond}.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "9,110", thousands(9110))
	assert.Equal(t, "435", thousands(435.0))
	assert.Equal(t, "1,234,567", thousands(int64(1234567)))
	assert.Equal(t, "-2,000", thousands(-2000))
}
