package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveLLMRequest("deepseek-chat", "200", time.Second)
	m.IncRecommendationOutcome("ok")
	m.AddRecommendationsStored(3)
	m.IncAudit("dropped")
	m.IncConfigRefresh("store")
	assert.NoError(t, m.WritePrometheus(&bytes.Buffer{}))
}

func TestWritePrometheusExposesSeries(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/recommendations/generate", "201", 120*time.Millisecond)
	m.ObserveLLMRequest("deepseek-chat", "200", 2*time.Second)
	m.IncRecommendationOutcome("ok")
	m.AddRecommendationsStored(2)

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	out := buf.String()

	assert.Contains(t, out, `ma_api_requests_total{method="POST",route="/api/recommendations/generate",status="201"} 1.000000`)
	assert.Contains(t, out, `ma_llm_request_duration_seconds_bucket{model="deepseek-chat",status="200",le="2"} 1`)
	assert.Contains(t, out, `ma_llm_request_duration_seconds_bucket{model="deepseek-chat",status="200",le="1"} 0`)
	assert.Contains(t, out, "ma_recommendations_stored_total 2.000000")
	assert.True(t, strings.Contains(out, "# TYPE ma_api_inflight_requests gauge"))
}

func TestCounterVecSortedOutput(t *testing.T) {
	c := NewCounterVec("x_total", "x", []string{"k"})
	c.Inc("b")
	c.Inc("a")
	c.Add(2, "a")

	var buf bytes.Buffer
	require.NoError(t, c.WritePrometheus(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `x_total{k="a"} 3.000000`, lines[2])
	assert.Equal(t, `x_total{k="b"} 1.000000`, lines[3])
	assert.Equal(t, 3.0, c.Value("a"))
}

func TestLabelEscaping(t *testing.T) {
	assert.Equal(t, `{k="a\"b"}`, labelString([]string{"k"}, []string{`a"b`}))
	assert.Equal(t, `{k="unknown"}`, labelString([]string{"k"}, nil))
	assert.Equal(t, `{le="1"}`, withLe("", "1"))
}
