package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/observability/statsd"
)

func TestEmitSessionTransition(t *testing.T) {
	t.Parallel()

	sink := &statsd.MemorySink{}
	EmitSessionTransition(sink, SessionMetric{
		Operation: "logout",
		From:      "identified",
		To:        "identified",
		Result:    ResultError,
		Duration:  5 * time.Millisecond,
		Err:       apperrors.Network("offline"),
	})

	counts := sink.Named("session.transition")
	require.Len(t, counts, 1)
	assert.Equal(t, "network", counts[0].Tags["error_class"])
	assert.Equal(t, "logout", counts[0].Tags["operation"])
	assert.Len(t, sink.Named("session.duration"), 1)

	EmitSessionTransition(nil, SessionMetric{})
}

func TestEmitSessionTransition_NoDuration(t *testing.T) {
	t.Parallel()

	sink := &statsd.MemorySink{}
	EmitSessionTransition(sink, SessionMetric{Operation: "login", Result: ResultSuccess})
	assert.Len(t, sink.Named("session.transition"), 1)
	assert.Empty(t, sink.Named("session.duration"))
	_, hasClass := sink.Named("session.transition")[0].Tags["error_class"]
	assert.False(t, hasClass)
}

func TestEmitAPIRequest(t *testing.T) {
	t.Parallel()

	sink := &statsd.MemorySink{}
	EmitAPIRequest(sink, RequestMetric{Method: "GET", Route: "/getInfo", Status: 200, Duration: time.Millisecond})
	EmitAPIRequest(sink, RequestMetric{Method: "GET", Route: "/system/return/list", Sanitized: true, Err: apperrors.Timeout("slow")})

	reqs := sink.Named("api.request")
	require.Len(t, reqs, 2)
	assert.Equal(t, "success", reqs[0].Tags["result"])
	assert.Equal(t, "200", reqs[0].Tags["status"])
	assert.Equal(t, "timeout", reqs[1].Tags["error_class"])
	assert.Equal(t, "true", reqs[1].Tags["sanitized"])
	assert.Len(t, sink.Named("api.request.duration"), 1)
}

func TestCloneTags(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "b"}
	cp := CloneTags(src)
	cp["a"] = "c"
	assert.Equal(t, "b", src["a"])
}
