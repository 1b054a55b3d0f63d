package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/stockdesk/console/internal/observability/errors"
	"github.com/stockdesk/console/internal/observability/statsd"
)

// RequestMetric captures one transport round trip.
type RequestMetric struct {
	Method    string
	Route     string
	Status    int
	Sanitized bool
	Duration  time.Duration
	Err       error
}

// EmitAPIRequest emits request count and latency for a transport call.
func EmitAPIRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	if in.Err != nil {
		result = ResultError
	}
	tags := map[string]string{
		"method":    in.Method,
		"route":     in.Route,
		"result":    result,
		"sanitized": strconv.FormatBool(in.Sanitized),
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		tags["error_class"] = obserrors.Classify(in.Err)
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.request.duration", in.Duration, CloneTags(tags))
	}
}
