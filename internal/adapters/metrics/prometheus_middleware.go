package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
)

// PrometheusMiddleware records duration and success of every mediator
// request, labelled by the bare request type name
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(mediator.RequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}
