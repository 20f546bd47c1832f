package llm

import (
	"context"
	"time"

	"notebook-ai/internal/metrics"
)

// InstrumentedCompleter records call counts and latency for a wrapped Completer.
type InstrumentedCompleter struct {
	next     Completer
	provider string
	metrics  *metrics.Metrics
}

// NewInstrumented wraps c so every Complete call is observed under the given provider label.
func NewInstrumented(c Completer, provider string, m *metrics.Metrics) *InstrumentedCompleter {
	return &InstrumentedCompleter{next: c, provider: provider, metrics: m}
}

// Complete delegates to the wrapped Completer.
func (i *InstrumentedCompleter) Complete(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	start := time.Now()
	reply, err := i.next.Complete(ctx, messages, params)
	i.observe(start, err)
	return reply, err
}

// StreamComplete streams when the wrapped Completer supports it and otherwise
// delivers the full completion as a single chunk.
func (i *InstrumentedCompleter) StreamComplete(ctx context.Context, messages []Message, params ChatParams, callback func(chunk string) error) error {
	start := time.Now()

	var err error
	if s, ok := i.next.(interface {
		StreamComplete(context.Context, []Message, ChatParams, func(string) error) error
	}); ok {
		err = s.StreamComplete(ctx, messages, params, callback)
	} else {
		var reply string
		reply, err = i.next.Complete(ctx, messages, params)
		if err == nil {
			err = callback(reply)
		}
	}

	i.observe(start, err)
	return err
}

func (i *InstrumentedCompleter) observe(start time.Time, err error) {
	if i.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	i.metrics.LLMRequestsTotal.WithLabelValues(i.provider, outcome).Inc()
	i.metrics.LLMRequestDuration.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())
}
