// Package notify delivers planner notices to logs, metrics and the HTTP
// response that triggered them.
package notify

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/planner"
)

// LogNotifier writes notices to the logrus logger at warning level.
type LogNotifier struct {
	Fields log.Fields
}

func (l LogNotifier) Notify(_ context.Context, n planner.Notice) {
	entry := log.WithFields(l.Fields)
	if n.Err != nil {
		entry = entry.WithError(n.Err)
	}
	entry.Warn(n.Message)
}

// CounterNotifier counts notices on a counter vector labelled by message.
type CounterNotifier struct {
	Counter *prometheus.CounterVec
}

func (c CounterNotifier) Notify(_ context.Context, n planner.Notice) {
	if c.Counter == nil {
		return
	}
	c.Counter.WithLabelValues(n.Message).Inc()
}

// Multi fans a notice out to every notifier in order.
type Multi []planner.Notifier

func (m Multi) Notify(ctx context.Context, n planner.Notice) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

// Collector gathers the notice messages raised while handling one request.
type Collector struct {
	mu       sync.Mutex
	warnings []string
}

type collectorKey struct{}

// WithCollector returns a context carrying a fresh Collector.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// FromContext returns the Collector carried by ctx, if any.
func FromContext(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

func (c *Collector) add(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.warnings {
		if w == msg {
			return
		}
	}
	c.warnings = append(c.warnings, msg)
}

// Warnings returns the distinct messages collected so far.
func (c *Collector) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.warnings...)
}

// ContextNotifier records notices on the Collector carried by the context.
// Notices raised outside a collecting context are dropped.
type ContextNotifier struct{}

func (ContextNotifier) Notify(ctx context.Context, n planner.Notice) {
	if c, ok := FromContext(ctx); ok {
		c.add(n.Message)
	}
}
