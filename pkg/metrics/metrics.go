package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sessions tracks the number of live connections in the room.
	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rosechat_sessions",
		Help: "Number of connected sessions.",
	})

	// Messages counts accepted chat messages.
	Messages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosechat_messages_total",
		Help: "Total accepted chat messages.",
	})

	// Roses counts rose toggles by outcome (ADDED or REMOVED).
	Roses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosechat_roses_total",
		Help: "Total rose toggles by action.",
	}, []string{"action"})

	// Rejected counts inbound events rejected by the room, by wire code.
	Rejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosechat_events_rejected_total",
		Help: "Total rejected room events by error code.",
	}, []string{"code"})

	// Swept counts messages removed by the scheduled age sweep.
	Swept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosechat_messages_swept_total",
		Help: "Total messages removed by the age sweep.",
	})
)
