package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "remotext",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	irFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "ir",
			Name:      "frames_total",
			Help:      "Capture windows handed to the decoder, by outcome.",
		},
		[]string{"result"},
	)
	keypadKeys = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "keypad",
			Name:      "keys_total",
			Help:      "Decoded buttons by key class and emulator result.",
		},
		[]string{"key", "result"},
	)
	keypadCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "keypad",
			Name:      "commands_total",
			Help:      "Local commands by kind and outcome.",
		},
		[]string{"command", "result"},
	)
	peerMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "peer",
			Name:      "messages_total",
			Help:      "Peer messages by direction and outcome.",
		},
		[]string{"direction", "result"},
	)
	peerBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "peer",
			Name:      "bytes_total",
			Help:      "Bytes moved over the peer link.",
		},
		[]string{"direction"},
	)
	queueDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "remotext",
			Subsystem: "queue",
			Name:      "dropped_total",
			Help:      "Items dropped because a bounded queue was full.",
		},
		[]string{"queue"},
	)
	sendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "remotext",
			Subsystem: "peer",
			Name:      "send_duration_seconds",
			Help:      "Time spent writing one outbound frame.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			irFrames,
			keypadKeys,
			keypadCommands,
			peerMessages,
			peerBytes,
			queueDrops,
			sendDuration,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordFrame counts one decode attempt; result is "ok", "incomplete" or
// "foreign".
func RecordFrame(result string) {
	RegisterMetrics()
	irFrames.WithLabelValues(result).Inc()
}

func RecordKey(key, result string) {
	RegisterMetrics()
	keypadKeys.WithLabelValues(key, result).Inc()
}

func RecordCommand(command string, success bool) {
	RegisterMetrics()
	keypadCommands.WithLabelValues(command, strconv.FormatBool(success)).Inc()
}

func RecordMessage(direction string, success bool) {
	RegisterMetrics()
	peerMessages.WithLabelValues(direction, strconv.FormatBool(success)).Inc()
}

func RecordBytes(direction string, n int) {
	RegisterMetrics()
	peerBytes.WithLabelValues(direction).Add(float64(n))
}

func RecordDrop(queue string) {
	RegisterMetrics()
	queueDrops.WithLabelValues(queue).Inc()
}

func RecordSend(duration time.Duration) {
	RegisterMetrics()
	sendDuration.Observe(duration.Seconds())
}
