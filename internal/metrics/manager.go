package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterNoteOperations     *prometheus.CounterVec
	CounterNotesCreated       prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("notes", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("notes", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterNoteOperations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "note_operations",
		Help:      "The total number of note operations by outcome",
	}, []string{"operation", "result"})
	counterNotesCreated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "notes_created",
		Help:      "The total number of added notes",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.00001, 0.0001, 0.0005, 0.001, 0.0025, 0.005,
				0.01, 0.025, 0.05, 0.1, 0.5, 1, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterNoteOperations:     counterNoteOperations,
		CounterNotesCreated:       counterNotesCreated,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		GaugeLifeSignal:           gaugeLifeSignal,
		HistRequestDuration:       histReqDuration,
	}
}

// ObserveNoteOperation counts one note operation. Safe on a nil Manager.
func (m *Manager) ObserveNoteOperation(operation, result string) {
	if m == nil {
		return
	}
	m.CounterNoteOperations.With(prometheus.Labels{
		"operation": operation,
		"result":    result,
	}).Inc()
}

// IncNotesCreated counts a created note. Safe on a nil Manager.
func (m *Manager) IncNotesCreated() {
	if m == nil {
		return
	}
	m.CounterNotesCreated.Inc()
}

// ObserveRequest records one served request. Safe on a nil Manager.
func (m *Manager) ObserveRequest(method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HistRequestDuration.Observe(took.Seconds())
	m.CounterRequests.With(prometheus.Labels{
		"method": MethodLabel(method),
		"status": strconv.Itoa(status),
	}).Inc()
}

// MethodOther labels every method the notes API does not serve
const MethodOther = "other"

// MethodLabel maps a request method onto a fixed label set so that clients
// cannot grow the number of request series
func MethodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return method
	default:
		return MethodOther
	}
}
