package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_metrics.go -package mocks fed_core/logic IMetrics

type IMetrics interface {
	StartApubRequestIn(label string) IRequestObserver
	StartApubRequestOut(label string) IRequestObserver
	ActivityReceived(label string)
	ActivityDispatched(label string)
	DeliveryAttempted(label string)
	SignatureFailed()
	ServiceStarted()
	JobQueueLength(length int)
}

type IRequestObserver interface {
	Finish()
}

type metrics struct {
	apubRequestsIn       *prometheus.HistogramVec
	apubRequestsOut      *prometheus.HistogramVec
	activitiesReceived   *prometheus.CounterVec
	activitiesDispatched *prometheus.CounterVec
	deliveriesAttempted  *prometheus.CounterVec
	signatureFailures    prometheus.Counter
	serviceStarted       prometheus.Counter
	jobQueueLength       prometheus.Gauge
}

func NewMetrics() IMetrics {

	res := metrics{}

	res.apubRequestsIn = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "apub_requests_in_duration",
		Help: "Duration in seconds of ActivityPub requests served.",
	}, []string{"label"})
	prometheus.Register(res.apubRequestsIn)

	res.apubRequestsOut = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "apub_requests_out_duration",
		Help: "Duration in seconds of ActivityPub requests made.",
	}, []string{"label"})
	prometheus.Register(res.apubRequestsOut)

	res.activitiesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activities_received",
		Help: "Number of incoming activities, by outcome",
	}, []string{"label"})
	prometheus.Register(res.activitiesReceived)

	res.activitiesDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activities_dispatched",
		Help: "Number of activities routed to a handler, by direction",
	}, []string{"label"})
	prometheus.Register(res.activitiesDispatched)

	res.deliveriesAttempted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deliveries_attempted",
		Help: "Number of outgoing delivery attempts, by outcome",
	}, []string{"label"})
	prometheus.Register(res.deliveriesAttempted)

	res.signatureFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signature_failures",
		Help: "Number of inbound requests rejected by signature verification",
	})
	prometheus.Register(res.signatureFailures)

	res.serviceStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "service_started",
		Help: "Service has started up",
	})
	prometheus.Register(res.serviceStarted)

	res.jobQueueLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "job_queue_length",
		Help: "Jobs waiting in the queue",
	})
	prometheus.Register(res.jobQueueLength)

	return &res
}

type requestObserver struct {
	label string
	start time.Time
	hgvec *prometheus.HistogramVec
}

func (ro *requestObserver) Finish() {
	now := time.Now()
	elapsed := float64(now.UnixMilli()-ro.start.UnixMilli()) / 1000.0
	ro.hgvec.WithLabelValues(ro.label).Observe(elapsed)
}

func (m *metrics) StartApubRequestIn(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.apubRequestsIn}
}

func (m *metrics) StartApubRequestOut(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.apubRequestsOut}
}

func (m *metrics) ActivityReceived(label string) {
	m.activitiesReceived.WithLabelValues(label).Add(1)
}

func (m *metrics) ActivityDispatched(label string) {
	m.activitiesDispatched.WithLabelValues(label).Add(1)
}

func (m *metrics) DeliveryAttempted(label string) {
	m.deliveriesAttempted.WithLabelValues(label).Add(1)
}

func (m *metrics) SignatureFailed() {
	m.signatureFailures.Add(1)
}

func (m *metrics) ServiceStarted() {
	m.serviceStarted.Add(1)
}

func (m *metrics) JobQueueLength(length int) {
	m.jobQueueLength.Set(float64(length))
}
