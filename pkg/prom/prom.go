package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/paykit/order-gateway/pkg/http"
	"github.com/paykit/order-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemPayments = "payment"
)

const (
	MetricAuthorizationOutcome = "authorization_outcome_total"
	MetricSettlementCount      = "settlement_total"
	MetricSettlementAmount     = "settlement_amount_total"
)

const (
	TypeCounter    = "counter"
	TypeCounterVec = "counterVec"
	TypeHistogram  = "histogram"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogram = make(map[string]prometheus.Histogram)

var defaultLabels prometheus.Labels

func Create(host string, env string, nameSpace string) error {
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	// Payments
	hasError(createCounterVec(SystemPayments, MetricAuthorizationOutcome, []string{"outcome"}))
	hasError(createCounter(SystemPayments, MetricSettlementCount))
	hasError(createCounter(SystemPayments, MetricSettlementAmount))

	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labels ...string) error {
	switch metricType {
	case TypeCounter:
		return createCounter(metricSubsystem, metricName)
	case TypeCounterVec:
		return createCounterVec(metricSubsystem, metricName, labels)
	case TypeHistogram:
		return createHistogram(metricSubsystem, metricName)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

// IncCounterVec increments a labelled counter; a no-op when the metric
// system is disabled or the metric was never registered.
func IncCounterVec(subsystem, name string, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if vec, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		vec.WithLabelValues(labelValues...).Inc()
	}
}

func AddCounter(subsystem, name string, value float64) {
	if !MetricSystemEnabled {
		return
	}
	if c, ok := MetricCollectionCounters[subsystem+name]; ok {
		c.Add(value)
	}
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounters[subsystem+name] = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	})
	return prometheus.Register(MetricCollectionCounters[subsystem+name])
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounterVec[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels)
	return prometheus.Register(MetricCollectionCounterVec[subsystem+name])
}

func createHistogram(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogram[subsystem+name] = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	})
	return prometheus.Register(MetricCollectionHistogram[subsystem+name])
}
