package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"devicerisk/inventory"
	"devicerisk/pipeline"
)

// Registry run metrics on a private registry
type Registry struct {
	reg           *prometheus.Registry
	Records       prometheus.Counter
	FullyValid    prometheus.Counter
	AnalysisReady prometheus.Counter
	Recovered     prometheus.Counter
	RiskDevices   *prometheus.GaugeVec
	RunDuration   prometheus.Gauge
}

// NewRegistry creates the run metrics on a fresh registry
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devicerisk_records_total",
		Help: "Inventory records read.",
	})
	fullyValid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devicerisk_fully_valid_total",
		Help: "Records valid before recovery.",
	})
	analysisReady := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devicerisk_analysis_ready_total",
		Help: "Records scored for lifecycle risk.",
	})
	recovered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devicerisk_recovered_total",
		Help: "Invalid records merged into the valid set by recovery.",
	})
	riskDevices := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "devicerisk_risk_devices",
		Help: "Scored devices per risk level in the last run.",
	}, []string{"level"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "devicerisk_run_duration_seconds",
		Help: "Wall time of the last pipeline run.",
	})

	r.MustRegister(records, fullyValid, analysisReady, recovered, riskDevices, duration)
	return &Registry{
		reg:           r,
		Records:       records,
		FullyValid:    fullyValid,
		AnalysisReady: analysisReady,
		Recovered:     recovered,
		RiskDevices:   riskDevices,
		RunDuration:   duration,
	}
}

// Observe records the counters of one run
func (r *Registry) Observe(stats pipeline.Stats) {
	r.Records.Add(float64(stats.Total))
	r.FullyValid.Add(float64(stats.FullyValid))
	r.AnalysisReady.Add(float64(stats.AnalysisReady))
	r.Recovered.Add(float64(stats.Merged))
	for _, level := range inventory.RiskLevels {
		r.RiskDevices.WithLabelValues(level.String()).Set(float64(stats.RiskCounts[level]))
	}
	r.RunDuration.Set(stats.Duration.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

// Gatherer exposes the registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
