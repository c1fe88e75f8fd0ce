package service

import "github.com/prometheus/client_golang/prometheus"

// Upload outcomes recorded in paperhub_uploads_total.
const (
	uploadAccepted    = "accepted"
	uploadInvalidType = "invalid_type"
	uploadTooLarge    = "too_large"
	uploadMissingFile = "missing_file"
	uploadFailed      = "error"
)

// Metrics counts catalog activity. A nil *Metrics records nothing.
type Metrics struct {
	uploads   *prometheus.CounterVec
	downloads prometheus.Counter
}

// NewMetrics registers the catalog counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paperhub_uploads_total",
				Help: "Upload attempts by outcome.",
			},
			[]string{"result"},
		),
		downloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperhub_downloads_total",
			Help: "Download counter increments recorded.",
		}),
	}
	for _, c := range []prometheus.Collector{m.uploads, m.downloads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) upload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

func (m *Metrics) download() {
	if m == nil {
		return
	}
	m.downloads.Inc()
}
