// Package metrics exposes Prometheus counters for extraction and formatting
// outcomes. A nil *Recorder is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metric names
const (
	FieldsExtractedTotal  = "netonboard_fields_extracted_total"
	FieldsDegradedTotal   = "netonboard_fields_degraded_total"
	DevicesFormattedTotal = "netonboard_devices_formatted_total"
)

// Result label values for DevicesFormattedTotal.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Recorder counts extraction and formatting events.
type Recorder struct {
	fieldsExtracted  *prometheus.CounterVec
	fieldsDegraded   *prometheus.CounterVec
	devicesFormatted *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		fieldsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: FieldsExtractedTotal,
			Help: "Field values written to device aggregates.",
		}, []string{"platform"}),
		fieldsDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: FieldsDegradedTotal,
			Help: "Field extractions that failed to render or query and were emptied.",
		}, []string{"platform", "field"}),
		devicesFormatted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DevicesFormattedTotal,
			Help: "Device records produced by the formatter, by outcome.",
		}, []string{"platform", "result"}),
	}
	for _, c := range []prometheus.Collector{r.fieldsExtracted, r.fieldsDegraded, r.devicesFormatted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// FieldExtracted counts one value written for platform.
func (r *Recorder) FieldExtracted(platform string) {
	if r == nil {
		return
	}
	r.fieldsExtracted.WithLabelValues(platform).Inc()
}

// FieldDegraded counts one extraction of field that was replaced by an
// empty value.
func (r *Recorder) FieldDegraded(platform, field string) {
	if r == nil {
		return
	}
	r.fieldsDegraded.WithLabelValues(platform, field).Inc()
}

// DeviceFormatted counts one device record.
func (r *Recorder) DeviceFormatted(platform string, failed bool) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if failed {
		result = ResultFailed
	}
	r.devicesFormatted.WithLabelValues(platform, result).Inc()
}
