// Package metrics exposes store counts in the Prometheus text exposition
// format.
package metrics

import (
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/honeyraes/honeyraes/server/internal/report"
	"github.com/honeyraes/honeyraes/server/internal/store"
)

// Metric names.
const (
	Customers         = "honeyraes_customers"
	Employees         = "honeyraes_employees"
	Tickets           = "honeyraes_service_tickets"
	TicketsUnassigned = "honeyraes_service_tickets_unassigned"
	EmergenciesOpen   = "honeyraes_service_tickets_emergency_open"
)

// Handler serves GET /metrics from st.
func Handler(st *store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range Families(report.Summarize(st.Snapshot())) {
			if err := enc.Encode(mf); err != nil {
				slog.Error("metrics: encode failed", "family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

// Families converts a summary into gauge metric families.
func Families(s report.Summary) []*dto.MetricFamily {
	return []*dto.MetricFamily{
		gauge(Customers, "Number of customers.", float64(s.Customers)),
		gauge(Employees, "Number of employees.", float64(s.Employees)),
		{
			Name: proto.String(Tickets),
			Help: proto.String("Number of service tickets by state."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				labelled("state", "open", float64(s.Open)),
				labelled("state", "completed", float64(s.Completed)),
			},
		},
		gauge(TicketsUnassigned, "Number of service tickets with no employee.", float64(s.Unassigned)),
		gauge(EmergenciesOpen, "Number of open emergency service tickets.", float64(s.OpenEmergencies)),
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}

func labelled(label, value string, v float64) *dto.Metric {
	return &dto.Metric{
		Label: []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(value)}},
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}
