// Package metrics exposes business and pool metrics for Prometheus.
// Business counters are driven by domain events so services stay unaware
// of instrumentation.
package metrics

import (
	"context"
	"time"

	"crm_backend/internal/events"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Leads created, by initial status",
		},
		[]string{"status"},
	)

	leadScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crm_lead_score",
			Help:    "Qualification score of newly created leads",
			Buckets: []float64{40, 50, 60, 70, 80, 90, 100},
		},
	)

	leadsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_assigned_total",
			Help: "Lead assignments, by policy",
		},
		[]string{"policy"},
	)

	leadsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_converted_total",
			Help: "Leads converted to deals",
		},
	)

	dealStageMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_deal_stage_moves_total",
			Help: "Deal stage transitions, by target stage",
		},
		[]string{"stage"},
	)

	notificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_notifications_total",
			Help: "Notification deliveries, by channel and result",
		},
		[]string{"channel", "result"},
	)

	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_db_connections_active",
			Help: "Number of acquired database connections",
		},
	)

	dbConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// Recorder turns domain events into counters.
type Recorder struct{}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RegisterHandlers subscribes the recorder to the events it counts.
func (r *Recorder) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), r)
	bus.Subscribe(events.LeadAssigned{}.EventName(), r)
	bus.Subscribe(events.LeadConverted{}.EventName(), r)
	bus.Subscribe(events.DealStageChanged{}.EventName(), r)
}

// Handle implements events.Handler.
func (r *Recorder) Handle(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		leadsCreated.WithLabelValues(e.Status).Inc()
		leadScores.Observe(float64(e.Score))
	case events.LeadAssigned:
		leadsAssigned.WithLabelValues(e.Policy).Inc()
	case events.LeadConverted:
		leadsConverted.Inc()
	case events.DealStageChanged:
		dealStageMoves.WithLabelValues(e.NewStage).Inc()
	}
	return nil
}

// RecordNotification counts one delivery attempt on a channel.
func RecordNotification(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notificationsDelivered.WithLabelValues(channel, result).Inc()
}

// ObservePool samples pool statistics until ctx is done.
func ObservePool(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stat := pool.Stat()
		dbConnectionsActive.Set(float64(stat.AcquiredConns()))
		dbConnectionsIdle.Set(float64(stat.IdleConns()))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
