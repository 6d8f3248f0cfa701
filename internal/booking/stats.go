package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/glidebook/glidebook/internal/observability/metrics"
	"github.com/glidebook/glidebook/pkg/logging"
)

// Stats summarizes a business's bookings by status.
type Stats struct {
	BusinessID string           `json:"business_id"`
	Total      int64            `json:"total"`
	ByStatus   map[Status]int64 `json:"by_status"`
	Unassigned int64            `json:"unassigned"`
}

type statsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatsRepository queries booking aggregates from the database.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	if pool == nil {
		panic("booking: pgx pool required for stats")
	}
	return &StatsRepository{db: pool}
}

// NewStatsRepositoryWithDB allows injecting a mock database for testing.
func NewStatsRepositoryWithDB(db statsDB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats retrieves per-status counts for a business.
func (r *StatsRepository) GetStats(ctx context.Context, businessID string) (*Stats, error) {
	stats := &Stats{
		BusinessID: businessID,
		ByStatus:   map[Status]int64{},
	}

	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM bookings
		WHERE business_id = $1 GROUP BY status`, businessID)
	if err != nil {
		return nil, fmt.Errorf("booking stats: count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("booking stats: scan: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking stats: iterate: %w", err)
	}

	unassignedQuery := `
		SELECT COUNT(*) FROM bookings
		WHERE business_id = $1
		  AND provider_id = '' AND assigned_provider = ''
		  AND status IN ('confirmed', 'pending')`
	if err := r.db.QueryRow(ctx, unassignedQuery, businessID).Scan(&stats.Unassigned); err != nil {
		return nil, fmt.Errorf("booking stats: count unassigned: %w", err)
	}

	return stats, nil
}

// MutationLatencySnapshot summarizes the mutation-write histogram.
type MutationLatencySnapshot struct {
	Total   int64   `json:"total"`
	P90Ms   float64 `json:"p90_ms"`
	P95Ms   float64 `json:"p95_ms"`
	MaxMsLE float64 `json:"max_ms_le"`
}

// StatsHandler serves booking aggregates plus an operational latency
// snapshot pulled from the Prometheus gatherer.
type StatsHandler struct {
	repo     *StatsRepository
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

// NewStatsHandler creates a stats HTTP handler.
func NewStatsHandler(repo *StatsRepository, gatherer prometheus.Gatherer, logger *logging.Logger) *StatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &StatsHandler{repo: repo, gatherer: gatherer, logger: logger}
}

type statsResponse struct {
	*Stats
	MutationLatency MutationLatencySnapshot `json:"mutation_latency"`
}

// GetStats handles GET /api/admin/bookings/stats?businessId=<id>
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("businessId")
	if businessID == "" {
		http.Error(w, `{"error":"businessId required"}`, http.StatusBadRequest)
		return
	}

	stats, err := h.repo.GetStats(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to get booking stats", "business_id", businessID, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statsResponse{
		Stats:           stats,
		MutationLatency: snapshotMutationLatency(h.gatherer),
	})
}

// snapshotMutationLatency aggregates the mutation-latency histogram across
// operations, keeping only status="ok" series.
func snapshotMutationLatency(gatherer prometheus.Gatherer) MutationLatencySnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return MutationLatencySnapshot{}
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == metrics.MutationLatencyMetricName {
			family = mf
			break
		}
	}
	if family == nil {
		return MutationLatencySnapshot{}
	}

	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64
	for _, metric := range family.Metric {
		if metric == nil || !hasLabel(metric, "status", "ok") {
			continue
		}
		hist := metric.GetHistogram()
		if hist == nil {
			continue
		}
		sampleCount += hist.GetSampleCount()
		for _, b := range hist.Bucket {
			if b == nil {
				continue
			}
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}
	if sampleCount == 0 || len(cumulativeByUpper) == 0 {
		return MutationLatencySnapshot{}
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		uppers = append(uppers, upper)
	}
	sort.Float64s(uppers)

	var maxFinite float64
	for _, upper := range uppers {
		if !math.IsInf(upper, 1) {
			maxFinite = upper
		}
	}

	return MutationLatencySnapshot{
		Total:   int64(sampleCount),
		P90Ms:   histogramQuantile(0.90, sampleCount, uppers, cumulativeByUpper) * 1000.0,
		P95Ms:   histogramQuantile(0.95, sampleCount, uppers, cumulativeByUpper) * 1000.0,
		MaxMsLE: maxFinite * 1000.0,
	}
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, lp := range metric.Label {
		if lp == nil {
			continue
		}
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func histogramQuantile(q float64, total uint64, uppers []float64, cumulativeByUpper map[float64]uint64) float64 {
	if total == 0 || q <= 0 {
		return 0
	}
	if q >= 1 {
		for i := len(uppers) - 1; i >= 0; i-- {
			if !math.IsInf(uppers[i], 1) {
				return uppers[i]
			}
		}
		return 0
	}

	target := q * float64(total)
	var prevUpper float64
	var prevCum float64

	for _, upper := range uppers {
		cum := float64(cumulativeByUpper[upper])
		if cum < target {
			prevUpper = upper
			prevCum = cum
			continue
		}

		bucketCount := cum - prevCum
		if bucketCount <= 0 || upper == prevUpper {
			return upper
		}
		if math.IsInf(upper, 1) {
			return prevUpper
		}

		fraction := (target - prevCum) / bucketCount
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		return prevUpper + fraction*(upper-prevUpper)
	}

	return uppers[len(uppers)-1]
}
