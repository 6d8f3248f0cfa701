package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glidebook/glidebook/internal/observability/metrics"
	"github.com/glidebook/glidebook/internal/provider"
	"github.com/glidebook/glidebook/pkg/logging"
)

var tracer = otel.Tracer("glidebook/bookings")

// Store is the persistence surface the service writes through.
type Store interface {
	ListByBusiness(ctx context.Context, businessID string) ([]Booking, error)
	UpdateStatus(ctx context.Context, businessID, bookingID string, status Status) error
	AssignProvider(ctx context.Context, businessID, bookingID, providerID, displayName string) error
}

// ProviderDirectory resolves providers for name annotation and assignment.
type ProviderDirectory interface {
	ListByBusiness(ctx context.Context, businessID string) ([]provider.Provider, error)
	GetByID(ctx context.Context, businessID, providerID string) (*provider.Provider, error)
}

// Service orchestrates the booking page lifecycle: one fetch per business
// into a snapshot, pure classification/projection over it, and remote-first
// mutations mirrored locally only on success.
type Service struct {
	store     Store
	providers ProviderDirectory
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger

	mu        sync.Mutex
	snapshots map[string]*Snapshot
}

// NewService creates a booking service.
func NewService(store Store, providers ProviderDirectory, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		providers: providers,
		metrics:   m,
		logger:    logger,
		snapshots: make(map[string]*Snapshot),
	}
}

func (s *Service) snapshot(businessID string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[businessID]
	if !ok {
		snap = NewSnapshot()
		s.snapshots[businessID] = snap
	}
	return snap
}

// Load fetches the booking list for a business, annotates provider display
// names from the distinct provider ids present, and replaces the snapshot.
// The snapshot is cleared first so a business switch shows the expected
// brief empty state rather than stale rows.
func (s *Service) Load(ctx context.Context, businessID string) ([]Booking, error) {
	if businessID == "" {
		return nil, ErrMissingBusiness
	}
	ctx, span := tracer.Start(ctx, "bookings.load")
	span.SetAttributes(attribute.String("business_id", businessID))
	defer span.End()

	snap := s.snapshot(businessID)
	snap.Clear()

	bookings, err := s.store.ListByBusiness(ctx, businessID)
	if err != nil {
		s.metrics.ObserveSnapshotLoad("error")
		return nil, err
	}

	s.annotateProviderNames(ctx, businessID, bookings)
	snap.Replace(bookings)
	s.metrics.ObserveSnapshotLoad("ok")
	s.logger.Info("bookings loaded", "business_id", businessID, "count", len(bookings))
	return bookings, nil
}

// annotateProviderNames fills missing denormalized provider names by a
// secondary lookup keyed on the distinct provider ids in the result. Lookup
// failures leave names blank; annotation is best effort.
func (s *Service) annotateProviderNames(ctx context.Context, businessID string, bookings []Booking) {
	if s.providers == nil {
		return
	}
	needed := map[string]bool{}
	for _, b := range bookings {
		if b.ProviderID != "" && b.ProviderName == "" {
			needed[b.ProviderID] = true
		}
	}
	if len(needed) == 0 {
		return
	}

	all, err := s.providers.ListByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Warn("provider annotation skipped", "business_id", businessID, "error", err)
		return
	}
	names := make(map[string]string, len(all))
	for _, p := range all {
		names[p.ID] = p.DisplayName()
	}
	for i := range bookings {
		if bookings[i].ProviderName == "" {
			bookings[i].ProviderName = names[bookings[i].ProviderID]
		}
	}
}

// ensureLoaded returns the snapshot, fetching when it has not been
// populated yet. Tab switches served from an existing snapshot never
// re-read the store.
func (s *Service) ensureLoaded(ctx context.Context, businessID string) (*Snapshot, error) {
	if businessID == "" {
		return nil, ErrMissingBusiness
	}
	snap := s.snapshot(businessID)
	if snap.Loaded() {
		return snap, nil
	}
	if _, err := s.Load(ctx, businessID); err != nil {
		return nil, err
	}
	return snap, nil
}

// Visible returns the filtered contents of one tab.
func (s *Service) Visible(ctx context.Context, businessID string, bucket Bucket, today time.Time, query string, status Status) ([]Booking, error) {
	snap, err := s.ensureLoaded(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return Visible(snap.Bookings(), bucket, DateOf(today), query, status), nil
}

// Counts returns per-bucket sizes for the tab bar badges.
func (s *Service) Counts(ctx context.Context, businessID string, today time.Time) (map[Bucket]int, error) {
	snap, err := s.ensureLoaded(ctx, businessID)
	if err != nil {
		return nil, err
	}
	classified := Classify(snap.Bookings(), DateOf(today))
	counts := make(map[Bucket]int, len(classified))
	for bucket, items := range classified {
		counts[bucket] = len(items)
	}
	return counts, nil
}

// Calendar projects the snapshot onto a month grid.
func (s *Service) Calendar(ctx context.Context, businessID string, year, month int, today time.Time, maxVisible int) (MonthGrid, error) {
	snap, err := s.ensureLoaded(ctx, businessID)
	if err != nil {
		return MonthGrid{}, err
	}
	return ProjectMonth(snap.Bookings(), year, month, today, maxVisible), nil
}

// ChangeStatus validates the transition, writes the remote store, and only
// then mirrors the change into the snapshot. A failed write leaves local
// state untouched.
func (s *Service) ChangeStatus(ctx context.Context, businessID, bookingID string, target Status) error {
	snap, err := s.ensureLoaded(ctx, businessID)
	if err != nil {
		return err
	}
	current, ok := snap.Get(bookingID)
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(current.Status, target) {
		s.metrics.ObserveStatusChange(string(target), "rejected")
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, target)
	}

	ctx, span := tracer.Start(ctx, "bookings.change_status")
	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("target_status", string(target)),
	)
	defer span.End()

	start := time.Now()
	err = s.store.UpdateStatus(ctx, businessID, bookingID, target)
	if err != nil {
		s.metrics.ObserveStatusChange(string(target), "error")
		s.metrics.ObserveMutationLatency("status_change", "error", time.Since(start).Seconds())
		return err
	}
	s.metrics.ObserveStatusChange(string(target), "ok")
	s.metrics.ObserveMutationLatency("status_change", "ok", time.Since(start).Seconds())

	snap.ApplyStatus(bookingID, target)
	s.logger.Info("booking status changed",
		"business_id", businessID,
		"booking_id", bookingID,
		"from", current.Status,
		"to", target,
	)
	return nil
}

// AssignProvider resolves the provider, derives its display name, and writes
// provider id + name + the confirmed status in one update. Confirming on
// assignment is a deliberate business rule; it applies only to bookings that
// are still live, so completed or cancelled ones are rejected up front.
func (s *Service) AssignProvider(ctx context.Context, businessID, bookingID, providerID string) (Booking, error) {
	snap, err := s.ensureLoaded(ctx, businessID)
	if err != nil {
		return Booking{}, err
	}
	current, ok := snap.Get(bookingID)
	if !ok {
		return Booking{}, ErrNotFound
	}
	if current.Status.IsTerminal() {
		s.metrics.ObserveAssignment("rejected")
		return Booking{}, ErrTerminalAssignment
	}

	p, err := s.providers.GetByID(ctx, businessID, providerID)
	if err != nil {
		s.metrics.ObserveAssignment("error")
		return Booking{}, err
	}
	displayName := p.DisplayName()

	ctx, span := tracer.Start(ctx, "bookings.assign_provider")
	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("provider_id", providerID),
	)
	defer span.End()

	start := time.Now()
	if err := s.store.AssignProvider(ctx, businessID, bookingID, providerID, displayName); err != nil {
		s.metrics.ObserveAssignment("error")
		s.metrics.ObserveMutationLatency("assign_provider", "error", time.Since(start).Seconds())
		return Booking{}, err
	}
	s.metrics.ObserveAssignment("ok")
	s.metrics.ObserveMutationLatency("assign_provider", "ok", time.Since(start).Seconds())

	snap.ApplyAssignment(bookingID, providerID, displayName)
	updated, _ := snap.Get(bookingID)
	s.logger.Info("provider assigned",
		"business_id", businessID,
		"booking_id", bookingID,
		"provider_id", providerID,
		"provider_name", displayName,
	)
	return updated, nil
}

// Select marks a booking as the open one for the business page.
func (s *Service) Select(businessID, bookingID string) {
	s.snapshot(businessID).Select(bookingID)
}

// Selected returns the currently open booking if any.
func (s *Service) Selected(businessID string) (Booking, bool) {
	return s.snapshot(businessID).Selected()
}
