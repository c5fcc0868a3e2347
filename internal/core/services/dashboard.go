// internal/core/services/dashboard.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
)

// State identifies the dashboard lifecycle phase
type State string

// Dashboard states. StateError is non-terminal: the last-known catalog is
// kept and the next load or mutation returns the dashboard to StateReady.
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// DefaultNoticeTTL is how long a transient notice stays visible
const DefaultNoticeTTL = 3 * time.Second

// Fallback messages used when the server provides no error body
const (
	MsgFetchFailed    = "Failed to fetch sweets. Please try again."
	MsgSearchFailed   = "Failed to search sweets."
	MsgPurchaseFailed = "Failed to purchase sweet."
	MsgDeleteFailed   = "Failed to delete sweet."
	MsgRestockFailed  = "Failed to restock sweet."
	MsgSaveFailed     = "Failed to save sweet."
)

// Success messages emitted after mutations
const (
	MsgPurchased = "Sweet purchased successfully!"
	MsgDeleted   = "Sweet deleted successfully!"
	MsgRestocked = "Sweet restocked successfully!"
	MsgSaved     = "Sweet saved successfully!"
)

// Dashboard owns the authoritative in-memory catalog and orchestrates the
// fetch, filter and mutation cycles against the remote inventory API. The
// full catalog fetched by the last load is the "no filter" baseline; the
// visible subset is derived from it (or from a server-side search) whenever
// the catalog or the criteria change.
type Dashboard struct {
	catalog ports.CatalogClient
	logger  *slog.Logger

	noticeTTL time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    State
	items    []domain.Sweet // full catalog, no-filter baseline
	visible  []domain.Sweet // displayed subset
	filter   domain.FilterCriteria
	lastErr  string
	notices  map[domain.Severity]domain.Notice
	fetchSeq uint64 // token of the latest issued fetch
}

// DashboardOption customizes a Dashboard
type DashboardOption func(*Dashboard)

// WithNoticeTTL overrides the transient notice lifetime
func WithNoticeTTL(ttl time.Duration) DashboardOption {
	return func(d *Dashboard) { d.noticeTTL = ttl }
}

// WithClock overrides the time source used for notice expiry
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

// NewDashboard creates a dashboard over the given catalog client
func NewDashboard(catalog ports.CatalogClient, logger *slog.Logger, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		catalog:   catalog,
		logger:    logger.With(slog.String("service", "dashboard")),
		noticeTTL: DefaultNoticeTTL,
		now:       time.Now,
		state:     StateIdle,
		notices:   make(map[domain.Severity]domain.Notice),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current lifecycle phase
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastError returns the message of the last failed load, or ""
func (d *Dashboard) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Filter returns the current filter criteria
func (d *Dashboard) Filter() domain.FilterCriteria {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// Catalog returns a copy of the full catalog baseline
func (d *Dashboard) Catalog() []domain.Sweet {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Sweet, len(d.items))
	copy(out, d.items)
	return out
}

// Visible returns a copy of the displayed subset, in server order. The
// client never re-sorts; reloads show whatever order the server returned.
func (d *Dashboard) Visible() []domain.Sweet {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Sweet, len(d.visible))
	copy(out, d.visible)
	return out
}

// Load fetches the full catalog and re-applies the current filter. On
// failure the dashboard enters StateError but keeps the last-known items.
func (d *Dashboard) Load(ctx context.Context) error {
	seq, criteria := d.beginFetch(StateLoading)

	items, err := d.catalog.ListAll(ctx)

	d.mu.Lock()
	if seq != d.fetchSeq {
		// superseded by a newer fetch; drop this response
		d.mu.Unlock()
		return nil
	}
	if err != nil {
		d.state = StateError
		d.lastErr = MsgFetchFailed
		d.mu.Unlock()
		d.logger.ErrorContext(ctx, "catalog load failed", slog.String("error", err.Error()))
		return fmt.Errorf("load catalog: %w", err)
	}
	d.items = items
	d.state = StateReady
	d.lastErr = ""
	if criteria.IsEmpty() {
		d.visible = items
		d.mu.Unlock()
		d.logger.DebugContext(ctx, "catalog loaded", slog.Int("count", len(items)))
		return nil
	}
	d.mu.Unlock()

	return d.search(ctx, seq, criteria)
}

// SetFilter stores the criteria and refreshes the displayed subset: a
// server-side search when any criterion is set, the local baseline when all
// are empty. The baseline itself is never replaced by a search result.
func (d *Dashboard) SetFilter(ctx context.Context, criteria domain.FilterCriteria) error {
	d.mu.Lock()
	d.filter = criteria
	d.fetchSeq++
	seq := d.fetchSeq
	if criteria.IsEmpty() {
		d.visible = d.items
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	return d.search(ctx, seq, criteria)
}

// search resolves the displayed subset for one fetch generation. Responses
// whose token is no longer the latest issued are discarded, so an older
// search can never overwrite a newer one.
func (d *Dashboard) search(ctx context.Context, seq uint64, criteria domain.FilterCriteria) error {
	items, err := d.catalog.Search(ctx, criteria)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.fetchSeq {
		return nil
	}
	if err != nil {
		d.pushNoticeLocked(domain.SeverityError, MsgSearchFailed)
		d.logger.ErrorContext(ctx, "catalog search failed", slog.String("error", err.Error()))
		return fmt.Errorf("search catalog: %w", err)
	}
	d.visible = items
	return nil
}

// Purchase buys one unit of the given sweet. The stock count is never
// decremented locally; the reload after success reflects the true count.
func (d *Dashboard) Purchase(ctx context.Context, id int64) error {
	if err := d.catalog.Purchase(ctx, id); err != nil {
		d.pushError(domain.ServerMessage(err), MsgPurchaseFailed)
		d.logger.WarnContext(ctx, "purchase failed",
			slog.Int64("sweet_id", id),
			slog.String("error", err.Error()))
		return fmt.Errorf("purchase sweet %d: %w", id, err)
	}
	d.pushNotice(domain.SeveritySuccess, MsgPurchased)
	return d.Load(ctx)
}

// Delete removes a sweet after an explicit confirmation. A nil confirm is
// treated as confirmed; declining leaves state unchanged with no network
// call.
func (d *Dashboard) Delete(ctx context.Context, id int64, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}
	if err := d.catalog.Delete(ctx, id); err != nil {
		d.pushError(domain.ServerMessage(err), MsgDeleteFailed)
		d.logger.WarnContext(ctx, "delete failed",
			slog.Int64("sweet_id", id),
			slog.String("error", err.Error()))
		return fmt.Errorf("delete sweet %d: %w", id, err)
	}
	d.pushNotice(domain.SeveritySuccess, MsgDeleted)
	return d.Load(ctx)
}

// Restock increases a sweet's stock by quantity. Non-positive quantities
// are rejected before any network call.
func (d *Dashboard) Restock(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be a positive number"}
	}
	if err := d.catalog.Restock(ctx, id, quantity); err != nil {
		d.pushError(domain.ServerMessage(err), MsgRestockFailed)
		d.logger.WarnContext(ctx, "restock failed",
			slog.Int64("sweet_id", id),
			slog.String("error", err.Error()))
		return fmt.Errorf("restock sweet %d: %w", id, err)
	}
	d.pushNotice(domain.SeveritySuccess, MsgRestocked)
	return d.Load(ctx)
}

// Save submits a create-or-edit form. Validation failures are returned
// without a notice so the form can surface them inline and keep its values;
// remote failures emit an error notice. Success emits a notice and reloads.
func (d *Dashboard) Save(ctx context.Context, form *SweetForm) error {
	if _, err := form.Submit(ctx); err != nil {
		if domain.IsValidation(err) {
			return err
		}
		d.pushError(domain.ServerMessage(err), MsgSaveFailed)
		d.logger.WarnContext(ctx, "save failed", slog.String("error", err.Error()))
		return err
	}
	d.pushNotice(domain.SeveritySuccess, MsgSaved)
	return d.Load(ctx)
}

// Notices sweeps expired notices and returns the active ones, success
// before error. At most one notice of each severity exists; the latest
// overwrites its predecessor and resets the timer.
func (d *Dashboard) Notices() []domain.Notice {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	var out []domain.Notice
	for _, sev := range []domain.Severity{domain.SeveritySuccess, domain.SeverityError} {
		n, ok := d.notices[sev]
		if !ok {
			continue
		}
		if n.Expired(now) {
			delete(d.notices, sev)
			continue
		}
		out = append(out, n)
	}
	return out
}

// beginFetch issues a new fetch generation and snapshots the criteria
func (d *Dashboard) beginFetch(state State) (uint64, domain.FilterCriteria) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state
	d.fetchSeq++
	return d.fetchSeq, d.filter
}

func (d *Dashboard) pushError(serverMsg, fallback string) {
	if serverMsg == "" {
		serverMsg = fallback
	}
	d.pushNotice(domain.SeverityError, serverMsg)
}

func (d *Dashboard) pushNotice(sev domain.Severity, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushNoticeLocked(sev, msg)
}

func (d *Dashboard) pushNoticeLocked(sev domain.Severity, msg string) {
	d.notices[sev] = domain.Notice{
		Severity:  sev,
		Message:   msg,
		ExpiresAt: d.now().Add(d.noticeTTL),
	}
}
