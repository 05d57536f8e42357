package browser

import (
	"context"
	"slices"
	"sync"

	"povlens/viewer/helper"
	"povlens/viewer/internal/cache"
	"povlens/viewer/internal/metrics"
	"povlens/viewer/internal/model"
	"povlens/viewer/internal/service"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
	StatusCatalogUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusCatalogUnavailable:
		return "catalog_unavailable"
	}
	return "unknown"
}

// ErrStale is returned by Refresh when the query changed before the
// response arrived. The response was discarded.
var ErrStale = errors.New("response superseded by a newer query")

// Browser holds the query state of one dataset and keeps the displayed page
// in step with it. Every mutation bumps a generation; a page response is
// applied only if its generation is still current.
type Browser struct {
	dataset model.Dataset
	api     service.DataAPI
	cache   cache.Store
	scope   string
	logger  *zap.SugaredLogger
	ctx     context.Context

	mu         sync.Mutex
	catalog    []model.Column
	hasCatalog bool
	seeded     bool
	state      model.QueryState
	generation uint64
	result     *model.PageResult
	status     Status
	err        error

	inflight     sync.WaitGroup
	oversizeWarn sync.Once
}

type Option func(*Browser)

func WithCache(c cache.Store) Option {
	return func(b *Browser) { b.cache = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(b *Browser) { b.logger = l }
}

// WithContext sets the context used by fetches scheduled from mutations.
func WithContext(ctx context.Context) Option {
	return func(b *Browser) { b.ctx = ctx }
}

func WithPageSize(limit int) Option {
	return func(b *Browser) { b.state = model.NewQueryState(limit) }
}

func New(ds model.Dataset, api service.DataAPI, opts ...Option) *Browser {
	b := &Browser{
		dataset: ds,
		api:     api,
		logger:  zap.NewNop().Sugar(),
		ctx:     context.Background(),
		state:   model.NewQueryState(model.DefaultLimit),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("dataset", ds.ID)
	// Cached pages belong to one API instance; /connect may switch it.
	b.scope = ds.ID
	if api != nil {
		b.scope = api.BaseURL() + "#" + ds.ID
	}
	return b
}

func (b *Browser) Dataset() model.Dataset {
	return b.dataset
}

// LoadColumns fetches the column catalog. The first successful load seeds
// the selection; later loads refresh the catalog but keep the selection.
func (b *Browser) LoadColumns(ctx context.Context) error {
	cols, err := b.api.ListColumns(ctx, b.dataset)
	metrics.CatalogLoads.WithLabelValues(b.dataset.ID, metrics.Outcome(err)).Inc()

	b.mu.Lock()
	if err != nil {
		if !errors.Is(err, service.ErrCatalogUnavailable) {
			err = &service.DatasetError{Kind: service.ErrCatalogUnavailable, Dataset: b.dataset.ID, Err: err}
		}
		if !b.hasCatalog {
			b.status = StatusCatalogUnavailable
		}
		b.err = err
		b.mu.Unlock()
		b.logger.Warnw("column catalog unavailable", "error", err)
		return err
	}

	b.catalog = slices.Clone(cols)
	b.hasCatalog = true
	if b.status == StatusCatalogUnavailable || b.status == StatusIdle {
		b.status = StatusReady
		b.err = nil
	}
	b.logger.Debugw("column catalog loaded", "columns", len(cols))

	if b.seeded {
		b.mu.Unlock()
		return nil
	}
	b.seeded = true
	next := b.state.Clone()
	next.SelectedColumns = InitialSelection(b.catalog, b.dataset.DefaultColumns)
	next.Page = 1
	gen, req, fetch := b.commitLocked(next, true)
	b.mu.Unlock()

	if fetch {
		b.schedule(gen, req)
	}
	return nil
}

func (b *Browser) Catalog() ([]model.Column, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.catalog), b.hasCatalog
}

func (b *Browser) State() model.QueryState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

func (b *Browser) SetSelectedColumns(columns []string) model.QueryState {
	return b.mutate(func(s model.QueryState) model.QueryState {
		return WithSelectedColumns(s, b.catalog, columns)
	})
}

func (b *Browser) SetFilter(field string, value model.FilterValue) model.QueryState {
	return b.mutate(func(s model.QueryState) model.QueryState {
		return WithFilter(s, field, value)
	})
}

func (b *Browser) SetPage(n int) model.QueryState {
	return b.mutate(func(s model.QueryState) model.QueryState {
		total := TotalUnknown
		if b.result != nil && b.status == StatusReady {
			total = b.result.Total
		}
		return WithPage(s, n, total)
	})
}

func (b *Browser) SetLimit(n int) model.QueryState {
	return b.mutate(func(s model.QueryState) model.QueryState {
		return WithLimit(s, n)
	})
}

// Request returns the descriptor the current state maps to.
func (b *Browser) Request() model.RequestDescriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BuildRequest(b.dataset, b.state, b.catalog)
}

// ExportURL returns the CSV link for the current columns and filters.
func (b *Browser) ExportURL() string {
	b.mu.Lock()
	req := BuildRequest(b.dataset, b.state, b.catalog)
	b.mu.Unlock()
	return b.api.ExportURL(b.dataset, req.Columns, req.Filters)
}

// Refresh refetches the current state synchronously, bypassing the cache.
// It is the explicit retry after a failed fetch.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	gen, req, fetch := b.commitLocked(b.state, true)
	b.mu.Unlock()
	if !fetch {
		return nil
	}
	if b.cache != nil {
		b.cache.Delete(b.scope, req)
	}
	return b.fetch(ctx, gen, req)
}

// Wait blocks until every scheduled fetch has completed.
func (b *Browser) Wait() {
	b.inflight.Wait()
}

func (b *Browser) mutate(fn func(model.QueryState) model.QueryState) model.QueryState {
	b.mu.Lock()
	next := fn(b.state)
	gen, req, fetch := b.commitLocked(next, false)
	state := b.state.Clone()
	b.mu.Unlock()

	if fetch {
		b.schedule(gen, req)
	}
	return state
}

// commitLocked installs next and reports whether a fetch must follow. An
// unchanged state is not refetched unless force is set.
func (b *Browser) commitLocked(next model.QueryState, force bool) (uint64, model.RequestDescriptor, bool) {
	if !force && next.Equal(b.state) {
		return b.generation, model.RequestDescriptor{}, false
	}
	b.state = next
	b.generation++
	if len(next.SelectedColumns) == 0 {
		// Nothing is fetched for an empty selection, so no page is shown.
		b.result = nil
		if b.status == StatusLoading || b.status == StatusError {
			b.status = StatusReady
			b.err = nil
		}
		return b.generation, model.RequestDescriptor{}, false
	}
	b.status = StatusLoading
	return b.generation, BuildRequest(b.dataset, next, b.catalog), true
}

func (b *Browser) schedule(gen uint64, req model.RequestDescriptor) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		_ = b.fetch(b.ctx, gen, req)
	}()
}

func (b *Browser) fetch(ctx context.Context, gen uint64, req model.RequestDescriptor) error {
	if b.cache != nil {
		if page, ok := b.cache.Get(b.scope, req); ok {
			metrics.CacheHits.WithLabelValues(b.dataset.ID).Inc()
			return b.apply(gen, page, nil)
		}
	}

	page, err := b.api.FetchPage(ctx, b.dataset, req)
	metrics.PageFetches.WithLabelValues(b.dataset.ID, metrics.Outcome(err)).Inc()
	if err != nil && !errors.Is(err, service.ErrPageFetchFailed) {
		err = &service.DatasetError{Kind: service.ErrPageFetchFailed, Dataset: b.dataset.ID, Err: err}
	}
	if err == nil && b.cache != nil {
		if cerr := b.cache.Set(b.scope, req, page); cerr != nil {
			if errors.Is(cerr, cache.ErrPageTooLarge) {
				b.oversizeWarn.Do(func() {
					b.logger.Warnw("pages exceed the cache entry limit, raise CACHE_SIZE", "error", cerr)
				})
			} else {
				b.logger.Warnw("page not cached", "error", cerr)
			}
		}
	}
	return b.apply(gen, page, err)
}

func (b *Browser) apply(gen uint64, page model.PageResult, err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		metrics.StaleResponses.WithLabelValues(b.dataset.ID).Inc()
		b.logger.Debugw("dropped stale page", "generation", gen, "current", b.generation)
		return ErrStale
	}
	if err != nil {
		// The last good page stays visible; state is kept for a retry.
		b.status = StatusError
		b.err = err
		b.logger.Warnw("page fetch failed", "error", err)
		return err
	}
	b.result = &page
	b.status = StatusReady
	b.err = nil
	return nil
}

// View is a rendered snapshot of the browser.
type View struct {
	Dataset    string           `json:"dataset"`
	Status     string           `json:"status"`
	Error      string           `json:"error,omitempty"`
	State      model.QueryState `json:"state"`
	Columns    []string         `json:"columns"`
	Rows       [][]string       `json:"rows"`
	Pagination Pagination       `json:"pagination"`
	Summary    string           `json:"summary"`
	ExportURL  string           `json:"export_url"`
}

func (b *Browser) View() View {
	b.mu.Lock()
	state := b.state.Clone()
	req := BuildRequest(b.dataset, state, b.catalog)
	v := View{
		Dataset: b.dataset.ID,
		Status:  b.status.String(),
		State:   state,
		Columns: state.SelectedColumns,
		Rows:    [][]string{},
	}
	if b.err != nil {
		v.Error = b.err.Error()
	}
	if b.result != nil {
		for _, rec := range b.result.Data {
			row := make([]string, len(state.SelectedColumns))
			for i, col := range state.SelectedColumns {
				row[i] = helper.FormatCell(rec[col])
			}
			v.Rows = append(v.Rows, row)
		}
		v.Pagination = Paginate(b.result.Total, state.Page, state.Limit)
	} else {
		v.Pagination = Paginate(0, state.Page, state.Limit)
	}
	b.mu.Unlock()

	v.Summary = v.Pagination.String()
	v.ExportURL = b.api.ExportURL(b.dataset, req.Columns, req.Filters)
	return v
}
