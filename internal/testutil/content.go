package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/repository"
)

// table is a newest-first collection keyed by id.
type table[T any] struct {
	mu      sync.Mutex
	clock   *Clock
	rows    []T
	idOf    func(*T) *string
	created func(*T) *time.Time
}

func newTable[T any](clock *Clock, idOf func(*T) *string, created func(*T) *time.Time) *table[T] {
	return &table[T]{clock: clock, idOf: idOf, created: created}
}

func (t *table[T]) insert(row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.idOf(row) = newID()
	*t.created(row) = t.clock.Now()
	t.rows = append(t.rows, *row)
}

func (t *table[T]) list(keep func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []T{}
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	sortNewestFirst(out, func(r T) time.Time { return *t.created(&r) })
	return out
}

func (t *table[T]) remove(id string, keep func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if *t.idOf(&t.rows[i]) == id && (keep == nil || keep(t.rows[i])) {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// Products is an in-memory repository.ProductRepository.
type Products struct{ t *table[domain.Product] }

// NewProducts builds an empty product store.
func NewProducts(clock *Clock) *Products {
	return &Products{t: newTable(clock,
		func(p *domain.Product) *string { return &p.ID },
		func(p *domain.Product) *time.Time { return &p.CreatedAt })}
}

var _ repository.ProductRepository = (*Products)(nil)

func (p *Products) Create(_ context.Context, product *domain.Product) error {
	p.t.insert(product)
	product.UpdatedAt = product.CreatedAt
	return nil
}

func (p *Products) List(context.Context) ([]domain.Product, error) { return p.t.list(nil), nil }

func (p *Products) Delete(_ context.Context, id string) error { return p.t.remove(id, nil) }

// Blogs is an in-memory repository.BlogRepository.
type Blogs struct{ t *table[domain.Blog] }

// NewBlogs builds an empty blog store.
func NewBlogs(clock *Clock) *Blogs {
	return &Blogs{t: newTable(clock,
		func(b *domain.Blog) *string { return &b.ID },
		func(b *domain.Blog) *time.Time { return &b.CreatedAt })}
}

var _ repository.BlogRepository = (*Blogs)(nil)

func (b *Blogs) Create(_ context.Context, blog *domain.Blog) error {
	b.t.insert(blog)
	return nil
}

func (b *Blogs) List(context.Context) ([]domain.Blog, error) { return b.t.list(nil), nil }

func (b *Blogs) Delete(_ context.Context, id string) error { return b.t.remove(id, nil) }

// Reviews is an in-memory repository.ReviewRepository.
type Reviews struct{ t *table[domain.Review] }

// NewReviews builds an empty review store.
func NewReviews(clock *Clock) *Reviews {
	return &Reviews{t: newTable(clock,
		func(r *domain.Review) *string { return &r.ID },
		func(r *domain.Review) *time.Time { return &r.CreatedAt })}
}

var _ repository.ReviewRepository = (*Reviews)(nil)

func (r *Reviews) Create(_ context.Context, review *domain.Review) error {
	r.t.insert(review)
	return nil
}

func (r *Reviews) List(context.Context) ([]domain.Review, error) { return r.t.list(nil), nil }

func (r *Reviews) Delete(_ context.Context, id string) error { return r.t.remove(id, nil) }

// Plans is an in-memory repository.PlanRepository.
type Plans struct{ t *table[domain.Plan] }

// NewPlans builds an empty plan store.
func NewPlans(clock *Clock) *Plans {
	return &Plans{t: newTable(clock,
		func(p *domain.Plan) *string { return &p.ID },
		func(p *domain.Plan) *time.Time { return &p.CreatedAt })}
}

var _ repository.PlanRepository = (*Plans)(nil)

func (p *Plans) Create(_ context.Context, plan *domain.Plan) error {
	p.t.insert(plan)
	return nil
}

// List orders by SortOrder ascending, then newest first.
func (p *Plans) List(context.Context) ([]domain.Plan, error) {
	out := p.t.list(nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (p *Plans) Delete(_ context.Context, id string) error { return p.t.remove(id, nil) }

// FloatingTexts is an in-memory repository.FloatingTextRepository.
type FloatingTexts struct{ t *table[domain.FloatingText] }

// NewFloatingTexts builds an empty banner store.
func NewFloatingTexts(clock *Clock) *FloatingTexts {
	return &FloatingTexts{t: newTable(clock,
		func(f *domain.FloatingText) *string { return &f.ID },
		func(f *domain.FloatingText) *time.Time { return &f.CreatedAt })}
}

var _ repository.FloatingTextRepository = (*FloatingTexts)(nil)

func (f *FloatingTexts) Create(_ context.Context, text *domain.FloatingText) error {
	f.t.insert(text)
	return nil
}

func (f *FloatingTexts) Latest(context.Context) (*domain.FloatingText, error) {
	items := f.t.list(nil)
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (f *FloatingTexts) Delete(_ context.Context, id string) error { return f.t.remove(id, nil) }

// Lucky is an in-memory repository.LuckyRepository.
type Lucky struct{ t *table[domain.LuckyEntry] }

// NewLucky builds an empty lucky-board store.
func NewLucky(clock *Clock) *Lucky {
	return &Lucky{t: newTable(clock,
		func(e *domain.LuckyEntry) *string { return &e.ID },
		func(e *domain.LuckyEntry) *time.Time { return &e.CreatedAt })}
}

var _ repository.LuckyRepository = (*Lucky)(nil)

func (l *Lucky) Create(_ context.Context, entry *domain.LuckyEntry) error {
	l.t.insert(entry)
	return nil
}

func (l *Lucky) List(_ context.Context, kind domain.LuckyKind) ([]domain.LuckyEntry, error) {
	return l.t.list(func(e domain.LuckyEntry) bool { return e.Kind == kind }), nil
}

func (l *Lucky) Delete(_ context.Context, kind domain.LuckyKind, id string) error {
	return l.t.remove(id, func(e domain.LuckyEntry) bool { return e.Kind == kind })
}
