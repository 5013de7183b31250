package persistence

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// predicate is one bound WHERE condition. The SQL text is fixed at compile
// time; user input only ever travels in args.
type predicate struct {
	sql  string
	args []any
}

type predicates []predicate

// when appends the condition if include is true.
func (p predicates) when(include bool, sql string, args ...any) predicates {
	if !include {
		return p
	}
	return append(p, predicate{sql: sql, args: args})
}

// apply ANDs every predicate onto db.
func (p predicates) apply(db *gorm.DB) *gorm.DB {
	for _, pr := range p {
		db = db.Where(pr.sql, pr.args...)
	}
	return db
}

type queryMode int

const (
	modePage queryMode = iota
	modeCount
	modeTotal
)

// reportQuery describes one analytical view. build returns the joined,
// filtered and grouped statement; the page, count and grand-total variants
// are all derived from it so their grouping cannot drift apart.
type reportQuery struct {
	build func(db *gorm.DB) *gorm.DB
	order string
}

func (q reportQuery) statement(db *gorm.DB, mode queryMode, page shared.Page) *gorm.DB {
	base := q.build(db)
	switch mode {
	case modeCount:
		return db.Table("(?) AS grouped", base)
	case modeTotal:
		return base.Order(q.order)
	default:
		stmt := base.Order(q.order)
		if !page.All() {
			stmt = stmt.Limit(page.Limit()).Offset(page.Offset())
		}
		return stmt
	}
}

// runReport executes the page, count and grand-total variants of q and maps
// each scanned record with convert.
func runReport[R any, T any](ctx context.Context, db *gorm.DB, q reportQuery, page shared.Page, convert func(R) T) (*revenue.RowSet[T], error) {
	db = db.WithContext(ctx)

	var pageRecords []R
	if err := q.statement(db, modePage, page).Scan(&pageRecords).Error; err != nil {
		return nil, fmt.Errorf("page query: %w", err)
	}

	var count int64
	if err := q.statement(db, modeCount, page).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}

	var totalRecords []R
	if page.All() {
		totalRecords = pageRecords
	} else if err := q.statement(db, modeTotal, page).Scan(&totalRecords).Error; err != nil {
		return nil, fmt.Errorf("total query: %w", err)
	}

	return &revenue.RowSet[T]{
		Rows:      mapSlice(pageRecords, convert),
		TotalRows: mapSlice(totalRecords, convert),
		Count:     count,
	}, nil
}

func mapSlice[R any, T any](in []R, convert func(R) T) []T {
	out := make([]T, 0, len(in))
	for _, r := range in {
		out = append(out, convert(r))
	}
	return out
}

// paginate applies limit/offset unless page disables pagination.
func paginate(db *gorm.DB, page shared.Page) *gorm.DB {
	if page.All() {
		return db
	}
	return db.Limit(page.Limit()).Offset(page.Offset())
}
