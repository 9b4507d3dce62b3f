package repository

import "github.com/uptrace/bun"

// Filter is an arbitrary store-compilable predicate ("email LIKE ?").
type Filter struct {
	Expr string
	Args []any
}

// Where builds a Filter from an expression and its arguments.
func Where(expr string, args ...any) Filter {
	return Filter{Expr: expr, Args: args}
}

// Option is a loader hint applied to a select query (eager-loading
// relations, column subsets).
type Option func(*bun.SelectQuery) *bun.SelectQuery

// WithRelation eager-loads a named relation.
func WithRelation(name string) Option {
	return func(q *bun.SelectQuery) *bun.SelectQuery { return q.Relation(name) }
}

// Query bundles the shaping parameters shared by every fetch: arbitrary
// predicates, field=value equality constraints, a single order key with
// direction, and loader options. OrderBy must be an internal column name;
// the manager validates and translates it before the query reaches here.
type Query struct {
	Filters []Filter
	Equals  map[string]any
	OrderBy string
	Desc    bool
	Options []Option
}
