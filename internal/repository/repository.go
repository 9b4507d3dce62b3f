package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/uptrace/bun"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/pkg/apperrors"
	"github.com/oksasatya/go-user-api/pkg/pagination"
)

// Input applies a validated create/update payload to an entity. Update
// inputs touch only the fields present in the payload.
type Input[T any] interface {
	Apply(ent *T)
}

// Repository is the only component that issues store operations for an
// entity type. Commit-mode mutations run in their own transaction and
// re-read the row afterwards; the WithTx variants stage the write on a
// caller-owned transaction (flush semantics) so a manager can compose
// several calls into one atomically-committed unit.
type Repository[T any, C Input[T], U Input[T]] struct {
	db    *bun.DB
	meta  *entity.Meta[T]
	codec *pagination.Codec
}

// NewRepository returns a generic repository for one entity type backed by
// the provided Bun DB.
func NewRepository[T any, C Input[T], U Input[T]](db *bun.DB, meta *entity.Meta[T], codec *pagination.Codec) *Repository[T, C, U] {
	return &Repository[T, C, U]{db: db, meta: meta, codec: codec}
}

// Meta exposes the entity's field registry to the manager layer.
func (r *Repository[T, C, U]) Meta() *entity.Meta[T] { return r.meta }

// RunInTx runs fn inside a single transaction; any error rolls it back.
// Combine with the WithTx variants to build multi-step atomic units.
func (r *Repository[T, C, U]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

func (r *Repository[T, C, U]) applyQuery(q *bun.SelectQuery, s Query) *bun.SelectQuery {
	for _, f := range s.Filters {
		q = q.Where(f.Expr, f.Args...)
	}
	for _, k := range sortedKeys(s.Equals) {
		q = q.Where("? = ?", bun.Ident(k), s.Equals[k])
	}
	for _, opt := range s.Options {
		q = opt(q)
	}
	return q
}

// FetchOne returns the first row matching the query, or (nil, nil) when no
// row matches: absence is a normal outcome here, translated into NotFound
// one layer up.
func (r *Repository[T, C, U]) FetchOne(ctx context.Context, s Query) (*T, error) {
	ent := new(T)
	q := r.applyQuery(r.db.NewSelect().Model(ent), s)
	if s.OrderBy != "" {
		q = q.OrderExpr("? ?", bun.Ident(s.OrderBy), direction(s.Desc))
	}
	err := q.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ent, nil
}

// FetchBulk returns every row matching the query, ordered when OrderBy is
// set. For bounded result sets only; listings go through FetchPaginated.
func (r *Repository[T, C, U]) FetchBulk(ctx context.Context, s Query) ([]*T, error) {
	var items []*T
	q := r.applyQuery(r.db.NewSelect().Model(&items), s)
	if s.OrderBy != "" {
		q = q.OrderExpr("? ?", bun.Ident(s.OrderBy), direction(s.Desc))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

// Exists issues an EXISTS check without materializing rows.
func (r *Repository[T, C, U]) Exists(ctx context.Context, s Query) (bool, error) {
	q := r.applyQuery(r.db.NewSelect().Model((*T)(nil)), s)
	return q.Exists(ctx)
}

// FetchPaginated returns one keyset-bounded page of the filtered, ordered
// set. The order is made total with an id tie-break whenever the order key
// is not id itself; token is the opaque cursor ("" = start of sequence).
func (r *Repository[T, C, U]) FetchPaginated(ctx context.Context, s Query, token string, size int) (*pagination.Page[*T], error) {
	size = pagination.ClampSize(size)
	orderBy := s.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}

	var cur *pagination.Cursor
	if token != "" {
		var err error
		cur, err = r.codec.Decode(token)
		if err != nil {
			return nil, err
		}
		if cur.Field != orderBy {
			return nil, apperrors.BadRequest("Invalid page token")
		}
	}
	backward := cur != nil && cur.Backward
	scanDesc := s.Desc != backward

	total, err := r.applyQuery(r.db.NewSelect().Model((*T)(nil)), s).Count(ctx)
	if err != nil {
		return nil, err
	}

	var items []*T
	q := r.applyQuery(r.db.NewSelect().Model(&items), s)
	if cur != nil {
		v, err := cur.KeyValue()
		if err != nil {
			return nil, apperrors.BadRequest("Invalid page token")
		}
		op := bun.Safe(">")
		if scanDesc {
			op = bun.Safe("<")
		}
		if orderBy == "id" {
			q = q.Where("id ? ?", op, cur.ID)
		} else {
			q = q.Where("(?, id) ? (?, ?)", bun.Ident(orderBy), op, v, cur.ID)
		}
	}
	q = q.OrderExpr("? ?", bun.Ident(orderBy), direction(scanDesc))
	if orderBy != "id" {
		q = q.OrderExpr("id ?", direction(scanDesc))
	}
	if err := q.Limit(size + 1).Scan(ctx); err != nil {
		return nil, err
	}

	hasMore := len(items) > size
	if hasMore {
		items = items[:size]
	}
	if backward {
		reverse(items)
	}

	page := &pagination.Page[*T]{Data: items, CurrentPage: token, Total: total}
	if len(items) == 0 {
		return page, nil
	}

	hasNext, hasPrev := hasMore, cur != nil
	if backward {
		hasNext, hasPrev = true, hasMore
	}
	if hasNext {
		if page.NextPage, err = r.boundaryToken(items[len(items)-1], orderBy, false); err != nil {
			return nil, err
		}
	}
	if hasPrev {
		if page.PreviousPage, err = r.boundaryToken(items[0], orderBy, true); err != nil {
			return nil, err
		}
	}
	return page, nil
}

func (r *Repository[T, C, U]) boundaryToken(ent *T, orderBy string, backward bool) (*string, error) {
	raw, ok := r.meta.Value(ent, orderBy)
	if !ok {
		return nil, apperrors.BadRequest("Unknown order key: " + orderBy)
	}
	kind, val, err := pagination.EncodeValue(raw)
	if err != nil {
		return nil, err
	}
	tok, err := r.codec.Encode(pagination.Cursor{
		Field:    orderBy,
		Kind:     kind,
		Value:    val,
		ID:       r.meta.ID(ent),
		Backward: backward,
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Create inserts a new row in its own transaction and re-reads it after
// commit to pick up store-assigned defaults.
func (r *Repository[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	var ent *T
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		ent, err = r.insert(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.reload(ctx, ent)
}

// CreateWithTx stages an insert on the caller's transaction without
// committing it.
func (r *Repository[T, C, U]) CreateWithTx(ctx context.Context, tx bun.IDB, in C) (*T, error) {
	return r.insert(ctx, tx, in)
}

func (r *Repository[T, C, U]) insert(ctx context.Context, idb bun.IDB, in C) (*T, error) {
	ent := new(T)
	in.Apply(ent)
	if _, err := idb.NewInsert().Model(ent).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return ent, nil
}

// CreateBulk inserts raw field maps in a single statement. No per-row
// entities are returned.
func (r *Repository[T, C, U]) CreateBulk(ctx context.Context, rows []map[string]any) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.CreateBulkWithTx(ctx, tx, rows)
	})
}

func (r *Repository[T, C, U]) CreateBulkWithTx(ctx context.Context, tx bun.IDB, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := tx.NewInsert().Model(&rows).TableExpr("?", bun.Ident(r.meta.Table)).Exec(ctx)
	return err
}

// Update applies only the fields present in the input to ent, in its own
// transaction, and re-reads the row after commit.
func (r *Repository[T, C, U]) Update(ctx context.Context, ent *T, in U) (*T, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.update(ctx, tx, ent, in)
	})
	if err != nil {
		return nil, err
	}
	return r.reload(ctx, ent)
}

// UpdateWithTx stages a partial update on the caller's transaction.
func (r *Repository[T, C, U]) UpdateWithTx(ctx context.Context, tx bun.IDB, ent *T, in U) error {
	return r.update(ctx, tx, ent, in)
}

func (r *Repository[T, C, U]) update(ctx context.Context, idb bun.IDB, ent *T, in U) error {
	in.Apply(ent)
	_, err := idb.NewUpdate().Model(ent).WherePK().Exec(ctx)
	return err
}

// UpdateBulk applies payload to every row matching the query in one
// statement. The query must constrain at least one row predicate.
func (r *Repository[T, C, U]) UpdateBulk(ctx context.Context, payload map[string]any, s Query) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.UpdateBulkWithTx(ctx, tx, payload, s)
	})
}

func (r *Repository[T, C, U]) UpdateBulkWithTx(ctx context.Context, tx bun.IDB, payload map[string]any, s Query) error {
	q := tx.NewUpdate().Model((*T)(nil))
	for _, k := range sortedKeys(payload) {
		q = q.Set("? = ?", bun.Ident(k), payload[k])
	}
	for _, f := range s.Filters {
		q = q.Where(f.Expr, f.Args...)
	}
	for _, k := range sortedKeys(s.Equals) {
		q = q.Where("? = ?", bun.Ident(k), s.Equals[k])
	}
	_, err := q.Exec(ctx)
	return err
}

// Delete removes a single row, hard.
func (r *Repository[T, C, U]) Delete(ctx context.Context, ent *T) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.DeleteWithTx(ctx, tx, ent)
	})
}

func (r *Repository[T, C, U]) DeleteWithTx(ctx context.Context, tx bun.IDB, ent *T) error {
	_, err := tx.NewDelete().Model(ent).WherePK().Exec(ctx)
	return err
}

// DeleteBulk removes every row matching the query in one statement.
func (r *Repository[T, C, U]) DeleteBulk(ctx context.Context, s Query) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return r.DeleteBulkWithTx(ctx, tx, s)
	})
}

func (r *Repository[T, C, U]) DeleteBulkWithTx(ctx context.Context, tx bun.IDB, s Query) error {
	q := tx.NewDelete().Model((*T)(nil))
	for _, f := range s.Filters {
		q = q.Where(f.Expr, f.Args...)
	}
	for _, k := range sortedKeys(s.Equals) {
		q = q.Where("? = ?", bun.Ident(k), s.Equals[k])
	}
	_, err := q.Exec(ctx)
	return err
}

func (r *Repository[T, C, U]) reload(ctx context.Context, ent *T) (*T, error) {
	fresh := new(T)
	err := r.db.NewSelect().Model(fresh).Where("id = ?", r.meta.ID(ent)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

func direction(desc bool) bun.Safe {
	if desc {
		return bun.Safe("DESC")
	}
	return bun.Safe("ASC")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reverse[T any](s []*T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
