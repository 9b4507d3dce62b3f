package application

import (
	"context"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/repository"
	"github.com/oksasatya/go-user-api/pkg/apperrors"
	"github.com/oksasatya/go-user-api/pkg/helpers"
	"github.com/oksasatya/go-user-api/pkg/pagination"
)

// Listing defaults, shared with the HTTP boundary.
const (
	DefaultOrderBy = "id"
	DefaultDesc    = false
)

// Manager is the business-rule layer above the generic repository. It
// translates external field names, validates order and filter keys against
// the entity's field registry before any query is issued, and turns row
// absence into NotFound. It never talks to the store directly.
type Manager[T any, C repository.Input[T], U repository.Input[T]] struct {
	repo *repository.Repository[T, C, U]
	meta *entity.Meta[T]
}

func NewManager[T any, C repository.Input[T], U repository.Input[T]](repo *repository.Repository[T, C, U]) *Manager[T, C, U] {
	return &Manager[T, C, U]{repo: repo, meta: repo.Meta()}
}

// normalizeQuery maps external key names onto internal columns and rejects
// anything that does not name a real entity attribute.
func (m *Manager[T, C, U]) normalizeQuery(s repository.Query) (repository.Query, error) {
	if s.OrderBy == "" {
		s.OrderBy = DefaultOrderBy
	}
	col := helpers.CamelToSnake(s.OrderBy)
	if !m.meta.Has(col) {
		return s, apperrors.BadRequest("Unknown order key: " + s.OrderBy)
	}
	s.OrderBy = col

	if len(s.Equals) > 0 {
		eq := make(map[string]any, len(s.Equals))
		for k, v := range s.Equals {
			kcol := helpers.CamelToSnake(k)
			if !m.meta.Has(kcol) {
				return s, apperrors.BadRequest("Unknown field: " + k)
			}
			eq[kcol] = v
		}
		s.Equals = eq
	}
	return s, nil
}

// translateColumns maps external payload keys onto internal columns and
// rejects keys that do not name a writable attribute. The translated map
// is what reaches the store, where keys are used verbatim as column names.
func (m *Manager[T, C, U]) translateColumns(payload map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		col := helpers.CamelToSnake(k)
		if !m.meta.HasColumn(col) {
			return nil, apperrors.BadRequest("Unknown field: " + k)
		}
		out[col] = v
	}
	return out, nil
}

// translateStoreErr maps uniqueness/integrity violations onto Conflict; all
// other store failures pass through unmodified.
func (m *Manager[T, C, U]) translateStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsUniqueViolation(err) {
		return apperrors.Conflict(m.meta.Name + " already exists")
	}
	return err
}

// FetchOne returns the first matching row or NotFound naming the entity
// type.
func (m *Manager[T, C, U]) FetchOne(ctx context.Context, s repository.Query) (*T, error) {
	s, err := m.normalizeQuery(s)
	if err != nil {
		return nil, err
	}
	ent, err := m.repo.FetchOne(ctx, s)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, apperrors.NotFound(m.meta.Name, idOf(s))
	}
	return ent, nil
}

// FetchByID is the common single-row lookup by surrogate identifier.
func (m *Manager[T, C, U]) FetchByID(ctx context.Context, id int64) (*T, error) {
	return m.FetchOne(ctx, repository.Query{Equals: map[string]any{"id": id}})
}

// FetchBulk returns every matching row without pagination.
func (m *Manager[T, C, U]) FetchBulk(ctx context.Context, s repository.Query) ([]*T, error) {
	s, err := m.normalizeQuery(s)
	if err != nil {
		return nil, err
	}
	return m.repo.FetchBulk(ctx, s)
}

// FetchPaginated returns one page of the filtered set using the opaque
// cursor token ("" = start).
func (m *Manager[T, C, U]) FetchPaginated(ctx context.Context, s repository.Query, token string, size int) (*pagination.Page[*T], error) {
	s, err := m.normalizeQuery(s)
	if err != nil {
		return nil, err
	}
	return m.repo.FetchPaginated(ctx, s, token, size)
}

// Exists reports whether any row matches the query.
func (m *Manager[T, C, U]) Exists(ctx context.Context, s repository.Query) (bool, error) {
	s, err := m.normalizeQuery(s)
	if err != nil {
		return false, err
	}
	return m.repo.Exists(ctx, s)
}

// Create inserts a validated input and returns the stored entity.
func (m *Manager[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	ent, err := m.repo.Create(ctx, in)
	if err != nil {
		return nil, m.translateStoreErr(err)
	}
	return ent, nil
}

// CreateBulk inserts raw field maps after translating every key to its
// internal column and checking it names a real attribute.
func (m *Manager[T, C, U]) CreateBulk(ctx context.Context, rows []map[string]any) error {
	translated := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		cols, err := m.translateColumns(row)
		if err != nil {
			return err
		}
		translated = append(translated, cols)
	}
	return m.translateStoreErr(m.repo.CreateBulk(ctx, translated))
}

// Update fetches the row first, so updating a nonexistent id is
// deterministically NotFound rather than a silent no-op, then applies the
// partial input.
func (m *Manager[T, C, U]) Update(ctx context.Context, id int64, in U) (*T, error) {
	ent, err := m.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := m.repo.Update(ctx, ent, in)
	if err != nil {
		return nil, m.translateStoreErr(err)
	}
	return updated, nil
}

// UpdateBulk applies payload to every matching row in one statement.
func (m *Manager[T, C, U]) UpdateBulk(ctx context.Context, payload map[string]any, s repository.Query) error {
	cols, err := m.translateColumns(payload)
	if err != nil {
		return err
	}
	s, err = m.normalizeQuery(s)
	if err != nil {
		return err
	}
	return m.translateStoreErr(m.repo.UpdateBulk(ctx, cols, s))
}

// Delete removes the row, or NotFound when it does not exist. A nil return
// is the no-content success signal.
func (m *Manager[T, C, U]) Delete(ctx context.Context, id int64) error {
	ent, err := m.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	return m.repo.Delete(ctx, ent)
}

// DeleteBulk removes every matching row in one statement.
func (m *Manager[T, C, U]) DeleteBulk(ctx context.Context, s repository.Query) error {
	s, err := m.normalizeQuery(s)
	if err != nil {
		return err
	}
	return m.repo.DeleteBulk(ctx, s)
}

// idOf pulls the id out of an equality filter for not-found messages.
func idOf(s repository.Query) int64 {
	if v, ok := s.Equals["id"]; ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
