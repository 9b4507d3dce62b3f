package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/pkg/apperrors"
	"github.com/oksasatya/go-user-api/pkg/pagination"
)

type userCreate struct {
	Email    string
	Password string
	At       time.Time
}

func (c *userCreate) Apply(u *entity.User) {
	u.Email = c.Email
	u.Password = c.Password
	at := c.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	u.CreatedAt = at
	u.UpdatedAt = at
}

type userUpdate struct {
	Email *string
	At    time.Time
}

func (c *userUpdate) Apply(u *entity.User) {
	if c.Email != nil {
		u.Email = *c.Email
	}
	at := c.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	u.UpdatedAt = at
}

type userRepo = Repository[entity.User, *userCreate, *userUpdate]

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a single connection keeps the in-memory database alive for the test
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*entity.User)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUserRepo(t *testing.T) *userRepo {
	t.Helper()
	return NewRepository[entity.User, *userCreate, *userUpdate](newTestDB(t), entity.UserMeta, pagination.NewCodec("test-secret"))
}

func mustCreate(t *testing.T, r *userRepo, email string, at time.Time) *entity.User {
	t.Helper()
	u, err := r.Create(context.Background(), &userCreate{Email: email, Password: "hash", At: at})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u
}

func TestCreateAndFetchOne(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	created := mustCreate(t, r, "a@example.com", time.Time{})
	if created.ID == 0 {
		t.Fatal("expected store-assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, err := r.FetchOne(ctx, Query{Equals: map[string]any{"email": "a@example.com"}})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("fetched %+v, want id %d", got, created.ID)
	}
}

func TestFetchOneAbsentIsNilNil(t *testing.T) {
	r := newUserRepo(t)
	got, err := r.FetchOne(context.Background(), Query{Equals: map[string]any{"id": int64(999)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil entity, got %+v", got)
	}
}

func TestExists(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	mustCreate(t, r, "a@example.com", time.Time{})

	ok, err := r.Exists(ctx, Query{Equals: map[string]any{"email": "a@example.com"}})
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v; want true, nil", ok, err)
	}
	ok, err = r.Exists(ctx, Query{Equals: map[string]any{"email": "nobody@example.com"}})
	if err != nil || ok {
		t.Fatalf("exists = %v, %v; want false, nil", ok, err)
	}
}

func TestUpdateTouchesOnlyProvidedFields(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	created := mustCreate(t, r, "a@example.com", time.Now().UTC().Add(-time.Hour))
	email := "b@example.com"
	later := time.Now().UTC()

	updated, err := r.Update(ctx, created, &userUpdate{Email: &email, At: later})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != email {
		t.Fatalf("email = %q, want %q", updated.Email, email)
	}
	if updated.Password != "hash" {
		t.Fatalf("password changed to %q", updated.Password)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("updated_at %v not after created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestDelete(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	created := mustCreate(t, r, "a@example.com", time.Time{})
	if err := r.Delete(ctx, created); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := r.FetchOne(ctx, Query{Equals: map[string]any{"id": created.ID}})
	if err != nil || got != nil {
		t.Fatalf("after delete: got %+v, %v; want nil, nil", got, err)
	}
}

func TestCreateBulkAndDeleteBulk(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := []map[string]any{
		{"email": "a@example.com", "password": "hash", "created_at": now, "updated_at": now},
		{"email": "b@example.com", "password": "hash", "created_at": now, "updated_at": now},
	}
	if err := r.CreateBulk(ctx, rows); err != nil {
		t.Fatalf("create bulk: %v", err)
	}
	total, err := r.applyQuery(r.db.NewSelect().Model((*entity.User)(nil)), Query{}).Count(ctx)
	if err != nil || total != 2 {
		t.Fatalf("count = %d, %v; want 2", total, err)
	}

	if err := r.DeleteBulk(ctx, Query{Filters: []Filter{Where("email LIKE ?", "%example.com")}}); err != nil {
		t.Fatalf("delete bulk: %v", err)
	}
	total, err = r.applyQuery(r.db.NewSelect().Model((*entity.User)(nil)), Query{}).Count(ctx)
	if err != nil || total != 0 {
		t.Fatalf("count after bulk delete = %d, %v; want 0", total, err)
	}
}

func TestUpdateBulk(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	mustCreate(t, r, "a@example.com", time.Time{})
	mustCreate(t, r, "b@example.com", time.Time{})

	err := r.UpdateBulk(ctx, map[string]any{"password": "rotated"}, Query{Filters: []Filter{Where("email LIKE ?", "%example.com")}})
	if err != nil {
		t.Fatalf("update bulk: %v", err)
	}
	u, err := r.FetchOne(ctx, Query{Equals: map[string]any{"email": "b@example.com"}})
	if err != nil || u == nil {
		t.Fatalf("fetch after bulk update: %+v, %v", u, err)
	}
	if u.Password != "rotated" {
		t.Fatalf("password = %q, want rotated", u.Password)
	}
}

func TestFetchBulk(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	mustCreate(t, r, "b@example.com", time.Time{})
	mustCreate(t, r, "a@example.com", time.Time{})
	mustCreate(t, r, "other@elsewhere.org", time.Time{})

	users, err := r.FetchBulk(ctx, Query{
		Filters: []Filter{Where("email LIKE ?", "%example.com")},
		OrderBy: "email",
	})
	if err != nil {
		t.Fatalf("fetch bulk: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("rows = %d, want 2", len(users))
	}
	if users[0].Email != "a@example.com" || users[1].Email != "b@example.com" {
		t.Fatalf("unexpected order: %s, %s", users[0].Email, users[1].Email)
	}
}

func TestWithTxRollbackLeavesNothing(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	wantErr := fmt.Errorf("abort")
	err := r.RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := r.CreateWithTx(ctx, tx, &userCreate{Email: "a@example.com", Password: "hash"}); err != nil {
			return err
		}
		if _, err := r.CreateWithTx(ctx, tx, &userCreate{Email: "b@example.com", Password: "hash"}); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatal("expected rollback error")
	}
	ok, err := r.Exists(ctx, Query{Filters: []Filter{Where("email LIKE ?", "%example.com")}})
	if err != nil || ok {
		t.Fatalf("rows survived rollback: exists = %v, %v", ok, err)
	}
}

func TestWithTxCommitKeepsAll(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	err := r.RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		u, err := r.CreateWithTx(ctx, tx, &userCreate{Email: "a@example.com", Password: "hash"})
		if err != nil {
			return err
		}
		email := "renamed@example.com"
		return r.UpdateWithTx(ctx, tx, u, &userUpdate{Email: &email})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	got, err := r.FetchOne(ctx, Query{Equals: map[string]any{"email": "renamed@example.com"}})
	if err != nil || got == nil {
		t.Fatalf("fetch after commit: %+v, %v", got, err)
	}
}

func seedUsers(t *testing.T, r *userRepo, n int) []*entity.User {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	users := make([]*entity.User, 0, n)
	for i := 0; i < n; i++ {
		u := mustCreate(t, r, fmt.Sprintf("user%02d@example.com", i), base.Add(time.Duration(i)*time.Minute))
		users = append(users, u)
	}
	return users
}

func TestFetchPaginatedForwardWalk(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, r, 7)

	var seen []int64
	token := ""
	pages := 0
	for {
		page, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, token, 3)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		if page.Total != 7 {
			t.Fatalf("total = %d, want 7", page.Total)
		}
		if page.CurrentPage != token {
			t.Fatalf("currentPage = %q, want %q", page.CurrentPage, token)
		}
		for _, u := range page.Data {
			seen = append(seen, u.ID)
		}
		pages++
		if page.NextPage == nil {
			if len(page.Data) != 1 {
				t.Fatalf("last page has %d rows, want 1", len(page.Data))
			}
			break
		}
		token = *page.NextPage
	}
	if pages != 3 {
		t.Fatalf("walked %d pages, want 3", pages)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("ids out of order: %v", seen)
		}
	}
	if len(seen) != 7 {
		t.Fatalf("saw %d rows, want 7", len(seen))
	}
}

func TestFetchPaginatedFirstPageHasNoPrevious(t *testing.T) {
	r := newUserRepo(t)
	seedUsers(t, r, 5)

	page, err := r.FetchPaginated(context.Background(), Query{OrderBy: "id"}, "", 2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.PreviousPage != nil {
		t.Fatal("first page should have no previousPage")
	}
	if page.NextPage == nil {
		t.Fatal("first page of 5 rows should have nextPage")
	}
}

func TestFetchPaginatedBackward(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	users := seedUsers(t, r, 6)

	first, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, *first.NextPage, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if second.PreviousPage == nil {
		t.Fatal("second page should have previousPage")
	}

	back, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, *second.PreviousPage, 2)
	if err != nil {
		t.Fatalf("backward page: %v", err)
	}
	if len(back.Data) != 2 {
		t.Fatalf("backward page has %d rows, want 2", len(back.Data))
	}
	// backward from page 2 lands on page 1, in forward order
	if back.Data[0].ID != users[0].ID || back.Data[1].ID != users[1].ID {
		t.Fatalf("backward page ids = %d,%d; want %d,%d", back.Data[0].ID, back.Data[1].ID, users[0].ID, users[1].ID)
	}
	if back.PreviousPage != nil {
		t.Fatal("landing on the first page should yield no previousPage")
	}
	if back.NextPage == nil {
		t.Fatal("backward page should always carry nextPage")
	}
}

func TestFetchPaginatedDescending(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, r, 5)

	var seen []int64
	token := ""
	for {
		page, err := r.FetchPaginated(ctx, Query{OrderBy: "id", Desc: true}, token, 2)
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		for _, u := range page.Data {
			seen = append(seen, u.ID)
		}
		if page.NextPage == nil {
			break
		}
		token = *page.NextPage
	}
	if len(seen) != 5 {
		t.Fatalf("saw %d rows, want 5", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] >= seen[i-1] {
			t.Fatalf("ids not descending: %v", seen)
		}
	}
}

func TestFetchPaginatedTieBreakOnDuplicateOrderKey(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	// every row shares one created_at; the id tie-break must keep the
	// walk total and duplicate-free
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreate(t, r, fmt.Sprintf("dup%d@example.com", i), at)
	}

	seen := map[int64]bool{}
	token := ""
	for {
		page, err := r.FetchPaginated(ctx, Query{OrderBy: "created_at"}, token, 2)
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		for _, u := range page.Data {
			if seen[u.ID] {
				t.Fatalf("row %d seen twice", u.ID)
			}
			seen[u.ID] = true
		}
		if page.NextPage == nil {
			break
		}
		token = *page.NextPage
	}
	if len(seen) != 5 {
		t.Fatalf("saw %d distinct rows, want 5", len(seen))
	}
}

func TestFetchPaginatedExactFitLastPage(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, r, 4)

	first, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, *first.NextPage, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Data) != 2 {
		t.Fatalf("second page has %d rows, want 2", len(second.Data))
	}
	if second.NextPage != nil {
		t.Fatal("exact-fit last page should have no nextPage")
	}
}

func TestFetchPaginatedEmptySet(t *testing.T) {
	r := newUserRepo(t)
	page, err := r.FetchPaginated(context.Background(), Query{OrderBy: "id"}, "", 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Data) != 0 || page.Total != 0 || page.NextPage != nil || page.PreviousPage != nil {
		t.Fatalf("unexpected page for empty set: %+v", page)
	}
}

func TestFetchPaginatedRejectsForeignToken(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, r, 3)

	page, err := r.FetchPaginated(ctx, Query{OrderBy: "id"}, "", 1)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	// token minted for orderBy=id must not drive a created_at scan
	_, err = r.FetchPaginated(ctx, Query{OrderBy: "created_at"}, *page.NextPage, 1)
	if apperrors.StatusOf(err) != 400 {
		t.Fatalf("err = %v, want BadRequest", err)
	}
}

func TestFetchPaginatedRejectsGarbageToken(t *testing.T) {
	r := newUserRepo(t)
	_, err := r.FetchPaginated(context.Background(), Query{OrderBy: "id"}, "not-a-token", 10)
	if apperrors.StatusOf(err) != 400 {
		t.Fatalf("err = %v, want BadRequest", err)
	}
}

func TestFetchPaginatedFilterBoundTotal(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, r, 5)
	mustCreate(t, r, "other@elsewhere.org", time.Now().UTC())

	page, err := r.FetchPaginated(ctx, Query{OrderBy: "id", Filters: []Filter{Where("email LIKE ?", "%example.com")}}, "", 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Total != 5 || len(page.Data) != 5 {
		t.Fatalf("total = %d, rows = %d; want 5, 5", page.Total, len(page.Data))
	}
}
