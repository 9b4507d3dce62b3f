package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the persisted user record. Password holds a bcrypt hash only and
// never appears in read representations.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Password  string    `bun:"password,notnull" json:"-"`
}

// UserMeta is the queryable surface of User: the keys accepted for order-by
// and equality filters, with accessors for cursor construction. The
// password column is write-only so its hash can never be baked into a page
// token.
var UserMeta = &Meta[User]{
	Name:  "User",
	Table: "users",
	Fields: map[string]Accessor[User]{
		"id":         func(u *User) any { return u.ID },
		"created_at": func(u *User) any { return u.CreatedAt },
		"updated_at": func(u *User) any { return u.UpdatedAt },
		"email":      func(u *User) any { return u.Email },
	},
	WriteOnly: []string{"password"},
	ID:        func(u *User) int64 { return u.ID },
}
