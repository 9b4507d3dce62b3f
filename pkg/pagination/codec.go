package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-user-api/pkg/apperrors"
)

// Cursor is the decoded position of a page boundary in the total order
// (order-key value plus the id tie-break). Backward cursors resume the scan
// towards the start of the sequence.
type Cursor struct {
	Field    string
	Kind     string
	Value    string
	ID       int64
	Backward bool
}

// Order-key value kinds carried inside a token.
const (
	KindInt   = "int"
	KindFloat = "float"
	KindStr   = "str"
	KindTime  = "time"
)

// EncodeValue canonicalizes an order-key value into its (kind, string)
// token form.
func EncodeValue(v any) (kind, value string, err error) {
	switch x := v.(type) {
	case int64:
		return KindInt, strconv.FormatInt(x, 10), nil
	case int:
		return KindInt, strconv.Itoa(x), nil
	case int32:
		return KindInt, strconv.FormatInt(int64(x), 10), nil
	case float64:
		return KindFloat, strconv.FormatFloat(x, 'g', -1, 64), nil
	case string:
		return KindStr, x, nil
	case time.Time:
		return KindTime, x.UTC().Format(time.RFC3339Nano), nil
	default:
		return "", "", fmt.Errorf("unsupported order key type %T", v)
	}
}

// KeyValue restores the typed order-key value from its token form.
func (c *Cursor) KeyValue() (any, error) {
	switch c.Kind {
	case KindInt:
		return strconv.ParseInt(c.Value, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(c.Value, 64)
	case KindStr:
		return c.Value, nil
	case KindTime:
		return time.Parse(time.RFC3339Nano, c.Value)
	default:
		return nil, fmt.Errorf("unknown order key kind %q", c.Kind)
	}
}

type cursorClaims struct {
	Field    string `json:"fld"`
	Kind     string `json:"knd"`
	Value    string `json:"val"`
	ID       int64  `json:"tid"`
	Backward bool   `json:"bwd"`
	jwt.RegisteredClaims
}

// Codec signs and verifies opaque page tokens. Tokens are HS256 JWTs over
// the cursor tuple, so they survive process restarts and any tampering is
// detected at decode time.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(cur Cursor) (string, error) {
	claims := &cursorClaims{
		Field:    cur.Field,
		Kind:     cur.Kind,
		Value:    cur.Value,
		ID:       cur.ID,
		Backward: cur.Backward,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies a token and returns its cursor. Garbage or tampered
// tokens come back as BadRequest.
func (c *Codec) Decode(token string) (*Cursor, error) {
	claims := &cursorClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, apperrors.BadRequest("Invalid page token")
	}
	return &Cursor{
		Field:    claims.Field,
		Kind:     claims.Kind,
		Value:    claims.Value,
		ID:       claims.ID,
		Backward: claims.Backward,
	}, nil
}
