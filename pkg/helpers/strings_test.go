package helpers

import "testing"

func TestCamelToSnake(t *testing.T) {
	cases := map[string]string{
		"createdAt":  "created_at",
		"updatedAt":  "updated_at",
		"id":         "id",
		"email":      "email",
		"pageSize2X": "page_size2_x",
	}
	for in, want := range cases {
		if got := CamelToSnake(in); got != want {
			t.Fatalf("CamelToSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnakeToCamel(t *testing.T) {
	cases := map[string]string{
		"created_at": "createdAt",
		"updated_at": "updatedAt",
		"id":         "id",
		"a__b":       "aB",
	}
	for in, want := range cases {
		if got := SnakeToCamel(in); got != want {
			t.Fatalf("SnakeToCamel(%q) = %q, want %q", in, got, want)
		}
	}
}
