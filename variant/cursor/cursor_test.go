// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jvariant/variant"
	"github.com/creachadair/jvariant/variant/cursor"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func TestCursor(t *testing.T) {
	v, err := variant.Parse([]byte(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer v.Release()

	tests := []struct {
		name string
		path []any
		want string // JSON of the value reached
		fail bool
	}{
		{"NilInput", nil, v.JSON(), false},
		{"NilElement", []any{"y", nil}, `{"hello":"there"}`, false},
		{"NoMatch", []any{"nonesuch"}, v.JSON(), true},
		{"WrongType", []any{"o", "x"}, `["hi","yourself"]`, true},

		{"ArrayPos", []any{"list", 1}, `{"x":2}`, false},
		{"ArrayNeg", []any{"list", -1}, `{"x":2}`, false},
		{"ArrayRange", []any{"o", 25}, `["hi","yourself"]`, true},
		{"ObjPath", []any{"xyz", "d"}, `true`, false},
		{"ObjIndex", []any{"xyz", 2}, `false`, false},
		{"ObjIndexNeg", []any{-3}, `{"hello":"there"}`, false},
		{"ObjRange", []any{"xyz", 3}, `{"p":true,"d":true,"q":false}`, true},
		{"Deep", []any{"list", 0, "x"}, `1`, false},
		{"ScalarIndex", []any{"list", 0, "x", 0}, `1`, true},

		{"FuncArray", []any{"o", testPathFunc}, `2`, false},
		{"FuncObj", []any{"xyz", testPathFunc}, `3`, false},
		{"FuncWrong", []any{"xyz", "d", testPathFunc}, `true`, true},
		{"BadElement", []any{"y", 2.5}, `{"hello":"there"}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor.New(v).Down(tc.path...)
			err := c.Err()
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Down %+v: unexpected error: %v", tc.path, err)
				}
			} else if tc.fail {
				t.Errorf("Down %+v: got nil error, want error", tc.path)
			}
			if got := c.Value().JSON(); got != tc.want {
				t.Errorf("Down %+v: got %s, want %s", tc.path, got, tc.want)
			}
		})
	}
}

func TestCursorMoves(t *testing.T) {
	v, err := variant.Parse([]byte(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer v.Release()

	c := cursor.New(v)
	if !c.AtOrigin() || c.Origin() != v {
		t.Fatal("New cursor is not at its origin")
	}
	c.Down("list", 0, "x")
	if n := len(c.Path()); n != 4 {
		t.Errorf("Path: got %d values, want 4", n)
	}
	if got := c.Up().Value().JSON(); got != `{"x":1}` {
		t.Errorf("Up: got %s, want {\"x\":1}", got)
	}
	if got := c.Down(nil).Up().Up().Value(); got != v {
		t.Errorf("Up: got %s, want origin", got.JSON())
	}
	c.Up() // no effect at the origin
	if !c.AtOrigin() {
		t.Error("Up past the origin moved the cursor")
	}

	c.Down("nonesuch")
	if !errors.Is(c.Err(), variant.ErrNotFound) {
		t.Errorf("Down(nonesuch): got %v, want %v", c.Err(), variant.ErrNotFound)
	}
	c.Down("y")
	c.Reset()
	if !c.AtOrigin() || c.Err() != nil {
		t.Errorf("Reset: at origin %v, error %v", c.AtOrigin(), c.Err())
	}
}

func TestHelpers(t *testing.T) {
	v, err := variant.Parse([]byte(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer v.Release()

	if got, err := cursor.Text(v, "y", "hello"); err != nil || got != "there" {
		t.Errorf("Text(y.hello): got (%q, %v), want there", got, err)
	}
	if got, err := cursor.Int(v, "list", -1, "x"); err != nil || got != 2 {
		t.Errorf("Int(list[-1].x): got (%d, %v), want 2", got, err)
	}
	if _, err := cursor.Text(v, "list"); err == nil {
		t.Error("Text(list): got nil error, want error")
	}
	if _, err := cursor.Int(v, "list", 5); err == nil {
		t.Error("Int(list[5]): got nil error, want error")
	}
}

func testPathFunc(v *variant.Variant) (*variant.Variant, error) {
	switch v.Kind() {
	case variant.Array:
		return variant.NewInt(int64(v.Len())), nil
	case variant.Object:
		return variant.NewInt(int64(v.Len() / 2)), nil
	default:
		return nil, errors.New("not a thing with length")
	}
}
