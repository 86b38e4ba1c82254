// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package manifest decodes Docker image manifests (schema version 1) and
// their JSON web signatures.
package manifest

import (
	"errors"
	"fmt"

	"github.com/creachadair/jvariant/variant"
	"github.com/creachadair/jvariant/variant/cursor"
)

// A Manifest is the decoded form of a schema 1 image manifest.
type Manifest struct {
	Name          string
	Tag           string
	Architecture  string
	SchemaVersion int64

	FSLayers []string // blob digests, from fsLayers[].blobSum
	History  []string // compatibility records, from history[].v1Compatibility

	Signatures []Signature
}

// A Signature is a single JSON web signature attached to a manifest.
type Signature struct {
	Curve   string // header.jwk.crv
	KeyID   string // header.jwk.kid
	KeyType string // header.jwk.kty
	X, Y    string // header.jwk.x, header.jwk.y

	Algorithm string // header.alg
	Signature string
	Protected string
}

// Decode parses data as a manifest document. The name, tag, and fsLayers
// fields are required; the rest are optional. A field with the wrong type is
// an error.
func Decode(data []byte) (*Manifest, error) {
	root, err := variant.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	defer root.Release()

	var m Manifest
	if m.Name, err = cursor.Text(root, "name"); err != nil {
		return nil, fieldError("name", err)
	}
	if m.Tag, err = cursor.Text(root, "tag"); err != nil {
		return nil, fieldError("tag", err)
	}
	if m.Architecture, err = optText(root, "architecture"); err != nil {
		return nil, fieldError("architecture", err)
	}
	if m.SchemaVersion, err = cursor.Int(root, "schemaVersion"); errors.Is(err, variant.ErrNotFound) {
		m.SchemaVersion = 1
	} else if err != nil {
		return nil, fieldError("schemaVersion", err)
	}

	layers, err := cursor.Path(root, "fsLayers")
	if err != nil {
		return nil, fieldError("fsLayers", err)
	}
	if m.FSLayers, err = collect(layers, "blobSum"); err != nil {
		return nil, fieldError("fsLayers", err)
	}

	if hist, err := cursor.Path(root, "history"); err == nil {
		if m.History, err = collect(hist, "v1Compatibility"); err != nil {
			return nil, fieldError("history", err)
		}
	} else if !errors.Is(err, variant.ErrNotFound) {
		return nil, fieldError("history", err)
	}

	sigs, err := cursor.Path(root, "signatures")
	if errors.Is(err, variant.ErrNotFound) {
		return &m, nil
	} else if err != nil {
		return nil, fieldError("signatures", err)
	} else if sigs.Kind() != variant.Array {
		return nil, fmt.Errorf("signatures: got %v, want array", sigs.Kind())
	}
	for i, sv := range sigs.Elements() {
		sig, err := decodeSignature(sv)
		if err != nil {
			return nil, fmt.Errorf("signatures[%d]: %w", i, err)
		}
		m.Signatures = append(m.Signatures, *sig)
	}
	return &m, nil
}

// DecodeSignature parses data as a single JSON web signature object.
func DecodeSignature(data []byte) (*Signature, error) {
	root, err := variant.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse signature: %w", err)
	}
	defer root.Release()
	return decodeSignature(root)
}

func decodeSignature(v *variant.Variant) (*Signature, error) {
	if v.Kind() != variant.Object {
		return nil, fmt.Errorf("signature: got %v, want object", v.Kind())
	}
	var sig Signature
	for _, f := range []struct {
		path []any
		dst  *string
	}{
		{[]any{"header", "jwk", "crv"}, &sig.Curve},
		{[]any{"header", "jwk", "kid"}, &sig.KeyID},
		{[]any{"header", "jwk", "kty"}, &sig.KeyType},
		{[]any{"header", "jwk", "x"}, &sig.X},
		{[]any{"header", "jwk", "y"}, &sig.Y},
		{[]any{"header", "alg"}, &sig.Algorithm},
		{[]any{"signature"}, &sig.Signature},
		{[]any{"protected"}, &sig.Protected},
	} {
		s, err := cursor.Text(v, f.path...)
		if err != nil {
			return nil, fieldError(pathString(f.path), err)
		}
		*f.dst = s
	}
	return &sig, nil
}

// collect returns the text of the named member of each object in the array v.
func collect(v *variant.Variant, key string) ([]string, error) {
	if v.Kind() != variant.Array {
		return nil, fmt.Errorf("got %v, want array", v.Kind())
	}
	out := make([]string, 0, v.Len())
	for i, e := range v.Elements() {
		s, err := cursor.Text(e, key)
		if err != nil {
			return nil, fmt.Errorf("[%d].%s: %w", i, key, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// optText returns the text of the key member of v, or "" if it is absent.
func optText(v *variant.Variant, key string) (string, error) {
	s, err := cursor.Text(v, key)
	if errors.Is(err, variant.ErrNotFound) {
		return "", nil
	}
	return s, err
}

func fieldError(field string, err error) error {
	return fmt.Errorf("field %s: %w", field, err)
}

func pathString(path []any) string {
	var s string
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += fmt.Sprint(p)
	}
	return s
}
