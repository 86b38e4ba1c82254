// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package manifest_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jvariant"
	"github.com/creachadair/jvariant/manifest"
	"github.com/creachadair/jvariant/variant"
	"github.com/google/go-cmp/cmp"
)

const testSignature = `{
  "header": {
    "jwk": {
      "crv": "P-256",
      "kid": "OD6I:6DRK:JXEJ:KBM4:255X:NSAA:MUSF:E4VM:ZI6W:CUN2:L4Z6:LSF4",
      "kty": "EC",
      "x": "3gAwX48IQ5oaYQAYSxor6rYYc_6yjuLCjtQ9LUakg4A",
      "y": "t72ge6kIA1XOjqjVoEOiPPAURltJFBMGDSQvEGVB010"
    },
    "alg": "ES256"
  },
  "signature": "XREm0L8WNn27Ga_iE_vRnTxVMhhYY0Zst_FfkKopg6gWSoTOZTuW4rK0fg_IqnKkEKlbD83tD46LKEGi5aIVFg",
  "protected": "eyJmb3JtYXRMZW5ndGgiOjY2MjgsImZvcm1hdFRhaWwiOiJDbjAiLCJ0aW1lIjoiMjAxNS0wNC0wOFQxODo1Mjo1OVoifQ"
}`

var wantSignature = manifest.Signature{
	Curve:     "P-256",
	KeyID:     "OD6I:6DRK:JXEJ:KBM4:255X:NSAA:MUSF:E4VM:ZI6W:CUN2:L4Z6:LSF4",
	KeyType:   "EC",
	X:         "3gAwX48IQ5oaYQAYSxor6rYYc_6yjuLCjtQ9LUakg4A",
	Y:         "t72ge6kIA1XOjqjVoEOiPPAURltJFBMGDSQvEGVB010",
	Algorithm: "ES256",
	Signature: "XREm0L8WNn27Ga_iE_vRnTxVMhhYY0Zst_FfkKopg6gWSoTOZTuW4rK0fg_IqnKkEKlbD83tD46LKEGi5aIVFg",
	Protected: "eyJmb3JtYXRMZW5ndGgiOjY2MjgsImZvcm1hdFRhaWwiOiJDbjAiLCJ0aW1lIjoiMjAxNS0wNC0wOFQxODo1Mjo1OVoifQ",
}

const testManifest = `{
  "schemaVersion": 1,
  "name": "hello-world",
  "tag": "latest",
  "architecture": "amd64",
  "fsLayers": [
    {"blobSum": "sha256:5f70bf18a086007016e948b04aed3b82103a36bea41755b6cddfaf10ace3c6ef"},
    {"blobSum": "sha256:8f806984d0d7ef7a0d2c6c0b3b1cb2c9fa3d5d3e7fd5b487d37b3e2f47f7189e"}
  ],
  "history": [
    {"v1Compatibility": "{\"id\":\"af340544ed62\",\"container_config\":{\"Cmd\":[\"/hello\"]}}"},
    {"v1Compatibility": "{\"id\":\"535020c3e8ad\"}"}
  ],
  "signatures": [` + testSignature + `]
}`

func TestDecode(t *testing.T) {
	m, err := manifest.Decode([]byte(testManifest))
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := &manifest.Manifest{
		Name:          "hello-world",
		Tag:           "latest",
		Architecture:  "amd64",
		SchemaVersion: 1,
		FSLayers: []string{
			"sha256:5f70bf18a086007016e948b04aed3b82103a36bea41755b6cddfaf10ace3c6ef",
			"sha256:8f806984d0d7ef7a0d2c6c0b3b1cb2c9fa3d5d3e7fd5b487d37b3e2f47f7189e",
		},
		History: []string{
			`{"id":"af340544ed62","container_config":{"Cmd":["/hello"]}}`,
			`{"id":"535020c3e8ad"}`,
		},
		Signatures: []manifest.Signature{wantSignature},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Decode (-want, +got):\n%s", diff)
	}
}

func TestDecodeMinimal(t *testing.T) {
	m, err := manifest.Decode([]byte(`{"name": "a/b", "tag": "1.0", "fsLayers": []}`))
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := &manifest.Manifest{Name: "a/b", Tag: "1.0", SchemaVersion: 1, FSLayers: []string{}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Decode (-want, +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string // substring of the error message
	}{
		{`{"tag": "x", "fsLayers": []}`, "field name"},
		{`{"name": "x", "fsLayers": []}`, "field tag"},
		{`{"name": "x", "tag": "y"}`, "field fsLayers"},
		{`{"name": 5, "tag": "y", "fsLayers": []}`, "field name"},
		{`{"name": "x", "tag": "y", "fsLayers": {}}`, "want array"},
		{`{"name": "x", "tag": "y", "fsLayers": [{"blobSum": 1}]}`, "[0].blobSum"},
		{`{"name": "x", "tag": "y", "fsLayers": [], "schemaVersion": "1"}`, "field schemaVersion"},
		{`{"name": "x", "tag": "y", "fsLayers": [], "history": [{}]}`, "field history"},
		{`{"name": "x", "tag": "y", "fsLayers": [], "signatures": [{}]}`, "signatures[0]"},
		{`{"name": "x", "tag": "y", "fsLayers": [], "signatures": {}}`, "want array"},
		{`{"name": "x", `, "parse manifest"},
	}
	for _, tc := range tests {
		m, err := manifest.Decode([]byte(tc.input))
		if err == nil {
			t.Errorf("Decode %s: got %+v, want error", tc.input, m)
		} else if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("Decode %s: got %v, want error containing %q", tc.input, err, tc.want)
		}
	}

	// Missing fields are reported through the accessor error.
	_, err := manifest.Decode([]byte(`{"tag": "x", "fsLayers": []}`))
	if !errors.Is(err, variant.ErrNotFound) {
		t.Errorf("Decode missing name: got %v, want %v", err, variant.ErrNotFound)
	}
	var ke *variant.KindError
	if _, err := manifest.Decode([]byte(`{"name": 5, "tag": "y", "fsLayers": []}`)); !errors.As(err, &ke) {
		t.Errorf("Decode bad name: got %v, want *KindError", err)
	}
	var se *jvariant.SyntaxError
	if _, err := manifest.Decode([]byte(`{"name": "x` + "\n" + `y"}`)); !errors.As(err, &se) {
		t.Errorf("Decode bad string: got %v, want *SyntaxError", err)
	}
}

func TestDecodeSignature(t *testing.T) {
	sig, err := manifest.DecodeSignature([]byte(testSignature))
	if err != nil {
		t.Fatalf("DecodeSignature: unexpected error: %v", err)
	}
	if diff := cmp.Diff(&wantSignature, sig); diff != "" {
		t.Errorf("DecodeSignature (-want, +got):\n%s", diff)
	}

	_, err = manifest.DecodeSignature([]byte(`{"header": {"alg": "ES256"}, "signature": "", "protected": ""}`))
	if err == nil || !strings.Contains(err.Error(), "header.jwk.crv") {
		t.Errorf("DecodeSignature without key: got %v, want header.jwk.crv error", err)
	}
}
