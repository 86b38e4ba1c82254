// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jvdump reads JSON documents and reports their tokens, re-encodes
// their value trees as JSON or YAML, or decodes them as Docker manifests.
//
// Usage:
//
//	jvdump [flags] [file ...]
//
// With no files, jvdump reads a single document from standard input.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/creachadair/jvariant"
	"github.com/creachadair/jvariant/manifest"
	"github.com/creachadair/jvariant/variant"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1 // a document could not be read or parsed
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	tokens   bool
	format   string
	hujson   bool
	manifest bool
	maxDepth int
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg config
	fs := pflag.NewFlagSet("jvdump", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.tokens, "tokens", false, "print the token stream instead of the value tree")
	fs.StringVar(&cfg.format, "format", "json", `output format for values ("json" or "yaml")`)
	fs.BoolVar(&cfg.hujson, "hujson", false, "accept comments and trailing commas in the input")
	fs.BoolVar(&cfg.manifest, "manifest", false, "decode each input as a Docker image manifest")
	fs.IntVar(&cfg.maxDepth, "max-depth", variant.DefaultMaxDepth, "maximum nesting depth (negative for no limit)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jvdump [flags] [file ...]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(stderr))
	if cfg.verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	if cfg.format != "json" && cfg.format != "yaml" {
		level.Error(logger).Log("msg", "invalid output format", "format", cfg.format)
		return exitUsage
	} else if cfg.tokens && cfg.manifest {
		level.Error(logger).Log("msg", "--tokens and --manifest are mutually exclusive")
		return exitUsage
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	code := exitOK
	for _, name := range inputs {
		data, err := readInput(name, stdin)
		if err != nil {
			level.Error(logger).Log("msg", "read failed", "file", name, "err", err)
			code = exitFail
			continue
		}
		level.Debug(logger).Log("msg", "read input", "file", name, "bytes", len(data))

		if err := cfg.process(data, stdout); err != nil {
			level.Error(logger).Log("msg", "processing failed", "file", name, "err", err)
			code = exitFail
			continue
		}
		level.Debug(logger).Log("msg", "done", "file", name)
	}
	return code
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func (c *config) process(data []byte, w io.Writer) error {
	if c.hujson {
		std, err := hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return fmt.Errorf("standardize: %w", err)
		}
		data = std
	}
	if c.tokens {
		return dumpTokens(data, w)
	}

	var root *variant.Variant
	if c.manifest {
		m, err := manifest.Decode(data)
		if err != nil {
			return err
		}
		root = manifestValue(m)
	} else {
		v, err := (&variant.Options{MaxDepth: c.maxDepth}).Parse(data)
		if err != nil {
			return err
		}
		root = v
	}
	defer root.Release()
	return c.writeValue(root, w)
}

func (c *config) writeValue(v *variant.Variant, w io.Writer) error {
	if c.format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlNode(v)); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, v.JSON())
	return err
}

// dumpTokens writes one line per token of data: its line number, its type,
// and its value if it has one.
func dumpTokens(data []byte, w io.Writer) error {
	lx := jvariant.NewLexer(data)
	for lx.Next() {
		lex := lx.Lexeme()
		var val string
		switch lex.Token {
		case jvariant.String:
			val = jvariant.Quote(string(lex.Text))
		case jvariant.Integer:
			val = strconv.FormatInt(lex.Int, 10)
		case jvariant.Real:
			val = strconv.FormatFloat(lex.Real, 'g', -1, 64)
		case jvariant.Boolean:
			val = strconv.FormatBool(lex.Bool)
		}
		if _, err := fmt.Fprintf(w, "%d\t%v\t%s\n", lex.Line, lex.Token, val); err != nil {
			return err
		}
	}
	return lx.Err()
}

// yamlNode converts v into a YAML node tree. Object members keep their stored
// order.
func yamlNode(v *variant.Variant) *yaml.Node {
	switch v.Kind() {
	case variant.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, val := range v.Members() {
			n.Content = append(n.Content, scalar("!!str", key), yamlNode(val))
		}
		return n
	case variant.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Elements() {
			n.Content = append(n.Content, yamlNode(e))
		}
		return n
	case variant.String:
		s, _ := v.Text()
		return scalar("!!str", s)
	case variant.Integer:
		return scalar("!!int", v.JSON())
	case variant.Real:
		return scalar("!!float", v.JSON())
	case variant.Boolean:
		return scalar("!!bool", v.JSON())
	default:
		return scalar("!!null", "null")
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// manifestValue renders m as a value tree with the field names of the
// manifest schema.
func manifestValue(m *manifest.Manifest) *variant.Variant {
	layers := make([]*variant.Variant, len(m.FSLayers))
	for i, s := range m.FSLayers {
		layers[i] = variant.NewObject(variant.Field("blobSum", variant.NewString(s)))
	}
	hist := make([]*variant.Variant, len(m.History))
	for i, s := range m.History {
		hist[i] = variant.NewObject(variant.Field("v1Compatibility", variant.NewString(s)))
	}
	sigs := make([]*variant.Variant, len(m.Signatures))
	for i, s := range m.Signatures {
		sigs[i] = variant.NewObject(
			variant.Field("header", variant.NewObject(
				variant.Field("jwk", variant.NewObject(
					variant.Field("crv", variant.NewString(s.Curve)),
					variant.Field("kid", variant.NewString(s.KeyID)),
					variant.Field("kty", variant.NewString(s.KeyType)),
					variant.Field("x", variant.NewString(s.X)),
					variant.Field("y", variant.NewString(s.Y)),
				)),
				variant.Field("alg", variant.NewString(s.Algorithm)),
			)),
			variant.Field("signature", variant.NewString(s.Signature)),
			variant.Field("protected", variant.NewString(s.Protected)),
		)
	}
	return variant.NewObject(
		variant.Field("schemaVersion", variant.NewInt(m.SchemaVersion)),
		variant.Field("name", variant.NewString(m.Name)),
		variant.Field("tag", variant.NewString(m.Tag)),
		variant.Field("architecture", variant.NewString(m.Architecture)),
		variant.Field("fsLayers", variant.NewArray(layers...)),
		variant.Field("history", variant.NewArray(hist...)),
		variant.Field("signatures", variant.NewArray(sigs...)),
	)
}
