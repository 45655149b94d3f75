// Package textenc resolves IANA charset names and converts file content
// between Go strings and the declared on-disk encoding.
package textenc

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/cpconfig/cpconfig/pkg/errors"
)

// Codec encodes and decodes file content for a single charset. The zero
// configuration ("" or utf-8) is the identity transform.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// Lookup resolves an IANA charset name to a Codec. An empty name defaults
// to UTF-8.
func Lookup(name string) (*Codec, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" || trimmed == "utf-8" || trimmed == "utf8" {
		return &Codec{name: "utf-8"}, nil
	}

	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEncoding, "unknown encoding %q", name)
	}
	if enc == nil {
		// The IANA index knows the name but x/text has no codec for it.
		return nil, errors.Newf(errors.ErrEncoding, "unsupported encoding %q", name)
	}

	return &Codec{name: trimmed, enc: enc}, nil
}

// Name returns the resolved charset name.
func (c *Codec) Name() string {
	return c.name
}

// Encode converts content to the on-disk byte representation.
func (c *Codec) Encode(content string) ([]byte, error) {
	if c.enc == nil {
		return []byte(content), nil
	}
	out, _, err := transform.String(c.enc.NewEncoder(), content)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEncoding, "cannot encode content as %s", c.name)
	}
	return []byte(out), nil
}

// Decode converts on-disk bytes back to a string for comparison.
func (c *Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		return string(data), nil
	}
	out, _, err := transform.Bytes(c.enc.NewDecoder(), data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrEncoding, "cannot decode content as %s", c.name)
	}
	return string(out), nil
}
