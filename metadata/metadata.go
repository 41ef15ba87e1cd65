// Package metadata packages rendered markup into a self-describing token
// metadata document and wraps byte payloads in base64 data URIs.
package metadata

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Media types used by render outputs.
const (
	SVG  = "image/svg+xml"
	JSON = "application/json"
)

// Attribute is one trait entry. Value is a string or an unsigned integer.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Text returns a string-valued attribute.
func Text(trait, value string) Attribute { return Attribute{TraitType: trait, Value: value} }

// Number returns a numeric attribute.
func Number(trait string, value uint64) Attribute { return Attribute{TraitType: trait, Value: value} }

// Document is the metadata record. Fields encode in declaration order.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Encode returns the compact JSON form of d.
func (d Document) Encode() []byte {
	if d.Attributes == nil {
		d.Attributes = []Attribute{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Only strings and uint64 values are ever stored.
		panic("metadata: encode: " + err.Error())
	}
	return b
}

// DataURI returns "data:<mediaType>;base64,<payload>".
func DataURI(mediaType string, payload []byte) string {
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(payload)))
	sb.WriteString("data:")
	sb.WriteString(mediaType)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(payload))
	return sb.String()
}

var (
	ErrNotDataURI  = errors.New("metadata: not a base64 data URI")
	ErrBadEncoding = errors.New("metadata: invalid base64 payload")
)

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	mediaType, enc, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	b, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", nil, ErrBadEncoding
	}
	return mediaType, b, nil
}

// Parse decodes a metadata JSON document.
func Parse(b []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// Trait returns the value of the first attribute named trait.
func (d Document) Trait(trait string) (any, bool) {
	for _, a := range d.Attributes {
		if a.TraitType == trait {
			return a.Value, true
		}
	}
	return nil, false
}
