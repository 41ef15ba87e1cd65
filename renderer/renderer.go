// Package renderer composes the full layered artwork for a token and packages
// it into a metadata document.
//
// Every operation is a pure function of its arguments: no I/O, no shared
// state, and identical inputs always return byte-identical output. Calls are
// safe to run concurrently.
package renderer

import (
	"clawid.dev/claw/cidutil"
	"clawid.dev/claw/entropy"
	"clawid.dev/claw/geometry"
	"clawid.dev/claw/metadata"
	"clawid.dev/claw/palette"
	"clawid.dev/claw/phase"
	"clawid.dev/claw/svg"
)

// ID identifies this render pipeline in receipts.
const ID = "claw-renderer-a/1"

// DefaultDescription is used when a request has no description.
const DefaultDescription = "A living .claw agent identity"

// Request is one render call's inputs.
type Request struct {
	Key             entropy.Key
	TokenIndex      uint64
	CreationCounter uint64
	Name            string
	Description     string
	// Phase values above phase.Max are clamped.
	Phase         uint
	ActivityCount uint64
}

// Traits are the values derived from the identity key alone.
type Traits struct {
	Family  geometry.Family
	Params  palette.Params
	Palette palette.Palette
}

// DeriveTraits returns the key-only traits.
func DeriveTraits(k entropy.Key) Traits {
	params := palette.DeriveParams(k)
	return Traits{
		Family:  geometry.FamilyOf(k),
		Params:  params,
		Palette: palette.Generate(params),
	}
}

// Result is a complete render.
type Result struct {
	Phase    phase.Phase
	Markup   string
	Metadata []byte
	// Document is the metadata wrapped in a JSON data URI.
	Document    string
	MarkupCID   string
	MetadataCID string
}

func markup(req Request) string {
	t := DeriveTraits(req.Key)
	s := &scene{
		key:      req.Key,
		pal:      t.Palette,
		phase:    phase.Clamp(req.Phase),
		token:    req.TokenIndex,
		counter:  req.CreationCounter,
		name:     req.Name,
		geometry: geometry.Generate(req.Key, t.Palette),
	}
	return svg.Document(s.compose())
}

// Metadata builds the metadata record for req around already rendered markup.
func Metadata(req Request, markup string) metadata.Document {
	t := DeriveTraits(req.Key)
	p := phase.Clamp(req.Phase)
	desc := req.Description
	if desc == "" {
		desc = DefaultDescription
	}
	domain := req.Name + DomainSuffix
	return metadata.Document{
		Name:        domain,
		Description: desc,
		Image:       metadata.DataURI(metadata.SVG, []byte(markup)),
		Attributes: []metadata.Attribute{
			metadata.Text("Shape", t.Family.String()),
			metadata.Text("Harmony", t.Params.Harmony.String()),
			metadata.Number("Hue", uint64(t.Palette[0].Hue)),
			metadata.Text("Phase", p.Name()),
			metadata.Number("Activity", req.ActivityCount),
			metadata.Text("Domain", domain),
		},
	}
}

// Render runs the full pipeline.
func Render(req Request) Result {
	m := markup(req)
	meta := Metadata(req, m).Encode()
	return Result{
		Phase:       phase.Clamp(req.Phase),
		Markup:      m,
		Metadata:    meta,
		Document:    metadata.DataURI(metadata.JSON, meta),
		MarkupCID:   cidutil.CIDv1RawSHA256([]byte(m)),
		MetadataCID: cidutil.CIDv1RawSHA256(meta),
	}
}

// RenderMarkup returns the markup at phase Genesis with no activity.
func RenderMarkup(k entropy.Key, tokenIndex, creationCounter uint64, name string) string {
	return RenderMarkupWithPhase(k, tokenIndex, creationCounter, name, 0, 0)
}

// RenderMarkupWithPhase returns the markup for a phase snapshot.
func RenderMarkupWithPhase(k entropy.Key, tokenIndex, creationCounter uint64, name string, p uint, activityCount uint64) string {
	return markup(Request{
		Key:             k,
		TokenIndex:      tokenIndex,
		CreationCounter: creationCounter,
		Name:            name,
		Phase:           p,
		ActivityCount:   activityCount,
	})
}

// RenderDocument returns the metadata data URI at phase Genesis.
func RenderDocument(k entropy.Key, tokenIndex, creationCounter uint64, name, description string) string {
	return RenderDocumentWithPhase(k, tokenIndex, creationCounter, name, description, 0, 0)
}

// RenderDocumentWithPhase returns the metadata data URI for a phase snapshot.
func RenderDocumentWithPhase(k entropy.Key, tokenIndex, creationCounter uint64, name, description string, p uint, activityCount uint64) string {
	return Render(Request{
		Key:             k,
		TokenIndex:      tokenIndex,
		CreationCounter: creationCounter,
		Name:            name,
		Description:     description,
		Phase:           p,
		ActivityCount:   activityCount,
	}).Document
}
