// Package pipeline defines the contracts of the conversion pipeline
// components. Implementations live under internal/io*; pure types the
// contracts exchange live in pkg/record, pkg/taxon, pkg/reftab and pkg/eml.
package pipeline

import (
	"context"

	"github.com/SPI-Birds/metadata/pkg/eml"
	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/SPI-Birds/metadata/pkg/taxon"
)

// Disambiguator is the human-in-the-loop capability injected into the
// resolver, the assigner and the transformer. Production satisfies it with
// a terminal prompt; tests with a scripted fake. Both calls block until
// the operator supplies an answer.
type Disambiguator interface {
	// ChooseOne presents options and returns the selected index.
	ChooseOne(ctx context.Context, prompt string, options []string) (int, error)

	// ProvideValue asks the operator for a free-form value.
	ProvideValue(ctx context.Context, prompt string) (string, error)
}

// Resolver reconciles a scientific name across the external taxonomic
// authorities into a unified classification with provenance.
type Resolver interface {
	// Resolve returns ErrNotFound when the primary authority has no
	// match for the name as given; no fallback is attempted then.
	Resolve(ctx context.Context, name string) (*taxon.Classification, error)

	// ResolveAll resolves a submission's species list in order.
	ResolveAll(ctx context.Context, names []string) ([]*taxon.Classification, error)
}

// Identifiers holds the stable internal identifiers assigned to one
// conversion.
type Identifiers struct {
	SiteID      string `json:"siteID"`
	StudyID     string `json:"studyID"`
	StudyUUID   string `json:"studyUUID"`
	CustodianID string `json:"custodianID"`
	// NewSite is true when the submission introduced the site.
	NewSite bool `json:"newSite"`
	// NewStudy is false when the operator marked the submission as an
	// update to an existing study.
	NewStudy bool `json:"newStudy"`
	// SpeciesIDs maps accepted scientific names to their 6-letter
	// mnemonics.
	SpeciesIDs map[string]string `json:"speciesIDs"`
}

// Assigner derives and validates the stable short codes, falling back to
// interactive disambiguation on every collision.
type Assigner interface {
	AssignSiteAndStudy(
		ctx context.Context, siteName string, tables *reftab.Tables,
	) (siteID, studyID string, newSite, newStudy bool, err error)

	AssignCustodianID(
		ctx context.Context, custodianName string, tables *reftab.Tables,
	) (string, error)

	AssignSpeciesID(
		ctx context.Context, scientificName string, used map[string]struct{},
	) (string, error)
}

// Transformer maps a flat submission record into the nested document
// model.
type Transformer interface {
	Transform(
		ctx context.Context,
		rec *record.Submission,
		taxa []*taxon.Classification,
		ids *Identifiers,
	) (*eml.Document, error)
}

// Result is the outcome of one conversion, persisted next to the document
// so the merge step can run later and independently.
type Result struct {
	Submission *record.Submission      `json:"submission"`
	Taxa       []*taxon.Classification `json:"taxa"`
	IDs        *Identifiers            `json:"ids"`
	// DocumentFile is the name of the serialized document within the
	// conversion directory ({studyUUID}_{pubDate}.xml).
	DocumentFile string `json:"documentFile"`
}

// Merger applies a validated conversion result to the reference tables:
// archive first, then study, site and species upserts, then save. Fails
// loudly, never partially.
type Merger interface {
	Merge(ctx context.Context, res *Result) error
}
