package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Submission ingestion errors
	SheetFetchError
	SheetParseError
	SheetIdentityNotFoundError
	RecordFieldError

	// Taxon resolution errors
	ResolveNameParseError
	ResolveNotFoundError
	ResolveAuthorityError
	ResolveCacheError
	ResolveVernacularError

	// Identifier assignment errors
	AssignSiteCodeError
	AssignStudyIDError
	AssignCustodianError
	AssignSpeciesIDError

	// Transform errors
	TransformPartyError
	TransformCoverageError
	TransformCitationError
	TransformHabitatError

	// Document errors
	DocSerializeError
	DocSchemaError

	// Reference table errors
	TableLoadError
	TableArchiveError
	TableSaveError
	TableIntegrityError

	// Merge errors
	MergeStudyError
	MergeSiteError
	MergeSpeciesError
	MergeCountryError

	// Map image errors
	MapFetchError
)
