// Package reftab defines the append-only reference tables (sites, studies,
// species) and the repository contract used to mutate them.
//
// The tables are process-wide persistent state. Only the merger mutates
// them, and every mutation is preceded by a full archive of the prior
// state: restore-from-archive is the only rollback mechanism.
package reftab

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Site is one row of the site table.
type Site struct {
	// SiteID is a unique 3-letter code.
	SiteID string `json:"siteID"`
	// SiteName is the full name of the study site.
	SiteName string `json:"siteName"`
	// Country is the country name as submitted.
	Country string `json:"country"`
	// CountryCode is the ISO 3166-1 alpha-2 code.
	CountryCode string  `json:"countryCode"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	// CoordinateProvenance records whether coordinates came in as a
	// centre point or as a bounding box centroid.
	CoordinateProvenance string `json:"coordinateProvenance"`
}

// TriBool is a boolean with an explicit unknown state, used for fields
// that are only settled by a later workflow.
type TriBool string

const (
	True    TriBool = "true"
	False   TriBool = "false"
	Unknown TriBool = "unknown"
)

// Study is one row of the study table.
type Study struct {
	// StudyID has the format XXX-N where XXX is the site code and N
	// increments per site. A studyID is never reused.
	StudyID string `json:"studyID"`
	// StudyUUID is globally unique and stable across re-submission or
	// update of the same study.
	StudyUUID string `json:"studyUUID"`
	// SiteID references the site table.
	SiteID        string `json:"siteID"`
	CustodianID   string `json:"custodianID"`
	CustodianName string `json:"custodianName"`
	// DataAvailable is false until data arrival, a separate workflow.
	DataAvailable bool `json:"dataAvailable"`
	// StandardFormatted stays unknown until the data is checked against
	// the standard format.
	StandardFormatted TriBool `json:"standardFormatted"`
}

// Species is one row of the species table.
type Species struct {
	// SpeciesCode is a monotonically increasing integer, unique across
	// the table.
	SpeciesCode int `json:"speciesCode"`
	// SpeciesID is a unique 6-letter mnemonic derived from the name.
	SpeciesID string `json:"speciesID"`
	// ScientificName is the accepted scientific name.
	ScientificName string `json:"scientificName"`
	Authorship     string `json:"authorship,omitempty"`
	VernacularName string `json:"vernacularName,omitempty"`
	// External identifiers per authority; absent when the authority did
	// not recognize the name.
	GBIFID   string `json:"gbifID,omitempty"`
	EOLID    string `json:"eolID,omitempty"`
	COLID    string `json:"colID,omitempty"`
	ITISTSN  string `json:"itisTSN,omitempty"`
	EuringID string `json:"euringID,omitempty"`
}

// Tables is a consistent snapshot of the three reference tables.
type Tables struct {
	Sites   []Site
	Studies []Study
	Species []Species
}

// Repository abstracts persistence of the reference tables so tests can
// substitute an in-memory fake.
type Repository interface {
	// Load reads the current state of all three tables.
	Load() (*Tables, error)

	// Archive writes a timestamped verbatim copy of all three tables.
	// Must be called before any mutation.
	Archive() error

	// UpsertSite appends a new site or, when the siteID pre-exists,
	// updates only its coordinates. Name and country are immutable once
	// set.
	UpsertSite(site Site) error

	// UpsertStudy appends a new study or updates custodian and
	// availability fields of an existing one. A studyID is never reused.
	UpsertStudy(study Study) error

	// AppendSpecies appends a new species row.
	AppendSpecies(sp Species) error

	// Save persists all three tables, overwriting the prior non-archived
	// copies. Fails loudly without partial writes when an integrity
	// invariant is violated.
	Save() error
}

var studyIDRe = regexp.MustCompile(`^[A-Z]{3}-[0-9]+$`)

// ValidStudyID reports whether s matches the XXX-N study identifier
// pattern.
func ValidStudyID(s string) bool {
	return studyIDRe.MatchString(s)
}

// ValidSiteID reports whether s is a 3-letter uppercase site code.
func ValidSiteID(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// StudyNumber extracts the per-site increment from a studyID.
func StudyNumber(studyID string) (int, error) {
	_, num, ok := strings.Cut(studyID, "-")
	if !ok {
		return 0, fmt.Errorf("malformed studyID: %s", studyID)
	}
	return strconv.Atoi(num)
}

// SiteByName returns the site with the exactly matching name, if any.
func (t *Tables) SiteByName(name string) (Site, bool) {
	for _, s := range t.Sites {
		if s.SiteName == name {
			return s, true
		}
	}
	return Site{}, false
}

// SiteByID returns the site with the given code, if any.
func (t *Tables) SiteByID(id string) (Site, bool) {
	for _, s := range t.Sites {
		if s.SiteID == id {
			return s, true
		}
	}
	return Site{}, false
}

// StudyByID returns the study with the given studyID, if any.
func (t *Tables) StudyByID(id string) (Study, bool) {
	for _, s := range t.Studies {
		if s.StudyID == id {
			return s, true
		}
	}
	return Study{}, false
}

// StudiesAtSite returns the studies referencing a site.
func (t *Tables) StudiesAtSite(siteID string) []Study {
	var res []Study
	for _, s := range t.Studies {
		if s.SiteID == siteID {
			res = append(res, s)
		}
	}
	return res
}

// MaxStudyNumber returns the highest per-site study increment at a site,
// 0 when the site has no studies yet.
func (t *Tables) MaxStudyNumber(siteID string) int {
	var res int
	for _, s := range t.StudiesAtSite(siteID) {
		if n, err := StudyNumber(s.StudyID); err == nil && n > res {
			res = n
		}
	}
	return res
}

// CustodianIDs returns the distinct custodian identifiers in use.
func (t *Tables) CustodianIDs() []string {
	var res []string
	seen := make(map[string]struct{})
	for _, s := range t.Studies {
		if _, ok := seen[s.CustodianID]; ok || s.CustodianID == "" {
			continue
		}
		seen[s.CustodianID] = struct{}{}
		res = append(res, s.CustodianID)
	}
	return res
}

// SpeciesIDs returns the set of mnemonics in use.
func (t *Tables) SpeciesIDs() map[string]struct{} {
	res := make(map[string]struct{})
	for _, s := range t.Species {
		res[s.SpeciesID] = struct{}{}
	}
	return res
}

// HasScientificName reports whether a species row with the given accepted
// name already exists.
func (t *Tables) HasScientificName(name string) bool {
	for _, s := range t.Species {
		if s.ScientificName == name {
			return true
		}
	}
	return false
}

// MaxSpeciesCode returns the highest speciesCode in the table, 0 when the
// table is empty.
func (t *Tables) MaxSpeciesCode() int {
	var res int
	for _, s := range t.Species {
		if s.SpeciesCode > res {
			res = s.SpeciesCode
		}
	}
	return res
}
