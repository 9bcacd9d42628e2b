// Package ioreftab persists the reference tables as CSV files in the
// data directory.
//
// The tables are small, file-based and single-operator; every merge
// archives the prior files verbatim before anything is written, and Save
// goes through a temp file plus rename so a crash never leaves a
// half-written table behind.
package ioreftab

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/google/uuid"
)

const (
	sitesFile   = "sites.csv"
	studiesFile = "studies.csv"
	speciesFile = "species.csv"
)

type ioreftab struct {
	dataDir    string
	archiveDir string
	tables     *reftab.Tables
}

// New creates a CSV-backed repository rooted at the data directory.
func New(dataDir, archiveDir string) reftab.Repository {
	return &ioreftab{dataDir: dataDir, archiveDir: archiveDir}
}

func (r *ioreftab) Load() (*reftab.Tables, error) {
	res := &reftab.Tables{}

	if err := r.readCSV(sitesFile, sitesHeader, func(row []string) error {
		site, err := siteFromRow(row)
		if err != nil {
			return err
		}
		res.Sites = append(res.Sites, site)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.readCSV(studiesFile, studiesHeader, func(row []string) error {
		study, err := studyFromRow(row)
		if err != nil {
			return err
		}
		res.Studies = append(res.Studies, study)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.readCSV(speciesFile, speciesHeader, func(row []string) error {
		sp, err := speciesFromRow(row)
		if err != nil {
			return err
		}
		res.Species = append(res.Species, sp)
		return nil
	}); err != nil {
		return nil, err
	}

	r.tables = res
	return snapshot(res), nil
}

// Archive copies the current table files verbatim into the archive
// directory with one shared timestamp.
func (r *ioreftab) Archive() error {
	stamp := time.Now().Format("20060102-150405")
	for _, name := range []string{sitesFile, studiesFile, speciesFile} {
		src := filepath.Join(r.dataDir, name)
		data, err := os.ReadFile(src)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return ArchiveError(src, err)
		}
		base := name[:len(name)-len(".csv")]
		dst := filepath.Join(
			r.archiveDir, fmt.Sprintf("%s_%s.csv", base, stamp),
		)
		if err = os.WriteFile(dst, data, 0644); err != nil {
			return ArchiveError(dst, err)
		}
	}
	return nil
}

func (r *ioreftab) UpsertSite(site reftab.Site) error {
	if err := r.loaded(); err != nil {
		return err
	}
	for i := range r.tables.Sites {
		if r.tables.Sites[i].SiteID != site.SiteID {
			continue
		}
		// Name and country are immutable once set; only the coordinates
		// move.
		r.tables.Sites[i].Latitude = site.Latitude
		r.tables.Sites[i].Longitude = site.Longitude
		if site.CoordinateProvenance != "" {
			r.tables.Sites[i].CoordinateProvenance = site.CoordinateProvenance
		}
		return nil
	}
	r.tables.Sites = append(r.tables.Sites, site)
	return nil
}

func (r *ioreftab) UpsertStudy(study reftab.Study) error {
	if err := r.loaded(); err != nil {
		return err
	}
	for i := range r.tables.Studies {
		if r.tables.Studies[i].StudyID != study.StudyID {
			continue
		}
		r.tables.Studies[i].CustodianID = study.CustodianID
		r.tables.Studies[i].CustodianName = study.CustodianName
		r.tables.Studies[i].DataAvailable = study.DataAvailable
		r.tables.Studies[i].StandardFormatted = study.StandardFormatted
		return nil
	}
	r.tables.Studies = append(r.tables.Studies, study)
	return nil
}

func (r *ioreftab) AppendSpecies(sp reftab.Species) error {
	if err := r.loaded(); err != nil {
		return err
	}
	r.tables.Species = append(r.tables.Species, sp)
	return nil
}

// Save checks the integrity invariants and persists all three tables,
// overwriting the prior non-archived copies.
func (r *ioreftab) Save() error {
	if err := r.loaded(); err != nil {
		return err
	}
	if err := checkIntegrity(r.tables); err != nil {
		return err
	}

	if err := r.writeCSV(sitesFile, sitesHeader, siteRows(r.tables.Sites)); err != nil {
		return err
	}
	if err := r.writeCSV(studiesFile, studiesHeader, studyRows(r.tables.Studies)); err != nil {
		return err
	}
	return r.writeCSV(speciesFile, speciesHeader, speciesRows(r.tables.Species))
}

func (r *ioreftab) loaded() error {
	if r.tables == nil {
		return SaveError(r.dataDir, fmt.Errorf("tables are not loaded"))
	}
	return nil
}

// checkIntegrity enforces the uniqueness and referential invariants of
// the three tables. A violation fails the whole save; nothing is written.
func checkIntegrity(t *reftab.Tables) error {
	siteIDs := make(map[string]struct{}, len(t.Sites))
	for _, s := range t.Sites {
		if !reftab.ValidSiteID(s.SiteID) {
			return IntegrityError(fmt.Sprintf(
				"site identifier %q is not a 3-letter code", s.SiteID,
			))
		}
		if _, ok := siteIDs[s.SiteID]; ok {
			return IntegrityError(fmt.Sprintf(
				"site identifier %q appears twice", s.SiteID,
			))
		}
		siteIDs[s.SiteID] = struct{}{}
	}

	studyIDs := make(map[string]struct{}, len(t.Studies))
	for _, s := range t.Studies {
		if !reftab.ValidStudyID(s.StudyID) {
			return IntegrityError(fmt.Sprintf(
				"study identifier %q does not match the XXX-N pattern", s.StudyID,
			))
		}
		if _, ok := studyIDs[s.StudyID]; ok {
			return IntegrityError(fmt.Sprintf(
				"study identifier %q appears twice", s.StudyID,
			))
		}
		studyIDs[s.StudyID] = struct{}{}
		if _, ok := siteIDs[s.SiteID]; !ok {
			return IntegrityError(fmt.Sprintf(
				"study %q references unknown site %q", s.StudyID, s.SiteID,
			))
		}
		if s.StudyUUID != "" {
			if err := uuid.Validate(s.StudyUUID); err != nil {
				return IntegrityError(fmt.Sprintf(
					"study %q carries a malformed UUID %q", s.StudyID, s.StudyUUID,
				))
			}
		}
	}

	speciesIDs := make(map[string]struct{}, len(t.Species))
	prevCode := 0
	for _, sp := range t.Species {
		if _, ok := speciesIDs[sp.SpeciesID]; ok {
			return IntegrityError(fmt.Sprintf(
				"species identifier %q appears twice", sp.SpeciesID,
			))
		}
		speciesIDs[sp.SpeciesID] = struct{}{}
		if sp.SpeciesCode <= prevCode {
			return IntegrityError(fmt.Sprintf(
				"species code %d is not strictly increasing", sp.SpeciesCode,
			))
		}
		prevCode = sp.SpeciesCode
	}
	return nil
}

func (r *ioreftab) readCSV(
	name string, header []string, add func(row []string) error,
) error {
	path := filepath.Join(r.dataDir, name)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return LoadError(path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return LoadError(path, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if err = add(row); err != nil {
			return LoadError(path, err)
		}
	}
	return nil
}

// writeCSV goes through a temp file in the same directory plus rename,
// so a crash mid-write never corrupts a table.
func (r *ioreftab) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(r.dataDir, name)
	tmp, err := os.CreateTemp(r.dataDir, name+".tmp-*")
	if err != nil {
		return SaveError(path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err = w.Write(header); err == nil {
		err = w.WriteAll(rows)
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return SaveError(path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return SaveError(path, err)
	}
	return nil
}

var (
	sitesHeader = []string{
		"siteID", "siteName", "country", "countryCode",
		"latitude", "longitude", "coordinateProvenance",
	}
	studiesHeader = []string{
		"studyID", "studyUUID", "siteID", "custodianID", "custodianName",
		"dataAvailable", "standardFormatted",
	}
	speciesHeader = []string{
		"speciesCode", "speciesID", "scientificName", "authorship",
		"vernacularName", "gbifID", "eolID", "colID", "itisTSN", "euringID",
	}
)

func siteFromRow(row []string) (reftab.Site, error) {
	lat, err := parseFloat(row[4])
	if err != nil {
		return reftab.Site{}, err
	}
	lon, err := parseFloat(row[5])
	if err != nil {
		return reftab.Site{}, err
	}
	return reftab.Site{
		SiteID:               row[0],
		SiteName:             row[1],
		Country:              row[2],
		CountryCode:          row[3],
		Latitude:             lat,
		Longitude:            lon,
		CoordinateProvenance: row[6],
	}, nil
}

func studyFromRow(row []string) (reftab.Study, error) {
	avail, err := strconv.ParseBool(row[5])
	if err != nil {
		return reftab.Study{}, err
	}
	return reftab.Study{
		StudyID:           row[0],
		StudyUUID:         row[1],
		SiteID:            row[2],
		CustodianID:       row[3],
		CustodianName:     row[4],
		DataAvailable:     avail,
		StandardFormatted: reftab.TriBool(row[6]),
	}, nil
}

func speciesFromRow(row []string) (reftab.Species, error) {
	code, err := strconv.Atoi(row[0])
	if err != nil {
		return reftab.Species{}, err
	}
	return reftab.Species{
		SpeciesCode:    code,
		SpeciesID:      row[1],
		ScientificName: row[2],
		Authorship:     row[3],
		VernacularName: row[4],
		GBIFID:         row[5],
		EOLID:          row[6],
		COLID:          row[7],
		ITISTSN:        row[8],
		EuringID:       row[9],
	}, nil
}

func siteRows(sites []reftab.Site) [][]string {
	res := make([][]string, 0, len(sites))
	for _, s := range sites {
		res = append(res, []string{
			s.SiteID, s.SiteName, s.Country, s.CountryCode,
			formatFloat(s.Latitude), formatFloat(s.Longitude),
			s.CoordinateProvenance,
		})
	}
	return res
}

func studyRows(studies []reftab.Study) [][]string {
	res := make([][]string, 0, len(studies))
	for _, s := range studies {
		res = append(res, []string{
			s.StudyID, s.StudyUUID, s.SiteID, s.CustodianID, s.CustodianName,
			strconv.FormatBool(s.DataAvailable), string(s.StandardFormatted),
		})
	}
	return res
}

func speciesRows(species []reftab.Species) [][]string {
	res := make([][]string, 0, len(species))
	for _, sp := range species {
		res = append(res, []string{
			strconv.Itoa(sp.SpeciesCode), sp.SpeciesID, sp.ScientificName,
			sp.Authorship, sp.VernacularName,
			sp.GBIFID, sp.EOLID, sp.COLID, sp.ITISTSN, sp.EuringID,
		})
	}
	return res
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// snapshot copies the tables so callers cannot mutate repository state
// behind its back.
func snapshot(t *reftab.Tables) *reftab.Tables {
	res := &reftab.Tables{
		Sites:   make([]reftab.Site, len(t.Sites)),
		Studies: make([]reftab.Study, len(t.Studies)),
		Species: make([]reftab.Species, len(t.Species)),
	}
	copy(res.Sites, t.Sites)
	copy(res.Studies, t.Studies)
	copy(res.Species, t.Species)
	return res
}
