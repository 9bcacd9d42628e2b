// Package ioassign implements the identifier assigner: stable short
// codes for sites, studies, custodians and species, validated against
// the reference tables.
//
// Collisions and free-form codes are resolved by the operator. Every
// prompt prints the derived identifier first, so the operator can
// cross-check it against the overview sheet before answering.
package ioassign

import (
	"context"
	"fmt"
	"strings"

	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/SPI-Birds/metadata/pkg/taxon"
	"github.com/gnames/gn"
)

type ioassign struct {
	dis pipeline.Disambiguator
}

// New creates an assigner that resolves collisions through the given
// disambiguator.
func New(dis pipeline.Disambiguator) pipeline.Assigner {
	return &ioassign{dis: dis}
}

func (a *ioassign) AssignSiteAndStudy(
	ctx context.Context,
	siteName string,
	tables *reftab.Tables,
) (siteID, studyID string, newSite, newStudy bool, err error) {
	site, ok := tables.SiteByName(siteName)
	if ok {
		studyID, newStudy, err = a.studyAtExistingSite(ctx, site, tables)
		return site.SiteID, studyID, false, newStudy, err
	}

	siteID, err = a.freshSiteCode(ctx, siteName, tables)
	if err != nil {
		return "", "", false, false, err
	}
	return siteID, siteID + "-1", true, true, nil
}

// studyAtExistingSite asks whether the submission starts a new study at
// the known site or updates one of its existing studies.
func (a *ioassign) studyAtExistingSite(
	ctx context.Context,
	site reftab.Site,
	tables *reftab.Tables,
) (studyID string, newStudy bool, err error) {
	gn.Info(fmt.Sprintf(
		"Site <em>%s</em> is already registered as <em>%s</em>.",
		site.SiteName, site.SiteID,
	))
	idx, err := a.dis.ChooseOne(
		ctx,
		fmt.Sprintf("What does this submission describe at %s?", site.SiteID),
		[]string{
			"a new study at this site",
			"an update to an existing study",
		},
	)
	if err != nil {
		return "", false, err
	}

	if idx == 0 {
		n := tables.MaxStudyNumber(site.SiteID)
		return fmt.Sprintf("%s-%d", site.SiteID, n+1), true, nil
	}

	for {
		studyID, err = a.dis.ProvideValue(
			ctx,
			fmt.Sprintf(
				"Which study at %s does this update? Enter its study identifier",
				site.SiteID,
			),
		)
		if err != nil {
			return "", false, err
		}
		studyID = strings.ToUpper(strings.TrimSpace(studyID))
		if !reftab.ValidStudyID(studyID) {
			gn.Warn(fmt.Sprintf(
				"<em>%s</em> does not match the XXX-N study identifier pattern.",
				studyID,
			))
			continue
		}
		if _, ok := tables.StudyByID(studyID); !ok ||
			!strings.HasPrefix(studyID, site.SiteID+"-") {
			gn.Warn(fmt.Sprintf(
				"No study <em>%s</em> is registered at site <em>%s</em>.",
				studyID, site.SiteID,
			))
			continue
		}
		return studyID, false, nil
	}
}

// freshSiteCode asks for a new 3-letter code until it is well-formed and
// unused.
func (a *ioassign) freshSiteCode(
	ctx context.Context,
	siteName string,
	tables *reftab.Tables,
) (string, error) {
	gn.Info(fmt.Sprintf(
		"Site <em>%s</em> is not registered yet.", siteName,
	))
	for {
		code, err := a.dis.ProvideValue(
			ctx,
			fmt.Sprintf("Enter a new 3-letter code for site %q", siteName),
		)
		if err != nil {
			return "", err
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if !reftab.ValidSiteID(code) {
			gn.Warn(fmt.Sprintf(
				"<em>%s</em> is not a 3-letter code.", code,
			))
			continue
		}
		if _, ok := tables.SiteByID(code); ok {
			gn.Warn(fmt.Sprintf(
				"Code <em>%s</em> is already taken.", code,
			))
			continue
		}
		return code, nil
	}
}

func (a *ioassign) AssignCustodianID(
	ctx context.Context,
	custodianName string,
	tables *reftab.Tables,
) (string, error) {
	existing := tables.CustodianIDs()
	used := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		used[id] = struct{}{}
	}

	gn.Info(fmt.Sprintf(
		"Assigning a custodian identifier for <em>%s</em>.", custodianName,
	))
	for {
		id, err := a.dis.ProvideValue(
			ctx,
			fmt.Sprintf("Enter a custodian code for %q", custodianName),
		)
		if err != nil {
			return "", err
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := used[id]; !ok {
			return id, nil
		}

		idx, err := a.dis.ChooseOne(
			ctx,
			fmt.Sprintf(
				"Custodian code %q is already in use. Is this the same custodian?",
				id,
			),
			[]string{
				"yes, reuse the code",
				"no, enter a different code",
			},
		)
		if err != nil {
			return "", err
		}
		if idx == 0 {
			return id, nil
		}
	}
}

func (a *ioassign) AssignSpeciesID(
	ctx context.Context,
	scientificName string,
	used map[string]struct{},
) (string, error) {
	id, err := Mnemonic(scientificName)
	if err != nil {
		return "", err
	}

	gn.Info(fmt.Sprintf(
		"Derived species identifier <em>%s</em> for <em>%s</em>.",
		id, scientificName,
	))
	for {
		if _, ok := used[id]; !ok {
			return id, nil
		}
		override, err := a.dis.ProvideValue(
			ctx,
			fmt.Sprintf(
				"Species identifier %q is already taken. Enter an override for %q",
				id, scientificName,
			),
		)
		if err != nil {
			return "", err
		}
		override = strings.ToUpper(strings.TrimSpace(override))
		if override == "" || override == id {
			continue
		}
		id = override
	}
}

// Mnemonic derives the 6-letter species identifier: first 3 letters of
// genus plus first 3 of the epithet for a binomial, first letters of
// genus and epithet plus first 4 of the subspecies epithet for a
// trinomial.
func Mnemonic(scientificName string) (string, error) {
	parts := taxon.Epithets(scientificName)
	switch len(parts) {
	case 2:
		if len(parts[0]) < 3 || len(parts[1]) < 3 {
			return "", SpeciesIDError(scientificName)
		}
		return strings.ToUpper(parts[0][:3] + parts[1][:3]), nil
	case 3:
		if len(parts[2]) < 4 {
			return "", SpeciesIDError(scientificName)
		}
		return strings.ToUpper(parts[0][:1] + parts[1][:1] + parts[2][:4]), nil
	default:
		return "", SpeciesIDError(scientificName)
	}
}
