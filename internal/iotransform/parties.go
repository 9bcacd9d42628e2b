package iotransform

import (
	"github.com/SPI-Birds/metadata/pkg/eml"
	"github.com/SPI-Birds/metadata/pkg/record"
)

// Party ids used for in-document references.
const (
	creatorID  = "creator"
	providerID = "provider"
	contactID  = "contact"
)

// parties runs the three party state machines. References always resolve
// in one hop: a role that would reference a reference is collapsed onto
// the concretely-defined party.
func parties(
	rec *record.Submission,
) (creator, provider, contact eml.Party, err error) {
	creator, err = creatorParty(rec)
	if err != nil {
		return
	}
	provider, err = providerParty(rec)
	if err != nil {
		return
	}
	contact, err = contactParty(rec, &provider)
	return
}

func creatorParty(rec *record.Submission) (eml.Party, error) {
	switch rec.CreatorType {
	case record.PersonParty:
		if rec.CreatorName == "" || rec.CreatorEmail == "" ||
			rec.CreatorOrg == "" || rec.CreatorAddress == "" {
			return eml.Party{}, PartyError(
				"creator",
				"a person creator needs name, email, organization and address",
			)
		}
		p := eml.Party{
			ID:           creatorID,
			Individual:   eml.SplitName(rec.CreatorName),
			Organization: rec.CreatorOrg,
			Email:        rec.CreatorEmail,
			Address:      address(rec.CreatorAddress),
		}
		if rec.CreatorORCID != "" {
			p.UserID = &eml.UserID{
				Directory: eml.ORCIDDirectory,
				Value:     rec.CreatorORCID,
			}
		}
		return p, nil
	case record.OrganizationParty:
		name := rec.CreatorOrg
		if name == "" {
			name = rec.CreatorName
		}
		if name == "" || rec.CreatorAddress == "" {
			return eml.Party{}, PartyError(
				"creator",
				"an organization creator needs a name and an address",
			)
		}
		return eml.Party{
			ID:           creatorID,
			Organization: name,
			Address:      address(rec.CreatorAddress),
		}, nil
	default:
		return eml.Party{}, PartyError("creator", "creator type is not specified")
	}
}

// providerParty selects SameAsCreator only when the creator is a person:
// the provider role is a person construct, so an organization creator can
// never stand in for it.
func providerParty(rec *record.Submission) (eml.Party, error) {
	if !rec.ProviderIsSomeoneElse && rec.CreatorType == record.PersonParty {
		return eml.Reference(creatorID), nil
	}

	if rec.ProviderName == "" {
		return eml.Party{}, PartyError(
			"metadataProvider",
			"the provider must be a named person when the creator is an "+
				"organization or the provider is someone else",
		)
	}
	p := eml.Party{
		ID:           providerID,
		Individual:   eml.SplitName(rec.ProviderName),
		Organization: rec.ProviderOrg,
		Email:        rec.ProviderEmail,
		Address:      address(rec.ProviderAddress),
	}
	if rec.ProviderORCID != "" {
		p.UserID = &eml.UserID{
			Directory: eml.ORCIDDirectory,
			Value:     rec.ProviderORCID,
		}
	}
	return p, nil
}

func contactParty(
	rec *record.Submission, provider *eml.Party,
) (eml.Party, error) {
	switch rec.ContactIs {
	case record.ContactIsCreator, "":
		return eml.Reference(creatorID), nil
	case record.ContactIsProvider:
		// Collapse to the creator when the provider is itself only a
		// reference, so the reference resolves in one hop.
		if provider.IsReference() {
			return eml.Reference(provider.References), nil
		}
		return eml.Reference(providerID), nil
	case record.ContactIsOther:
		if rec.ContactName == "" {
			return eml.Party{}, PartyError(
				"contact", "a distinct contact needs at least a name",
			)
		}
		return eml.Party{
			ID:           contactID,
			Individual:   eml.SplitName(rec.ContactName),
			Organization: rec.ContactOrg,
			Email:        rec.ContactEmail,
			Address:      address(rec.ContactAddress),
		}, nil
	default:
		return eml.Party{}, PartyError(
			"contact", "contact choice is not recognized",
		)
	}
}

func address(s string) *eml.Address {
	if s == "" {
		return nil
	}
	return &eml.Address{DeliveryPoint: []string{s}}
}
