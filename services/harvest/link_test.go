package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	animals := []AnimalRecord{
		{ID: 1, Name: "Daisy", OrganizationID: "ORG1"},
		{ID: 2, Name: "Rex", OrganizationID: "ORG2"},
		{ID: 3, Name: "Ada"},
	}
	orgs := []OrganizationRecord{
		{
			ID:      "ORG1",
			Name:    "Shelter A",
			Email:   "adopt@sheltera.org",
			Phone:   "(407) 555-0100",
			Address: AddressRecord{City: "Orlando", State: "FL"},
			Website: "https://sheltera.org",
			URL:     "https://example.org/org/ORG1",
			Photo:   "org-photo",
		},
	}

	enriched := Link(animals, orgs)
	require.Len(t, enriched, 3)

	// resolvable id gets the denormalized contact
	require.NotNil(t, enriched[0].Organization)
	require.Equal(t, "Shelter A", enriched[0].Organization.Name)
	require.Equal(t, "adopt@sheltera.org", enriched[0].Organization.Email)
	require.Equal(t, "Orlando", enriched[0].Organization.Address.City)
	require.Equal(t, "org-photo", enriched[0].Organization.Photo)

	// unresolved id passes through with no organization field
	require.Nil(t, enriched[1].Organization)
	require.Equal(t, "Rex", enriched[1].Name)

	// absent id passes through with no organization field
	require.Nil(t, enriched[2].Organization)

	// sources are not mutated
	require.Equal(t, "Daisy", animals[0].Name)
}

func TestLinkDuplicateOrganizationIds(t *testing.T) {
	animals := []AnimalRecord{{ID: 1, OrganizationID: "ORG1"}}
	orgs := []OrganizationRecord{
		{ID: "ORG1", Name: "First"},
		{ID: "ORG1", Name: "Second"},
	}

	enriched := Link(animals, orgs)
	require.NotNil(t, enriched[0].Organization)
	require.Equal(t, "Second", enriched[0].Organization.Name)
}

func TestLinkEmptyCollections(t *testing.T) {
	require.Empty(t, Link(nil, nil))

	enriched := Link([]AnimalRecord{{ID: 1, OrganizationID: "ORG1"}}, nil)
	require.Len(t, enriched, 1)
	require.Nil(t, enriched[0].Organization)
}
