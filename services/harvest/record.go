package harvest

// Flat record shapes written to the dated snapshot files and consumed by
// the importer. Once produced by the normalizer these are treated as
// immutable values.

type BreedRecord struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Mixed     bool   `json:"mixed"`
}

type AttributeRecord struct {
	SpayedNeutered bool `json:"spayed_neutered"`
	HouseTrained   bool `json:"house_trained"`
	SpecialNeeds   bool `json:"special_needs"`
	ShotsCurrent   bool `json:"shots_current"`
}

// nil means the shelter never answered the question, which is distinct
// from an explicit false.
type EnvironmentRecord struct {
	Children *bool `json:"children"`
	Dogs     *bool `json:"dogs"`
	Cats     *bool `json:"cats"`
}

type AnimalRecord struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Type            string            `json:"type"`
	Species         string            `json:"species"`
	Breeds          BreedRecord       `json:"breeds"`
	Age             string            `json:"age"`
	Gender          string            `json:"gender"`
	Size            string            `json:"size"`
	Coat            string            `json:"coat"`
	Attributes      AttributeRecord   `json:"attributes"`
	Environment     EnvironmentRecord `json:"environment"`
	Tags            []string          `json:"tags"`
	Description     string            `json:"description"`
	Photos          []string          `json:"photos"`
	PrimaryPhoto    string            `json:"primary_photo"`
	Status          string            `json:"status"`
	PublishedAt     string            `json:"published_at"`
	StatusChangedAt string            `json:"status_changed_at"`
	OrganizationID  string            `json:"organization_id"`
	URL             string            `json:"url"`
}

type AddressRecord struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

type AdoptionRecord struct {
	Policy string `json:"policy"`
	URL    string `json:"url"`
}

type SocialMediaRecord struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

type OrganizationRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Address          AddressRecord     `json:"address"`
	URL              string            `json:"url"`
	Website          string            `json:"website"`
	MissionStatement string            `json:"mission_statement"`
	Adoption         AdoptionRecord    `json:"adoption"`
	SocialMedia      SocialMediaRecord `json:"social_media"`
	Photo            string            `json:"photo"`
}

// OrganizationContact is the denormalized slice of an organization that
// gets attached to a linked animal. It only ever appears in the combined
// snapshot, never in the relational store.
type OrganizationContact struct {
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Address AddressRecord `json:"address"`
	Website string        `json:"website"`
	URL     string        `json:"url"`
	Photo   string        `json:"photo"`
}

type EnrichedAnimalRecord struct {
	AnimalRecord
	Organization *OrganizationContact `json:"organization,omitempty"`
}
