package petfinder

// Raw wire types for the listing API. Nested objects are pointers because
// the API returns null for most of them when the shelter never filled the
// field in.

type Breeds struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Mixed     bool   `json:"mixed"`
}

type Attributes struct {
	SpayedNeutered bool `json:"spayed_neutered"`
	HouseTrained   bool `json:"house_trained"`
	SpecialNeeds   bool `json:"special_needs"`
	ShotsCurrent   bool `json:"shots_current"`
}

// Environment flags are tri-state: true, false, or unknown (null).
type Environment struct {
	Children *bool `json:"children"`
	Dogs     *bool `json:"dogs"`
	Cats     *bool `json:"cats"`
}

type Photo struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

type Animal struct {
	ID                  int64        `json:"id"`
	OrganizationID      string       `json:"organization_id"`
	URL                 string       `json:"url"`
	Type                string       `json:"type"`
	Species             string       `json:"species"`
	Breeds              *Breeds      `json:"breeds"`
	Age                 string       `json:"age"`
	Gender              string       `json:"gender"`
	Size                string       `json:"size"`
	Coat                string       `json:"coat"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Photos              []Photo      `json:"photos"`
	PrimaryPhotoCropped *Photo       `json:"primary_photo_cropped"`
	Status              string       `json:"status"`
	Attributes          *Attributes  `json:"attributes"`
	Environment         *Environment `json:"environment"`
	Tags                []string     `json:"tags"`
	PublishedAt         string       `json:"published_at"`
	StatusChangedAt     string       `json:"status_changed_at"`
}

type Address struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

type Adoption struct {
	Policy string `json:"policy"`
	URL    string `json:"url"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

type Organization struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Address          *Address     `json:"address"`
	URL              string       `json:"url"`
	Website          string       `json:"website"`
	MissionStatement string       `json:"mission_statement"`
	Adoption         *Adoption    `json:"adoption"`
	SocialMedia      *SocialMedia `json:"social_media"`
	Photos           []Photo      `json:"photos"`
}

type animalsPage struct {
	Animals []Animal `json:"animals"`
}

type organizationsPage struct {
	Organizations []Organization `json:"organizations"`
}
