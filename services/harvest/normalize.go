package harvest

import (
	"petharvest-backend/services/petfinder"
)

// NormalizeAnimals projects raw animal records onto the flat snapshot
// shape, one record in, one record out, order preserved. Nested objects the
// API returned as null become zero values rather than panics.
func NormalizeAnimals(animals []petfinder.Animal) []AnimalRecord {
	records := make([]AnimalRecord, 0, len(animals))
	for _, a := range animals {
		record := AnimalRecord{
			ID:              a.ID,
			Name:            a.Name,
			Type:            a.Type,
			Species:         a.Species,
			Age:             a.Age,
			Gender:          a.Gender,
			Size:            a.Size,
			Coat:            a.Coat,
			Tags:            a.Tags,
			Description:     a.Description,
			Photos:          mediumPhotos(a.Photos),
			Status:          a.Status,
			PublishedAt:     a.PublishedAt,
			StatusChangedAt: a.StatusChangedAt,
			OrganizationID:  a.OrganizationID,
			URL:             a.URL,
		}
		if record.Tags == nil {
			record.Tags = []string{}
		}
		if a.Breeds != nil {
			record.Breeds = BreedRecord{
				Primary:   a.Breeds.Primary,
				Secondary: a.Breeds.Secondary,
				Mixed:     a.Breeds.Mixed,
			}
		}
		if a.Attributes != nil {
			record.Attributes = AttributeRecord{
				SpayedNeutered: a.Attributes.SpayedNeutered,
				HouseTrained:   a.Attributes.HouseTrained,
				SpecialNeeds:   a.Attributes.SpecialNeeds,
				ShotsCurrent:   a.Attributes.ShotsCurrent,
			}
		}
		if a.Environment != nil {
			record.Environment = EnvironmentRecord{
				Children: a.Environment.Children,
				Dogs:     a.Environment.Dogs,
				Cats:     a.Environment.Cats,
			}
		}
		if a.PrimaryPhotoCropped != nil {
			record.PrimaryPhoto = a.PrimaryPhotoCropped.Medium
		}
		records = append(records, record)
	}
	return records
}

// NormalizeOrganizations projects raw organization records onto the flat
// snapshot shape with the same null handling as NormalizeAnimals.
func NormalizeOrganizations(orgs []petfinder.Organization) []OrganizationRecord {
	records := make([]OrganizationRecord, 0, len(orgs))
	for _, o := range orgs {
		record := OrganizationRecord{
			ID:               o.ID,
			Name:             o.Name,
			Email:            o.Email,
			Phone:            o.Phone,
			URL:              o.URL,
			Website:          o.Website,
			MissionStatement: o.MissionStatement,
		}
		if o.Address != nil {
			record.Address = AddressRecord{
				City:     o.Address.City,
				State:    o.Address.State,
				Postcode: o.Address.Postcode,
			}
		}
		if o.Adoption != nil {
			record.Adoption = AdoptionRecord{
				Policy: o.Adoption.Policy,
				URL:    o.Adoption.URL,
			}
		}
		if o.SocialMedia != nil {
			record.SocialMedia = SocialMediaRecord{
				Facebook:  o.SocialMedia.Facebook,
				Instagram: o.SocialMedia.Instagram,
			}
		}
		if len(o.Photos) > 0 {
			record.Photo = o.Photos[0].Medium
		}
		records = append(records, record)
	}
	return records
}

// mediumPhotos reduces a photo list to the medium sized urls, dropping
// entries that never got one.
func mediumPhotos(photos []petfinder.Photo) []string {
	urls := []string{}
	for _, p := range photos {
		if p.Medium == "" {
			continue
		}
		urls = append(urls, p.Medium)
	}
	return urls
}
