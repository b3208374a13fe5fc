package harvest

// Link attaches a denormalized organization contact to every animal whose
// organization id resolves against the organization collection. Animals
// with a missing or unresolved id pass through unchanged. Duplicate
// organization ids should not occur upstream; if they do, the last one
// wins.
func Link(animals []AnimalRecord, orgs []OrganizationRecord) []EnrichedAnimalRecord {
	lookup := make(map[string]OrganizationRecord, len(orgs))
	for _, o := range orgs {
		lookup[o.ID] = o
	}

	enriched := make([]EnrichedAnimalRecord, 0, len(animals))
	for _, a := range animals {
		record := EnrichedAnimalRecord{AnimalRecord: a}
		if a.OrganizationID != "" {
			if org, ok := lookup[a.OrganizationID]; ok {
				record.Organization = &OrganizationContact{
					Name:    org.Name,
					Email:   org.Email,
					Phone:   org.Phone,
					Address: org.Address,
					Website: org.Website,
					URL:     org.URL,
					Photo:   org.Photo,
				}
			}
		}
		enriched = append(enriched, record)
	}
	return enriched
}
