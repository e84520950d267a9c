package targets

// softDeleted restricts a scan to rows that are not soft-deleted.
func softDeleted() map[string]any {
	return map[string]any{"deletedAt": nil}
}

// Default returns the built-in targets of the marketplace schema: one per
// model, keyed by Prisma-style table and column names.
func Default() *File {
	return &File{
		Backend: BackendPostgres,
		Targets: []Spec{
			{
				Name:   "Listing",
				Filter: softDeleted(),
				Fields: []string{"name", "description", "shortDescription", "address", "locationName", "metaTitle", "metaDescription"},
			},
			{
				Name:       "Tour",
				Filter:     softDeleted(),
				Fields:     []string{"name", "description", "shortDescription", "startLocationName", "endLocationName"},
				Structured: []string{"itinerary"},
			},
			{
				Name:   "Event",
				Filter: softDeleted(),
				Fields: []string{"name", "description", "locationName", "venueName", "address", "cancellationReason"},
			},
			{
				Name:   "User",
				Filter: softDeleted(),
				Fields: []string{"username", "fullName", "firstName", "lastName", "bio", "address", "profession", "company", "industry"},
			},
			{
				Name:   "MerchantProfile",
				Filter: softDeleted(),
				Fields: []string{"businessName", "description", "address", "rejectionReason", "revisionNotes"},
			},
			{
				Name:   "OrganizerProfile",
				Filter: softDeleted(),
				Fields: []string{"organizationName", "description", "address", "rejectionReason", "revisionNotes"},
			},
			{
				Name:   "TourOperatorProfile",
				Filter: softDeleted(),
				Fields: []string{"companyName", "description", "address", "rejectionReason", "revisionNotes"},
			},
		},
	}
}
