package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"petharvest-backend/services/harvest"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("services/importer")
var meter = otel.Meter("services/importer")

const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id TEXT PRIMARY KEY,
	name TEXT,
	email TEXT,
	phone TEXT,
	city TEXT,
	state TEXT,
	postcode TEXT,
	url TEXT,
	website TEXT,
	mission_statement TEXT,
	adoption_policy TEXT,
	adoption_url TEXT,
	facebook TEXT,
	instagram TEXT,
	photo TEXT
);

CREATE TABLE IF NOT EXISTS animals (
	id INTEGER PRIMARY KEY,
	name TEXT,
	type TEXT,
	species TEXT,
	breed_primary TEXT,
	breed_secondary TEXT,
	breed_mixed INTEGER,
	age TEXT,
	gender TEXT,
	size TEXT,
	coat TEXT,
	spayed_neutered INTEGER,
	house_trained INTEGER,
	special_needs INTEGER,
	shots_current INTEGER,
	good_with_children INTEGER,
	good_with_dogs INTEGER,
	good_with_cats INTEGER,
	tags TEXT,
	description TEXT,
	photos TEXT,
	primary_photo TEXT,
	status TEXT,
	published_at TEXT,
	status_changed_at TEXT,
	organization_id TEXT REFERENCES organizations(id),
	url TEXT
);
`

const upsertOrganization = `
INSERT INTO organizations (
	id, name, email, phone, city, state, postcode, url, website,
	mission_statement, adoption_policy, adoption_url, facebook, instagram, photo
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	email = excluded.email,
	phone = excluded.phone,
	city = excluded.city,
	state = excluded.state,
	postcode = excluded.postcode,
	url = excluded.url,
	website = excluded.website,
	mission_statement = excluded.mission_statement,
	adoption_policy = excluded.adoption_policy,
	adoption_url = excluded.adoption_url,
	facebook = excluded.facebook,
	instagram = excluded.instagram,
	photo = excluded.photo
`

const upsertAnimal = `
INSERT INTO animals (
	id, name, type, species, breed_primary, breed_secondary, breed_mixed,
	age, gender, size, coat,
	spayed_neutered, house_trained, special_needs, shots_current,
	good_with_children, good_with_dogs, good_with_cats,
	tags, description, photos, primary_photo,
	status, published_at, status_changed_at, organization_id, url
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	type = excluded.type,
	species = excluded.species,
	breed_primary = excluded.breed_primary,
	breed_secondary = excluded.breed_secondary,
	breed_mixed = excluded.breed_mixed,
	age = excluded.age,
	gender = excluded.gender,
	size = excluded.size,
	coat = excluded.coat,
	spayed_neutered = excluded.spayed_neutered,
	house_trained = excluded.house_trained,
	special_needs = excluded.special_needs,
	shots_current = excluded.shots_current,
	good_with_children = excluded.good_with_children,
	good_with_dogs = excluded.good_with_dogs,
	good_with_cats = excluded.good_with_cats,
	tags = excluded.tags,
	description = excluded.description,
	photos = excluded.photos,
	primary_photo = excluded.primary_photo,
	status = excluded.status,
	published_at = excluded.published_at,
	status_changed_at = excluded.status_changed_at,
	organization_id = excluded.organization_id,
	url = excluded.url
`

// MissingInputError means a snapshot file the importer needs was never
// written. It is fatal to the import stage only.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("snapshot file does not exist: %s", e.Path)
}

// Importer upserts normalized snapshot files into the relational store.
type Importer struct {
	db         *sql.DB
	rowCounter metric.Int64Counter
}

func New(db *sql.DB) (Importer, error) {
	rowCounter, err := meter.Int64Counter(
		"import_rows_total",
		metric.WithDescription("The total amount of rows upserted into the store, by table."),
	)
	if err != nil {
		return Importer{}, err
	}
	return Importer{db: db, rowCounter: rowCounter}, nil
}

// Run loads both snapshot files and upserts every row in one transaction,
// organizations first so animal rows can reference them. On any failure
// the whole batch rolls back.
func (i Importer) Run(ctx context.Context, animalsPath, orgsPath string) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	span.SetAttributes(
		attribute.String("animals_path", animalsPath),
		attribute.String("organizations_path", orgsPath),
	)

	animals, err := readSnapshot[harvest.AnimalRecord](animalsPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read animal snapshot")
		return err
	}
	orgs, err := readSnapshot[harvest.OrganizationRecord](orgsPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read organization snapshot")
		return err
	}

	_, err = i.db.ExecContext(ctx, schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to ensure schema")
		return err
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	for _, o := range orgs {
		_, err := tx.ExecContext(ctx, upsertOrganization,
			o.ID, o.Name, o.Email, o.Phone,
			o.Address.City, o.Address.State, o.Address.Postcode,
			o.URL, o.Website, o.MissionStatement,
			o.Adoption.Policy, o.Adoption.URL,
			o.SocialMedia.Facebook, o.SocialMedia.Instagram,
			o.Photo,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to upsert organization")
			return fmt.Errorf("upsert organization %s: %w", o.ID, err)
		}
	}

	for _, a := range animals {
		_, err := tx.ExecContext(ctx, upsertAnimal,
			a.ID, a.Name, a.Type, a.Species,
			a.Breeds.Primary, a.Breeds.Secondary, boolToInt(a.Breeds.Mixed),
			a.Age, a.Gender, a.Size, a.Coat,
			boolToInt(a.Attributes.SpayedNeutered),
			boolToInt(a.Attributes.HouseTrained),
			boolToInt(a.Attributes.SpecialNeeds),
			boolToInt(a.Attributes.ShotsCurrent),
			triToInt(a.Environment.Children),
			triToInt(a.Environment.Dogs),
			triToInt(a.Environment.Cats),
			strings.Join(a.Tags, ","),
			a.Description,
			strings.Join(a.Photos, ","),
			a.PrimaryPhoto,
			a.Status, a.PublishedAt, a.StatusChangedAt,
			a.OrganizationID, a.URL,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to upsert animal")
			return fmt.Errorf("upsert animal %d: %w", a.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit batch")
		return err
	}

	i.rowCounter.Add(ctx, int64(len(orgs)),
		metric.WithAttributes(attribute.String("table", "organizations")))
	i.rowCounter.Add(ctx, int64(len(animals)),
		metric.WithAttributes(attribute.String("table", "animals")))

	slog.InfoContext(
		ctx, "imported snapshots",
		"animals", len(animals),
		"organizations", len(orgs),
	)
	return nil
}

func readSnapshot[T any](path string) ([]T, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &MissingInputError{Path: path}
	}
	if err != nil {
		return nil, err
	}

	var records []T
	err = json.Unmarshal(contents, &records)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return records, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// triToInt collapses an unknown environment flag into 0 alongside an
// explicit false. Only a strict true becomes 1.
func triToInt(v *bool) int {
	if v != nil && *v {
		return 1
	}
	return 0
}
