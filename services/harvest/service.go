package harvest

import (
	"context"
	"log/slog"
	"time"

	"petharvest-backend/services/petfinder"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("services/harvest")
var meter = otel.Meter("services/harvest")

// snapshot labels, kept stable so reruns on the same day overwrite
const (
	AnimalSnapshotLabel       = "data"
	OrganizationSnapshotLabel = "organizations"
	LinkedSnapshotLabel       = "data_with_orgs"
)

type Config struct {
	Location       string `json:"location"`
	PageSize       int    `json:"page_size"`
	AnimalMaxPages int    `json:"animal_max_pages"`
	OrgMaxPages    int    `json:"org_max_pages"`
}

func (c Config) withDefaults() Config {
	if c.Location == "" {
		c.Location = "orlando, fl"
	}
	if c.PageSize == 0 {
		c.PageSize = 100
	}
	if c.AnimalMaxPages == 0 {
		c.AnimalMaxPages = 100
	}
	if c.OrgMaxPages == 0 {
		c.OrgMaxPages = 10
	}
	return c
}

// Service runs the harvest pipeline: fetch, normalize, cross-link and
// snapshot both collections for a single day.
type Service struct {
	client        *petfinder.Client
	snapshots     SnapshotStore
	config        Config
	recordCounter metric.Int64Counter
}

func NewService(client *petfinder.Client, snapshots SnapshotStore, config Config) (Service, error) {
	recordCounter, err := meter.Int64Counter(
		"harvest_records_total",
		metric.WithDescription("The total amount of records harvested, by resource."),
	)
	if err != nil {
		return Service{}, err
	}
	return Service{
		client:        client,
		snapshots:     snapshots,
		config:        config.withDefaults(),
		recordCounter: recordCounter,
	}, nil
}

type RunResult struct {
	AnimalCount          int
	OrganizationCount    int
	AnimalSnapshot       string
	OrganizationSnapshot string
	LinkedSnapshot       string
}

// Run executes one harvest. Fetch failures degrade to partial collections,
// only auth failures and snapshot write failures abort.
func (s Service) Run(ctx context.Context) (RunResult, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	runId := uuid.NewString()
	date := time.Now()
	slog.InfoContext(ctx, "starting harvest", "run_id", runId, "location", s.config.Location)

	query := petfinder.Query{
		Location: s.config.Location,
		PageSize: s.config.PageSize,
	}

	var result RunResult

	query.MaxPages = s.config.AnimalMaxPages
	animalsRaw, err := s.client.FetchAnimals(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch animals")
		return result, err
	}
	animals := NormalizeAnimals(animalsRaw)
	s.recordCounter.Add(ctx, int64(len(animals)),
		metric.WithAttributes(attribute.String("resource", "animals")))

	result.AnimalCount = len(animals)
	result.AnimalSnapshot, err = s.snapshots.Write(AnimalSnapshotLabel, date, animals)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write animal snapshot")
		return result, err
	}
	slog.InfoContext(
		ctx, "wrote animal snapshot",
		"run_id", runId,
		"path", result.AnimalSnapshot,
		"count", len(animals),
	)

	query.MaxPages = s.config.OrgMaxPages
	orgsRaw, err := s.client.FetchOrganizations(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch organizations")
		return result, err
	}
	orgs := NormalizeOrganizations(orgsRaw)
	s.recordCounter.Add(ctx, int64(len(orgs)),
		metric.WithAttributes(attribute.String("resource", "organizations")))

	result.OrganizationCount = len(orgs)
	result.OrganizationSnapshot, err = s.snapshots.Write(OrganizationSnapshotLabel, date, orgs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write organization snapshot")
		return result, err
	}
	slog.InfoContext(
		ctx, "wrote organization snapshot",
		"run_id", runId,
		"path", result.OrganizationSnapshot,
		"count", len(orgs),
	)

	linked := Link(animals, orgs)
	result.LinkedSnapshot, err = s.snapshots.Write(LinkedSnapshotLabel, date, linked)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write linked snapshot")
		return result, err
	}
	slog.InfoContext(ctx, "wrote linked snapshot", "run_id", runId, "path", result.LinkedSnapshot)

	span.SetAttributes(
		attribute.Int("animals", result.AnimalCount),
		attribute.Int("organizations", result.OrganizationCount),
	)
	return result, nil
}
