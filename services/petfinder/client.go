package petfinder

import (
	"context"
	"time"

	"petharvest-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/petfinder")

const DefaultBaseUrl = "https://api.petfinder.com/v2"

type Config struct {
	BaseUrl string `json:"base_url"`
	// ClientId and ClientSecret are usually provided through the
	// PETFINDER_API_KEY and PETFINDER_API_SECRET environment variables.
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Client talks to the pet adoption listing API. All retry and rate limit
// policy lives here, callers only ever see fully accumulated record lists.
type Client struct {
	http   *resty.Client
	tokens *TokenSource

	// retry budget for a single page fetch, 429 responses do not consume it
	retryAttempts     int
	retryAfterDefault time.Duration
	backoffInterval   time.Duration
	// pacing delay between successful pages
	pageInterval time.Duration
}

func NewClient(config Config, creds CredentialStore) *Client {
	baseUrl := config.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "services/petfinder/http")

	return &Client{
		http:              client,
		tokens:            NewTokenSource(config, client, creds),
		retryAttempts:     3,
		retryAfterDefault: time.Second * 10,
		backoffInterval:   time.Second * 2,
		pageInterval:      time.Millisecond * 200,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
