package petfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// subtracted from the advertised token lifetime so a token never expires
// mid-request
const expirySafetyMargin = 10

type Credential struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
}

func (c Credential) Valid(now time.Time) bool {
	return c.AccessToken != "" && now.Unix() < c.ExpiresAt
}

// AuthError means the client credentials exchange failed. It is fatal to
// the run, there is no retry at this layer.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("token exchange failed: %s", e.Message)
}

// CredentialStore persists a credential between runs.
type CredentialStore interface {
	Load() (Credential, bool, error)
	Save(Credential) error
}

// FileCredentialStore keeps the credential in a JSON side file.
type FileCredentialStore struct {
	Path string
}

func (s FileCredentialStore) Load() (Credential, bool, error) {
	contents, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, err
	}

	var cred Credential
	err = json.Unmarshal(contents, &cred)
	if err != nil {
		// an unreadable cache is the same as no cache, the next
		// exchange overwrites it
		slog.Warn("discarding malformed token cache", "path", s.Path, "err", err)
		return Credential{}, false, nil
	}
	return cred, true, nil
}

func (s FileCredentialStore) Save(cred Credential) error {
	contents, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, contents, 0600)
}

// MemCredentialStore is an in-memory CredentialStore for tests.
type MemCredentialStore struct {
	cred Credential
	ok   bool
}

func (s *MemCredentialStore) Load() (Credential, bool, error) {
	return s.cred, s.ok, nil
}

func (s *MemCredentialStore) Save(cred Credential) error {
	s.cred = cred
	s.ok = true
	return nil
}

// TokenSource hands out a bearer token, hitting the network only when the
// persisted credential is missing or expired.
type TokenSource struct {
	http         *resty.Client
	store        CredentialStore
	clientId     string
	clientSecret string
	now          func() time.Time
}

func NewTokenSource(config Config, client *resty.Client, store CredentialStore) *TokenSource {
	return &TokenSource{
		http:         client,
		store:        store,
		clientId:     config.ClientId,
		clientSecret: config.ClientSecret,
		now:          time.Now,
	}
}

func (t *TokenSource) Token(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "Token")
	defer span.End()

	cred, ok, err := t.store.Load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load cached credential")
		return "", err
	}
	if ok && cred.Valid(t.now()) {
		slog.DebugContext(ctx, "using cached access token")
		return cred.AccessToken, nil
	}

	slog.InfoContext(ctx, "requesting new access token")

	res, err := t.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     t.clientId,
			"client_secret": t.clientSecret,
		}).
		Post("/oauth2/token")
	if err != nil {
		authErr := &AuthError{Message: err.Error()}
		span.RecordError(authErr)
		span.SetStatus(codes.Error, "token exchange failed")
		return "", authErr
	}
	if res.IsError() {
		authErr := &AuthError{StatusCode: res.StatusCode()}
		span.RecordError(authErr)
		span.SetStatus(codes.Error, "token exchange returned an error status")
		return "", authErr
	}

	cred = Credential{}
	err = json.Unmarshal(res.Body(), &cred)
	if err != nil || cred.AccessToken == "" || cred.ExpiresIn <= 0 {
		authErr := &AuthError{Message: "malformed token response body"}
		span.RecordError(authErr)
		span.SetStatus(codes.Error, "malformed token response body")
		return "", authErr
	}
	cred.ExpiresAt = t.now().Unix() + cred.ExpiresIn - expirySafetyMargin

	err = t.store.Save(cred)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist credential")
		return "", err
	}

	return cred.AccessToken, nil
}
