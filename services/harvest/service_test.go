package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"petharvest-backend/lib/telemetry"
	"petharvest-backend/services/petfinder"

	"github.com/stretchr/testify/require"
)

func newMockAPI(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token_type":"Bearer","access_token":"abc","expires_in":3600}`)
	})
	mux.HandleFunc("/animals", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"animals":[
			{"id":1,"name":"Daisy","organization_id":"FL53",
			 "breeds":{"primary":"Labrador Retriever","mixed":true},
			 "environment":{"children":true,"dogs":false,"cats":null},
			 "photos":[{"medium":"m1"},{"small":"s-only"}],
			 "primary_photo_cropped":{"medium":"cropped"},
			 "status":"adoptable"},
			{"id":2,"name":"Rex","organization_id":"FL99"}
		]}`)
	})
	mux.HandleFunc("/organizations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organizations":[
			{"id":"FL53","name":"Shelter A","email":"adopt@sheltera.org",
			 "address":{"city":"Orlando","state":"FL","postcode":"32801"},
			 "photos":[{"medium":"org-m"}]}
		]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestServiceRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/harvest")
	defer cleanup()

	srv := newMockAPI(t)
	client := petfinder.NewClient(
		petfinder.Config{BaseUrl: srv.URL},
		&petfinder.MemCredentialStore{},
	)

	dir := filepath.Join(t.TempDir(), "data_snapshots")
	snapshots, err := NewDirSnapshotStore(dir)
	require.NoError(t, err)

	service, err := NewService(client, snapshots, Config{
		Location: "orlando, fl",
		PageSize: 100,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	result, err := service.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.AnimalCount)
	require.Equal(t, 1, result.OrganizationCount)

	// all three snapshot files exist
	for _, path := range []string{
		result.AnimalSnapshot,
		result.OrganizationSnapshot,
		result.LinkedSnapshot,
	} {
		_, err := os.Stat(path)
		require.NoError(t, err)
	}

	var animals []AnimalRecord
	err = snapshots.Read(AnimalSnapshotLabel, time.Now(), &animals)
	require.NoError(t, err)
	require.Len(t, animals, 2)
	require.Equal(t, "Daisy", animals[0].Name)
	require.Equal(t, []string{"m1"}, animals[0].Photos)
	require.Equal(t, "cropped", animals[0].PrimaryPhoto)

	var linked []EnrichedAnimalRecord
	err = snapshots.Read(LinkedSnapshotLabel, time.Now(), &linked)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	require.NotNil(t, linked[0].Organization)
	require.Equal(t, "Shelter A", linked[0].Organization.Name)
	require.Equal(t, "org-m", linked[0].Organization.Photo)
	// FL99 was not in the organization collection
	require.Nil(t, linked[1].Organization)

	// the linked animal in the file omits the field entirely when
	// unresolved
	contents, err := os.ReadFile(result.LinkedSnapshot)
	require.NoError(t, err)

	var rawLinked []map[string]json.RawMessage
	err = json.Unmarshal(contents, &rawLinked)
	require.NoError(t, err)
	_, hasOrg := rawLinked[0]["organization"]
	require.True(t, hasOrg)
	_, hasOrg = rawLinked[1]["organization"]
	require.False(t, hasOrg)
}
