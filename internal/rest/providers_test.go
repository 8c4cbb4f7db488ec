package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderService_InvalidInputNeverReachesServer(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := NewProviderService(client).Create(context.Background(), ProviderInput{
		Email: "not-an-email",
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["Name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["Email"])
	assert.Zero(t, requests)
}

func TestProviderService_CreateReturnsStoredRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/providers", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"prov-1","name":"Acme","phone":"5551234"}`))
	})

	p, err := NewProviderService(client).Create(context.Background(), ProviderInput{
		Name:  "Acme",
		Phone: "5551234",
	})
	require.NoError(t, err)
	assert.Equal(t, "prov-1", p.ID)
	assert.Equal(t, "Acme", p.Name)
}

func TestProviderService_ListDecodesBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a","name":"Acme"},{"id":"b","name":"Globex"}]`))
	})

	providers, err := NewProviderService(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "Globex", providers[1].Name)
}
