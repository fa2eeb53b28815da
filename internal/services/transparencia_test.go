// internal/services/transparencia_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetflow/aet-backend/internal/config"
)

func newTestClient(baseURL string) *TransparenciaClient {
	return NewTransparenciaClient(config.TransparenciaConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
	})
}

func TestLookupDecodesListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cnpj", r.URL.Path)
		assert.Equal(t, "10280806000134", r.URL.Query().Get("cnpj"))
		assert.Equal(t, "test-key", r.Header.Get("chave-api-dados"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"cnpj":"10280806000134","nome":"TRANSPORTES EXEMPLO LTDA","nomeFantasiaReceita":"TransEx","uf":"SP","municipio":"SAO PAULO"}]`))
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).Lookup(context.Background(), "10280806000134")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "TRANSPORTES EXEMPLO LTDA", info.Name)
	assert.Equal(t, "TransEx", info.TradeName)
	assert.Equal(t, "SP", info.State)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).Lookup(context.Background(), "00000000000191")
	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestLookupEmptyListIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).Lookup(context.Background(), "00000000000191")
	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestLookupRetriesOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"cnpj":"10280806000134","nome":"TRANSPORTES EXEMPLO LTDA"}]`))
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).Lookup(context.Background(), "10280806000134")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "TRANSPORTES EXEMPLO LTDA", info.Name)
}

func TestClientDisabledWithoutKey(t *testing.T) {
	c := NewTransparenciaClient(config.TransparenciaConfig{BaseURL: "http://example.invalid"})
	assert.False(t, c.Enabled())
}
