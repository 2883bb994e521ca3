package requests_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"cryptotracker/src/utils"
	"cryptotracker/src/utils/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalAPIService(t *testing.T) {
	var gotAuth, gotQuery, gotContentType string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		switch r.URL.Path {
		case "/ok":
			if r.Method == http.MethodPost {
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"message":"ok","data":[1,2,3]}`))
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/unavailable":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"exchange sync down"}`))
		case "/plain":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	api := requests.NewExternalAPIService(time.Second, 100)
	ctx := context.Background()

	t.Run("Get sends bearer token and query parameters", func(t *testing.T) {
		resp, err := api.Get(ctx, srv.URL+"/ok", "tok", url.Values{"assetSymbol": {"BTC"}})
		require.NoError(t, err)

		var payload struct {
			Data []int `json:"data"`
		}
		require.NoError(t, requests.DecodeJSON(resp, &payload))
		assert.Equal(t, []int{1, 2, 3}, payload.Data)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.Equal(t, "assetSymbol=BTC", gotQuery)
	})

	t.Run("Post encodes the body as JSON", func(t *testing.T) {
		resp, err := api.Post(ctx, srv.URL+"/ok", "", nil, map[string]string{"assetSymbol": "ETH"})
		require.NoError(t, err)
		require.NoError(t, requests.DecodeJSON(resp, &struct{}{}))
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "ETH", gotBody["assetSymbol"])
		assert.Empty(t, gotAuth)
	})

	t.Run("empty bodies decode to nothing", func(t *testing.T) {
		resp, err := api.Delete(ctx, srv.URL+"/empty", "tok", nil)
		require.NoError(t, err)
		var payload map[string]interface{}
		require.NoError(t, requests.DecodeJSON(resp, &payload))
		assert.Nil(t, payload)
	})

	t.Run("non 2xx responses carry the upstream status and message", func(t *testing.T) {
		_, err := api.Get(ctx, srv.URL+"/unavailable", "tok", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, utils.StatusCode(err))
		assert.Equal(t, "exchange sync down", err.Error())

		_, err = api.Get(ctx, srv.URL+"/plain", "tok", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, utils.StatusCode(err))
	})

	t.Run("cancelled contexts fail fast", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := api.Get(cancelled, srv.URL+"/ok", "tok", nil)
		assert.Error(t, err)
	})
}
