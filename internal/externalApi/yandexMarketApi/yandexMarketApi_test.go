package yandexMarketApi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/externalApi"
	"github.com/KotFed0t/stock_sync/internal/model/yandexModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(url string) *YandexMarketApi {
	cfg := &config.Config{}
	cfg.YandexMarket.Url = url
	cfg.YandexMarket.Token = "market-token"
	return New(cfg)
}

func TestGetOfferIDs_FollowsPageToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/campaigns/111/offer-mapping-entries", r.URL.Path)
		assert.Equal(t, "Bearer market-token", r.Header.Get("Authorization"))
		assert.Equal(t, "200", r.URL.Query().Get("limit"))

		var resp yandexModel.OfferMappingEntriesResponse
		resp.Status = "OK"
		switch r.URL.Query().Get("page_token") {
		case "":
			resp.Result.OfferMappingEntries = []yandexModel.OfferMappingEntry{
				{Offer: yandexModel.Offer{ShopSku: "A"}},
				{Offer: yandexModel.Offer{ShopSku: "B"}},
			}
			resp.Result.Paging.NextPageToken = "next-1"
		case "next-1":
			resp.Result.OfferMappingEntries = []yandexModel.OfferMappingEntry{
				{Offer: yandexModel.Offer{ShopSku: "C"}},
			}
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("page_token"))
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	ids, err := newTestApi(server.URL).GetOfferIDs(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestGetOfferIDs_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestApi(server.URL).GetOfferIDs(context.Background(), "111")
	assert.ErrorIs(t, err, externalApi.ErrUnexpectedStatus)
}

func TestUpdateStocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/campaigns/111/offers/stocks", r.URL.Path)

		var req yandexModel.StocksRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Skus, 1)
		assert.Equal(t, "A", req.Skus[0].Sku)
		assert.Equal(t, int64(7), req.Skus[0].WarehouseID)
		assert.Equal(t, "FIT", req.Skus[0].Items[0].Type)

		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	skus := []yandexModel.SkuStock{{
		Sku:         "A",
		WarehouseID: 7,
		Items:       []yandexModel.StockItem{{Count: 100, Type: "FIT", UpdatedAt: "2024-05-01T12:04:05Z"}},
	}}
	err := newTestApi(server.URL).UpdateStocks(context.Background(), "111", skus)
	assert.NoError(t, err)
}

func TestUpdatePrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/campaigns/222/offer-prices/updates", r.URL.Path)

		var req yandexModel.PricesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []yandexModel.OfferPrice{{ID: "A", Price: yandexModel.PriceValue{Value: 5990, CurrencyID: "RUR"}}}, req.Offers)

		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	offers := []yandexModel.OfferPrice{{ID: "A", Price: yandexModel.PriceValue{Value: 5990, CurrencyID: "RUR"}}}
	err := newTestApi(server.URL).UpdatePrices(context.Background(), "222", offers)
	assert.NoError(t, err)
}

func TestUpdatePrices_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","errors":[{"code":"BAD_REQUEST","message":"bad"}]}`))
	}))
	defer server.Close()

	err := newTestApi(server.URL).UpdatePrices(context.Background(), "222", nil)
	assert.ErrorIs(t, err, externalApi.ErrRejected)
}

func TestUpdateStocks_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"ERROR"}`))
	}))
	defer server.Close()

	err := newTestApi(server.URL).UpdateStocks(context.Background(), "111", nil)
	assert.ErrorIs(t, err, externalApi.ErrUnexpectedStatus)
}
