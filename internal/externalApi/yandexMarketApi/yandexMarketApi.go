package yandexMarketApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/externalApi"
	"github.com/KotFed0t/stock_sync/internal/model/yandexModel"
	"github.com/KotFed0t/stock_sync/utils"
	"github.com/go-resty/resty/v2"
)

const (
	offerMappingEntriesPath = "/campaigns/{campaignId}/offer-mapping-entries"
	offerStocksPath         = "/campaigns/{campaignId}/offers/stocks"
	offerPricesPath         = "/campaigns/{campaignId}/offer-prices/updates"

	offerMappingEntriesLimit = 200
)

type YandexMarketApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YandexMarketApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.YandexMarket.Url).
		SetAuthToken(cfg.YandexMarket.Token).
		SetHeader("Accept", "application/json")
	return &YandexMarketApi{client: externalApi.WithRateLimit(client, cfg.API.RateLimit)}
}

// GetOfferIDs returns shop SKUs of the campaign, following nextPageToken until it is empty.
func (a *YandexMarketApi) GetOfferIDs(ctx context.Context, campaignID string) ([]string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YandexMarketApi.GetOfferIDs"

	slog.Debug("GetOfferIDs start", slog.String("rqID", rqID), slog.String("op", op), slog.String("campaignID", campaignID))

	var offerIDs []string
	pageToken := ""
	for {
		resp, err := a.client.R().
			SetContext(ctx).
			SetPathParam("campaignId", campaignID).
			SetQueryParams(map[string]string{
				"page_token": pageToken,
				"limit":      strconv.Itoa(offerMappingEntriesLimit),
			}).
			Get(offerMappingEntriesPath)
		if err != nil {
			slog.Error("error while dialing YandexMarketApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}

		if !resp.IsSuccess() {
			err = fmt.Errorf("%w: %s %s", externalApi.ErrUnexpectedStatus, resp.Status(), resp.Body())
			slog.Error("unexpected status", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}

		entries := yandexModel.OfferMappingEntriesResponse{}
		err = json.Unmarshal(resp.Body(), &entries)
		if err != nil {
			slog.Error("can't unmarshall offer mapping entries", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}

		for _, entry := range entries.Result.OfferMappingEntries {
			offerIDs = append(offerIDs, entry.Offer.ShopSku)
		}

		pageToken = entries.Result.Paging.NextPageToken
		if pageToken == "" {
			break
		}
	}

	slog.Debug("GetOfferIDs completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("offerIDs", len(offerIDs)))

	return offerIDs, nil
}

func (a *YandexMarketApi) UpdateStocks(ctx context.Context, campaignID string, skus []yandexModel.SkuStock) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YandexMarketApi.UpdateStocks"

	slog.Debug("UpdateStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("skus", len(skus)))

	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("campaignId", campaignID).
		SetBody(yandexModel.StocksRequest{Skus: skus}).
		Put(offerStocksPath)
	if err != nil {
		slog.Error("error while dialing YandexMarketApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err = checkStatus(resp); err != nil {
		slog.Error("stocks update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("UpdateStocks completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func (a *YandexMarketApi) UpdatePrices(ctx context.Context, campaignID string, offers []yandexModel.OfferPrice) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YandexMarketApi.UpdatePrices"

	slog.Debug("UpdatePrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("offers", len(offers)))

	resp, err := a.client.R().
		SetContext(ctx).
		SetPathParam("campaignId", campaignID).
		SetBody(yandexModel.PricesRequest{Offers: offers}).
		Post(offerPricesPath)
	if err != nil {
		slog.Error("error while dialing YandexMarketApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err = checkStatus(resp); err != nil {
		slog.Error("prices update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("UpdatePrices completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func checkStatus(resp *resty.Response) error {
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %s %s", externalApi.ErrUnexpectedStatus, resp.Status(), resp.Body())
	}

	status := yandexModel.StatusResponse{}
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return fmt.Errorf("can't unmarshal status response: %w", err)
	}

	if status.Status != yandexModel.StatusOK {
		return fmt.Errorf("%w: status %q, errors %+v", externalApi.ErrRejected, status.Status, status.Errors)
	}

	return nil
}
