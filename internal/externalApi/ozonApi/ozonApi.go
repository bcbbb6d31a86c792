package ozonApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/externalApi"
	"github.com/KotFed0t/stock_sync/internal/model/ozonModel"
	"github.com/KotFed0t/stock_sync/utils"
	"github.com/go-resty/resty/v2"
)

const (
	productListPath  = "/v2/product/list"
	importStocksPath = "/v1/product/import/stocks"
	importPricesPath = "/v1/product/import/prices"

	productListLimit = 1000
	visibilityAll    = "ALL"
)

type OzonApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *OzonApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.Ozon.Url).
		SetHeader("Client-Id", cfg.Ozon.ClientID).
		SetHeader("Api-Key", cfg.Ozon.SellerToken).
		SetHeader("Accept", "application/json")
	return &OzonApi{client: externalApi.WithRateLimit(client, cfg.API.RateLimit)}
}

func (a *OzonApi) getProductList(ctx context.Context, lastID string) (ozonModel.ProductListResult, error) {
	body := ozonModel.ProductListRequest{
		Filter: ozonModel.ProductListFilter{Visibility: visibilityAll},
		LastID: lastID,
		Limit:  productListLimit,
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(productListPath)
	if err != nil {
		return ozonModel.ProductListResult{}, err
	}

	if !resp.IsSuccess() {
		return ozonModel.ProductListResult{}, fmt.Errorf("%w: %s %s", externalApi.ErrUnexpectedStatus, resp.Status(), resp.Body())
	}

	productList := ozonModel.ProductListResponse{}
	err = json.Unmarshal(resp.Body(), &productList)
	if err != nil {
		return ozonModel.ProductListResult{}, fmt.Errorf("can't unmarshal product list: %w", err)
	}

	return productList.Result, nil
}

// GetOfferIDs pages through the seller catalog until the reported total is collected.
func (a *OzonApi) GetOfferIDs(ctx context.Context) ([]string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "OzonApi.GetOfferIDs"

	slog.Debug("GetOfferIDs start", slog.String("rqID", rqID), slog.String("op", op))

	var offerIDs []string
	lastID := ""
	for {
		page, err := a.getProductList(ctx, lastID)
		if err != nil {
			slog.Error("failed on getProductList", slog.String("rqID", rqID), slog.String("op", op), slog.String("lastID", lastID), slog.String("err", err.Error()))
			return nil, err
		}

		for _, item := range page.Items {
			offerIDs = append(offerIDs, item.OfferID)
		}

		if len(offerIDs) >= page.Total {
			break
		}

		// total may lag behind the catalog, do not spin on an exhausted cursor
		if len(page.Items) == 0 || page.LastID == "" {
			slog.Warn(
				"product list exhausted before reported total",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.Int("collected", len(offerIDs)),
				slog.Int("total", page.Total),
			)
			break
		}

		lastID = page.LastID
	}

	slog.Debug("GetOfferIDs completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("offerIDs", len(offerIDs)))

	return offerIDs, nil
}

func (a *OzonApi) UpdateStocks(ctx context.Context, stocks []ozonModel.Stock) ([]ozonModel.ImportResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "OzonApi.UpdateStocks"

	slog.Debug("UpdateStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("stocks", len(stocks)))

	res, err := a.postImport(ctx, importStocksPath, ozonModel.StocksRequest{Stocks: stocks})
	if err != nil {
		slog.Error("failed on import stocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("UpdateStocks completed", slog.String("rqID", rqID), slog.String("op", op))

	return res, nil
}

func (a *OzonApi) UpdatePrices(ctx context.Context, prices []ozonModel.Price) ([]ozonModel.ImportResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "OzonApi.UpdatePrices"

	slog.Debug("UpdatePrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("prices", len(prices)))

	res, err := a.postImport(ctx, importPricesPath, ozonModel.PricesRequest{Prices: prices})
	if err != nil {
		slog.Error("failed on import prices", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("UpdatePrices completed", slog.String("rqID", rqID), slog.String("op", op))

	return res, nil
}

func (a *OzonApi) postImport(ctx context.Context, path string, body any) ([]ozonModel.ImportResult, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s %s", externalApi.ErrUnexpectedStatus, resp.Status(), resp.Body())
	}

	importResp := ozonModel.ImportResponse{}
	err = json.Unmarshal(resp.Body(), &importResp)
	if err != nil {
		return nil, fmt.Errorf("can't unmarshal import response: %w", err)
	}

	return importResp.Result, nil
}
