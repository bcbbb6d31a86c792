package feedApi

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/externalApi"
	"github.com/KotFed0t/stock_sync/internal/model/feedModel"
	"github.com/KotFed0t/stock_sync/utils"
	"github.com/extrame/xls"
	"github.com/go-resty/resty/v2"
	"github.com/xuri/excelize/v2"
)

const legacyExtension = ".xls"

var spreadsheetExtensions = []string{".xlsx", ".xlsm", legacyExtension}

type FeedApi struct {
	client    *resty.Client
	url       string
	fileName  string
	headerRow int
}

func New(cfg *config.Config) *FeedApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout)
	return &FeedApi{
		client:    client,
		url:       cfg.Feed.Url,
		fileName:  cfg.Feed.FileName,
		headerRow: cfg.Feed.HeaderRow,
	}
}

// Load downloads the supplier archive and returns its spreadsheet rows in order.
func (a *FeedApi) Load(ctx context.Context) ([]feedModel.Record, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FeedApi.Load"

	slog.Debug("Load start", slog.String("rqID", rqID), slog.String("op", op), slog.String("url", a.url))

	resp, err := a.client.R().
		SetContext(ctx).
		Get(a.url)
	if err != nil {
		slog.Error("error while downloading feed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("%w: %s", externalApi.ErrUnexpectedStatus, resp.Status())
		slog.Error("feed download failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	tmpPath, err := a.extract(resp.Body())
	if err != nil {
		slog.Error("can't extract feed archive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			slog.Error("can't remove scratch file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	records, err := a.parse(tmpPath)
	if err != nil {
		slog.Error("can't parse feed spreadsheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("Load completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("records", len(records)))

	return records, nil
}

// extract writes the spreadsheet entry of the archive to a scratch file and returns its path.
func (a *FeedApi) extract(archive []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	entry := a.findSpreadsheet(zr.File)
	if entry == nil {
		return "", externalApi.ErrFeedFileNotFound
	}

	src, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "feed-*"+path.Ext(entry.Name))
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	_, err = io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write scratch file: %w", err)
	}

	return dst.Name(), nil
}

func (a *FeedApi) findSpreadsheet(files []*zip.File) *zip.File {
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if a.fileName != "" {
			if name == a.fileName {
				return f
			}
			continue
		}
		ext := strings.ToLower(path.Ext(name))
		for _, spreadsheetExt := range spreadsheetExtensions {
			if ext == spreadsheetExt {
				return f
			}
		}
	}
	return nil
}

func (a *FeedApi) parse(filePath string) ([]feedModel.Record, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(path.Ext(filePath)) == legacyExtension {
		rows, err = readXlsRows(filePath)
	} else {
		rows, err = readXlsxRows(filePath)
	}
	if err != nil {
		return nil, err
	}

	return toRecords(rows, a.headerRow)
}

func readXlsxRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, externalApi.ErrFeedHeaderAbsent
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

// readXlsRows reads the first sheet of a legacy BIFF workbook (.xls).
func readXlsRows(filePath string) (rows [][]string, err error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	// парсер паникует на битых файлах
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("read xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("open spreadsheet: no workbook stream in %s", path.Base(filePath))
	}

	sheet := wb.GetSheet(0)
	if sheet == nil || sheet.MaxRow == 0 {
		return nil, nil
	}

	// ReadAllCells идёт по всем листам, лимит обрезает чтение первым
	return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
}

// toRecords treats rows[headerRow] as the header and everything below it as data.
func toRecords(rows [][]string, headerRow int) ([]feedModel.Record, error) {
	if headerRow >= len(rows) {
		return nil, fmt.Errorf("%w: row %d, spreadsheet has %d rows", externalApi.ErrFeedHeaderAbsent, headerRow, len(rows))
	}

	header := rows[headerRow]
	records := make([]feedModel.Record, 0, len(rows)-headerRow-1)

	for _, row := range rows[headerRow+1:] {
		if isBlank(row) {
			continue
		}

		record := make(feedModel.Record, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record[column] = value
		}
		records = append(records, record)
	}

	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
