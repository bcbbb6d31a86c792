package googleDriveApi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	downloadLinkTemplate = "https://drive.google.com/file/d/%s/view"

	appPropertyKey   = "kind"
	appPropertyValue = "stock_sync_report"
)

type GoogleDriveApi struct {
	srv     *drive.Service
	fileTTL time.Duration
}

func New(ctx context.Context, cfg *config.Config) (*GoogleDriveApi, error) {
	srv, err := drive.NewService(ctx, option.WithCredentialsFile(cfg.GoogleDrive.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("drive.NewService: %w", err)
	}
	return &GoogleDriveApi{srv: srv, fileTTL: cfg.GoogleDrive.FileTTL}, nil
}

// UploadFile stores a report and makes it readable by link.
func (a *GoogleDriveApi) UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.UploadFile"

	slog.Debug("UploadFile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename))

	fileMeta := &drive.File{
		Name:          filename,
		MimeType:      mime.TypeByExtension(filepath.Ext(filename)),
		AppProperties: map[string]string{appPropertyKey: appPropertyValue},
	}

	uploadedFile, err := a.srv.Files.
		Create(fileMeta).
		Media(reader). // чанки по 16МБ, сетевые ошибки ретраятся внутри клиента
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed on uploading file to google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}

	_, err = a.srv.Permissions.Create(uploadedFile.Id, perm).Context(ctx).Do()
	if err != nil {
		slog.Error("failed on creating permission to uploaded file in google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("UploadFile completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("fileID", uploadedFile.Id))

	return fmt.Sprintf(downloadLinkTemplate, uploadedFile.Id), nil
}

// DeleteOldFiles removes uploaded reports older than the configured TTL.
func (a *GoogleDriveApi) DeleteOldFiles(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.DeleteOldFiles"

	slog.Debug("DeleteOldFiles start", slog.String("rqID", rqID), slog.String("op", op))

	threshold := time.Now().Add(-a.fileTTL).UTC().Format(time.RFC3339)
	query := fmt.Sprintf(
		"appProperties has { key='%s' and value='%s' } and createdTime < '%s' and trashed = false",
		appPropertyKey, appPropertyValue, threshold,
	)

	var oldFiles []*drive.File
	err := a.srv.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, createdTime)").
		Pages(ctx, func(page *drive.FileList) error {
			oldFiles = append(oldFiles, page.Files...)
			return nil
		})
	if err != nil {
		slog.Error("failed on getting files", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	deletedFiles := 0
	for _, f := range oldFiles {
		err = a.srv.Files.Delete(f.Id).Context(ctx).Do()
		if err != nil {
			slog.Error(
				"failed delete file",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("err", err.Error()),
				slog.String("fileID", f.Id),
			)
			continue
		}
		deletedFiles++
	}

	slog.Info("delete old files done", slog.String("rqID", rqID), slog.Int("deletedFiles", deletedFiles), slog.Int("failed", len(oldFiles)-deletedFiles))

	return nil
}
