package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"baggr-backend/firebase"
	"baggr-backend/services"
	"baggr-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errUploadFailed = errors.New("image upload failed")

type storedFile struct {
	URL  string
	Path string
}

// storeUpload validates an uploaded image and writes it to folder.
func storeUpload(ctx context.Context, storage firebase.StorageClient, folder, field string, fh *multipart.FileHeader) (storedFile, error) {
	if err := utils.ValidateFileUpload(fh); err != nil {
		return storedFile{}, services.NewFieldError(field, err.Error())
	}
	if storage == nil {
		return storedFile{}, errUploadFailed
	}

	file, err := fh.Open()
	if err != nil {
		return storedFile{}, services.NewFieldError(field, "Invalid image")
	}
	defer file.Close()

	url, err := storage.Upload(ctx, folder, file, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		zap.L().Error("upload failed", zap.String("folder", folder), zap.Error(err))
		return storedFile{}, errUploadFailed
	}
	return storedFileFromURL(url), nil
}

// importImage copies a remote image into folder.
func importImage(ctx context.Context, storage firebase.StorageClient, folder, field, imageURL string) (storedFile, error) {
	if storage == nil {
		return storedFile{}, errUploadFailed
	}
	url, err := storage.ImportFromURL(ctx, folder, imageURL)
	if err != nil {
		zap.L().Warn("image import failed", zap.String("url", imageURL), zap.Error(err))
		return storedFile{}, services.NewFieldError(field, "Could not import image from URL")
	}
	return storedFileFromURL(url), nil
}

func storedFileFromURL(url string) storedFile {
	path, err := utils.ExtractObjectPath(url)
	if err != nil {
		path = ""
	}
	return storedFile{URL: url, Path: path}
}

// respondUploadError answers errors from storeUpload and importImage.
func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, errUploadFailed) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
		return
	}
	respondError(c, err)
}
