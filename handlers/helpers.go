package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/middleware"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
)

// DefaultMaxUploadBytes caps a multipart image when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// MessageResponse is returned by operations with nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// getActor returns the authenticated actor or records an auth error.
func getActor(c *gin.Context) (types.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
		return types.Actor{}, false
	}
	return actor, true
}

// bindJSONOrError binds the request body. Returns false after recording a
// validation error.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request payload", err.Error()))
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readImage reads an optional multipart file. A missing field yields nil.
func readImage(c *gin.Context, field string, maxBytes int64) (*types.ImageUpload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, apperrors.ValidationFailed("Invalid image upload", err.Error())
	}
	if fh.Size > maxBytes {
		return nil, apperrors.ValidationFailed("Image is too large", fmt.Sprintf("limit is %d bytes", maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.ValidationFailed("Invalid image upload", err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperrors.ValidationFailed("Invalid image upload", err.Error())
	}
	if int64(len(data)) > maxBytes {
		return nil, apperrors.ValidationFailed("Image is too large", fmt.Sprintf("limit is %d bytes", maxBytes))
	}
	return &types.ImageUpload{Filename: fh.Filename, Data: data}, nil
}
