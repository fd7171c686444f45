package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/manifest"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data     any             `json:"data"`
	RunID    string          `json:"run_id,omitempty"`
	Manifest *manifest.Entry `json:"manifest,omitempty"`
}

// RespondWithError inspects err: an *apperrors.AppError anywhere in the chain
// sets the status and structured body; anything else is a generic 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
