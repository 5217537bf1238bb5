package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"game-upload-api/internal/models"
	"game-upload-api/internal/services"
)

// ConcatHandler exposes the concatenation pipeline directly.
type ConcatHandler struct {
	concatenator   *services.Concatenator
	requestTimeout time.Duration
}

// NewConcatHandler creates a concatenation handler.
func NewConcatHandler(concatenator *services.Concatenator, requestTimeout time.Duration) *ConcatHandler {
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Minute
	}
	return &ConcatHandler{concatenator: concatenator, requestTimeout: requestTimeout}
}

// Concatenate godoc
// @Summary Join a session's staged videos
// @Description Downloads every video part staged for the session, joins them with stream copy and stores the final video under the game's folder. The temporary parts are deleted afterwards.
// @Tags Concatenation
// @Accept json
// @Produce json
// @Param request body models.ConcatenateRequest true "Concatenation request"
// @Success 200 {object} models.ConcatenateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /v1/concatenate [post]
func (h *ConcatHandler) Concatenate(c fiber.Ctx) error {
	var req models.ConcatenateRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid JSON body: " + err.Error(),
		})
	}

	if req.SessionID == "" {
		return respondError(c, validationError("Missing required field: sessionId"))
	}
	if req.FolderName == "" {
		return respondError(c, validationError("Missing required field: folderName"))
	}
	if req.GameName == "" {
		return respondError(c, validationError("Missing required field: gameName"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	result, err := h.concatenator.Run(ctx, req.SessionID, req.FolderName, req.GameName)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ConcatenateResponse{
		Message:       result.Message,
		FinalVideoKey: result.FinalVideoKey,
		Bucket:        result.Bucket,
		Folder:        result.Folder,
		Region:        result.Region,
		PartCount:     result.PartCount,
	})
}
