package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"game-upload-api/internal/models"
	"game-upload-api/internal/providers"
	"game-upload-api/internal/session"
)

// SessionHandler creates upload sessions and hands out the presigned
// URLs the client needs for them.
type SessionHandler struct {
	gateway        providers.StorageGateway
	presignExpiry  time.Duration
	requestTimeout time.Duration
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(gateway providers.StorageGateway, presignExpiry, requestTimeout time.Duration) *SessionHandler {
	if presignExpiry <= 0 {
		presignExpiry = time.Hour
	}
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Minute
	}
	return &SessionHandler{gateway: gateway, presignExpiry: presignExpiry, requestTimeout: requestTimeout}
}

// Initialize godoc
// @Summary Create an upload session
// @Description Allocates a session, decides single or multi-video mode and returns presigned PUT URLs for every file in the batch.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body models.StorageActionRequest true "Session request"
// @Success 200 {object} models.InitializeSessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /v1/sessions [post]
func (h *SessionHandler) Initialize(c fiber.Ctx) error {
	var req models.StorageActionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid JSON body: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	resp, err := h.initialize(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// initialize builds the session and presigns one PUT per file.
func (h *SessionHandler) initialize(ctx context.Context, req *models.StorageActionRequest) (*models.InitializeSessionResponse, error) {
	if req.GameName == "" {
		return nil, validationError("Missing required field: gameName")
	}
	if req.FolderName == "" {
		return nil, validationError("Missing required field: folderName")
	}
	if len(req.Videos) == 0 && req.ZipFileType == "" && req.ZipFileName == "" {
		return nil, validationError("At least one file is required")
	}

	sess, err := session.New(req.GameName, req.FolderName, len(req.Videos))
	if err != nil {
		return nil, validationError(err.Error())
	}

	resp := &models.InitializeSessionResponse{
		UploadSessionID: sess.ID,
		Bucket:          h.gateway.Bucket(),
		Folder:          sess.Folder,
		Region:          h.gateway.Region(),
		VideoKeys:       make([]string, len(req.Videos)),
		VideoUploadURLs: make([]string, len(req.Videos)),
	}

	for i, video := range req.Videos {
		contentType := video.ContentType
		if contentType == "" {
			contentType = "video/mp4"
		}
		key := sess.VideoKey(i+1, extForContentType(contentType))
		url, err := h.gateway.PresignPut(ctx, key, contentType, h.presignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign video %d: %w", i+1, err)
		}
		resp.VideoKeys[i] = key
		resp.VideoUploadURLs[i] = url
	}

	if req.ZipFileType != "" || req.ZipFileName != "" {
		name := req.ZipFileName
		if name == "" {
			name = sess.GameName + ".zip"
		}
		contentType := req.ZipFileType
		if contentType == "" {
			contentType = "application/zip"
		}
		key := sess.ZipKey(name)
		url, err := h.gateway.PresignPut(ctx, key, contentType, h.presignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign zip: %w", err)
		}
		resp.ZipKey = key
		resp.ZipUploadURL = url
	}

	return resp, nil
}

func extForContentType(contentType string) string {
	switch contentType {
	case "video/quicktime":
		return "mov"
	case "video/webm":
		return "webm"
	case "video/x-matroska":
		return "mkv"
	default:
		return "mp4"
	}
}
