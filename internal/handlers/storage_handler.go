package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"

	"game-upload-api/internal/models"
	"game-upload-api/internal/providers"
)

// Storage action names accepted by the dispatch endpoint.
const (
	ActionInitializeUpload        = "initialize-upload"
	ActionGetPresignedPutURL      = "get-presigned-put-url"
	ActionCreateMultipartUpload   = "create-multipart-upload"
	ActionGetPresignedPartURLs    = "get-presigned-part-urls"
	ActionCompleteMultipartUpload = "complete-multipart-upload"
	ActionAbortMultipartUpload    = "abort-multipart-upload"
	ActionFinalizeUpload          = "finalize-upload"
)

// StorageHandler dispatches the storage action protocol: one POST
// endpoint whose "action" field selects the operation.
type StorageHandler struct {
	gateway        providers.StorageGateway
	sessions       *SessionHandler
	presignExpiry  time.Duration
	requestTimeout time.Duration
}

// NewStorageHandler creates the action-dispatch handler.
func NewStorageHandler(gateway providers.StorageGateway, sessions *SessionHandler, presignExpiry, requestTimeout time.Duration) *StorageHandler {
	if presignExpiry <= 0 {
		presignExpiry = time.Hour
	}
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Minute
	}
	return &StorageHandler{
		gateway:        gateway,
		sessions:       sessions,
		presignExpiry:  presignExpiry,
		requestTimeout: requestTimeout,
	}
}

// Dispatch godoc
// @Summary Execute a storage action
// @Description Single entry point for the upload protocol. The action field selects the operation: initialize-upload, get-presigned-put-url, create-multipart-upload, get-presigned-part-urls, complete-multipart-upload, abort-multipart-upload or finalize-upload.
// @Tags Storage
// @Accept json
// @Produce json
// @Param request body models.StorageActionRequest true "Action request"
// @Success 200 {object} models.PresignedURLResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /v1/storage [post]
func (h *StorageHandler) Dispatch(c fiber.Ctx) error {
	var req models.StorageActionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid JSON body: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	switch req.Action {
	case ActionInitializeUpload:
		resp, err := h.sessions.initialize(ctx, &req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(resp)

	case ActionGetPresignedPutURL:
		return h.presignPut(ctx, c, &req)

	case ActionCreateMultipartUpload:
		return h.createMultipart(ctx, c, &req)

	case ActionGetPresignedPartURLs:
		return h.presignParts(ctx, c, &req)

	case ActionCompleteMultipartUpload:
		return h.completeMultipart(ctx, c, &req)

	case ActionAbortMultipartUpload:
		return h.abortMultipart(ctx, c, &req)

	case ActionFinalizeUpload:
		return h.finalize(ctx, c, &req)

	case "":
		return respondError(c, validationError("Missing required field: action"))

	default:
		return respondError(c, validationError("Unknown action: "+req.Action))
	}
}

func (h *StorageHandler) presignPut(ctx context.Context, c fiber.Ctx, req *models.StorageActionRequest) error {
	if req.Key == "" {
		return respondError(c, validationError("Missing required field: key"))
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.gateway.PresignPut(ctx, req.Key, contentType, h.presignExpiry)
	if err != nil {
		return respondError(c, fmt.Errorf("presign put: %w", err))
	}
	return c.JSON(models.PresignedURLResponse{URL: url})
}

func (h *StorageHandler) createMultipart(ctx context.Context, c fiber.Ctx, req *models.StorageActionRequest) error {
	if req.Key == "" {
		return respondError(c, validationError("Missing required field: key"))
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadID, err := h.gateway.CreateMultipartUpload(ctx, req.Key, contentType)
	if err != nil {
		return respondError(c, fmt.Errorf("create multipart upload: %w", err))
	}
	return c.JSON(models.CreateMultipartResponse{UploadID: uploadID, Key: req.Key})
}

func (h *StorageHandler) presignParts(ctx context.Context, c fiber.Ctx, req *models.StorageActionRequest) error {
	if req.Key == "" {
		return respondError(c, validationError("Missing required field: key"))
	}
	if req.UploadID == "" {
		return respondError(c, validationError("Missing required field: uploadId"))
	}
	if req.PartCount < 1 {
		return respondError(c, validationError("partCount must be at least 1"))
	}

	urls := make([]string, req.PartCount)
	for i := range urls {
		url, err := h.gateway.PresignUploadPart(ctx, req.Key, req.UploadID, int32(i+1), h.presignExpiry)
		if err != nil {
			return respondError(c, fmt.Errorf("presign part %d: %w", i+1, err))
		}
		urls[i] = url
	}
	return c.JSON(models.PartURLsResponse{URLs: urls})
}

func (h *StorageHandler) completeMultipart(ctx context.Context, c fiber.Ctx, req *models.StorageActionRequest) error {
	if req.Key == "" {
		return respondError(c, validationError("Missing required field: key"))
	}
	if req.UploadID == "" {
		return respondError(c, validationError("Missing required field: uploadId"))
	}
	if len(req.Parts) == 0 {
		return respondError(c, validationError("Missing required field: parts"))
	}

	parts := make([]providers.CompletedPart, len(req.Parts))
	copy(parts, req.Parts)
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})

	if err := h.gateway.CompleteMultipartUpload(ctx, req.Key, req.UploadID, parts); err != nil {
		return respondError(c, fmt.Errorf("complete multipart upload: %w", err))
	}
	return c.JSON(models.CompleteMultipartResponse{Message: "upload completed", Key: req.Key})
}

func (h *StorageHandler) abortMultipart(ctx context.Context, c fiber.Ctx, req *models.StorageActionRequest) error {
	if req.Key == "" {
		return respondError(c, validationError("Missing required field: key"))
	}
	if req.UploadID == "" {
		return respondError(c, validationError("Missing required field: uploadId"))
	}

	if err := h.gateway.AbortMultipartUpload(ctx, req.Key, req.UploadID); err != nil {
		return respondError(c, fmt.Errorf("abort multipart upload: %w", err))
	}
	return c.JSON(models.AbortMultipartResponse{Message: "upload aborted"})
}

// finalize moves a staged object to its final key: copy then delete the
// source. The destination survives even if the delete fails.
func (h *StorageHandler) finalize(ctx context.Context, c fiber.Ctx, req *models.StorageActionRequest) error {
	if req.SourceKey == "" {
		return respondError(c, validationError("Missing required field: sourceKey"))
	}
	if req.DestinationKey == "" {
		return respondError(c, validationError("Missing required field: destinationKey"))
	}

	if err := h.gateway.Copy(ctx, req.SourceKey, req.DestinationKey); err != nil {
		return respondError(c, fmt.Errorf("copy %s to %s: %w", req.SourceKey, req.DestinationKey, err))
	}
	if err := h.gateway.Delete(ctx, req.SourceKey); err != nil {
		return respondError(c, fmt.Errorf("delete %s: %w", req.SourceKey, err))
	}
	return c.JSON(models.FinalizeUploadResponse{
		Message:        "upload finalized",
		DestinationKey: req.DestinationKey,
	})
}
