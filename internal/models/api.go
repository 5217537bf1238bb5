package models

import "game-upload-api/internal/providers"

// APIInfoResponse describes the metadata returned by GET /api.
type APIInfoResponse struct {
	Name      string            `json:"name" example:"Game Upload API"`
	Version   string            `json:"version" example:"1.0.0"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse represents a generic error payload used across endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required field: gameName"`
}

// StorageActionRequest is the action-dispatch payload for POST /v1/storage.
// Which fields are required depends on the action.
type StorageActionRequest struct {
	Action      string                    `json:"action" example:"create-multipart-upload"`
	Key         string                    `json:"key,omitempty" example:"customer-a/Game Video/My-Game.mp4"`
	ContentType string                    `json:"contentType,omitempty" example:"video/mp4"`
	UploadID    string                    `json:"uploadId,omitempty" example:"2~55a7b"`
	PartCount   int                       `json:"partCount,omitempty" example:"3"`
	Parts       []providers.CompletedPart `json:"parts,omitempty"`

	// Initialize-upload fields
	GameName    string      `json:"gameName,omitempty" example:"My Game"`
	FolderName  string      `json:"folderName,omitempty" example:"customer-a"`
	ZipFileType string      `json:"zipFileType,omitempty" example:"application/zip"`
	ZipFileName string      `json:"zipFileName,omitempty" example:"metadata.zip"`
	Videos      []VideoFile `json:"videos,omitempty"`

	// Finalize-upload fields
	SourceKey      string `json:"sourceKey,omitempty" example:"tmp-uploads/upload-1700000000000-a1b2c3d4/part-1"`
	DestinationKey string `json:"destinationKey,omitempty" example:"customer-a/Game Video/My-Game.mp4"`
}

// VideoFile describes one video in an upload session request.
type VideoFile struct {
	ContentType string `json:"videoFileType" example:"video/mp4"`
}

// PresignedURLResponse carries a single presigned PUT URL.
type PresignedURLResponse struct {
	URL string `json:"url" example:"https://bucket.s3.amazonaws.com/key?X-Amz-Signature=..."`
}

// CreateMultipartResponse carries the identifier of an initiated
// multipart upload.
type CreateMultipartResponse struct {
	UploadID string `json:"uploadId" example:"2~55a7b"`
	Key      string `json:"key" example:"customer-a/Game Video/My-Game.mp4"`
}

// PartURLsResponse carries one presigned URL per part, in part order.
type PartURLsResponse struct {
	URLs []string `json:"urls"`
}

// CompleteMultipartResponse acknowledges a committed multipart upload.
type CompleteMultipartResponse struct {
	Message string `json:"message" example:"upload completed"`
	Key     string `json:"key" example:"customer-a/Game Video/My-Game.mp4"`
}

// AbortMultipartResponse acknowledges a discarded multipart upload.
type AbortMultipartResponse struct {
	Message string `json:"message" example:"upload aborted"`
}

// InitializeSessionResponse is the reply to the initialize-upload action
// and POST /v1/sessions: a session identifier plus the keys the client
// should upload to.
type InitializeSessionResponse struct {
	UploadSessionID string   `json:"uploadSessionId" example:"upload-1700000000000-a1b2c3d4"`
	Bucket          string   `json:"bucket" example:"games-bucket"`
	Folder          string   `json:"folder" example:"customer-a"`
	Region          string   `json:"region" example:"eu-west-1"`
	VideoKeys       []string `json:"videoKeys"`
	VideoUploadURLs []string `json:"videoUploadUrls,omitempty"`
	ZipKey          string   `json:"zipKey,omitempty" example:"customer-a/Zip File/metadata.zip"`
	ZipUploadURL    string   `json:"zipUploadUrl,omitempty"`
}

// FinalizeUploadResponse is the reply to the finalize-upload action,
// which moves a staged object to its final key.
type FinalizeUploadResponse struct {
	Message        string `json:"message" example:"upload finalized"`
	DestinationKey string `json:"destinationKey" example:"customer-a/Game Video/My-Game.mp4"`
}

// ConcatenateRequest asks the service to join a session's staged videos.
type ConcatenateRequest struct {
	SessionID  string `json:"sessionId" example:"upload-1700000000000-a1b2c3d4"`
	FolderName string `json:"folderName" example:"customer-a"`
	GameName   string `json:"gameName" example:"My Game"`
}

// ConcatenateResponse reports a finished concatenation.
type ConcatenateResponse struct {
	Message       string `json:"message" example:"videos concatenated successfully"`
	FinalVideoKey string `json:"finalVideoKey" example:"customer-a/Game Video/My-Game.mp4"`
	Bucket        string `json:"bucket" example:"games-bucket"`
	Folder        string `json:"folder" example:"customer-a"`
	Region        string `json:"region" example:"eu-west-1"`
	PartCount     int    `json:"partCount" example:"3"`
}

// HealthResponse captures the payload returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp int64  `json:"timestamp" example:"1700000000"`
	Storage   string `json:"storage" example:"reachable"`
}
