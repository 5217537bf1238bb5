package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"game-upload-api/internal/models"
	"game-upload-api/internal/providers"
	"game-upload-api/internal/services"
)

type stubGateway struct {
	objects        map[string][]byte
	completedParts []providers.CompletedPart
	aborted        bool
}

func newStubGateway() *stubGateway {
	return &stubGateway{objects: map[string][]byte{}}
}

func (g *stubGateway) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/put/" + key, nil
}

func (g *stubGateway) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	return "upload-id-1", nil
}

func (g *stubGateway) PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/part/%s/%d", key, partNumber), nil
}

func (g *stubGateway) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []providers.CompletedPart) error {
	g.completedParts = parts
	return nil
}

func (g *stubGateway) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	g.aborted = true
	return nil
}

func (g *stubGateway) List(ctx context.Context, prefix string) ([]providers.ObjectInfo, error) {
	var infos []providers.ObjectInfo
	for key, data := range g.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, providers.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return infos, nil
}

func (g *stubGateway) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := g.objects[key]
	if !ok {
		return nil, providers.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (g *stubGateway) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	g.objects[key] = data
	return nil
}

func (g *stubGateway) Copy(ctx context.Context, srcKey, dstKey string) error {
	data, ok := g.objects[srcKey]
	if !ok {
		return providers.ErrObjectNotFound
	}
	g.objects[dstKey] = data
	return nil
}

func (g *stubGateway) Delete(ctx context.Context, key string) error {
	delete(g.objects, key)
	return nil
}

func (g *stubGateway) DeleteBatch(ctx context.Context, keys []string) error {
	for _, key := range keys {
		delete(g.objects, key)
	}
	return nil
}

func (g *stubGateway) HealthCheck(ctx context.Context) error { return nil }
func (g *stubGateway) Bucket() string                        { return "games-bucket" }
func (g *stubGateway) Region() string                        { return "eu-west-1" }

type copyMuxer struct{}

func (copyMuxer) Concat(ctx context.Context, inputs []string, output string) error {
	var joined bytes.Buffer
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		joined.Write(data)
	}
	return os.WriteFile(output, joined.Bytes(), 0o644)
}

func newTestApp(t *testing.T, gw providers.StorageGateway) *fiber.App {
	t.Helper()

	concatenator := services.NewConcatenator(gw, copyMuxer{}, t.TempDir(), nil)
	sessions := NewSessionHandler(gw, time.Hour, time.Minute)
	storage := NewStorageHandler(gw, sessions, time.Hour, time.Minute)
	concat := NewConcatHandler(concatenator, time.Minute)

	app := fiber.New()
	app.Post("/v1/storage", storage.Dispatch)
	app.Post("/v1/sessions", sessions.Initialize)
	app.Post("/v1/concatenate", concat.Concatenate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()
	return resp, respBody
}

func TestDispatchUnknownAction(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/storage", map[string]any{"action": "defragment"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(errResp.Error, "defragment") {
		t.Errorf("error = %q, want mention of the action", errResp.Error)
	}
}

func TestDispatchMissingAction(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, _ := postJSON(t, app, "/v1/storage", map[string]any{"key": "k"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPresignPutAction(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/storage", map[string]any{
		"action":      "get-presigned-put-url",
		"key":         "customer-a/Zip File/meta.zip",
		"contentType": "application/zip",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	var urlResp models.PresignedURLResponse
	if err := json.Unmarshal(body, &urlResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(urlResp.URL, "customer-a/Zip File/meta.zip") {
		t.Errorf("url = %q, want key embedded", urlResp.URL)
	}

	resp, _ = postJSON(t, app, "/v1/storage", map[string]any{"action": "get-presigned-put-url"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing key: status = %d, want 400", resp.StatusCode)
	}
}

func TestMultipartActions(t *testing.T) {
	gw := newStubGateway()
	app := newTestApp(t, gw)

	resp, body := postJSON(t, app, "/v1/storage", map[string]any{
		"action": "create-multipart-upload",
		"key":    "customer-a/Game Video/Game.mp4",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: status = %d, body = %s", resp.StatusCode, body)
	}
	var createResp models.CreateMultipartResponse
	if err := json.Unmarshal(body, &createResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if createResp.UploadID == "" {
		t.Fatal("create returned empty uploadId")
	}

	resp, body = postJSON(t, app, "/v1/storage", map[string]any{
		"action":    "get-presigned-part-urls",
		"key":       "customer-a/Game Video/Game.mp4",
		"uploadId":  createResp.UploadID,
		"partCount": 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("part urls: status = %d, body = %s", resp.StatusCode, body)
	}
	var urlsResp models.PartURLsResponse
	if err := json.Unmarshal(body, &urlsResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(urlsResp.URLs) != 3 {
		t.Fatalf("got %d urls, want 3", len(urlsResp.URLs))
	}

	// Parts sent out of order must be committed sorted.
	resp, _ = postJSON(t, app, "/v1/storage", map[string]any{
		"action":   "complete-multipart-upload",
		"key":      "customer-a/Game Video/Game.mp4",
		"uploadId": createResp.UploadID,
		"parts": []map[string]any{
			{"PartNumber": 3, "ETag": `"e3"`},
			{"PartNumber": 1, "ETag": `"e1"`},
			{"PartNumber": 2, "ETag": `"e2"`},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: status = %d", resp.StatusCode)
	}
	for i, p := range gw.completedParts {
		if p.PartNumber != int32(i+1) {
			t.Errorf("committed part %d has number %d, want ascending", i, p.PartNumber)
		}
	}

	resp, _ = postJSON(t, app, "/v1/storage", map[string]any{
		"action":   "abort-multipart-upload",
		"key":      "customer-a/Game Video/Game.mp4",
		"uploadId": createResp.UploadID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("abort: status = %d", resp.StatusCode)
	}
	if !gw.aborted {
		t.Error("abort was not forwarded to the gateway")
	}
}

func TestFinalizeUploadMovesObject(t *testing.T) {
	gw := newStubGateway()
	gw.objects["tmp-uploads/upload-1-ab/part-1"] = []byte("VIDEO")
	app := newTestApp(t, gw)

	resp, body := postJSON(t, app, "/v1/storage", map[string]any{
		"action":         "finalize-upload",
		"sourceKey":      "tmp-uploads/upload-1-ab/part-1",
		"destinationKey": "customer-a/Game Video/My-Game.mp4",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var finResp models.FinalizeUploadResponse
	if err := json.Unmarshal(body, &finResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if finResp.DestinationKey != "customer-a/Game Video/My-Game.mp4" {
		t.Errorf("destinationKey = %q", finResp.DestinationKey)
	}
	if string(gw.objects["customer-a/Game Video/My-Game.mp4"]) != "VIDEO" {
		t.Error("object was not copied to the destination key")
	}
	if _, ok := gw.objects["tmp-uploads/upload-1-ab/part-1"]; ok {
		t.Error("source object was not deleted")
	}
}

func TestFinalizeUploadValidation(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/storage", map[string]any{
		"action":         "finalize-upload",
		"destinationKey": "d",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing sourceKey: status = %d, want 400", resp.StatusCode)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(errResp.Error, "sourceKey") {
		t.Errorf("error = %q, want sourceKey named", errResp.Error)
	}

	resp, _ = postJSON(t, app, "/v1/storage", map[string]any{
		"action":    "finalize-upload",
		"sourceKey": "s",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing destinationKey: status = %d, want 400", resp.StatusCode)
	}
}

func TestFinalizeUploadMissingSource(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, _ := postJSON(t, app, "/v1/storage", map[string]any{
		"action":         "finalize-upload",
		"sourceKey":      "tmp-uploads/nope/part-1",
		"destinationKey": "d",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for backend copy failure", resp.StatusCode)
	}
}

func TestInitializeSession(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/sessions", map[string]any{
		"gameName":    "My Game",
		"folderName":  "customer-a",
		"zipFileType": "application/zip",
		"zipFileName": "meta.zip",
		"videos": []map[string]any{
			{"videoFileType": "video/mp4"},
			{"videoFileType": "video/mp4"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var initResp models.InitializeSessionResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.HasPrefix(initResp.UploadSessionID, "upload-") {
		t.Errorf("session id = %q", initResp.UploadSessionID)
	}
	if len(initResp.VideoKeys) != 2 || len(initResp.VideoUploadURLs) != 2 {
		t.Fatalf("keys/urls = %d/%d, want 2/2", len(initResp.VideoKeys), len(initResp.VideoUploadURLs))
	}
	for i, key := range initResp.VideoKeys {
		want := fmt.Sprintf("tmp-uploads/%s/part-%d", initResp.UploadSessionID, i+1)
		if key != want {
			t.Errorf("video key %d = %q, want %q", i, key, want)
		}
	}
	if initResp.ZipKey != "customer-a/Zip File/meta.zip" {
		t.Errorf("zip key = %q", initResp.ZipKey)
	}
	if initResp.Bucket != "games-bucket" || initResp.Region != "eu-west-1" {
		t.Errorf("bucket/region = %q/%q", initResp.Bucket, initResp.Region)
	}
}

func TestInitializeSessionSingleVideo(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/storage", map[string]any{
		"action":     "initialize-upload",
		"gameName":   "My Game",
		"folderName": "customer-a",
		"videos":     []map[string]any{{"videoFileType": "video/quicktime"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var initResp models.InitializeSessionResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if want := "customer-a/Game Video/My-Game.mov"; initResp.VideoKeys[0] != want {
		t.Errorf("video key = %q, want %q", initResp.VideoKeys[0], want)
	}
}

func TestInitializeSessionZipOnly(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/sessions", map[string]any{
		"gameName":    "My Game",
		"folderName":  "customer-a",
		"zipFileType": "application/zip",
		"zipFileName": "meta.zip",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var initResp models.InitializeSessionResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if initResp.ZipKey != "customer-a/Zip File/meta.zip" {
		t.Errorf("zip key = %q", initResp.ZipKey)
	}
	if initResp.ZipUploadURL == "" {
		t.Error("zip upload URL is empty")
	}
	if len(initResp.VideoKeys) != 0 || len(initResp.VideoUploadURLs) != 0 {
		t.Errorf("keys/urls = %d/%d, want none", len(initResp.VideoKeys), len(initResp.VideoUploadURLs))
	}
}

func TestInitializeSessionValidation(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, _ := postJSON(t, app, "/v1/sessions", map[string]any{
		"folderName": "customer-a",
		"videos":     []map[string]any{{"videoFileType": "video/mp4"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing gameName: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = postJSON(t, app, "/v1/sessions", map[string]any{
		"gameName":   "My Game",
		"folderName": "customer-a",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no files: status = %d, want 400", resp.StatusCode)
	}
}

func TestConcatenateEndpoint(t *testing.T) {
	gw := newStubGateway()
	gw.objects["tmp-uploads/upload-1-ab/part-1"] = []byte("AAA")
	gw.objects["tmp-uploads/upload-1-ab/part-2"] = []byte("BBB")
	app := newTestApp(t, gw)

	resp, body := postJSON(t, app, "/v1/concatenate", map[string]any{
		"sessionId":  "upload-1-ab",
		"folderName": "customer-a",
		"gameName":   "My Game",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var concatResp models.ConcatenateResponse
	if err := json.Unmarshal(body, &concatResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if want := "customer-a/Game Video/My-Game.mp4"; concatResp.FinalVideoKey != want {
		t.Errorf("final key = %q, want %q", concatResp.FinalVideoKey, want)
	}
	if string(gw.objects[concatResp.FinalVideoKey]) != "AAABBB" {
		t.Error("final video does not contain joined parts")
	}
}

func TestConcatenateNoParts(t *testing.T) {
	app := newTestApp(t, newStubGateway())

	resp, body := postJSON(t, app, "/v1/concatenate", map[string]any{
		"sessionId":  "upload-99-zz",
		"folderName": "customer-a",
		"gameName":   "My Game",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body = %s", resp.StatusCode, body)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(errResp.Error, services.ErrNoPartsFound.Error()) {
		t.Errorf("error = %q, want no-parts message", errResp.Error)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/validation", func(c fiber.Ctx) error {
		return respondError(c, validationError("bad input"))
	})
	app.Get("/internal", func(c fiber.Ctx) error {
		return respondError(c, errors.New("backend exploded"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/validation", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("validation status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/internal", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("internal status = %d, want 500", resp.StatusCode)
	}
	resp.Body.Close()
}
