package uploader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"game-upload-api/internal/chunk"
	"game-upload-api/internal/pool"
	"game-upload-api/internal/providers"
)

const (
	// DefaultChunkSize is the part size for multipart uploads. Files
	// smaller than this go up in a single PUT.
	DefaultChunkSize = 10 << 20

	// DefaultPartConcurrency bounds how many parts are in flight at once.
	DefaultPartConcurrency = 4
)

// Task is one file to upload. The strategy is fixed when the task is
// created: a file at least one chunk in size uses multipart.
type Task struct {
	Key         string
	ContentType string
	Source      io.ReaderAt
	Size        int64

	multipart bool
}

// NewTask builds an upload task for the given object key and source data.
func NewTask(key, contentType string, source io.ReaderAt, size int64, chunkSize int64) Task {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return Task{
		Key:         key,
		ContentType: contentType,
		Source:      source,
		Size:        size,
		multipart:   size >= chunkSize,
	}
}

// Multipart reports whether this task uploads in parts.
func (t Task) Multipart() bool { return t.multipart }

// Uploader sends files to object storage through gateway-authorized URLs.
type Uploader struct {
	gateway    Gateway
	httpClient *http.Client
	pool       *pool.WorkerPool
	chunkSize  int64
}

// New creates an Uploader. A nil pool means parts are uploaded
// sequentially.
func New(gateway Gateway, workerPool *pool.WorkerPool, chunkSize int64) *Uploader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Uploader{
		gateway: gateway,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   100,
				IdleConnTimeout:       90 * time.Second,
				ForceAttemptHTTP2:     true,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		pool:      workerPool,
		chunkSize: chunkSize,
	}
}

// Upload sends the task's data to storage. Multipart failures leave the
// multipart upload open so the caller can retry parts or call Abort.
func (u *Uploader) Upload(ctx context.Context, task Task, progress ProgressFunc) error {
	if task.multipart {
		return u.uploadMultipart(ctx, task, progress)
	}
	return u.uploadSingle(ctx, task, progress)
}

// Abort cancels an open multipart upload, discarding any uploaded parts.
func (u *Uploader) Abort(ctx context.Context, key, uploadID string) error {
	return u.gateway.AbortMultipartUpload(ctx, key, uploadID)
}

func (u *Uploader) uploadSingle(ctx context.Context, task Task, progress ProgressFunc) error {
	url, err := u.gateway.PresignPut(ctx, task.Key, task.ContentType)
	if err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}

	body := &progressReader{
		reader:   io.NewSectionReader(task.Source, 0, task.Size),
		total:    task.Size,
		progress: progress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}
	req.ContentLength = task.Size
	req.Header.Set("Content-Type", task.ContentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UploadError{
			Key:        task.Key,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("storage rejected upload"),
		}
	}
	return nil
}

func (u *Uploader) uploadMultipart(ctx context.Context, task Task, progress ProgressFunc) error {
	uploadID, err := u.gateway.CreateMultipartUpload(ctx, task.Key)
	if err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}

	parts, err := chunk.Plan(task.Size, u.chunkSize)
	if err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}

	urls, err := u.gateway.PresignPartURLs(ctx, task.Key, uploadID, len(parts))
	if err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}
	if len(urls) != len(parts) {
		return &UploadError{Key: task.Key, Err: ErrPartCountMismatch}
	}

	completed := make([]providers.CompletedPart, len(parts))
	var partsDone atomic.Int64
	totalParts := int64(len(parts))

	results := make([]<-chan error, 0, len(parts))
	for i := range parts {
		part := parts[i]
		url := urls[i]
		idx := i

		work := func(ctx context.Context) error {
			etag, err := u.uploadPart(ctx, task, part, url)
			if err != nil {
				return err
			}
			completed[idx] = providers.CompletedPart{
				PartNumber: part.Number,
				ETag:       etag,
			}
			done := partsDone.Add(1)
			if progress != nil {
				progress(float64(done) / float64(totalParts))
			}
			return nil
		}

		if u.pool == nil {
			ch := make(chan error, 1)
			ch <- work(ctx)
			close(ch)
			results = append(results, ch)
			continue
		}

		ch, err := u.pool.Submit(ctx, work)
		if err != nil {
			return &UploadError{Key: task.Key, Err: err}
		}
		results = append(results, ch)
	}

	// Wait for every part. The upload is left open on failure so the
	// caller decides whether to retry or abort.
	var firstErr error
	for _, ch := range results {
		if err := <-ch; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return &UploadError{Key: task.Key, Err: firstErr}
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].PartNumber < completed[j].PartNumber
	})

	if err := u.gateway.CompleteMultipartUpload(ctx, task.Key, uploadID, completed); err != nil {
		return &UploadError{Key: task.Key, Err: err}
	}
	return nil
}

func (u *Uploader) uploadPart(ctx context.Context, task Task, part chunk.Part, url string) (string, error) {
	body := io.NewSectionReader(task.Source, part.Offset, part.Length)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = part.Length

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("part %d: storage returned HTTP %d", part.Number, resp.StatusCode)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return "", fmt.Errorf("part %d: %w", part.Number, ErrMissingPartToken)
	}
	return etag, nil
}
