package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"game-upload-api/internal/uploader"
)

// FileUploader sends one file to storage.
type FileUploader interface {
	Upload(ctx context.Context, task uploader.Task, progress uploader.ProgressFunc) error
}

// ConcatenationClient asks the backend to join a session's staged videos.
type ConcatenationClient interface {
	Concatenate(ctx context.Context, sessionID, folderName, gameName string) (*uploader.ConcatResult, error)
}

// File is one input to a batch upload.
type File struct {
	Name        string
	ContentType string
	Source      io.ReaderAt
	Size        int64
}

// Batch is everything a session uploads: an optional metadata archive and
// one or more videos.
type Batch struct {
	Session *Session
	Zip     *File
	Videos  []File
}

// Result reports where the batch's objects ended up.
type Result struct {
	SessionID     string
	Bucket        string
	Folder        string
	Region        string
	ZipKey        string
	VideoKeys     []string
	FinalVideoKey string
	Concatenated  bool
}

// Coordinator runs batch uploads: zip and videos go up in parallel, and
// multi-video sessions finish with a concatenation call.
type Coordinator struct {
	uploader  FileUploader
	concat    ConcatenationClient
	chunkSize int64
	bucket    string
	region    string
}

// NewCoordinator creates a batch coordinator. Bucket and region are
// echoed into results so callers can build storage links.
func NewCoordinator(up FileUploader, concat ConcatenationClient, chunkSize int64, bucket, region string) *Coordinator {
	if chunkSize <= 0 {
		chunkSize = uploader.DefaultChunkSize
	}
	return &Coordinator{
		uploader:  up,
		concat:    concat,
		chunkSize: chunkSize,
		bucket:    bucket,
		region:    region,
	}
}

// Run uploads the whole batch. All files go up concurrently; the first
// failure wins and is returned after every upload has finished. A
// successful multi-video batch then triggers concatenation.
func (c *Coordinator) Run(ctx context.Context, batch Batch, progress uploader.ProgressFunc) (*Result, error) {
	sess := batch.Session
	if sess == nil {
		return nil, fmt.Errorf("batch has no session")
	}
	if len(batch.Videos) == 0 && batch.Zip == nil {
		return nil, ErrEmptyBatch
	}

	result := &Result{
		SessionID: sess.ID,
		Bucket:    c.bucket,
		Folder:    sess.Folder,
		Region:    c.region,
		VideoKeys: make([]string, len(batch.Videos)),
	}

	// Every upload runs to completion even when a sibling fails; Wait
	// returns the first error.
	var g errgroup.Group

	if batch.Zip != nil {
		zip := batch.Zip
		key := sess.ZipKey(zip.Name)
		result.ZipKey = key
		g.Go(func() error {
			task := uploader.NewTask(key, zip.ContentType, zip.Source, zip.Size, c.chunkSize)
			if err := c.uploader.Upload(ctx, task, progress); err != nil {
				return fmt.Errorf("zip upload: %w", err)
			}
			return nil
		})
	}

	for i := range batch.Videos {
		video := batch.Videos[i]
		key := sess.VideoKey(i+1, extFromContentType(video.ContentType, video.Name))
		result.VideoKeys[i] = key
		n := i + 1
		g.Go(func() error {
			task := uploader.NewTask(key, video.ContentType, video.Source, video.Size, c.chunkSize)
			if err := c.uploader.Upload(ctx, task, progress); err != nil {
				return fmt.Errorf("video %d upload: %w", n, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sess.Mode == ModeMulti && len(batch.Videos) > 1 {
		concatResult, err := c.concat.Concatenate(ctx, sess.ID, sess.Folder, sess.GameName)
		if err != nil {
			return nil, fmt.Errorf("concatenation: %w", err)
		}
		result.FinalVideoKey = concatResult.FinalVideoKey
		result.Concatenated = true
	} else if len(batch.Videos) > 0 {
		result.FinalVideoKey = result.VideoKeys[0]
	}

	return result, nil
}

func extFromContentType(contentType, name string) string {
	switch contentType {
	case "video/mp4":
		return "mp4"
	case "video/quicktime":
		return "mov"
	case "video/webm":
		return "webm"
	case "video/x-matroska":
		return "mkv"
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return "mp4"
}
