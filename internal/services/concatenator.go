package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"game-upload-api/internal/pool"
	"game-upload-api/internal/providers"
	"game-upload-api/internal/session"
)

var (
	// ErrNoPartsFound means the session has nothing staged under its
	// temporary prefix.
	ErrNoPartsFound = errors.New("no video parts found for session")

	// ErrProcessFailed wraps a failed media processing run.
	ErrProcessFailed = errors.New("video processing failed")
)

// Muxer joins a sorted list of local video files into one output file.
type Muxer interface {
	Concat(ctx context.Context, inputs []string, output string) error
}

// FFmpegMuxer concatenates with ffmpeg's concat demuxer using stream
// copy, so the inputs must share codecs and parameters.
type FFmpegMuxer struct {
	BinaryPath string
}

// NewFFmpegMuxer creates a muxer running the given ffmpeg binary. An
// empty path means "ffmpeg" from PATH.
func NewFFmpegMuxer(binaryPath string) *FFmpegMuxer {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}
	return &FFmpegMuxer{BinaryPath: binaryPath}
}

func (m *FFmpegMuxer) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no inputs", ErrProcessFailed)
	}

	listPath := filepath.Join(filepath.Dir(output), "concat-list.txt")
	var list strings.Builder
	for _, in := range inputs {
		fmt.Fprintf(&list, "file '%s'\n", in)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-map", "0:v",
		"-map", "0:a",
		"-c", "copy",
		"-y",
		output,
	}

	cmd := exec.CommandContext(ctx, m.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: ffmpeg: %s", ErrProcessFailed, msg)
	}
	return nil
}

// ConcatenationResult reports the outcome of a concatenation run.
type ConcatenationResult struct {
	Message       string `json:"message"`
	FinalVideoKey string `json:"finalVideoKey"`
	Bucket        string `json:"bucket"`
	Folder        string `json:"folder"`
	Region        string `json:"region"`
	PartCount     int    `json:"partCount"`
}

// Concatenator downloads a session's staged video parts, joins them and
// uploads the final video.
type Concatenator struct {
	gateway providers.StorageGateway
	muxer   Muxer
	workDir string
	buffers *pool.BufferPool
	workers *pool.WorkerPool
}

// NewConcatenator creates the concatenation service. workDir is where
// per-run staging directories are created; empty means the system temp
// directory.
func NewConcatenator(gateway providers.StorageGateway, muxer Muxer, workDir string, buffers *pool.BufferPool) *Concatenator {
	return &Concatenator{
		gateway: gateway,
		muxer:   muxer,
		workDir: workDir,
		buffers: buffers,
	}
}

// WithWorkerPool makes part downloads run through the pool instead of
// sequentially.
func (c *Concatenator) WithWorkerPool(workers *pool.WorkerPool) *Concatenator {
	c.workers = workers
	return c
}

// Run joins the parts of sessionID into {folder}/Game Video/{game}.mp4.
// Parts are ordered by their key names sorted lexicographically, which
// matches upload order for up to nine parts. Temporary objects are
// deleted only after the final video is stored; local staging files are
// always removed.
func (c *Concatenator) Run(ctx context.Context, sessionID, folderName, gameName string) (*ConcatenationResult, error) {
	prefix := fmt.Sprintf("%s/%s/", session.TempPrefix, sessionID)

	objects, err := c.gateway.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list session parts: %w", err)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPartsFound, sessionID)
	}

	staging, err := os.MkdirTemp(c.workDir, "concat-"+sessionID+"-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	localPaths := make([]string, len(objects))
	if err := c.downloadAll(ctx, objects, staging, localPaths); err != nil {
		return nil, err
	}

	sort.Strings(localPaths)

	game := session.SanitizeGameName(gameName)
	finalKey := fmt.Sprintf("%s/Game Video/%s.mp4", folderName, game)
	outputPath := filepath.Join(staging, game+".mp4")

	if err := c.muxer.Concat(ctx, localPaths, outputPath); err != nil {
		return nil, err
	}

	out, err := os.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("open concatenated video: %w", err)
	}
	defer out.Close()

	info, err := out.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat concatenated video: %w", err)
	}

	if err := c.gateway.PutObject(ctx, finalKey, out, info.Size(), "video/mp4"); err != nil {
		return nil, fmt.Errorf("upload final video: %w", err)
	}

	keys := make([]string, len(objects))
	for i, obj := range objects {
		keys[i] = obj.Key
	}
	if err := c.gateway.DeleteBatch(ctx, keys); err != nil {
		// The final video is stored; stale temp parts are not worth
		// failing the run over.
		log.Printf("WARN: failed to delete %d temp parts for %s: %v", len(keys), sessionID, err)
	}

	return &ConcatenationResult{
		Message:       "videos concatenated successfully",
		FinalVideoKey: finalKey,
		Bucket:        c.gateway.Bucket(),
		Folder:        folderName,
		Region:        c.gateway.Region(),
		PartCount:     len(objects),
	}, nil
}

// downloadAll stages every part locally, through the worker pool when
// one is attached.
func (c *Concatenator) downloadAll(ctx context.Context, objects []providers.ObjectInfo, staging string, localPaths []string) error {
	if c.workers == nil {
		for i, obj := range objects {
			local := filepath.Join(staging, filepath.Base(obj.Key))
			if err := c.download(ctx, obj.Key, local); err != nil {
				return fmt.Errorf("download %s: %w", obj.Key, err)
			}
			localPaths[i] = local
		}
		return nil
	}

	results := make([]<-chan error, len(objects))
	for i, obj := range objects {
		key := obj.Key
		local := filepath.Join(staging, filepath.Base(key))
		localPaths[i] = local

		ch, err := c.workers.Submit(ctx, func(ctx context.Context) error {
			return c.download(ctx, key, local)
		})
		if err != nil {
			return fmt.Errorf("download %s: %w", key, err)
		}
		results[i] = ch
	}

	var firstErr error
	for i, ch := range results {
		if err := <-ch; err != nil && firstErr == nil {
			firstErr = fmt.Errorf("download %s: %w", objects[i].Key, err)
		}
	}
	return firstErr
}

func (c *Concatenator) download(ctx context.Context, key, localPath string) error {
	body, err := c.gateway.GetObject(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if c.buffers != nil {
		buf := c.buffers.Get()
		defer c.buffers.Put(buf)
		_, err = io.CopyBuffer(f, body, buf)
	} else {
		_, err = io.Copy(f, body)
	}
	if err != nil {
		return err
	}
	return f.Sync()
}
