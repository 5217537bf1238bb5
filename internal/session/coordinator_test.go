package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"game-upload-api/internal/uploader"
)

type fakeUploader struct {
	mu      sync.Mutex
	keys    []string
	failKey string
}

func (f *fakeUploader) Upload(ctx context.Context, task uploader.Task, progress uploader.ProgressFunc) error {
	f.mu.Lock()
	f.keys = append(f.keys, task.Key)
	f.mu.Unlock()
	if task.Key == f.failKey {
		return errors.New("simulated upload failure")
	}
	return nil
}

func (f *fakeUploader) uploaded(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.keys {
		if k == key {
			return true
		}
	}
	return false
}

type fakeConcat struct {
	called bool
	result *uploader.ConcatResult
	err    error
}

func (f *fakeConcat) Concatenate(ctx context.Context, sessionID, folderName, gameName string) (*uploader.ConcatResult, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &uploader.ConcatResult{
		FinalVideoKey: folderName + "/Game Video/" + gameName + ".mp4",
	}, nil
}

func video(name string) File {
	return File{Name: name, ContentType: "video/mp4", Source: strings.NewReader("data"), Size: 4}
}

func TestRunSingleVideoSkipsConcatenation(t *testing.T) {
	sess, _ := New("My Game", "customer-a", 1)
	up := &fakeUploader{}
	concat := &fakeConcat{}
	c := NewCoordinator(up, concat, 1<<20, "games-bucket", "eu-west-1")

	res, err := c.Run(context.Background(), Batch{
		Session: sess,
		Zip:     &File{Name: "meta.zip", ContentType: "application/zip", Source: strings.NewReader("zip"), Size: 3},
		Videos:  []File{video("a.mp4")},
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if concat.called {
		t.Error("single-video session must not trigger concatenation")
	}
	if !up.uploaded("customer-a/Zip File/meta.zip") {
		t.Error("zip was not uploaded")
	}
	wantVideo := "customer-a/Game Video/My-Game.mp4"
	if !up.uploaded(wantVideo) {
		t.Errorf("video was not uploaded to %q, got %v", wantVideo, up.keys)
	}
	if res.FinalVideoKey != wantVideo {
		t.Errorf("FinalVideoKey = %q, want %q", res.FinalVideoKey, wantVideo)
	}
	if res.Concatenated {
		t.Error("result should not report concatenation")
	}
	if res.Bucket != "games-bucket" || res.Region != "eu-west-1" {
		t.Errorf("result bucket/region = %q/%q", res.Bucket, res.Region)
	}
}

func TestRunMultiVideoConcatenates(t *testing.T) {
	sess, _ := New("My Game", "customer-a", 2)
	up := &fakeUploader{}
	concat := &fakeConcat{}
	c := NewCoordinator(up, concat, 1<<20, "games-bucket", "eu-west-1")

	res, err := c.Run(context.Background(), Batch{
		Session: sess,
		Videos:  []File{video("a.mp4"), video("b.mp4")},
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !concat.called {
		t.Fatal("multi-video session must trigger concatenation")
	}
	if !up.uploaded(sess.TempVideoKey(1)) || !up.uploaded(sess.TempVideoKey(2)) {
		t.Errorf("videos not staged under temp keys, got %v", up.keys)
	}
	if !res.Concatenated {
		t.Error("result should report concatenation")
	}
	if want := "customer-a/Game Video/My-Game.mp4"; res.FinalVideoKey != want {
		t.Errorf("FinalVideoKey = %q, want %q", res.FinalVideoKey, want)
	}
}

func TestRunUploadFailureSkipsConcatenation(t *testing.T) {
	sess, _ := New("My Game", "customer-a", 2)
	up := &fakeUploader{failKey: sess.TempVideoKey(2)}
	concat := &fakeConcat{}
	c := NewCoordinator(up, concat, 1<<20, "b", "r")

	_, err := c.Run(context.Background(), Batch{
		Session: sess,
		Videos:  []File{video("a.mp4"), video("b.mp4")},
	}, nil)
	if err == nil {
		t.Fatal("expected error when an upload fails")
	}
	if concat.called {
		t.Error("concatenation must not run after a failed upload")
	}
}

func TestRunConcatenationFailure(t *testing.T) {
	sess, _ := New("My Game", "customer-a", 2)
	up := &fakeUploader{}
	concat := &fakeConcat{err: errors.New("no parts found")}
	c := NewCoordinator(up, concat, 1<<20, "b", "r")

	_, err := c.Run(context.Background(), Batch{
		Session: sess,
		Videos:  []File{video("a.mp4"), video("b.mp4")},
	}, nil)
	if err == nil {
		t.Fatal("expected concatenation error to surface")
	}
}

func TestRunZipOnly(t *testing.T) {
	sess, _ := New("My Game", "customer-a", 0)
	up := &fakeUploader{}
	concat := &fakeConcat{}
	c := NewCoordinator(up, concat, 1<<20, "games-bucket", "eu-west-1")

	res, err := c.Run(context.Background(), Batch{
		Session: sess,
		Zip:     &File{Name: "meta.zip", ContentType: "application/zip", Source: strings.NewReader("zip"), Size: 3},
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if concat.called {
		t.Error("zip-only session must not trigger concatenation")
	}
	if !up.uploaded("customer-a/Zip File/meta.zip") {
		t.Error("zip was not uploaded")
	}
	if res.FinalVideoKey != "" {
		t.Errorf("FinalVideoKey = %q, want empty for zip-only batch", res.FinalVideoKey)
	}
	if len(res.VideoKeys) != 0 {
		t.Errorf("VideoKeys = %v, want none", res.VideoKeys)
	}
}

func TestRunRejectsEmptyBatch(t *testing.T) {
	c := NewCoordinator(&fakeUploader{}, &fakeConcat{}, 1<<20, "b", "r")
	sess, _ := New("g", "f", 1)
	if _, err := c.Run(context.Background(), Batch{Session: sess}, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("err = %v, want ErrEmptyBatch", err)
	}
	if _, err := c.Run(context.Background(), Batch{Videos: []File{video("a.mp4")}}, nil); err == nil {
		t.Error("expected error for missing session")
	}
}
