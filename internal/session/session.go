package session

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode selects how a session's videos are stored.
type Mode string

const (
	// ModeSingle stores the one video directly at its final key.
	ModeSingle Mode = "single"

	// ModeMulti stages each video under a temporary prefix for
	// server-side concatenation.
	ModeMulti Mode = "multi"
)

var (
	ErrEmptyGameName   = errors.New("game name is required")
	ErrEmptyFolderName = errors.New("folder name is required")
	ErrEmptyBatch      = errors.New("session needs at least one file")
	ErrNoVideos        = errors.New("video count cannot be negative")
)

// TempPrefix is where multi-mode sessions stage their video parts.
const TempPrefix = "tmp-uploads"

// Session identifies one upload batch and owns its object key layout.
type Session struct {
	ID         string
	Folder     string
	GameName   string
	Mode       Mode
	VideoCount int
}

// New creates a session for the given game. The mode follows the video
// count: at most one video uploads straight to its final key, more than
// one goes through the temporary prefix. Zero videos is a zip-only
// session, already in final form after upload.
func New(gameName, folderName string, videoCount int) (*Session, error) {
	if strings.TrimSpace(gameName) == "" {
		return nil, ErrEmptyGameName
	}
	if strings.TrimSpace(folderName) == "" {
		return nil, ErrEmptyFolderName
	}
	if videoCount < 0 {
		return nil, ErrNoVideos
	}

	mode := ModeSingle
	if videoCount > 1 {
		mode = ModeMulti
	}

	return &Session{
		ID:         newSessionID(),
		Folder:     folderName,
		GameName:   SanitizeGameName(gameName),
		Mode:       mode,
		VideoCount: videoCount,
	}, nil
}

func newSessionID() string {
	fragment := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("upload-%d-%s", time.Now().UnixMilli(), fragment)
}

// SanitizeGameName makes a game name safe for object keys: runs of
// whitespace collapse to a single hyphen and any remaining character
// that is not alphanumeric or a hyphen is dropped.
func SanitizeGameName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Join(strings.Fields(name), "-")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ZipKey is the destination for the session's metadata archive.
func (s *Session) ZipKey(fileName string) string {
	return path.Join(s.Folder, "Zip File", fileName)
}

// VideoKey is the destination for video number n (1-based). In single
// mode it is the final key; in multi mode it is a temporary part key.
func (s *Session) VideoKey(n int, ext string) string {
	if s.Mode == ModeSingle {
		ext = strings.TrimPrefix(ext, ".")
		return path.Join(s.Folder, "Game Video", fmt.Sprintf("%s.%s", s.GameName, ext))
	}
	return s.TempVideoKey(n)
}

// TempVideoKey is the staging key for video number n (1-based).
func (s *Session) TempVideoKey(n int) string {
	return fmt.Sprintf("%s/%s/part-%d", TempPrefix, s.ID, n)
}

// FinalVideoKey is where the concatenated video lands.
func (s *Session) FinalVideoKey() string {
	return path.Join(s.Folder, "Game Video", s.GameName+".mp4")
}

// TempVideoPrefix is the listing prefix covering all of this session's
// staged parts, with a trailing slash.
func (s *Session) TempVideoPrefix() string {
	return fmt.Sprintf("%s/%s/", TempPrefix, s.ID)
}
