package chatexport

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNoArtifact = errors.New("no downloadable artifact for the current results")
)

// downloadMarker is the path segment preceding the artifact name in a
// download locator, e.g. ".../export/download/abc.csv".
const downloadMarker = "/download/"

type (
	// QueryResult is the server's answer to a conversational query.
	QueryResult struct {
		ConversationID string `json:"conversationId"`
		Rows           []Row  `json:"results"`
		DownloadURL    string `json:"downloadUrl,omitempty"`
	}

	// Artifact is a downloaded export. SuggestedName is the server's
	// presentation name and wins over the internal lookup key; Name is only
	// that key.
	Artifact struct {
		Name          string
		SuggestedName string
		Data          []byte
	}

	// API is the remote chat/export contract this session drives. The
	// transport package provides the real implementation.
	API interface {
		ChatQuery(ctx context.Context, conversationID, prompt string) (*QueryResult, error)
		ChatRecent(ctx context.Context) (string, error)
		ExportCSV(ctx context.Context, filter map[string]interface{}) (string, error)
		Download(ctx context.Context, name string) (*Artifact, error)
	}

	// Session tracks one teacher's ongoing query conversation and its latest
	// exportable artifact. It is independent of the auth session: the
	// conversation id is orthogonal to the session token.
	//
	// conversationID, lastRows and lastArtifact always advance together; no
	// reader can observe one of the three updated without the others.
	Session struct {
		api API

		mu             sync.Mutex
		conversationID string
		lastRows       []Row
		lastArtifact   string
	}
)

func NewSession(api API) *Session {
	return &Session{api: api}
}

// Query runs a natural-language query, threading the conversation id so the
// server keeps conversational context across calls. On success the
// conversation id, result set and artifact name are replaced atomically.
// An empty result set is a valid outcome, not an error.
func (s *Session) Query(ctx context.Context, prompt string) ([]Row, error) {
	s.mu.Lock()
	convID := s.conversationID
	s.mu.Unlock()

	res, err := s.api.ChatQuery(ctx, convID, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "running query")
	}

	s.mu.Lock()
	s.conversationID = res.ConversationID
	s.lastRows = res.Rows
	s.lastArtifact = ParseArtifactName(res.DownloadURL)
	s.mu.Unlock()
	return res.Rows, nil
}

// LoadRecent restores the most recent conversation id for this user, so a
// fresh UI session can pick up where the last one left off. Best effort: the
// result set and artifact are not touched.
func (s *Session) LoadRecent(ctx context.Context) error {
	convID, err := s.api.ChatRecent(ctx)
	if err != nil {
		return errors.Wrap(err, "loading recent conversation")
	}
	s.mu.Lock()
	s.conversationID = convID
	s.mu.Unlock()
	return nil
}

// ConversationID returns the current conversation id ("" before any query).
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// LastRows returns the most recent successful query's result set.
func (s *Session) LastRows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRows
}

// LastArtifact returns the artifact name for the most recent result set, or
// "" when the last query produced no downloadable artifact.
func (s *Session) LastArtifact() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastArtifact
}

// DownloadLast fetches the artifact belonging to the most recent query's
// results. Because name and results are written together, this can never
// fetch a stale artifact.
func (s *Session) DownloadLast(ctx context.Context) (*Artifact, error) {
	s.mu.Lock()
	name := s.lastArtifact
	s.mu.Unlock()

	if name == "" {
		return nil, ErrNoArtifact
	}
	art, err := s.api.Download(ctx, name)
	return art, errors.Wrap(err, "downloading results artifact")
}

// ExportAll requests a fresh artifact for the full (optionally filtered)
// dataset and returns its name. It is independent of the conversation: it
// never touches the conversation id or the last result set.
func (s *Session) ExportAll(ctx context.Context, filter map[string]interface{}) (string, error) {
	locator, err := s.api.ExportCSV(ctx, filter)
	if err != nil {
		return "", errors.Wrap(err, "requesting export")
	}
	name := ParseArtifactName(locator)
	if name == "" {
		return "", errors.Errorf("export locator %q has no artifact name", locator)
	}
	return name, nil
}

// Download fetches an artifact's bytes by name; the caller persists them.
func (s *Session) Download(ctx context.Context, name string) (*Artifact, error) {
	art, err := s.api.Download(ctx, name)
	return art, errors.Wrap(err, "downloading artifact")
}

// ParseArtifactName extracts the artifact name from a download locator: the
// (unescaped) path remainder after the last "/download/" segment. A locator
// without that segment has no artifact name.
func ParseArtifactName(downloadURL string) string {
	if downloadURL == "" {
		return ""
	}
	i := strings.LastIndex(downloadURL, downloadMarker)
	if i < 0 {
		return ""
	}
	name := downloadURL[i+len(downloadMarker):]
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}
