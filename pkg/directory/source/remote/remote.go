// Package remote implements the directory source backed by the IVR hosting
// HTTP API.
//
// The API is four endpoints on a fixed host: GetIVR2Dir (listing),
// UploadFile (multipart upload), FileAction (delete) and DownloadFile (the
// content URL synthesized for file rows, never fetched here). Every request
// carries the credential token as a query parameter, and file paths are sent
// percent-encoded per segment under the "ivr2:" namespace.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/ivrpath"
)

// DefaultEndpoint is the production API host.
const DefaultEndpoint = "https://www.call2all.co.il/ym/api"

// statusOK is the success marker in API response bodies.
const statusOK = "OK"

// Config configures a remote source.
type Config struct {
	// Endpoint is the API base URL. Defaults to DefaultEndpoint.
	Endpoint string

	// Token is the credential sent with every request.
	Token string

	// Timeout bounds each remote call. A request that exceeds it is
	// treated as remote-unavailable. Defaults to 15 seconds.
	Timeout time.Duration

	// ConvertAudio asks the backend to normalize uploaded audio.
	ConvertAudio bool

	// HTTPClient overrides the transport, used by tests. When nil a
	// client with the configured timeout is created.
	HTTPClient *http.Client
}

// Source implements source.Source against the remote API.
//
// Thread safety: the source is immutable after construction and http.Client
// is safe for concurrent use, so concurrent listings need no locking.
type Source struct {
	endpoint     string
	token        string
	convertAudio bool
	client       *http.Client
}

// New creates a remote source. The token must be non-empty; selection
// between remote and baseline happens in the service, which only constructs
// a remote source when a credential is configured.
func New(cfg Config) (*Source, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("remote source: token is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Source{
		endpoint:     endpoint,
		token:        cfg.Token,
		convertAudio: cfg.ConvertAudio,
		client:       client,
	}, nil
}

// apiResponse is the common envelope of API response bodies. Listing
// responses additionally carry directory and file rows.
type apiResponse struct {
	ResponseStatus string    `json:"responseStatus"`
	Message        string    `json:"message"`
	Dirs           []dirRow  `json:"dirs"`
	Files          []fileRow `json:"files"`
}

type dirRow struct {
	Name string `json:"name"`
	What string `json:"what"`
}

type fileRow struct {
	Name string `json:"name"`
	What string `json:"what"`
	Size uint64 `json:"size"`
	Time int64  `json:"time"`
}

// List fetches the children of path from GetIVR2Dir.
//
// Any failure - transport error, non-2xx status, undecodable body, or a
// non-OK status field - is reported as ErrRemoteUnavailable so the caller
// falls back to the baseline dataset for this call.
func (s *Source) List(ctx context.Context, path string) ([]directory.Entry, error) {
	reqURL := fmt.Sprintf("%s/GetIVR2Dir?token=%s&path=%s",
		s.endpoint, url.QueryEscape(s.token), encodePath(path))

	body, err := s.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if body.ResponseStatus != statusOK {
		return nil, directory.NewPathError(directory.ErrRemoteUnavailable,
			fmt.Sprintf("remote listing rejected: %s", body.Message), path)
	}

	return s.mapRows(path, body), nil
}

// Create uploads data as a file named name under path via UploadFile.
func (s *Source) Create(ctx context.Context, path, name string, data []byte) error {
	target := ivrpath.Join(path, name)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	convert := "0"
	if s.convertAudio {
		convert = "1"
	}
	reqURL := fmt.Sprintf("%s/UploadFile?token=%s&path=ivr2:%s&convertAudio=%s",
		s.endpoint, url.QueryEscape(s.token), encodePath(target), convert)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := s.do(req, target)
	if err != nil {
		return err
	}

	if body.ResponseStatus != statusOK {
		return directory.NewPathError(directory.ErrRemoteRejected,
			fmt.Sprintf("remote upload rejected: %s", body.Message), target)
	}

	return nil
}

// Delete removes the entry at path via FileAction.
func (s *Source) Delete(ctx context.Context, path string) error {
	reqURL := fmt.Sprintf("%s/FileAction?token=%s&action=delete&what=ivr2:%s",
		s.endpoint, url.QueryEscape(s.token), encodePath(path))

	body, err := s.get(ctx, reqURL)
	if err != nil {
		return err
	}

	if body.ResponseStatus != statusOK {
		return directory.NewPathError(directory.ErrRemoteRejected,
			fmt.Sprintf("remote delete rejected: %s", body.Message), path)
	}

	return nil
}

// Validate probes the credential with a root listing. True iff the call
// succeeds with an OK status. Errors are reported as false, never surfaced:
// connectivity is an indicator, not a precondition.
func (s *Source) Validate(ctx context.Context) bool {
	_, err := s.List(ctx, "")
	if err != nil {
		logger.Debug("Credential validation failed: %v", err)
		return false
	}
	return true
}

// ContentURL returns the deterministic download URL for the file at path.
func (s *Source) ContentURL(path string) string {
	return fmt.Sprintf("%s/DownloadFile?token=%s&path=ivr2:%s",
		s.endpoint, url.QueryEscape(s.token), encodePath(path))
}

// get issues a GET and decodes the JSON envelope.
func (s *Source) get(ctx context.Context, reqURL string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return s.do(req, "")
}

// do executes the request and classifies transport failures as
// remote-unavailable.
func (s *Source) do(req *http.Request, path string) (*apiResponse, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, directory.NewPathError(directory.ErrRemoteUnavailable,
			fmt.Sprintf("remote request failed: %v", err), path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, directory.NewPathError(directory.ErrRemoteUnavailable,
			fmt.Sprintf("remote returned HTTP %d", resp.StatusCode), path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, directory.NewPathError(directory.ErrRemoteUnavailable,
			fmt.Sprintf("failed to read remote response: %v", err), path)
	}

	var body apiResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, directory.NewPathError(directory.ErrRemoteUnavailable,
			fmt.Sprintf("undecodable remote response: %v", err), path)
	}

	return &body, nil
}

// mapRows converts API rows into entries under path.
func (s *Source) mapRows(path string, body *apiResponse) []directory.Entry {
	entries := make([]directory.Entry, 0, len(body.Dirs)+len(body.Files))

	for _, dir := range body.Dirs {
		entries = append(entries, directory.Entry{
			ID:         "dir-" + dir.Name,
			Name:       dir.Name,
			Metadata:   dir.What,
			Path:       ivrpath.Join(path, dir.Name),
			Kind:       directory.KindFolder,
			ModifiedAt: "---",
			CreatedBy:  "ימות המשיח",
		})
	}

	for _, file := range body.Files {
		ext := extensionOf(file.Name)
		kind := directory.KindForExtension(ext)

		name := file.Name
		if file.What != "" {
			name = file.What
		}

		fullPath := ivrpath.Join(path, file.Name)

		modified, full := "---", "---"
		if file.Time != 0 {
			ts := time.Unix(file.Time, 0)
			modified = ts.Format("02.01.2006")
			full = ts.Format("02.01.2006 15:04:05")
		}

		entries = append(entries, directory.Entry{
			ID:            fmt.Sprintf("file-%s-%d", file.Name, file.Time),
			Name:          name,
			Path:          fullPath,
			Kind:          kind,
			SizeBytes:     file.Size,
			ModifiedAt:    modified,
			FullTimestamp: full,
			ContentURL:    s.ContentURL(fullPath),
			CreatedBy:     "מערכת ימות המשיח",
			Extension:     ext,
		})
	}

	return entries
}

// encodePath renders path as an absolute, segment-wise percent-encoded
// string. The root encodes as "/".
func encodePath(path string) string {
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/" + strings.Join(segments, "/")
}

// extensionOf returns the lowercase extension of name without the dot,
// or "" when name has none.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
