// Package requester is the client for the ln-history API: it fetches the
// raw gossip set valid at a point in time and reconstructs the network
// snapshot from it.
package requester

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ln-history/lnhistory/parser"
	"github.com/ln-history/lnhistory/snapshot"
	"github.com/ln-history/lnhistory/tracing"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scy"
)

const (
	// DefaultBaseURL is the public ln-history API endpoint.
	DefaultBaseURL = "https://api.ln-history.info"

	apiKeyHeader   = "x-api-key"
	defaultTimeout = 60 * time.Second

	// Snapshot payloads are streamed as length-prefixed raw gossip
	// messages: u16 big-endian frame length followed by the message
	// including its 2-byte type.
	maxFrameSize = 65535
)

// Service talks to the ln-history API.
type Service struct {
	baseURL   string
	apiKey    string
	keyMux    sync.Mutex
	secretURL string
	secretKey string
	client    *http.Client
	scy       *scy.Service
	registry  *parser.Registry
}

// Result is a reconstructed snapshot together with the request duration.
type Result struct {
	Snapshot *snapshot.Snapshot
	Elapsed  time.Duration
}

// New creates a requester. An API key (or a secret source for one) is
// required.
func New(options ...Option) (*Service, error) {
	s := &Service{
		baseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: defaultTimeout},
		scy:      scy.New(),
		registry: parser.NewRegistry(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.apiKey == "" && s.secretURL == "" {
		return nil, fmt.Errorf("an API key or a secret source is required")
	}
	if _, err := url.Parse(s.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", s.baseURL, err)
	}
	return s, nil
}

// resolveAPIKey returns the configured key, loading it through scy on first
// use when a secret source was supplied.
func (s *Service) resolveAPIKey(ctx context.Context) (string, error) {
	s.keyMux.Lock()
	defer s.keyMux.Unlock()
	if s.apiKey != "" {
		return s.apiKey, nil
	}
	resource := scy.NewResource(nil, s.secretURL, s.secretKey)
	secret, err := s.scy.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load API key from %s: %w", s.secretURL, err)
	}
	s.apiKey = secret.String()
	return s.apiKey, nil
}

// SnapshotAt fetches and reconstructs the network snapshot valid at the
// given time.
func (s *Service) SnapshotAt(ctx context.Context, at time.Time) (ret *Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "requester.SnapshotAt", "CLIENT")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"snapshot.at": at.UTC().Format(time.RFC3339)})

	started := time.Now()
	body, err := s.open(ctx, at, span)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	snap := snapshot.New(at)
	frames := 0
	if err := readFrames(body, func(raw []byte) error {
		frames++
		msg, parseErr := s.registry.ParseMessage(raw)
		if parseErr != nil {
			return fmt.Errorf("frame %d: %w", frames, parseErr)
		}
		snap.Apply(msg)
		return nil
	}); err != nil {
		return nil, err
	}

	elapsed := time.Since(started)
	span.WithAttributes(map[string]string{
		"snapshot.frames":  strconv.Itoa(frames),
		"snapshot.elapsed": elapsed.String(),
	})
	return &Result{Snapshot: snap, Elapsed: elapsed}, nil
}

// SnapshotToFile streams the raw snapshot payload to destURL through afs
// without parsing it, for callers that post-process the data themselves.
func (s *Service) SnapshotToFile(ctx context.Context, at time.Time, destURL string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "requester.SnapshotToFile", "CLIENT")
	defer func() { tracing.EndSpan(span, err) }()

	body, err := s.open(ctx, at, span)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	fs := afs.New()
	if err := fs.Upload(ctx, destURL, file.DefaultFileOsMode, body); err != nil {
		return fmt.Errorf("failed to write snapshot to %s: %w", destURL, err)
	}
	return nil
}

// open issues the snapshot request and returns the response body on 2xx.
func (s *Service) open(ctx context.Context, at time.Time, span *tracing.Span) (io.ReadCloser, error) {
	apiKey, err := s.resolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/snapshots/%d", s.baseURL, at.Unix())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot request: %w", err)
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	span.SetStatusFromHTTPCode(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp.Body, nil
}

// readFrames iterates the length-prefixed messages of a snapshot payload.
func readFrames(r io.Reader, fn func(raw []byte) error) error {
	header := make([]byte, 2)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("truncated frame header: %w", err)
		}
		length := binary.BigEndian.Uint16(header)
		frame := make([]byte, length)
		if _, err := io.ReadFull(r, frame); err != nil {
			return fmt.Errorf("truncated frame payload: %w", err)
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
