// Package fs implements a durable spool queue over viant/afs. Plugin events
// survive process restarts: published envelopes land in pending/, move to
// processing/ while consumed, and end up deleted on Ack or in dead/ once
// retries are exhausted.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/ln-history/lnhistory/internal/idgen"
	"github.com/ln-history/lnhistory/service/messaging"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Config controls the spool location and retry budget.
type Config struct {
	BasePath   string
	MaxRetries int
}

// DefaultConfig spools under /tmp/lnhistory/queue with 3 retries.
func DefaultConfig() Config {
	return Config{
		BasePath:   "/tmp/lnhistory/queue",
		MaxRetries: 3,
	}
}

type envelope[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	Retries   int       `json:"retries"`
	CreatedAt time.Time `json:"createdAt"`
	Error     string    `json:"error,omitempty"`
}

// Message implements messaging.Message for the spool queue.
type Message[T any] struct {
	envelope  envelope[T]
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
}

// T returns the message payload.
func (m *Message[T]) T() *T { return &m.envelope.Data }

// Ack removes the message from the spool.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return m.queue.remove(context.Background(), m.queue.processingDir, m.envelope.ID)
}

// Nack requeues the message or dead-letters it once retries are exhausted.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.envelope.Retries++
	if err != nil {
		m.envelope.Error = err.Error()
	}

	ctx := context.Background()
	destDir := m.queue.pendingDir
	if m.envelope.Retries > m.queue.config.MaxRetries {
		destDir = m.queue.deadDir
	}
	if err := m.queue.write(ctx, destDir, &m.envelope); err != nil {
		return err
	}
	return m.queue.remove(ctx, m.queue.processingDir, m.envelope.ID)
}

// Queue implements a durable messaging.Queue over afs.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	deadDir       string
	mu            sync.Mutex
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// NewQueue creates the spool directories when missing.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BasePath, "pending"),
		processingDir: path.Join(config.BasePath, "processing"),
		deadDir:       path.Join(config.BasePath, "dead"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.deadDir} {
		if exists, _ := fs.Exists(ctx, dir); !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes the payload to the pending spool.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	return q.write(ctx, q.pendingDir, &envelope[T]{
		ID:        idgen.New(),
		Data:      *t,
		CreatedAt: time.Now(),
	})
}

// Consume claims the oldest pending message by moving it into processing/
// before returning it. It returns (nil, nil) when the spool is empty.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := q.fs.DownloadWithURL(ctx, object.URL())
		if err != nil {
			return nil, fmt.Errorf("failed to read message %s: %w", object.URL(), err)
		}
		var env envelope[T]
		if err := json.Unmarshal(data, &env); err != nil {
			// Unreadable spool entries go straight to dead/.
			_ = q.fs.Move(ctx, object.URL(), path.Join(q.deadDir, "invalid-"+object.Name()))
			continue
		}
		if err := q.write(ctx, q.processingDir, &env); err != nil {
			return nil, err
		}
		if err := q.fs.Delete(ctx, object.URL()); err != nil {
			return nil, fmt.Errorf("failed to claim message %s: %w", object.URL(), err)
		}
		return &Message[T]{envelope: env, queue: q}, nil
	}
	return nil, nil
}

func (q *Queue[T]) write(ctx context.Context, dir string, env *envelope[T]) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	dest := path.Join(dir, env.ID+".json")
	if err := q.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", dest, err)
	}
	return nil
}

func (q *Queue[T]) remove(ctx context.Context, dir, id string) error {
	target := path.Join(dir, id+".json")
	if exists, _ := q.fs.Exists(ctx, target); exists {
		return q.fs.Delete(ctx, target)
	}
	return nil
}
