package deezer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/deezer/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType = errors.New("unsupported resource type")
)

// Resource names accepted by batch operations.
const (
	ResourceTrack     = "track"
	ResourceAlbum     = "album"
	ResourceArtist    = "artist"
	ResourcePlaylist  = "playlist"
	ResourceGenre     = "genre"
	ResourceRadio     = "radio"
	ResourceUser      = "user"
	ResourceEditorial = "editorial"
	ResourcePodcast   = "podcast"
	ResourceChart     = "chart"
)

// BatchOperation is a single lookup in a batch.
type BatchOperation struct {
	ID       string
	Resource string
	EntityID int64
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs lookups concurrently. Every lookup still goes through the
// client's shared rate limit budget, so concurrency only overlaps latency.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultBatchTimeout,
	}
}

// SetTimeout sets the timeout for each operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Per-operation failures are reported in
// the results; the returned error is only set when ctx ends the batch early.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency)

	for index, operation := range operations {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[index] = BatchResult{ID: operation.ID, Error: err}

				return nil
			}

			opCtx, cancel := context.WithTimeout(groupCtx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}

			return nil
		})
	}

	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}

	return results, nil
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	var (
		data interface{}
		err  error
	)

	id := operation.EntityID

	switch operation.Resource {
	case ResourceTrack:
		data, err = b.client.Tracks().Get(ctx, id)
	case ResourceAlbum:
		data, err = b.client.Albums().Get(ctx, id)
	case ResourceArtist:
		data, err = b.client.Artists().Get(ctx, id)
	case ResourcePlaylist:
		data, err = b.client.Playlists().Get(ctx, id)
	case ResourceGenre:
		data, err = b.client.Genres().Get(ctx, id)
	case ResourceRadio:
		data, err = b.client.Radios().Get(ctx, id)
	case ResourceUser:
		data, err = b.client.Users().Get(ctx, id)
	case ResourceEditorial:
		data, err = b.client.Editorials().Get(ctx, id)
	case ResourcePodcast:
		data, err = b.client.Podcasts().Get(ctx, id)
	case ResourceChart:
		data, err = b.client.Charts().Get(ctx, id)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)
	}

	result.Success = err == nil
	result.Error = err

	if err == nil {
		result.Data = data
	}

	return result
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddGet adds a lookup of resource by id. The operation id defaults to "resource:id".
func (b *BatchBuilder) AddGet(resource string, entityID int64) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       resource + ":" + strconv.FormatInt(entityID, 10),
		Resource: resource,
		EntityID: entityID,
	})

	return b
}

// AddGetTracks adds track lookups.
func (b *BatchBuilder) AddGetTracks(ids ...int64) *BatchBuilder {
	for _, id := range ids {
		b.AddGet(ResourceTrack, id)
	}

	return b
}

// AddGetAlbums adds album lookups.
func (b *BatchBuilder) AddGetAlbums(ids ...int64) *BatchBuilder {
	for _, id := range ids {
		b.AddGet(ResourceAlbum, id)
	}

	return b
}

// AddGetArtists adds artist lookups.
func (b *BatchBuilder) AddGetArtists(ids ...int64) *BatchBuilder {
	for _, id := range ids {
		b.AddGet(ResourceArtist, id)
	}

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// GetMany fetches ids concurrently with get and returns the records keyed by id.
// It fails fast: the first error cancels the remaining lookups.
func GetMany[T any](ctx context.Context, ids []int64, concurrency int, get func(context.Context, int64) (*T, error)) (map[int64]*T, error) {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	records := make(map[int64]*T, len(ids))

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, id := range ids {
		group.Go(func() error {
			record, err := get(groupCtx, id)
			if err != nil {
				return fmt.Errorf("getting %d: %w", id, err)
			}

			mu.Lock()
			records[id] = record
			mu.Unlock()

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return records, err
	}

	return records, nil
}
