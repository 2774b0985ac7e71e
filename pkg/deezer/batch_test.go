package deezer_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// stubClient serves tracks and albums from memory. Other resources are not wired.
type stubClient struct {
	deezer.Client

	tracks *stubTracks
	albums *stubAlbums
}

func newStubClient() *stubClient {
	return &stubClient{
		tracks: &stubTracks{inFlight: &atomic.Int32{}, peak: &atomic.Int32{}},
		albums: &stubAlbums{},
	}
}

func (c *stubClient) Tracks() deezer.TracksClient { return c.tracks }
func (c *stubClient) Albums() deezer.AlbumsClient { return c.albums }

type stubTracks struct {
	delay    time.Duration
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (s *stubTracks) Get(ctx context.Context, id int64) (*deezer.Track, error) {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	for {
		peak := s.peak.Load()
		if current <= peak || s.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if id == 404 {
		return nil, &deezer.APIError{Kind: deezer.KindNotFound, Path: "/track/404", Message: "no data"}
	}

	return &deezer.Track{ID: id, Title: "Track"}, nil
}

type stubAlbums struct {
	deezer.AlbumsClient
}

func (s *stubAlbums) Get(ctx context.Context, id int64) (*deezer.Album, error) {
	return &deezer.Album{ID: id, Title: "Discovery"}, nil
}

func TestBatchExecutor_Execute(t *testing.T) {
	t.Parallel()

	client := newStubClient()
	executor := deezer.NewBatchExecutor(client, 2)

	var (
		mu        sync.Mutex
		callbacks []string
	)

	operations := deezer.NewBatchBuilder().
		AddGetTracks(1, 404).
		AddGetAlbums(302127).
		AddOperation(deezer.BatchOperation{
			ID:       "custom",
			Resource: deezer.ResourceTrack,
			EntityID: 7,
			Callback: func(result *deezer.BatchResult) {
				mu.Lock()
				defer mu.Unlock()

				callbacks = append(callbacks, result.ID)
			},
		}).
		AddGet("concert", 1).
		Build()

	results, err := executor.Execute(context.Background(), operations)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, "track:1", results[0].ID)
	assert.True(t, results[0].Success)
	assert.Equal(t, int64(1), results[0].Data.(*deezer.Track).ID)

	assert.Equal(t, "track:404", results[1].ID)
	assert.False(t, results[1].Success)
	assert.True(t, deezer.IsNotFound(results[1].Error))
	assert.Nil(t, results[1].Data)

	assert.Equal(t, "album:302127", results[2].ID)
	assert.Equal(t, "Discovery", results[2].Data.(*deezer.Album).Title)

	assert.True(t, results[3].Success)
	assert.Equal(t, []string{"custom"}, callbacks)

	assert.False(t, results[4].Success)
	require.ErrorIs(t, results[4].Error, deezer.ErrUnsupportedResourceType)
}

func TestBatchExecutor_RespectsConcurrency(t *testing.T) {
	t.Parallel()

	client := newStubClient()
	client.tracks.delay = 20 * time.Millisecond

	executor := deezer.NewBatchExecutor(client, 3)

	builder := deezer.NewBatchBuilder()
	for id := int64(1); id <= 12; id++ {
		builder.AddGetTracks(id)
	}

	results, err := executor.Execute(context.Background(), builder.Build())
	require.NoError(t, err)

	for _, result := range results {
		assert.True(t, result.Success)
		assert.Positive(t, result.Duration)
	}

	assert.LessOrEqual(t, client.tracks.peak.Load(), int32(3))
}

func TestBatchExecutor_Timeout(t *testing.T) {
	t.Parallel()

	client := newStubClient()
	client.tracks.delay = time.Second

	executor := deezer.NewBatchExecutor(client, 1)
	executor.SetTimeout(10 * time.Millisecond)

	results, err := executor.Execute(context.Background(), deezer.NewBatchBuilder().AddGetTracks(1).Build())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	require.ErrorIs(t, results[0].Error, context.DeadlineExceeded)
}

func TestBatchExecutor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := deezer.NewBatchExecutor(newStubClient(), 0)

	results, err := executor.Execute(ctx, deezer.NewBatchBuilder().AddGetTracks(1, 2).Build())
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)

	for _, result := range results {
		assert.False(t, result.Success)
	}
}

func TestGetMany(t *testing.T) {
	t.Parallel()

	client := newStubClient()

	t.Run("collects every record", func(t *testing.T) {
		t.Parallel()

		records, err := deezer.GetMany(context.Background(), []int64{1, 2, 3}, 2, client.Tracks().Get)
		require.NoError(t, err)

		require.Len(t, records, 3)
		assert.Equal(t, int64(2), records[2].ID)
	})

	t.Run("first failure wins", func(t *testing.T) {
		t.Parallel()

		_, err := deezer.GetMany(context.Background(), []int64{1, 404, 3}, 0, client.Tracks().Get)
		require.Error(t, err)
		assert.True(t, deezer.IsNotFound(err))
		assert.Contains(t, err.Error(), "getting 404")
	})
}
