package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymtools/ivrdir/pkg/blob/memory"
)

func TestRecordAndEntries(t *testing.T) {
	l := Load(context.Background(), memory.NewMemoryBlobStore())
	ctx := context.Background()

	first := l.Record(ctx, "1", "פתיח ראשי.wav", "1/M0000.wav", ActionDownload)
	second := l.Record(ctx, "0508888888", "000.wav", "3/000.wav", ActionUpload)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	// Newest first
	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, ActionUpload, entries[0].Action)
	assert.Equal(t, ActionDownload, entries[1].Action)

	_, err := time.Parse(time.RFC3339, entries[0].Timestamp)
	assert.NoError(t, err)
}

func TestPersistence(t *testing.T) {
	blobs := memory.NewMemoryBlobStore()
	ctx := context.Background()

	l := Load(ctx, blobs)
	l.Record(ctx, "1", "a.wav", "1/a.wav", ActionDelete)

	reloaded := Load(ctx, blobs)
	entries := reloaded.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "a.wav", entries[0].FileName)
}

func TestClear(t *testing.T) {
	blobs := memory.NewMemoryBlobStore()
	ctx := context.Background()

	l := Load(ctx, blobs)
	l.Record(ctx, "1", "a.wav", "1/a.wav", ActionDownload)
	l.Clear(ctx)
	assert.Empty(t, l.Entries())

	// Clearing persists: a reload is also empty
	assert.Empty(t, Load(ctx, blobs).Entries())
}

func TestLoad_CorruptBlobStartsEmpty(t *testing.T) {
	blobs := memory.NewMemoryBlobStore()
	ctx := context.Background()
	require.NoError(t, blobs.Save(ctx, "activity", []byte("not json")))

	l := Load(ctx, blobs)
	assert.Empty(t, l.Entries())
}
