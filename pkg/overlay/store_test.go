package overlay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymtools/ivrdir/pkg/blob/memory"
	"github.com/ymtools/ivrdir/pkg/directory"
)

func newStore(t *testing.T) (*Store, *memory.MemoryBlobStore) {
	t.Helper()
	blobs := memory.NewMemoryBlobStore()
	return Load(context.Background(), blobs), blobs
}

func TestRecordDeletion(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	assert.False(t, s.IsDeleted("1/M0000.wav"))

	s.RecordDeletion(ctx, "1/M0000.wav")
	assert.True(t, s.IsDeleted("1/M0000.wav"))

	// Deleting again changes nothing
	s.RecordDeletion(ctx, "1/M0000.wav")
	assert.True(t, s.IsDeleted("1/M0000.wav"))
}

func TestCreationsUnder(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.RecordCreation(ctx, directory.Entry{Path: "3/002.wav", Name: "002.wav", Kind: directory.KindMedia})
	s.RecordCreation(ctx, directory.Entry{Path: "3/5/000.wav", Name: "000.wav", Kind: directory.KindMedia})
	s.RecordCreation(ctx, directory.Entry{Path: "004.wav", Name: "004.wav", Kind: directory.KindMedia})

	under3 := s.CreationsUnder("3")
	require.Len(t, under3, 1)
	assert.Equal(t, "3/002.wav", under3[0].Path)

	root := s.CreationsUnder("")
	require.Len(t, root, 1)
	assert.Equal(t, "004.wav", root[0].Path)

	// A deleted creation stops being listed
	s.RecordDeletion(ctx, "3/002.wav")
	assert.Empty(t, s.CreationsUnder("3"))
}

func TestSetMetadata(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, ok := s.MetadataFor("2/1")
	assert.False(t, ok)

	s.SetMetadata(ctx, "2/1", "דף היומי")
	text, ok := s.MetadataFor("2/1")
	require.True(t, ok)
	assert.Equal(t, "דף היומי", text)

	// Last write wins
	s.SetMetadata(ctx, "2/1", "שיעורים")
	text, _ = s.MetadataFor("2/1")
	assert.Equal(t, "שיעורים", text)

	// Empty string removes the override
	s.SetMetadata(ctx, "2/1", "")
	_, ok = s.MetadataFor("2/1")
	assert.False(t, ok)
}

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewMemoryBlobStore()

	first := Load(ctx, blobs)
	first.RecordDeletion(ctx, "1/M0000.wav")
	first.RecordCreation(ctx, directory.Entry{Path: "3/002.wav", Name: "002.wav", Kind: directory.KindMedia})
	first.SetMetadata(ctx, "2", "שיעורי תורה")

	// A fresh store over the same blobs sees everything
	second := Load(ctx, blobs)
	assert.True(t, second.IsDeleted("1/M0000.wav"))
	assert.Len(t, second.CreationsUnder("3"), 1)

	text, ok := second.MetadataFor("2")
	require.True(t, ok)
	assert.Equal(t, "שיעורי תורה", text)
}

func TestLoad_CorruptBlobYieldsEmptyDefault(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewMemoryBlobStore()
	require.NoError(t, blobs.Save(ctx, "overlay/deleted", []byte("not json {{{")))

	s := Load(ctx, blobs)
	assert.False(t, s.IsDeleted("anything"))

	// The store still works after a corrupt load
	s.RecordDeletion(ctx, "1")
	assert.True(t, s.IsDeleted("1"))
}
