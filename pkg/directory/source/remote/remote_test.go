package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymtools/ivrdir/pkg/directory"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) (*Source, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	src, err := New(Config{
		Endpoint:     server.URL,
		Token:        "test-token",
		ConvertAudio: true,
	})
	require.NoError(t, err)
	return src, server
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestList_MapsRows(t *testing.T) {
	src, server := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GetIVR2Dir", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "/2", r.URL.Query().Get("path"))

		fmt.Fprint(w, `{
			"responseStatus": "OK",
			"dirs": [{"name": "1", "what": "דף היומי"}],
			"files": [
				{"name": "002.wav", "size": 1024, "time": 1698297600},
				{"name": "notes.txt", "what": "הערות", "size": 10, "time": 0}
			]
		}`)
	})

	entries, err := src.List(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	folder := entries[0]
	assert.Equal(t, directory.KindFolder, folder.Kind)
	assert.Equal(t, "2/1", folder.Path)
	assert.Equal(t, "דף היומי", folder.Metadata)
	assert.Equal(t, "---", folder.ModifiedAt)
	assert.Zero(t, folder.SizeBytes)
	assert.Empty(t, folder.ContentURL)

	audio := entries[1]
	assert.Equal(t, directory.KindMedia, audio.Kind)
	assert.Equal(t, "2/002.wav", audio.Path)
	assert.Equal(t, uint64(1024), audio.SizeBytes)
	assert.Equal(t, "wav", audio.Extension)
	assert.Contains(t, audio.ContentURL, server.URL+"/DownloadFile?token=test-token&path=ivr2:/2/002.wav")
	assert.NotEqual(t, "---", audio.ModifiedAt)

	other := entries[2]
	assert.Equal(t, directory.KindOther, other.Kind)
	// Display label wins over the raw name, the path keeps the raw name
	assert.Equal(t, "הערות", other.Name)
	assert.Equal(t, "2/notes.txt", other.Path)
	assert.Equal(t, "---", other.ModifiedAt)
}

func TestList_RootPathEncodesAsSlash(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Query().Get("path"))
		fmt.Fprint(w, `{"responseStatus": "OK"}`)
	})

	_, err := src.List(context.Background(), "")
	require.NoError(t, err)
}

func TestList_TransportFailure(t *testing.T) {
	src, server := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := src.List(context.Background(), "1")
	code, ok := directory.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, directory.ErrRemoteUnavailable, code)
}

func TestList_HTTPError(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := src.List(context.Background(), "1")
	code, ok := directory.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, directory.ErrRemoteUnavailable, code)
}

func TestList_NonOKStatus(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseStatus": "ERROR", "message": "bad token"}`)
	})

	_, err := src.List(context.Background(), "1")
	code, ok := directory.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, directory.ErrRemoteUnavailable, code)
}

func TestDelete(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/FileAction", r.URL.Path)
		assert.Equal(t, "delete", r.URL.Query().Get("action"))
		assert.Equal(t, "ivr2:/1/M0000.wav", r.URL.Query().Get("what"))
		fmt.Fprint(w, `{"responseStatus": "OK"}`)
	})

	assert.NoError(t, src.Delete(context.Background(), "1/M0000.wav"))
}

func TestDelete_Rejected(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseStatus": "ERROR", "message": "no such file"}`)
	})

	err := src.Delete(context.Background(), "1/M0000.wav")
	code, ok := directory.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, directory.ErrRemoteRejected, code)
}

func TestCreate(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/UploadFile", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "ivr2:/3/002.wav", r.URL.Query().Get("path"))
		assert.Equal(t, "1", r.URL.Query().Get("convertAudio"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "002.wav", header.Filename)

		fmt.Fprint(w, `{"responseStatus": "OK"}`)
	})

	err := src.Create(context.Background(), "3", "002.wav", []byte("RIFF...."))
	assert.NoError(t, err)
}

func TestCreate_Rejected(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseStatus": "ERROR", "message": "quota exceeded"}`)
	})

	err := src.Create(context.Background(), "3", "002.wav", []byte("RIFF...."))
	code, ok := directory.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, directory.ErrRemoteRejected, code)
}

func TestValidate(t *testing.T) {
	ok := false
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if ok {
			fmt.Fprint(w, `{"responseStatus": "OK"}`)
		} else {
			fmt.Fprint(w, `{"responseStatus": "ERROR"}`)
		}
	})

	assert.False(t, src.Validate(context.Background()))
	ok = true
	assert.True(t, src.Validate(context.Background()))
}

func TestEncodePath(t *testing.T) {
	assert.Equal(t, "/", encodePath(""))
	assert.Equal(t, "/2/1", encodePath("2/1"))
	// Hebrew segments are percent-encoded, the separators stay literal
	assert.Equal(t, "/1/%D7%A2%D7%93%D7%9B%D7%95%D7%9F.wav", encodePath("1/עדכון.wav"))
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, "wav", extensionOf("001.WAV"))
	assert.Equal(t, "mp3", extensionOf("a.b.mp3"))
	assert.Equal(t, "", extensionOf("noext"))
	assert.Equal(t, "", extensionOf("trailing."))
}
