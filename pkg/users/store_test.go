package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymtools/ivrdir/pkg/blob/memory"
	"github.com/ymtools/ivrdir/pkg/directory"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(context.Background(), memory.NewMemoryBlobStore())
	require.NoError(t, err)
	return s
}

func TestLoad_SeedsDefaults(t *testing.T) {
	s := newStore(t)

	list := s.List()
	require.Len(t, list, 3)

	admin, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, directory.RoleAdmin, admin.Role)
	assert.Equal(t, "מנהל ראשי", admin.DisplayName)
}

func TestLoad_ReadsPersistedAccounts(t *testing.T) {
	blobs := memory.NewMemoryBlobStore()
	ctx := context.Background()

	first, err := Load(ctx, blobs)
	require.NoError(t, err)
	require.NoError(t, first.Create(ctx, Account{ID: "42", DisplayName: "בדיקה"}, "secret"))

	// A second load over the same blob store sees the new account and
	// does not re-seed.
	second, err := Load(ctx, blobs)
	require.NoError(t, err)
	assert.Len(t, second.List(), 4)
	_, err = second.Get("42")
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	s := newStore(t)

	user, err := s.Authenticate("1", "1")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = s.Authenticate("1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate("no-such-id", "1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreate_DuplicateAndAdminFlags(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	err := s.Create(ctx, Account{ID: "1", DisplayName: "כפול"}, "x")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Admins get the full permission set regardless of the flags
	require.NoError(t, s.Create(ctx, Account{
		ID: "99", DisplayName: "מנהל שני", Role: directory.RoleAdmin,
	}, "pw"))
	admin, err := s.Get("99")
	require.NoError(t, err)
	assert.True(t, admin.CanUpload)
	assert.True(t, admin.CanDelete)
	assert.True(t, admin.CanDownload)
}

func TestSetPassword(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPassword(ctx, "0509999999", "new-pass"))

	_, err := s.Authenticate("0509999999", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate("0509999999", "new-pass")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.SetPassword(ctx, "missing", "x"), ErrNotFound)
}

func TestSetPermissions(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetPermissions(context.Background(), "0509999999", true, true, false))

	account, err := s.Get("0509999999")
	require.NoError(t, err)
	assert.True(t, account.CanUpload)
	assert.True(t, account.CanDelete)
	assert.False(t, account.CanDownload)
}

func TestTogglePathGrant(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.TogglePathGrant(ctx, "0508888888", "1"))
	account, err := s.Get("0508888888")
	require.NoError(t, err)
	assert.Contains(t, account.GrantedPaths, "1")

	// Toggling again removes the grant
	require.NoError(t, s.TogglePathGrant(ctx, "0508888888", "1"))
	account, err = s.Get("0508888888")
	require.NoError(t, err)
	assert.NotContains(t, account.GrantedPaths, "1")
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "0509999999"))
	_, err := s.Get("0509999999")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "0509999999"), ErrNotFound)
}
