package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func folder(path string) Entry {
	return Entry{Path: path, Name: path, Kind: KindFolder}
}

func media(path string) Entry {
	return Entry{Path: path, Name: path, Kind: KindMedia}
}

func TestVisible_Admin(t *testing.T) {
	admin := User{ID: "1", Role: RoleAdmin}

	// Admins see everything regardless of grants and flags
	assert.True(t, Visible(folder("2"), admin))
	assert.True(t, Visible(media("9/9/9.wav"), admin))
}

func TestVisible_GrantCoversEntry(t *testing.T) {
	user := User{ID: "u", Role: RoleStandard, GrantedPaths: []string{"2/1"}}

	assert.True(t, Visible(folder("2/1"), user))
	assert.True(t, Visible(media("2/1/001.wav"), user))
	assert.True(t, Visible(folder("2/1/5"), user))

	assert.False(t, Visible(media("2/002.wav"), user))
	assert.False(t, Visible(folder("3"), user))
}

func TestVisible_AncestorOfGrant(t *testing.T) {
	user := User{ID: "u", Role: RoleStandard, GrantedPaths: []string{"2/1"}}

	// Folder "2" sits above the grant and must stay reachable
	assert.True(t, Visible(folder("2"), user))

	// Sibling folder "2/2" is neither covered nor above the grant
	assert.False(t, Visible(folder("2/2"), user))

	// Files directly under "2" are not folders, so the ancestor rule
	// does not apply to them
	assert.False(t, Visible(media("2/001.wav"), user))
}

func TestVisible_MultipleGrants(t *testing.T) {
	user := User{ID: "u", Role: RoleStandard, GrantedPaths: []string{"1", "3"}}

	assert.True(t, Visible(folder("1"), user))
	assert.True(t, Visible(media("3/001.wav"), user))
	assert.False(t, Visible(folder("2"), user))
}

func TestVisible_NoGrants(t *testing.T) {
	user := User{ID: "u", Role: RoleStandard}

	assert.False(t, Visible(folder("1"), user))
	assert.False(t, Visible(media("1/001.wav"), user))
}

func TestPermissionPredicates(t *testing.T) {
	// Admin overrides stored booleans
	admin := User{Role: RoleAdmin, CanUpload: false, CanDelete: false, CanDownload: false}
	assert.True(t, CanUpload(admin))
	assert.True(t, CanDelete(admin))
	assert.True(t, CanDownload(admin))

	user := User{Role: RoleStandard, CanUpload: true, CanDelete: false, CanDownload: true}
	assert.True(t, CanUpload(user))
	assert.False(t, CanDelete(user))
	assert.True(t, CanDownload(user))
}
