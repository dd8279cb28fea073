package directory

import "github.com/ymtools/ivrdir/pkg/ivrpath"

// Visible reports whether the user may see the entry in listings and
// search results.
//
// Admins see everything. A standard user sees an entry when at least one
// granted path either covers the entry, or lies somewhere beneath the entry
// and the entry is a folder. The second case is what keeps a granted
// subtree reachable: a user granted "2/1" must be able to open folder "2"
// to navigate into it, even though nothing directly under "2" is granted.
func Visible(entry Entry, user User) bool {
	if user.IsAdmin() {
		return true
	}

	for _, grant := range user.GrantedPaths {
		if grantCoversEntry(grant, entry) || entryIsAncestorOfGrant(entry, grant) {
			return true
		}
	}
	return false
}

// grantCoversEntry reports whether the entry is the granted path itself or
// nested anywhere beneath it.
func grantCoversEntry(grant string, entry Entry) bool {
	return ivrpath.IsAncestorOrSelf(grant, entry.Path)
}

// entryIsAncestorOfGrant reports whether the entry is a folder sitting above
// the granted path. Such folders are listed so the grant stays reachable by
// navigation, without conferring rights over their other contents.
func entryIsAncestorOfGrant(entry Entry, grant string) bool {
	return entry.Kind == KindFolder && ivrpath.IsAncestorOrSelf(entry.Path, grant)
}

// CanUpload reports whether the user may upload files.
func CanUpload(user User) bool {
	return user.IsAdmin() || user.CanUpload
}

// CanDelete reports whether the user may delete entries.
func CanDelete(user User) bool {
	return user.IsAdmin() || user.CanDelete
}

// CanDownload reports whether the user may download file content.
func CanDownload(user User) bool {
	return user.IsAdmin() || user.CanDownload
}
