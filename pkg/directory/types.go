// Package directory implements the virtual directory core: the entry and
// user model, the path-hierarchy access policy, and the service that merges
// a remote or baseline listing with the local overlay.
package directory

// Kind classifies a directory entry.
type Kind int

const (
	// KindFolder is a directory row. Folders never carry a size or a
	// content URL.
	KindFolder Kind = iota

	// KindMedia is a file row with a known audio extension.
	KindMedia

	// KindOther is any other file row.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindMedia:
		return "media"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Entry is a single file-or-folder record returned by a listing or search.
//
// Path uniquely identifies the entry within a listing session and is the key
// for overlay deletions and metadata overrides. Entries are never removed
// from the baseline dataset; a deleted entry is masked by the overlay.
type Entry struct {
	// ID is an opaque identifier for UI bookkeeping. It is not stable
	// across listings of remote-derived entries.
	ID string `json:"id"`

	// Name is the display name. For remote file rows this is the remote
	// display label when one is set, otherwise the file name.
	Name string `json:"name"`

	// Path addresses the entry in the IVR tree (see package ivrpath).
	Path string `json:"path"`

	Kind Kind `json:"kind"`

	// SizeBytes is zero for folders.
	SizeBytes uint64 `json:"sizeBytes,omitempty"`

	// ModifiedAt is the display date (dd.mm.yyyy). "---" when unknown.
	ModifiedAt string `json:"modifiedAt"`

	// FullTimestamp is the detailed timestamp (dd.mm.yyyy hh:mm:ss).
	FullTimestamp string `json:"fullTimestamp,omitempty"`

	// ContentURL is the download/stream source for file entries. It is
	// synthesized by the source and never fetched by this core.
	ContentURL string `json:"contentURL,omitempty"`

	// Metadata is free-text annotation: the remote display label, the
	// baseline description, or a user-supplied override.
	Metadata string `json:"metadata,omitempty"`

	CreatedBy string `json:"createdBy,omitempty"`

	// Extension is the file extension without the dot, lowercase.
	Extension string `json:"extension,omitempty"`

	// ChildFolders and ChildFiles are direct-child counts, filled for
	// folder entries on baseline-derived listings only.
	ChildFolders int `json:"childFolders,omitempty"`
	ChildFiles   int `json:"childFiles,omitempty"`
}

// audioExtensions are the file extensions classified as KindMedia.
var audioExtensions = map[string]bool{
	"wav": true,
	"mp3": true,
	"wma": true,
}

// KindForExtension classifies a file by its lowercase extension
// (without the dot).
func KindForExtension(ext string) Kind {
	if audioExtensions[ext] {
		return KindMedia
	}
	return KindOther
}

// Role is a user's access role.
type Role int

const (
	// RoleStandard users see only entries covered by their granted paths.
	RoleStandard Role = iota

	// RoleAdmin users see everything; granted paths and the stored
	// permission booleans are ignored.
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleStandard:
		return "standard"
	default:
		return "unknown"
	}
}

// User is an account with a role, a set of granted path prefixes and
// per-operation permission flags.
type User struct {
	// ID is the system identifier used to log in.
	ID string `json:"id"`

	DisplayName string `json:"displayName"`

	Role Role `json:"role"`

	// GrantedPaths lists the path prefixes a standard user may access.
	// Ignored for admins.
	GrantedPaths []string `json:"grantedPaths"`

	CanUpload   bool `json:"canUpload"`
	CanDelete   bool `json:"canDelete"`
	CanDownload bool `json:"canDownload"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
