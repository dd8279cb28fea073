package directory

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/ivrpath"
)

// uploadNumberRe matches the numeric prefix of generated file names
// ("006.wav" -> 6). Names without a dot never match, like folders.
var uploadNumberRe = regexp.MustCompile(`^(\d+)\.`)

// Upload stores fileBytes as the next numbered file under path.
//
// The target name is derived from existingSiblings: non-folder siblings
// whose name starts with a numeric prefix before the extension yield a
// maximum, and the new file is named max+1 zero-padded to three digits,
// keeping the original extension. With no numeric siblings, numbering
// starts at 000.
//
// The remote write is attempted when a remote source is configured.
// Regardless of the outcome, when the remote did not itself confirm
// success a local creation is recorded so the listing reflects the upload
// immediately. The optimistic entry is not reconciled against a later real
// remote success; a duplicate may appear if the remote write did land.
func (s *Service) Upload(ctx context.Context, path string, fileBytes []byte, fileName string, existingSiblings []Entry, user User) (Entry, error) {
	if !CanUpload(user) {
		return Entry{}, NewError(ErrPermissionDenied, "user may not upload files")
	}
	if len(fileBytes) == 0 {
		return Entry{}, NewError(ErrInvalidArgument, "upload payload is empty")
	}

	ext := extensionOf(fileName)
	newName := nextUploadName(existingSiblings, ext)
	targetPath := ivrpath.Join(path, newName)

	remoteConfirmed := false
	if s.remote != nil {
		if err := s.remote.Create(ctx, path, newName, fileBytes); err != nil {
			logger.Warn("Remote upload of %q failed, keeping local copy: %v", targetPath, err)
		} else {
			remoteConfirmed = true
		}
	}

	createdBy := user.DisplayName
	if createdBy == "" {
		createdBy = "מערכת"
	}

	now := s.now()
	entry := Entry{
		ID:            "upload-" + uuid.NewString(),
		Name:          newName,
		Path:          targetPath,
		Kind:          KindForExtension(ext),
		SizeBytes:     uint64(len(fileBytes)),
		ModifiedAt:    now.Format("02.01.2006"),
		FullTimestamp: now.Format("02.01.2006 15:04:05"),
		CreatedBy:     createdBy,
		Extension:     ext,
	}

	if remoteConfirmed {
		if cu, ok := s.remote.(interface{ ContentURL(string) string }); ok {
			entry.ContentURL = cu.ContentURL(targetPath)
		}
	} else {
		s.overlay.RecordCreation(ctx, entry)
	}

	s.metrics.UploadRecorded(remoteConfirmed)
	return entry, nil
}

// Delete masks path locally and best-effort deletes it on the remote.
//
// The local masking is unconditional and authoritative for the UI; a remote
// failure is logged, not surfaced, and never rolls the masking back.
// Deleting the same path twice is a no-op.
func (s *Service) Delete(ctx context.Context, path string, user User) error {
	if !CanDelete(user) {
		return NewError(ErrPermissionDenied, "user may not delete entries")
	}
	if path == "" {
		return NewError(ErrInvalidArgument, "cannot delete the root")
	}

	s.overlay.RecordDeletion(ctx, path)

	remoteConfirmed := false
	if s.remote != nil {
		if err := s.remote.Delete(ctx, path); err != nil {
			logger.Warn("Remote delete of %q failed, local masking stands: %v", path, err)
		} else {
			remoteConfirmed = true
		}
	}

	s.metrics.DeleteRecorded(remoteConfirmed)
	return nil
}

// nextUploadName computes the zero-padded name for the next upload among
// siblings.
func nextUploadName(siblings []Entry, ext string) string {
	max := -1
	for _, e := range siblings {
		if e.Kind == KindFolder {
			continue
		}
		m := uploadNumberRe.FindStringSubmatch(ivrpath.Base(e.Path))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	name := fmt.Sprintf("%03d", max+1)
	if ext != "" {
		name += "." + ext
	}
	return name
}

// extensionOf returns the lowercase extension of name without the dot,
// or "" when name has none.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
