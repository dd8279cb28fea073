// Package users manages the persisted user accounts: credentials,
// roles, per-path access grants, and the granular upload/delete/download
// permissions. Passwords are stored as bcrypt hashes.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/blob"
	"github.com/ymtools/ivrdir/pkg/directory"
)

// blobKey is where the account list is persisted.
const blobKey = "users"

var (
	// ErrInvalidCredentials is returned when the id/password pair does
	// not match an account. The same error covers unknown ids so a
	// caller cannot probe which ids exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned by management operations for unknown ids.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists is returned when creating an account whose id is
	// taken.
	ErrAlreadyExists = errors.New("user already exists")
)

// Account is one persisted user record. PasswordHash never leaves the
// package through the JSON API types; it is only serialized into the
// blob store.
type Account struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"displayName"`
	Role         directory.Role `json:"role"`
	GrantedPaths []string       `json:"grantedPaths"`
	CanUpload    bool           `json:"canUpload"`
	CanDelete    bool           `json:"canDelete"`
	CanDownload  bool           `json:"canDownload"`
	PasswordHash string         `json:"passwordHash"`
}

// User converts the account to its policy-evaluation form.
func (a Account) User() directory.User {
	paths := make([]string, len(a.GrantedPaths))
	copy(paths, a.GrantedPaths)
	return directory.User{
		ID:           a.ID,
		DisplayName:  a.DisplayName,
		Role:         a.Role,
		GrantedPaths: paths,
		CanUpload:    a.CanUpload,
		CanDelete:    a.CanDelete,
		CanDownload:  a.CanDownload,
	}
}

// Store holds the account list in memory and writes changes through to
// the blob store.
//
// Thread safety: all operations are guarded by a read-write mutex.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]Account
	blobs    blob.Store
}

// Load creates a Store from the persisted account list. When no list
// has been persisted yet (fresh deployment), the store is seeded with
// the default accounts and the seed is written through.
func Load(ctx context.Context, blobs blob.Store) (*Store, error) {
	s := &Store{
		accounts: make(map[string]Account),
		blobs:    blobs,
	}

	data, err := blobs.Load(ctx, blobKey)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		logger.Info("No user accounts persisted, seeding defaults")
		seed, err := seedAccounts()
		if err != nil {
			return nil, err
		}
		for _, a := range seed {
			s.accounts[a.ID] = a
		}
		s.persist(ctx)
		return s, nil
	case err != nil:
		return nil, err
	}

	var list []Account
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for _, a := range list {
		s.accounts[a.ID] = a
	}
	return s, nil
}

// Authenticate verifies an id/password pair and returns the matching
// user on success.
func (s *Store) Authenticate(id, password string) (directory.User, error) {
	s.mu.RLock()
	account, ok := s.accounts[id]
	s.mu.RUnlock()

	if !ok {
		// Burn a comparison anyway so unknown ids take as long as
		// wrong passwords.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(password))
		return directory.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return directory.User{}, ErrInvalidCredentials
	}
	return account.User(), nil
}

// Get returns the account with the given id.
func (s *Store) Get(id string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

// List returns all accounts sorted by id.
func (s *Store) List() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sortAccounts(out)
	return out
}

// Create adds a new account with the given plaintext password. Admin
// accounts always carry the full permission set regardless of the flags
// passed in.
func (s *Store) Create(ctx context.Context, account Account, password string) error {
	if account.ID == "" || account.DisplayName == "" || password == "" {
		return directory.NewError(directory.ErrInvalidArgument, "id, display name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account.PasswordHash = string(hash)

	if account.Role == directory.RoleAdmin {
		account.CanUpload = true
		account.CanDelete = true
		account.CanDownload = true
	}
	if account.GrantedPaths == nil {
		account.GrantedPaths = []string{}
	}

	s.mu.Lock()
	if _, exists := s.accounts[account.ID]; exists {
		s.mu.Unlock()
		return ErrAlreadyExists
	}
	s.accounts[account.ID] = account
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// SetPassword replaces the password of an existing account.
func (s *Store) SetPassword(ctx context.Context, id, password string) error {
	if password == "" {
		return directory.NewError(directory.ErrInvalidArgument, "password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.update(ctx, id, func(a *Account) {
		a.PasswordHash = string(hash)
	})
}

// SetPermissions replaces the granular permission flags of an account.
func (s *Store) SetPermissions(ctx context.Context, id string, canUpload, canDelete, canDownload bool) error {
	return s.update(ctx, id, func(a *Account) {
		a.CanUpload = canUpload
		a.CanDelete = canDelete
		a.CanDownload = canDownload
	})
}

// TogglePathGrant adds path to the account's grants when absent and
// removes it when present, mirroring a checkbox in a permissions
// editor.
func (s *Store) TogglePathGrant(ctx context.Context, id, path string) error {
	if path == "" {
		return directory.NewError(directory.ErrInvalidArgument, "path cannot be empty")
	}

	return s.update(ctx, id, func(a *Account) {
		for i, p := range a.GrantedPaths {
			if p == path {
				a.GrantedPaths = append(a.GrantedPaths[:i], a.GrantedPaths[i+1:]...)
				return
			}
		}
		a.GrantedPaths = append(a.GrantedPaths, path)
	})
}

// Delete removes an account. Deleting an unknown id is an error so the
// caller can tell the client.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.accounts[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.accounts, id)
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

func (s *Store) update(ctx context.Context, id string, fn func(*Account)) error {
	s.mu.Lock()
	account, ok := s.accounts[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	fn(&account)
	s.accounts[id] = account
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// persist writes the account list through to the blob store. Failures
// are logged and swallowed: the in-memory list stays authoritative for
// the process lifetime.
func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	list := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		list = append(list, a)
	}
	s.mu.RUnlock()
	sortAccounts(list)

	data, err := json.Marshal(list)
	if err != nil {
		logger.Error("Failed to encode user accounts: %v", err)
		return
	}
	if err := s.blobs.Save(ctx, blobKey, data); err != nil {
		logger.Warn("Failed to persist user accounts: %v", err)
	}
}

func sortAccounts(list []Account) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
