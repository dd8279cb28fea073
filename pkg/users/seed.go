package users

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/ymtools/ivrdir/pkg/directory"
)

// seedAccounts builds the default account set used on first start: one
// admin and two standard users exercising different grant and permission
// combinations. Deployments are expected to change these passwords.
func seedAccounts() ([]Account, error) {
	specs := []struct {
		account  Account
		password string
	}{
		{
			account: Account{
				ID:           "1",
				DisplayName:  "מנהל ראשי",
				Role:         directory.RoleAdmin,
				GrantedPaths: []string{},
				CanUpload:    true,
				CanDelete:    true,
				CanDownload:  true,
			},
			password: "1",
		},
		{
			account: Account{
				ID:           "0509999999",
				DisplayName:  "יוסי כהן",
				Role:         directory.RoleStandard,
				GrantedPaths: []string{"1", "1/1"},
				CanDownload:  true,
			},
			password: "1234",
		},
		{
			account: Account{
				ID:           "0508888888",
				DisplayName:  "דוד לוי",
				Role:         directory.RoleStandard,
				GrantedPaths: []string{"2", "3"},
				CanUpload:    true,
			},
			password: "1234",
		},
	}

	out := make([]Account, 0, len(specs))
	for _, spec := range specs {
		hash, err := bcrypt.GenerateFromPassword([]byte(spec.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		spec.account.PasswordHash = string(hash)
		out = append(out, spec.account)
	}
	return out, nil
}
