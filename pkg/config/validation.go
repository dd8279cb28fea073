package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom
// rules.
//
// Uses go-playground/validator for declarative validation via struct
// tags, with additional custom validation for rules that cannot be
// expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The remote source is useless without a credential
	if cfg.Remote.Enabled && cfg.Remote.Token == "" {
		return fmt.Errorf("remote: token is required when the remote source is enabled (set IVRDIR_REMOTE_TOKEN)")
	}

	// A replacement dataset must exist at startup, not at first listing
	if cfg.Baseline.DatasetFile != "" {
		if _, err := os.Stat(cfg.Baseline.DatasetFile); err != nil {
			return fmt.Errorf("baseline: dataset file %q is not readable: %w", cfg.Baseline.DatasetFile, err)
		}
	}

	switch cfg.Blob.Type {
	case "badger":
		if pathOption(cfg.Blob.Badger) == "" {
			return fmt.Errorf("blob: badger store requires a path")
		}
	case "s3":
		if cfg.Blob.S3["bucket"] == nil || cfg.Blob.S3["bucket"] == "" {
			return fmt.Errorf("blob: s3 store requires a bucket")
		}
		if cfg.Blob.S3["region"] == nil || cfg.Blob.S3["region"] == "" {
			return fmt.Errorf("blob: s3 store requires a region")
		}
	}

	return nil
}

func pathOption(options map[string]any) string {
	if options == nil {
		return ""
	}
	path, _ := options["path"].(string)
	return path
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
