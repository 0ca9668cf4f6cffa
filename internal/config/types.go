package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/patch"
)

// Config holds the answers a project pins in aidlc.lua. Nil pointers and
// empty strings mean the field was not set.
type Config struct {
	RulesFolder    string
	CommitWorkflow string
	GitignoreRules *bool
	GitignoreDocs  *bool
	Overwrite      *bool
	TimeoutSeconds int
}

// Validate checks field values. A zero Config is valid.
func (c *Config) Validate() error {
	if c.RulesFolder != "" {
		if err := ValidateRulesFolder(c.RulesFolder); err != nil {
			return &ValidationError{Field: luaFieldRulesFolder, Message: err.Error()}
		}
	}

	if c.CommitWorkflow != "" {
		if _, err := patch.ParseCommitWorkflow(c.CommitWorkflow); err != nil {
			return &ValidationError{Field: luaFieldCommitWorkflow, Message: err.Error()}
		}
	}

	if c.TimeoutSeconds < 0 || c.TimeoutSeconds > MaxTimeoutSeconds {
		return &ValidationError{
			Field:   luaFieldTimeoutSeconds,
			Message: fmt.Sprintf("must be between 0 and %d (got %d)", MaxTimeoutSeconds, c.TimeoutSeconds),
		}
	}

	return nil
}

// Workflow returns the parsed commit workflow and whether one was set.
func (c *Config) Workflow() (patch.CommitWorkflow, bool) {
	if c.CommitWorkflow == "" {
		return 0, false
	}
	wf, err := patch.ParseCommitWorkflow(c.CommitWorkflow)
	if err != nil {
		return 0, false
	}
	return wf, true
}

// Timeout returns timeout_seconds as a duration, zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// ValidateRulesFolder checks that a rules folder stays inside the project:
// it must be relative and must not contain a ".." segment.
func ValidateRulesFolder(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if len(path) > MaxPathLength {
		return fmt.Errorf("path too long (%d chars, max %d)", len(path), MaxPathLength)
	}

	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) || filepath.VolumeName(path) != "" {
		return fmt.Errorf("absolute paths not allowed: %s", path)
	}

	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return fmt.Errorf("path traversal not allowed: %s", path)
		}
	}

	return nil
}
