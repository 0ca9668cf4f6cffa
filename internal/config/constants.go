package config

import "time"

// FileName is the config file looked up in the project root.
const FileName = "aidlc.lua"

// Lua schema globals and field names
const (
	luaGlobalAidlc         = "aidlc"
	luaFieldRulesFolder    = "rules_folder"
	luaFieldCommitWorkflow = "commit_workflow"
	luaFieldGitignoreRules = "gitignore_rules"
	luaFieldGitignoreDocs  = "gitignore_docs"
	luaFieldOverwrite      = "overwrite"
	luaFieldTimeoutSeconds = "timeout_seconds"
)

// Resource limits
const (
	// MaxConfigSize bounds the bytes read from a config file.
	MaxConfigSize = 1 << 20
	// DefaultParseTimeout applies when the context has no deadline.
	DefaultParseTimeout = 5 * time.Second
	// MaxTimeoutSeconds caps timeout_seconds.
	MaxTimeoutSeconds = 3600
	// MaxPathLength caps rules_folder.
	MaxPathLength = 256
)
