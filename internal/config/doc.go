// Package config loads the optional per-project aidlc.lua file.
//
// The file is plain Lua evaluated in a sandboxed gopher-lua VM and must
// define a global aidlc table:
//
//	aidlc = {
//	  rules_folder    = ".kiro/steering",
//	  commit_workflow = "conventional",  -- conventional | freeform | none
//	  gitignore_rules = true,
//	  gitignore_docs  = false,
//	  overwrite       = true,
//	  timeout_seconds = 120,
//	}
//
// A read-only platform global describes the host (os, arch, distro,
// is_linux, is_macos, is_windows and when(cond, value)):
//
//	aidlc = {
//	  rules_folder = platform.is_windows and ".amazonq/rules" or ".kiro/steering",
//	}
//
// Every field is optional. Unset fields fall back to command-line flags or,
// in interactive runs, to a prompt.
//
// The sandbox removes os, io, debug and every code loading function, so a
// config can compute values with string, table and math but cannot touch the
// machine. Evaluation is bounded by the caller's context, or by
// DefaultParseTimeout when the context has no deadline.
package config
