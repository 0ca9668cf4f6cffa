package config

import (
	"bytes"
	"strconv"
	"strings"
)

// Generator renders a Config back to aidlc.lua source.
type Generator struct {
	indent string
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{indent: "  "}
}

// Generate renders cfg. Unset fields are omitted, so the output parses
// back to an equal Config.
func (g *Generator) Generate(cfg *Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer

	buf.WriteString("-- AI-DLC workflows helper project settings\n")
	buf.WriteString("aidlc = {\n")

	if cfg.RulesFolder != "" {
		g.writeField(&buf, luaFieldRulesFolder, g.quoteLuaString(cfg.RulesFolder))
	}
	if cfg.CommitWorkflow != "" {
		g.writeField(&buf, luaFieldCommitWorkflow, g.quoteLuaString(cfg.CommitWorkflow))
	}
	if cfg.GitignoreRules != nil {
		g.writeField(&buf, luaFieldGitignoreRules, strconv.FormatBool(*cfg.GitignoreRules))
	}
	if cfg.GitignoreDocs != nil {
		g.writeField(&buf, luaFieldGitignoreDocs, strconv.FormatBool(*cfg.GitignoreDocs))
	}
	if cfg.Overwrite != nil {
		g.writeField(&buf, luaFieldOverwrite, strconv.FormatBool(*cfg.Overwrite))
	}
	if cfg.TimeoutSeconds > 0 {
		g.writeField(&buf, luaFieldTimeoutSeconds, strconv.Itoa(cfg.TimeoutSeconds))
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) writeField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

// quoteLuaString quotes a string for Lua with proper escaping.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
