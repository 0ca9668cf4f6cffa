package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/platform"
)

// Parser evaluates aidlc.lua sources with the platform global set.
type Parser struct {
	detector platform.Detector
	logger   *slog.Logger
}

// NewParser creates a new config parser for the running machine.
func NewParser() *Parser {
	return &Parser{detector: platform.NewDetector(), logger: slog.Default()}
}

// WithDetector returns the parser with detector set.
func (p *Parser) WithDetector(detector platform.Detector) *Parser {
	p.detector = detector
	return p
}

// WithLogger returns the parser with logger set.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	p.logger = logger
	return p
}

// Load reads and parses name from fs. A missing file yields an empty
// config and found == false.
func (p *Parser) Load(ctx context.Context, fs billy.Filesystem, name string) (cfg *Config, found bool, err error) {
	info, err := fs.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			p.log().Debug("no project config", "path", name)
			return &Config{}, false, nil
		}
		return nil, false, fmt.Errorf("stat %s: %w", name, err)
	}

	if info.Size() > MaxConfigSize {
		return nil, true, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", name, info.Size(), MaxConfigSize),
		}
	}

	f, err := fs.Open(name)
	if err != nil {
		return nil, true, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", name, err)
	}

	cfg, err = p.ParseString(ctx, string(data))
	if err != nil {
		return nil, true, err
	}

	p.log().Debug("loaded project config", "path", name)
	return cfg, true, nil
}

// ParseString evaluates Lua source and extracts the aidlc table.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if len(luaCode) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxConfigSize),
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		platform.Inject(L, info)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation aborted", Detail: ctxErr.Error()}
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global aidlc table. A source that never assigns
// it is an empty config.
func extractConfig(L *lua.LState) (*Config, error) {
	global := L.GetGlobal(luaGlobalAidlc)
	if global.Type() == lua.LTNil {
		return &Config{}, nil
	}
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "invalid 'aidlc' value",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	cfg := &Config{}
	var err error

	if cfg.RulesFolder, err = stringField(table, luaFieldRulesFolder); err != nil {
		return nil, err
	}
	if cfg.CommitWorkflow, err = stringField(table, luaFieldCommitWorkflow); err != nil {
		return nil, err
	}
	if cfg.GitignoreRules, err = boolField(table, luaFieldGitignoreRules); err != nil {
		return nil, err
	}
	if cfg.GitignoreDocs, err = boolField(table, luaFieldGitignoreDocs); err != nil {
		return nil, err
	}
	if cfg.Overwrite, err = boolField(table, luaFieldOverwrite); err != nil {
		return nil, err
	}
	if cfg.TimeoutSeconds, err = intField(table, luaFieldTimeoutSeconds); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

func stringField(table *lua.LTable, name string) (string, error) {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return v.String(), nil
	default:
		return "", typeError(name, "string", v)
	}
}

func boolField(table *lua.LTable, name string) (*bool, error) {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return nil, nil
	case lua.LTBool:
		b := bool(v.(lua.LBool))
		return &b, nil
	default:
		return nil, typeError(name, "boolean", v)
	}
}

func intField(table *lua.LTable, name string) (int, error) {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return 0, nil
	case lua.LTNumber:
		n := float64(v.(lua.LNumber))
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, &ParseError{
				Message: "invalid config field",
				Detail:  fmt.Sprintf("%s must be a whole number, got %v", name, n),
			}
		}
		return int(n), nil
	default:
		return 0, typeError(name, "number", v)
	}
}

func typeError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: "invalid config field",
		Detail:  fmt.Sprintf("%s must be a %s, got %s", field, want, got.Type()),
	}
}

// FormatError formats a config error for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}

func (p *Parser) log() *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return p.logger
}
