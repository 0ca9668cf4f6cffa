package config

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestGenerator_Generate_RoundTrip(t *testing.T) {
	yes, no := true, false
	cfg := &Config{
		RulesFolder:    `.kiro/"steering"`,
		CommitWorkflow: "none",
		GitignoreRules: &yes,
		GitignoreDocs:  &no,
		Overwrite:      &yes,
		TimeoutSeconds: 45,
	}

	src, err := NewGenerator().Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := NewParser().ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseString(Generate()) error = %v\n%s", err, src)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestGenerator_Generate_OmitsUnset(t *testing.T) {
	src, err := NewGenerator().Generate(&Config{RulesFolder: ".cursor/rules"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.Contains(src, `rules_folder = ".cursor/rules",`) {
		t.Errorf("Generate() missing rules_folder:\n%s", src)
	}
	for _, field := range []string{"commit_workflow", "gitignore_rules", "overwrite", "timeout_seconds"} {
		if strings.Contains(src, field) {
			t.Errorf("Generate() contains unset field %s:\n%s", field, src)
		}
	}
}

func TestGenerator_Generate_Invalid(t *testing.T) {
	if _, err := NewGenerator().Generate(&Config{RulesFolder: "../x"}); err == nil {
		t.Error("Generate() error = nil, want validation error")
	}
}

func FuzzGenerator_QuoteLuaString(f *testing.F) {
	f.Add("hello")
	f.Add(`say "hello"`)
	f.Add("line1\nline2")
	f.Add(`C:\\Users\\test`)

	gen := NewGenerator()

	f.Fuzz(func(t *testing.T, input string) {
		quoted := gen.quoteLuaString(input)
		if len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
			t.Errorf("quoteLuaString(%q) = %q, invalid format", input, quoted)
		}
	})
}
