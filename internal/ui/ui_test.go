package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestPrinterLines(t *testing.T) {
	p, out, errOut := newTestPrinter()

	p.StepDone("Download complete")
	p.Info("Using cached release v1.0.0")
	p.Warn("modified files")
	p.Error("network failure")

	assert.Equal(t,
		"  ✓ Download complete\n"+
			"  ℹ Using cached release v1.0.0\n"+
			"  ⚠ modified files\n",
		out.String())
	assert.Equal(t, "  ✗ network failure\n", errOut.String())
}

func TestPrinterHeaderAndList(t *testing.T) {
	p, out, _ := newTestPrinter()

	p.Header("Download")
	p.List([]string{"a.md", "b.md"})

	assert.Equal(t, "\nDownload\n    • a.md\n    • b.md\n", out.String())
}

func TestPrinterTree(t *testing.T) {
	p, out, _ := newTestPrinter()

	p.Tree(".kiro/steering", ".kiro")

	assert.Contains(t, out.String(), "  .kiro/steering/\n  ├── aws-aidlc-rules/\n")
	assert.Contains(t, out.String(), "  .kiro/\n  └── aws-aidlc-rule-details/\n")
	assert.Contains(t, out.String(), "operations/")
}

func TestPrinterBanner(t *testing.T) {
	p, out, _ := newTestPrinter()

	p.Banner("1.2.3")

	assert.Contains(t, out.String(), "Workflows Helper")
	assert.Contains(t, out.String(), "v1.2.3")
	assert.Contains(t, out.String(), ProjectURL)
}

func TestPrinterNilWriters(t *testing.T) {
	p := New(nil, nil)

	assert.NotPanics(t, func() {
		p.StepDone("x")
		p.Error("y")
	})
}
