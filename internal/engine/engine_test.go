package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/docwriter/internal/config"
	"github.com/julianshen/docwriter/internal/logging"
	"github.com/julianshen/docwriter/internal/provider"
)

// fakeGenerator counts calls and answers with a fixed reply function.
type fakeGenerator struct {
	calls int
	reply func(req provider.CompletionRequest) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, req provider.CompletionRequest) (string, error) {
	g.calls++
	return g.reply(req)
}

func staticReply(s string) func(provider.CompletionRequest) (string, error) {
	return func(provider.CompletionRequest) (string, error) { return s, nil }
}

func testConfig(dir string) config.Config {
	cfg := config.DefaultConfig()
	cfg.SrcDir = dir
	cfg.Author = "tester"
	return cfg
}

func newTestEngine(cfg config.Config, gen provider.Generator) *Engine {
	return New(cfg, gen, logging.NewWithWriter(logging.LevelError, io.Discard))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const undocumentedAlpha = `public class Alpha {
}
`

const documentedBeta = `/**
 * Documented already.
 */
public class Beta {
}
`

func TestEndToEndTwoFiles(t *testing.T) {
	dir := t.TempDir()
	alphaPath := writeFile(t, dir, "Alpha.java", undocumentedAlpha)
	betaPath := writeFile(t, dir, "Beta.java", documentedBeta)

	gen := &fakeGenerator{reply: staticReply("/**\n * Describes alpha.\n */")}
	cfg := testConfig(dir)
	cfg.MaxFilesToChange = 1

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, rep.FilesChanged)
	assert.Equal(t, 1, rep.Documented)

	alpha := readFile(t, alphaPath)
	assert.True(t, strings.HasPrefix(alpha, "/**\n"), "comment must precede the class: %q", alpha)
	assert.Contains(t, alpha, " * Describes alpha.")
	assert.Contains(t, alpha, " * @author tester")
	assert.Contains(t, alpha, "public class Alpha {\n}\n")

	// The documented file is left byte-for-byte untouched.
	assert.Equal(t, documentedBeta, readFile(t, betaPath))
}

func TestSecondRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Alpha.java", undocumentedAlpha)

	gen := &fakeGenerator{reply: staticReply("/** Describes alpha. */")}
	cfg := testConfig(dir)

	_, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls)
	first := readFile(t, path)

	// A fresh run over the now-documented tree generates nothing.
	gen2 := &fakeGenerator{reply: staticReply("/** Should never be used. */")}
	rep, err := newTestEngine(cfg, gen2).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, gen2.calls)
	assert.Equal(t, 0, rep.FilesChanged)
	assert.Equal(t, first, readFile(t, path))
}

func TestSelectiveMethodScanning(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Service.java", `public class Service {

    public void start() {
    }

    private void cleanup() {
    }
}
`)

	gen := &fakeGenerator{reply: staticReply("/** Starts the service. */")}
	cfg := testConfig(dir)
	cfg.ClassDoc = false
	cfg.PublicMethodDoc = true

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, rep.Documented)

	out := readFile(t, path)
	// Indentation fidelity: delimiters at the method's column, interior one
	// space further in.
	assert.Contains(t, out, "    /**\n     * Starts the service.\n    */\n    public void start()")
	// The private method stays untouched.
	assert.Contains(t, out, "}\n\n    private void cleanup() {")
	assert.Equal(t, 1, strings.Count(out, "/**"))
}

func TestGenerationErrorsExhaustBudget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Alpha.java", undocumentedAlpha)
	writeFile(t, dir, "Gamma.java", "public class Gamma {\n}\n")

	gen := &fakeGenerator{reply: func(provider.CompletionRequest) (string, error) {
		return "", errors.New("backend down")
	}}
	cfg := testConfig(dir)
	cfg.MaxFilesToChange = 10
	cfg.ToleratedErrors = 2

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error budget exhausted")
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, 2, rep.Errors)
	assert.Equal(t, 0, rep.FilesChanged)
}

func TestGenerationErrorToleratedWithinBudget(t *testing.T) {
	dir := t.TempDir()
	alphaPath := writeFile(t, dir, "Alpha.java", undocumentedAlpha)
	gammaPath := writeFile(t, dir, "Gamma.java", "public class Gamma {\n}\n")

	// First call fails, second succeeds.
	gen := &fakeGenerator{}
	gen.reply = func(provider.CompletionRequest) (string, error) {
		if gen.calls == 1 {
			return "", errors.New("transient")
		}
		return "/** Describes gamma. */", nil
	}
	cfg := testConfig(dir)
	cfg.MaxFilesToChange = 10
	cfg.ToleratedErrors = 5

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Errors)
	assert.Equal(t, 1, rep.FilesChanged)
	assert.Equal(t, undocumentedAlpha, readFile(t, alphaPath))
	assert.Contains(t, readFile(t, gammaPath), "Describes gamma.")
}

func TestExtractionFailureDoesNotConsumeErrorBudget(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Alpha.java", undocumentedAlpha)

	gen := &fakeGenerator{reply: staticReply("no comment delimiters here")}
	cfg := testConfig(dir)
	cfg.ToleratedErrors = 1

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 0, rep.Errors)
	assert.Equal(t, 0, rep.FilesChanged)
	assert.Equal(t, undocumentedAlpha, readFile(t, path))
}

func TestFileBudgetBoundsRewrites(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", "public class A {\n}\n")
	writeFile(t, dir, "B.java", "public class B {\n}\n")
	cPath := writeFile(t, dir, "C.java", "public class C {\n}\n")

	gen := &fakeGenerator{reply: staticReply("/** Doc. */")}
	cfg := testConfig(dir)
	cfg.MaxFilesToChange = 2

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.FilesChanged)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, "public class C {\n}\n", readFile(t, cPath))
}

func TestParseErrorConsumesErrorBudget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Broken.java", "public class Broken {{{")
	goodPath := writeFile(t, dir, "Good.java", "public class Good {\n}\n")

	gen := &fakeGenerator{reply: staticReply("/** Doc. */")}
	cfg := testConfig(dir)
	cfg.MaxFilesToChange = 10
	cfg.ToleratedErrors = 5

	rep, err := newTestEngine(cfg, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Errors)
	assert.Equal(t, 1, rep.FilesChanged)
	assert.Contains(t, readFile(t, goodPath), "/**")
}

func TestFileWithoutTopLevelTypeIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Empty.java", "package com.example;\n")

	gen := &fakeGenerator{reply: staticReply("/** Doc. */")}
	rep, err := newTestEngine(testConfig(dir), gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, rep.FilesChanged)
	assert.Equal(t, "package com.example;\n", readFile(t, path))
}

func TestUnreadableSourceRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))
	gen := &fakeGenerator{reply: staticReply("/** Doc. */")}
	_, err := newTestEngine(cfg, gen).Run(context.Background())
	require.Error(t, err)
}

func TestNonJavaFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not java")
	writeFile(t, dir, "script.py", "print('x')")

	gen := &fakeGenerator{reply: staticReply("/** Doc. */")}
	rep, err := newTestEngine(testConfig(dir), gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.FilesScanned)
	assert.Equal(t, 0, gen.calls)
}
