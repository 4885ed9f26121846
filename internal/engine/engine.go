// Package engine drives the batch run: it walks the source root, applies the
// scan → prompt → generate → attach pipeline to each file, enforces the
// file-change and error-tolerance budgets, and persists rewritten files.
package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/julianshen/docwriter/internal/comment"
	"github.com/julianshen/docwriter/internal/config"
	"github.com/julianshen/docwriter/internal/logging"
	"github.com/julianshen/docwriter/internal/parser"
	"github.com/julianshen/docwriter/internal/prompt"
	"github.com/julianshen/docwriter/internal/provider"
	"github.com/julianshen/docwriter/internal/scan"
)

// Engine orchestrates one batch run. Files and, within a file, declarations
// are processed strictly one at a time; the budgets are the only early-exit
// mechanism.
type Engine struct {
	cfg    config.Config
	gen    provider.Generator
	parser *parser.Parser
	log    *logging.Logger
}

// New creates an Engine for the given configuration and generation backend.
func New(cfg config.Config, gen provider.Generator, log *logging.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		gen:    gen,
		parser: parser.NewParser(),
		log:    log,
	}
}

// Report summarizes a finished run.
type Report struct {
	FilesScanned int
	FilesChanged int
	Documented   int
	Skipped      int
	Errors       int
}

// String renders the report for the end-of-run log line.
func (r *Report) String() string {
	return fmt.Sprintf("%d files scanned, %d rewritten, %d declarations documented, %d skipped, %d errors tolerated",
		r.FilesScanned, r.FilesChanged, r.Documented, r.Skipped, r.Errors)
}

// Run executes the batch. It returns a non-nil Report even on abort; the
// error is non-nil only for unrecovered conditions (unreadable source root,
// exhausted error budget, persist failure).
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	e.logConfig()

	files, err := listSourceFiles(ctx, e.cfg.SrcDir)
	if err != nil {
		return nil, err
	}

	budget := &Budget{
		FilesLeft:  e.cfg.MaxFilesToChange,
		ErrorsLeft: e.cfg.ToleratedErrors,
	}
	rep := &Report{}

	for _, rel := range files {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}

		path := filepath.Join(e.cfg.SrcDir, rel)
		e.log.Infof("processing %s", path)
		rep.FilesScanned++

		f, documented, err := e.processFile(ctx, path, budget, rep)
		if err != nil {
			// Budget exhausted mid-file: nothing is saved for this file.
			if f != nil {
				f.Close()
			}
			return rep, err
		}
		if f == nil {
			continue
		}

		// Only files with at least one successful attachment are rewritten;
		// untouched files must not produce spurious diffs.
		if documented > 0 {
			if err := e.save(f); err != nil {
				f.Close()
				return rep, err
			}
			rep.FilesChanged++
			if !budget.SpendFile() {
				f.Close()
				e.log.Infof("file-change budget exhausted, stopping")
				break
			}
		}
		f.Close()
	}

	e.log.Infof("done: %s", rep)
	return rep, nil
}

// processFile runs the per-declaration pipeline for one file. Parse and
// generation failures consume the error budget; when it runs out the
// triggering error is returned and the run aborts. The returned File (when
// non-nil) is owned by the caller.
func (e *Engine) processFile(ctx context.Context, path string, b *Budget, rep *Report) (*parser.File, int, error) {
	f, err := e.parser.ParseFile(path)
	if err != nil {
		e.log.Errorf("failed to process %s: %v", path, err)
		rep.Errors++
		if !b.SpendError() {
			return nil, 0, fmt.Errorf("error budget exhausted: %w", err)
		}
		return nil, 0, nil
	}

	candidates, ok := scan.Candidates(f, scan.Options{
		ClassDoc:           e.cfg.ClassDoc,
		PublicMethodDoc:    e.cfg.PublicMethodDoc,
		NonPublicMethodDoc: e.cfg.NonPublicMethodDoc,
	})
	if !ok {
		e.log.Infof("no class or interface is present in %s", path)
		f.Close()
		return nil, 0, nil
	}

	documented := 0
	for _, decl := range candidates {
		e.log.Infof("adding missing Javadoc for %s %s", decl.Kind, decl.Qualified)

		content, err := e.gen.Generate(ctx, prompt.Build(f, decl, e.cfg.Model))
		if err != nil {
			e.log.Errorf("generation failed for %s: %v", decl.Qualified, err)
			rep.Errors++
			if !b.SpendError() {
				return f, documented, fmt.Errorf("error budget exhausted: %w", err)
			}
			continue
		}

		body, ok := comment.Extract(content)
		if !ok {
			// Delimiter-less output is a quality problem, not an
			// infrastructure fault; it does not touch the error budget.
			e.log.Warnf("no comment block in generated output for %s, skipping", decl.Qualified)
			rep.Skipped++
			continue
		}

		var block string
		if decl.Kind == parser.KindType {
			block = comment.TypeBlock(body, e.cfg.Author)
		} else {
			block = comment.Block(body, comment.Indent(f.Line(decl.StartLine)))
		}
		f.InsertBefore(decl, block)
		documented++
		rep.Documented++
	}

	return f, documented, nil
}

// save overwrites the file in place with the printed tree, preserving the
// original mode. A failure here is fatal for the run; silent partial batches
// are worse than a hard stop.
func (e *Engine) save(f *parser.File) error {
	out := f.Print()
	e.log.Infof("writing docs to %s", f.Path)

	if e.log.Enabled(logging.LevelDebug) {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(f.Source()), string(out), false)
		e.log.Debugf("changes for %s:\n%s", f.Path,
			dmp.PatchToText(dmp.PatchMake(string(f.Source()), diffs)))
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(f.Path, out, mode); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return nil
}

func (e *Engine) logConfig() {
	e.log.Infof("srcDir: %s", e.cfg.SrcDir)
	e.log.Infof("model: %s", e.cfg.Model)
	e.log.Infof("author: %s", e.cfg.Author)
	e.log.Infof("maxFilesToChange: %d", e.cfg.MaxFilesToChange)
	e.log.Infof("toleratedErrors: %d", e.cfg.ToleratedErrors)
	e.log.Infof("classDoc: %t", e.cfg.ClassDoc)
	e.log.Infof("publicMethodDoc: %t", e.cfg.PublicMethodDoc)
	e.log.Infof("nonPublicMethodDoc: %t", e.cfg.NonPublicMethodDoc)
}
