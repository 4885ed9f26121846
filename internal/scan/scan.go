// Package scan selects the declarations in a parsed file that are missing
// documentation, filtered by the run configuration.
package scan

import "github.com/julianshen/docwriter/internal/parser"

// Options gates which declaration categories are scanned.
type Options struct {
	ClassDoc           bool
	PublicMethodDoc    bool
	NonPublicMethodDoc bool
}

// Candidates returns the ordered declarations lacking documentation. The
// top-level type comes first when it qualifies; methods follow in declaration
// order, and only when the top-level type is a class with a body (interfaces
// carry no method candidates). The second return is false when the file has no
// top-level class or interface at all.
//
// The sequence is produced once per file per run and never re-scanned after
// insertions, so a file queueing N candidates performs exactly N generation
// calls.
func Candidates(f *parser.File, opts Options) ([]parser.Declaration, bool) {
	top, ok := f.TopLevelType()
	if !ok {
		return nil, false
	}

	var out []parser.Declaration
	if opts.ClassDoc && !top.HasDoc {
		out = append(out, top)
	}

	if !opts.PublicMethodDoc && !opts.NonPublicMethodDoc {
		return out, true
	}
	if top.Interface {
		return out, true
	}

	for _, m := range f.Methods() {
		if m.HasDoc {
			continue
		}
		if (m.Public && opts.PublicMethodDoc) || (!m.Public && opts.NonPublicMethodDoc) {
			out = append(out, m)
		}
	}
	return out, true
}
