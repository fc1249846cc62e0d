package vault

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fyaic/multimedia-to-note/errors"
)

// NoteExt is the extension of note files.
const NoteExt = ".md"

// Match is a note whose file name contains one of the search terms.
type Match struct {
	Path string
	// Term is the first term, in argument order, found in the file name.
	Term string
}

// Find walks root and returns the notes whose file name contains any of
// terms. Matching is case-sensitive and results follow lexical walk order.
func Find(root string, terms []string) ([]Match, error) {
	terms = nonEmpty(terms)
	if len(terms) == 0 {
		return nil, errors.InvalidInput("terms", "at least one search term is required")
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.InputNotFound(root)
	}

	var matches []Match
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if stderrors.Is(err, fs.ErrPermission) && path != root {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), NoteExt) {
			return nil
		}
		if term, ok := firstTerm(d.Name(), terms); ok {
			matches = append(matches, Match{Path: path, Term: term})
		}
		return nil
	})
	if err != nil {
		return matches, errors.Internal(err).WithDetail("root", root)
	}
	return matches, nil
}

func firstTerm(name string, terms []string) (string, bool) {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return t, true
		}
	}
	return "", false
}

func nonEmpty(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
