package vault

import (
	stderrors "errors"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/validation"
)

// Separator is inserted between the target note and the appended source.
func Separator(title string) string {
	return "\n\n---\n\n## " + title + "\n\n"
}

// MergeResult describes a completed merge.
type MergeResult struct {
	Target string
	// Size is the byte length of the merged target.
	Size int
}

// Merge appends the note at source to the note at target under a level-two
// heading. Both files must exist and hold UTF-8 text. The target keeps its
// permissions.
func Merge(source, target, title string) (*MergeResult, error) {
	if err := validation.New().
		Required("source", source).
		Required("target", target).
		Required("title", title).
		Err(); err != nil {
		return nil, err
	}

	src, err := readNote(source)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, notFoundOr(target, err)
	}
	dst, err := readNote(target)
	if err != nil {
		return nil, err
	}

	merged := make([]byte, 0, len(dst)+len(src)+len(title)+16)
	merged = append(merged, dst...)
	merged = append(merged, Separator(title)...)
	merged = append(merged, src...)

	if err := os.WriteFile(target, merged, info.Mode().Perm()); err != nil {
		return nil, errors.Persist(target, err)
	}
	return &MergeResult{Target: target, Size: len(merged)}, nil
}

func readNote(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFoundOr(path, err)
	}
	if !utf8.Valid(data) {
		return nil, errors.InvalidInput("path", "note is not valid UTF-8").WithDetail("path", path)
	}
	return data, nil
}

func notFoundOr(path string, err error) error {
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.InputNotFound(path)
	}
	return errors.Internal(err).WithDetail("path", path)
}
