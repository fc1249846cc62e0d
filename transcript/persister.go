package transcript

import (
	"os"
	"path/filepath"

	"github.com/fyaic/multimedia-to-note/errors"
)

// FileMode is the permission of written transcripts.
const FileMode os.FileMode = 0o644

// Document is one transcript ready to be written.
type Document struct {
	// Source is the audio file the transcript was produced from.
	Source string
	Text   string
}

// OutputName derives the transcript file name from the source file name.
//
//	OutputName("rec/meeting.m4a") == "transcript_meeting.m4a.txt"
func OutputName(source string) string {
	return "transcript_" + filepath.Base(source) + ".txt"
}

// Persister writes transcripts into Dir (the working directory when empty).
type Persister struct {
	Dir string
}

// NewPersister creates a Persister writing into dir.
func NewPersister(dir string) *Persister {
	return &Persister{Dir: dir}
}

// Path returns where the transcript of source is written.
func (p *Persister) Path(source string) string {
	return filepath.Join(p.Dir, OutputName(source))
}

// Persist writes the transcript of source. See Write.
func (p *Persister) Persist(source, text string) (string, error) {
	return p.Write(Document{Source: source, Text: text})
}

// Write writes doc as UTF-8, replacing any existing file, and returns the
// output path. Failures are PERSIST_FAILED.
func (p *Persister) Write(doc Document) (string, error) {
	path := p.Path(doc.Source)
	if err := os.WriteFile(path, []byte(doc.Text), FileMode); err != nil {
		return path, errors.Persist(path, err)
	}
	return path, nil
}
