package audio

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/fyaic/multimedia-to-note/errors"
)

// Asset is a loaded audio file. It is not modified after Load.
type Asset struct {
	Path string
	Name string
	Data []byte
}

// Load reads path into an Asset.
func Load(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerrors.InputNotFound(path).WithCause(err)
		}
		return nil, goerrors.Internal(err).WithDetail("stage", "load")
	}
	return &Asset{
		Path: path,
		Name: filepath.Base(path),
		Data: data,
	}, nil
}

// Size returns the payload size in bytes.
func (a *Asset) Size() int { return len(a.Data) }

// Base64 returns the standard base64 encoding of the payload.
func (a *Asset) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}
