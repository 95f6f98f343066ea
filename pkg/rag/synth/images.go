package synth

import (
	"encoding/base64"
	"os"
	"path/filepath"
)

// ImageLoader resolves a stored image reference to a base64 payload suitable
// for a multimodal model call.
type ImageLoader interface {
	Load(fileURL string) (string, error)
}

// FileImageLoader reads images from the local media directory. Only the base
// name of the stored URL is used, so both absolute URLs and bare filenames
// resolve to the same file.
type FileImageLoader struct {
	MediaRoot string
}

var _ ImageLoader = &FileImageLoader{}

func NewFileImageLoader(mediaRoot string) *FileImageLoader {
	return &FileImageLoader{MediaRoot: mediaRoot}
}

func (l *FileImageLoader) Load(fileURL string) (string, error) {
	path := filepath.Join(l.MediaRoot, filepath.Base(fileURL))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
