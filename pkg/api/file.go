package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"
)

// FileParam is the form field holding the uploaded file.
const FileParam = "file"

var remoteFile = regexp.MustCompile(
	`^(?:ftp|https?|s3|gs):|^data:(?:[\w-]+/[\w.+-]+)?(?:;[\w-]+=[\w-]+)*;base64,[A-Za-z0-9+/=\s]+$`)

// IsRemoteFile reports whether s is a URL or data URI that the API fetches
// itself rather than a local path.
func IsRemoteFile(s string) bool {
	return remoteFile.MatchString(s)
}

// FileSource is the file part of an upload request.
type FileSource struct {
	Remote   string // URL or data URI passed through as a plain field
	Name     string // File name of local content
	Contents []byte // Local content
}

// NewFileSource resolves an upload file value. Accepted values are a remote
// URL or data URI, a path on fs, []byte contents and an io.Reader. Readers
// with a Name method (such as *os.File and afero.File) keep their base name.
func NewFileSource(fs afero.Fs, file any) (*FileSource, error) {
	switch f := file.(type) {
	case nil:
		return nil, fmt.Errorf("file is required")
	case string:
		if f == "" {
			return nil, fmt.Errorf("file is required")
		}
		if IsRemoteFile(f) {
			return &FileSource{Remote: f}, nil
		}
		contents, err := afero.ReadFile(fs, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", f, err)
		}
		return &FileSource{Name: filepath.Base(f), Contents: contents}, nil
	case []byte:
		return &FileSource{Name: FileParam, Contents: f}, nil
	case io.Reader:
		contents, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		name := FileParam
		if named, ok := f.(interface{ Name() string }); ok && named.Name() != "" {
			name = filepath.Base(named.Name())
		}
		return &FileSource{Name: name, Contents: contents}, nil
	default:
		return nil, fmt.Errorf("unsupported file value of type %T", file)
	}
}

func (s *FileSource) multipart(fields url.Values) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}

	if s.Remote != "" {
		if err := w.WriteField(FileParam, s.Remote); err != nil {
			return nil, "", err
		}
	} else {
		part, err := w.CreateFormFile(FileParam, s.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(s.Contents); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
