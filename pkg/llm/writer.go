package llm

import (
	"github.com/santiagomed/llmutil/pkg/fs"
)

// WriteResponseText extracts resp's text and writes it to path, replacing any
// existing content. Extraction happens first, so a bad response never touches
// the destination. Extraction failures are *ResponseError; write failures are
// *fs.PathError.
func WriteResponseText(fsys *fs.FileSystem, resp Response, path string) error {
	if resp == nil {
		return &ResponseError{Err: ErrEmptyResponse}
	}

	text, err := resp.Text()
	if err != nil {
		return asResponseError(err)
	}

	return fsys.WriteFile(path, text)
}
