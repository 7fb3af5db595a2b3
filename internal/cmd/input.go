package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/salmonumbrella/xmlcsv/internal/convert"
)

// readInputSource reads content from a file path or stdin when source is "-".
// Surrounding whitespace is trimmed.
func readInputSource(source string, stdin io.Reader) (string, error) {
	data, err := readDocument(source, stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(data), nil
}

// readDocument reads content verbatim so positions in lexer errors match
// the file.
func readDocument(source string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", fmt.Errorf("empty input source")
	}

	var r io.Reader
	if trimmed == "-" {
		if stdin != nil {
			r = stdin
		} else {
			r = os.Stdin
		}
		if !inputHasData(r) {
			return "", fmt.Errorf("no input on stdin (pipe a document or pass a file)")
		}
	} else {
		file, err := os.Open(trimmed)
		if err != nil {
			return "", &convert.ReadError{Path: trimmed, Format: documentFormat(trimmed), Err: err}
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &convert.ReadError{Path: trimmed, Format: documentFormat(trimmed), Err: err}
	}

	return string(data), nil
}

// documentFormat names the format of a path for read errors.
func documentFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return "XML"
	case ".csv":
		return "CSV"
	default:
		return "input"
	}
}

func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	if file, ok := r.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	}
	return true
}
