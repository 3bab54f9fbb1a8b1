package fsentry

import (
	"os"
	"strings"
)

// ReadBytes returns the whole file content.
func (e *Entry) ReadBytes() ([]byte, error) {
	if err := e.guardOpen(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, wrapOSError(err, e.path, false)
	}
	return data, nil
}

// WriteBytes replaces the file content, creating the file when absent.
func (e *Entry) WriteBytes(data []byte) error {
	if err := e.guardOpen(); err != nil {
		return err
	}
	return wrapOSError(os.WriteFile(e.path, data, 0644), e.path, false)
}

// AppendBytes appends data to the file, creating it when absent.
func (e *Entry) AppendBytes(data []byte) error {
	if err := e.guardOpen(); err != nil {
		return err
	}
	f, err := os.OpenFile(e.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return wrapOSError(err, e.path, false)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return wrapOSError(err, e.path, false)
	}
	return nil
}

// ReadLines returns the file content split into lines, with line
// endings stripped. A trailing newline does not produce an empty final
// line.
func (e *Entry) ReadLines() ([]string, error) {
	data, err := e.ReadBytes()
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// WriteLines replaces the file content with the lines joined by "\n"
// plus a trailing newline.
func (e *Entry) WriteLines(lines []string) error {
	if len(lines) == 0 {
		return e.WriteBytes(nil)
	}
	return e.WriteBytes([]byte(strings.Join(lines, "\n") + "\n"))
}
