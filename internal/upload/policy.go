// Package upload checks a batch of files against the accepted types, the
// per-file size limit and the batch size before any document is recorded.
package upload

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"docanalyzer/internal/model"
)

var ErrUploadRejected = errors.New("upload rejected")

const (
	DefaultMaxFiles    = 5
	DefaultMaxFileSize = 10 << 20 // 10 MB
)

var DefaultAcceptedTypes = []string{".docx", ".pdf", ".txt", ".csv"}

type Policy struct {
	MaxFiles      int
	MaxFileSize   int64
	AcceptedTypes []string
}

// ValidationError lists every problem found in a rejected batch.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "upload rejected: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrUploadRejected
}

func DefaultPolicy() Policy {
	return Policy{
		MaxFiles:      DefaultMaxFiles,
		MaxFileSize:   DefaultMaxFileSize,
		AcceptedTypes: DefaultAcceptedTypes,
	}
}

// Validate returns nil when the whole batch is acceptable. A batch over the
// file limit is rejected without looking at the individual files.
func (p Policy) Validate(files []model.FileMeta) error {
	if p.MaxFiles > 0 && len(files) > p.MaxFiles {
		return &ValidationError{Problems: []string{"Cannot add more files."}}
	}

	var problems []string
	for _, file := range files {
		ext := strings.ToLower(path.Ext(file.Name))
		if !p.accepts(ext) {
			problems = append(problems, fmt.Sprintf("%s: Unsupported file type. Accepted: %s",
				file.Name, strings.Join(p.AcceptedTypes, ", ")))
			continue
		}
		if p.MaxFileSize > 0 && file.Size > p.MaxFileSize {
			problems = append(problems, fmt.Sprintf("%s: File too large. Maximum size: %s",
				file.Name, formatSize(p.MaxFileSize)))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (p Policy) accepts(ext string) bool {
	if len(p.AcceptedTypes) == 0 {
		return true
	}
	for _, accepted := range p.AcceptedTypes {
		if strings.EqualFold(accepted, ext) {
			return true
		}
	}
	return false
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20 && bytes%(1<<20) == 0:
		return fmt.Sprintf("%dMB", bytes>>20)
	case bytes >= 1<<10 && bytes%(1<<10) == 0:
		return fmt.Sprintf("%dKB", bytes>>10)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
