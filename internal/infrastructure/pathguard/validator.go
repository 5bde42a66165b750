// Package pathguard resolves user-supplied document and output paths and
// rejects the ones that could read or write outside of intended locations.
package pathguard

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

// traversalToken is rejected anywhere in the raw input, whatever it resolves to.
const traversalToken = ".."

var allowedInputExtensions = []string{".md", ".txt", ".markdown"}

var forbiddenOutputPrefixes = []string{"/etc", "/usr", "/bin", "/sbin", "/System", "/Windows"}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ResolveInputPath(raw string) (string, error) {
	if strings.Contains(raw, traversalToken) {
		return "", domain.NewError(domain.ErrPath, "Path traversal detected")
	}

	resolved, err := resolve(raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.NewError(domain.ErrPath, "File not found: "+raw)
		}
		return "", domain.WrapPublic(domain.ErrPath, "Invalid file path", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.NewError(domain.ErrPath, "File not found: "+raw)
		}
		return "", domain.WrapPublic(domain.ErrPath, "Invalid file path", err)
	}
	if !info.Mode().IsRegular() {
		return "", domain.NewError(domain.ErrPath, "Not a file: "+raw)
	}
	if !hasAllowedExtension(resolved) {
		return "", domain.NewError(domain.ErrPath, "File must be .md, .txt, or .markdown")
	}
	return resolved, nil
}

// ResolveOutputDir returns the absolute output directory. The directory
// itself does not need to exist yet.
func (v *Validator) ResolveOutputDir(raw string) (string, error) {
	if strings.Contains(raw, traversalToken) {
		return "", domain.NewError(domain.ErrPath, "Path traversal detected in output directory")
	}

	resolved, err := resolve(raw)
	if err != nil {
		return "", domain.WrapPublic(domain.ErrPath, "Invalid output directory", err)
	}

	for _, prefix := range forbiddenOutputPrefixes {
		if strings.HasPrefix(resolved, prefix) {
			return "", domain.NewError(domain.ErrPath, "Cannot write to system directory: "+prefix)
		}
	}
	return resolved, nil
}

func hasAllowedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range allowedInputExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// resolve makes raw absolute and follows symlinks through the longest
// existing prefix; the missing tail is appended unchanged.
func resolve(raw string) (string, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}

	existing := abs
	var missing []string
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}

	real, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{real}, missing...)...), nil
}
