package plaintext

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

// MaxTextRunes matches the lookup service's character limit; MaxFileBytes is
// the largest file that could still fit it.
const (
	MaxTextRunes = 64000
	MaxFileBytes = MaxTextRunes * utf8.UTFMax
)

// Extractor reads UTF-8 text documents from local disk.
type Extractor struct {
	maxBytes int64
}

func NewExtractor() *Extractor {
	return &Extractor{maxBytes: MaxFileBytes}
}

func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", domain.WrapError(domain.ErrIO, "open source document", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > e.maxBytes {
		return "", tooLongError()
	}

	// The limit also bounds files that grow after Stat.
	raw, err := io.ReadAll(io.LimitReader(f, e.maxBytes+1))
	if err != nil {
		return "", domain.WrapError(domain.ErrIO, "read source document", err)
	}
	if int64(len(raw)) > e.maxBytes {
		return "", tooLongError()
	}

	if !utf8.Valid(raw) {
		return "", domain.WrapPublic(domain.ErrValidation, "File must be UTF-8 encoded text", fmt.Errorf("invalid utf-8 in %s", path))
	}
	return string(raw), nil
}

func tooLongError() error {
	return domain.NewError(domain.ErrValidation, fmt.Sprintf("Text exceeds maximum length of %d characters", MaxTextRunes))
}
