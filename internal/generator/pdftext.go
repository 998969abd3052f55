package generator

import (
	"context"
	"fmt"
	"os/exec"
	"unicode/utf8"
)

// maxSyllabusChars caps how much extracted text is sent to the model.
const maxSyllabusChars = 12000

// PDFText returns a TextSource that runs pdftotext on the file that resolve
// maps the storage path to.
func PDFText(resolve func(filePath string) (string, error)) TextSource {
	return func(ctx context.Context, filePath string) (string, error) {
		local, err := resolve(filePath)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", filePath, err)
		}
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", local, "-").Output()
		if err != nil {
			return "", fmt.Errorf("pdftotext failed: %w", err)
		}
		return truncate(string(out), maxSyllabusChars), nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
