package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return "", nil
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract PDF: %w", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("extract PDF: read text: %w", err)
	}
	return strings.TrimSpace(string(text)), nil
}
