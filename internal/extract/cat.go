package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"
)

// extractCat reads OpenDocument text and RTF through lu4p/cat, which sniffs the format itself.
func extractCat(content []byte, ext string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", strings.TrimPrefix(strings.ToUpper(ext), "."), err)
	}
	return strings.TrimSpace(text), nil
}
