// Package extract turns stored PDF files into plain text.
package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text reads the PDF at path and returns the text of all pages
// concatenated in order, with a newline after each page. An unreadable
// or corrupt file fails the whole extraction; there is no partial
// fallback.
func Text(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d of %s: %w", pageNum, path, err)
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
