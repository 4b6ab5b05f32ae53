package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxDefaultPart  = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
	docxMainType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	wordNamespace    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// extractDOCX returns the text runs of a .docx body, one line per paragraph.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	part := docxDefaultPart
	if data, err := readZipPart(zr, contentTypesPart); err == nil {
		var ct contentTypes
		if xml.Unmarshal(data, &ct) == nil {
			for _, o := range ct.Overrides {
				if o.ContentType == docxMainType {
					part = strings.TrimPrefix(o.PartName, "/")
					break
				}
			}
		}
	}
	body, err := readZipPart(zr, part)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	return docxText(body)
}

func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}

// docxText walks the WordprocessingML token stream collecting w:t character data.
func docxText(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract DOCX: parse body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte(' ')
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(current.String()); s != "" {
					paragraphs = append(paragraphs, s)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		paragraphs = append(paragraphs, s)
	}
	return strings.Join(paragraphs, "\n"), nil
}
