package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	tests := []struct {
		name    string
		content string
		ext     string
		want    string
	}{
		{"txt", "Hello world\nLine 2", ".txt", "Hello world\nLine 2"},
		{"markdown utf8", "caf\xc3\xa9", ".md", "café"},
		{"no extension", "bare", "", "bare"},
		{"upper case extension", "shout", ".TXT", "shout"},
		{"invalid utf8", "hello\x80world", ".txt", "hello\ufffdworld"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ExtractBytes([]byte(tt.content), tt.ext)
			if err != nil {
				t.Fatalf("ExtractBytes: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBytes_unsupported(t *testing.T) {
	e := NewExtractor()
	for _, ext := range []string{".xlsx", ".pptx", ".exe"} {
		if _, err := e.ExtractBytes([]byte("x"), ext); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: got %v, want ErrUnsupportedFormat", ext, err)
		}
		if Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
	for _, ext := range []string{".txt", ".PDF", ".docx", ".odt", ".rtf", ".html", ".htm", ""} {
		if !Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
}

func TestExtract_file(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.txt")
	if err := os.WriteFile(path, []byte("File content"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "File content" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	if _, err := NewExtractor().Extract(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func docxArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBytes_docx(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document ` + wordNS + `><w:body>
<w:p w:rsidR="00A1"><w:r><w:t>Senate passes</w:t></w:r><w:r><w:t xml:space="preserve"> the budget</w:t></w:r></w:p>
<w:p><w:r><w:t>Second</w:t><w:tab/><w:t>paragraph</w:t></w:r></w:p>
<w:p></w:p>
</w:body></w:document>`
	content := docxArchive(t, map[string]string{"word/document.xml": body})
	got, err := NewExtractor().ExtractBytes(content, ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if want := "Senate passes the budget\nSecond paragraph"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractBytes_docxContentTypesOverride(t *testing.T) {
	types := `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Override ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml" PartName="/word/document2.xml"/></Types>`
	body := `<w:document ` + wordNS + `><w:body><w:p><w:r><w:t>From part two</w:t></w:r></w:p></w:body></w:document>`
	content := docxArchive(t, map[string]string{
		"[Content_Types].xml": types,
		"word/document2.xml":  body,
	})
	got, err := NewExtractor().ExtractBytes(content, ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "From part two" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxErrors(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for non-zip content")
	}
	missing := docxArchive(t, map[string]string{"other.xml": "<x/>"})
	if _, err := e.ExtractBytes(missing, ".docx"); err == nil {
		t.Error("expected error when the document part is missing")
	}
}

func TestExtractBytes_html(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "article preferred over body",
			page: `<html><head><title>Site</title><style>p{color:red}</style></head><body>
<nav>Home | About</nav>
<article><h1>Aliens   land</h1>
<p>Officials <b>confirm</b> the story.</p><script>track()</script></article>
<footer>Copyright</footer></body></html>`,
			want: "Aliens land Officials confirm the story.",
		},
		{
			name: "title used when there is no h1",
			page: `<html><head><title>Budget vote</title></head><body><p>The senate met.</p></body></html>`,
			want: "Budget vote\nThe senate met.",
		},
		{
			name: "empty page",
			page: `<html><body><script>x()</script></body></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewExtractor().ExtractBytes([]byte(tt.page), ".html")
			if err != nil {
				t.Fatalf("ExtractBytes: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBytes_pdfNotPDF(t *testing.T) {
	if _, err := NewExtractor().ExtractBytes([]byte("plain words"), ".pdf"); err == nil {
		t.Error("expected error for non-PDF content")
	}
}

func TestExtractBytes_catEmpty(t *testing.T) {
	for _, ext := range []string{".odt", ".rtf"} {
		got, err := NewExtractor().ExtractBytes(nil, ext)
		if err != nil || got != "" {
			t.Errorf("%s: got %q, %v", ext, got, err)
		}
	}
}
