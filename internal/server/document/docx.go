// Package document renders a submission as a minimal WordprocessingML
// (.docx) file for the file mirror.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

// ContentType is the MIME type of the generated documents.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	heading       = "Registro de Ideia - Banco de Ideias"
	anonymousText = "Colaborador: Anônimo"
)

var fileNameReplacer = strings.NewReplacer(" ", "_", "&", "e", "/", "-")

// idSuffixLen is how many id characters tell same-minute documents apart.
const idSuffixLen = 8

// FileName names the document of submission id in category created at t,
// e.g. Ideia_Technology_e_Innovation_20250301_0930_3f2a9c1b.docx. The id
// suffix keeps two submissions from the same minute on separate keys; it is
// left out when id has no letters or digits.
func FileName(category models.Category, id string, t time.Time) string {
	c := fileNameReplacer.Replace(strings.TrimSpace(string(category)))
	if c == "" {
		c = "Other"
	}
	name := fmt.Sprintf("Ideia_%s_%s", c, t.Format("20060102_1504"))
	if suffix := shortID(id); suffix != "" {
		name += "_" + suffix
	}
	return name + ".docx"
}

func shortID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if b.Len() == idSuffixLen {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type run struct {
	text string
	bold bool
}

type paragraph struct {
	style string
	runs  []run
}

func (p paragraph) write(b *bytes.Buffer) {
	b.WriteString("<w:p>")
	if p.style != "" {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, p.style)
	}
	for _, r := range p.runs {
		b.WriteString("<w:r>")
		if r.bold {
			b.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		lines := strings.Split(r.text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteString("<w:br/>")
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			_ = xml.EscapeText(b, []byte(line))
			b.WriteString("</w:t>")
		}
		b.WriteString("</w:r>")
	}
	b.WriteString("</w:p>")
}

func paragraphs(s *models.Submission) []paragraph {
	ps := []paragraph{
		{style: "Title", runs: []run{{text: heading}}},
		{runs: []run{{text: "Data de registro: " + s.CreatedAt.Format("02/01/2006 15:04")}}},
	}

	if s.IsAnonymous() {
		ps = append(ps, paragraph{runs: []run{{text: anonymousText}}})
	} else {
		ps = append(ps, paragraph{runs: []run{{text: "Colaborador: " + strings.TrimSpace(s.Author)}}})
		if s.Unit != "" {
			ps = append(ps, paragraph{runs: []run{{text: "Unidade: " + s.Unit}}})
		}
	}

	ps = append(ps,
		paragraph{runs: []run{{text: "Categoria: " + string(s.Category)}}},
		paragraph{runs: []run{{text: "Título: " + s.Title}}},
		paragraph{runs: []run{{text: "Ideia:", bold: true}}},
		paragraph{runs: []run{{text: s.Description}}},
	)

	optional := []struct{ label, value string }{
		{"Justificativa", s.Justification},
		{"Recursos", s.Resources},
		{"Benefícios", s.Benefits},
	}
	for _, o := range optional {
		if strings.TrimSpace(o.value) == "" {
			continue
		}
		ps = append(ps,
			paragraph{runs: []run{{text: o.label + ":", bold: true}}},
			paragraph{runs: []run{{text: o.value}}},
		)
	}
	return ps
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func documentXML(s *models.Submission) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs(s) {
		p.write(&b)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes()
}

// Render builds the .docx package for s.
func Render(s *models.Submission) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{"word/document.xml", documentXML(s)},
	}
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: s.CreatedAt})
		if err != nil {
			return nil, fmt.Errorf("docx %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("docx %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx close: %w", err)
	}
	return buf.Bytes(), nil
}
