package document

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

func readPart(t *testing.T, doc []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(doc), int64(len(doc)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestFileName(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "Ideia_Technology_e_Innovation_20250301_0905_3f2a9c1b.docx",
		FileName(models.CategoryTechnology, "3f2a9c1b-77de-4c1e-9a51-0c0ffee00001", ts))
	assert.Equal(t, "Ideia_Curriculum_e_Methodology_20250301_0905_65f1a2b3.docx",
		FileName(models.CategoryCurriculum, "65f1a2b3c4d5e6f7a8b9c0d1", ts))
	assert.Equal(t, "Ideia_Other_20250301_0905.docx", FileName("", "", ts))
	assert.Equal(t, "Ideia_Other_20250301_0905.docx", FileName("", "--", ts))

	// same category and minute, different submissions
	assert.NotEqual(t,
		FileName(models.CategoryEvents, "aaaaaaaa-0000", ts),
		FileName(models.CategoryEvents, "bbbbbbbb-0000", ts))
}

func TestRender_Attributed(t *testing.T) {
	s := &models.Submission{
		Title:         "Horta <escolar>",
		Author:        "Ana Souza",
		Unit:          "Campus Norte",
		Category:      models.CategorySustainability,
		Description:   "Criar uma horta & compostagem\nno pátio",
		Justification: "Educação ambiental",
		CreatedAt:     time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC),
	}

	doc, err := Render(s)
	require.NoError(t, err)

	assert.Contains(t, readPart(t, doc, "[Content_Types].xml"), "wordprocessingml.document.main+xml")
	assert.Contains(t, readPart(t, doc, "_rels/.rels"), `Target="word/document.xml"`)

	body := readPart(t, doc, "word/document.xml")
	assert.Contains(t, body, "Registro de Ideia - Banco de Ideias")
	assert.Contains(t, body, "Data de registro: 01/03/2025 09:05")
	assert.Contains(t, body, "Colaborador: Ana Souza")
	assert.Contains(t, body, "Unidade: Campus Norte")
	assert.Contains(t, body, "Categoria: Sustainability")
	assert.Contains(t, body, "Título: Horta &lt;escolar&gt;")
	assert.Contains(t, body, `<w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Ideia:</w:t>`)
	assert.Contains(t, body, "Criar uma horta &amp; compostagem</w:t><w:br/>")
	assert.Contains(t, body, "Justificativa:")
	assert.NotContains(t, body, "Recursos:")
}

func TestRender_Anonymous(t *testing.T) {
	doc, err := Render(&models.Submission{
		Author:      models.AnonymousAuthor,
		Unit:        "Campus Sul",
		Category:    models.CategoryEvents,
		Description: "Feira",
	})
	require.NoError(t, err)

	body := readPart(t, doc, "word/document.xml")
	assert.Contains(t, body, "Colaborador: Anônimo")
	assert.NotContains(t, body, "Unidade:")
}
