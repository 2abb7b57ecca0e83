package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server/config"
	"github.com/dmitrijs2005/ideabank/internal/server/mirror"
)

type recordingMirror struct {
	uploads map[string]string
	failOn  string
}

func (m *recordingMirror) Upload(ctx context.Context, folder, name string, content []byte, contentType string) (string, error) {
	if name == m.failOn {
		return "", errors.New("quota exceeded")
	}
	if m.uploads == nil {
		m.uploads = map[string]string{}
	}
	key := mirror.ObjectKey(folder, name)
	m.uploads[key] = contentType
	return key, nil
}

func (m *recordingMirror) Name() string { return "recording" }

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.docx"), 0o755))
	return dir
}

func TestGetNewPassword(t *testing.T) {
	var out bytes.Buffer

	stubPasswords(t, "s3cret", "s3cret")
	pw, err := GetNewPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))

	stubPasswords(t, "s3cret", "other")
	_, err = GetNewPassword(&out)
	assert.ErrorIs(t, err, errPasswordMismatch)

	stubPasswords(t, "")
	_, err = GetNewPassword(&out)
	assert.Error(t, err)

	stubPasswords(t)
	_, err = GetNewPassword(&out)
	assert.Error(t, err)
}

func TestHashPasswordCommand(t *testing.T) {
	stubPasswords(t, "s3cret", "s3cret")

	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hash-password"})
	require.NoError(t, cmd.Execute())

	hash := bytes.TrimSpace(out.Bytes())
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cret")))
}

func TestCompilePattern(t *testing.T) {
	for _, p := range []string{"", "None"} {
		re, err := CompilePattern(p)
		require.NoError(t, err)
		assert.Nil(t, re)
	}

	re, err := CompilePattern(`\.docx$`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("Ideia_Other.docx"))

	_, err = CompilePattern("([")
	assert.Error(t, err)
}

func TestUploadDir(t *testing.T) {
	dir := writeFiles(t, "b.docx", "a.docx", "notes.txt")
	m := &recordingMirror{}

	results, err := UploadDir(context.Background(), m, dir, "Banco_de_Ideias", regexp.MustCompile(`docx`), logging.Nop())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "a.docx", results[0].Name)
	assert.Equal(t, "Banco_de_Ideias/a.docx", results[0].Key)
	assert.Equal(t, "b.docx", results[1].Name)
	assert.Equal(t, map[string]string{
		"Banco_de_Ideias/a.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"Banco_de_Ideias/b.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, m.uploads)
}

func TestUploadDir_AllFilesAndFailures(t *testing.T) {
	dir := writeFiles(t, "a.bin", "b.bin")
	m := &recordingMirror{failOn: "a.bin"}

	results, err := UploadDir(context.Background(), m, dir, "x", nil, logging.Nop())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, defaultContentType, m.uploads["x/b.bin"])

	_, err = UploadDir(context.Background(), m, filepath.Join(dir, "missing"), "x", nil, logging.Nop())
	assert.Error(t, err)
}

func TestUploadCommand(t *testing.T) {
	dir := writeFiles(t, "a.docx", "b.docx")
	m := &recordingMirror{failOn: "b.docx"}

	old := newMirror
	t.Cleanup(func() { newMirror = old })
	var gotDriver string
	newMirror = func(ctx context.Context, c *config.Config) (mirror.Mirror, error) {
		gotDriver = c.MirrorDriver
		return m, nil
	}

	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"upload", "--env", filepath.Join(t.TempDir(), "none.env"), "-m", "fs", dir, "Ideas", `\.docx$`})

	err := cmd.Execute()
	assert.EqualError(t, err, "1 of 2 uploads failed")
	assert.Equal(t, "fs", gotDriver)
	assert.Contains(t, out.String(), "OK   a.docx -> Ideas/a.docx")
	assert.Contains(t, out.String(), "FAIL b.docx: quota exceeded")
	assert.Contains(t, out.String(), "1 uploaded, 1 failed")
}

func TestUploadCommand_Args(t *testing.T) {
	cmd := NewRootCommand(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"upload", "only-dir"})
	assert.Error(t, cmd.Execute())

	cmd = NewRootCommand(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"upload", "dir", "folder", "(["})
	assert.Error(t, cmd.Execute())
}
