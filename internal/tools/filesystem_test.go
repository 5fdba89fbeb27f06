package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fileExecutor(t *testing.T) (*Executor, string) {
	t.Helper()
	dir := t.TempDir()
	sandbox, err := NewSandbox(dir)
	require.NoError(t, err)
	e := newExecutor(t, true,
		NewListFilesTool(sandbox),
		NewReadFileTool(sandbox),
		NewSearchFilesTool(sandbox),
		NewFileStatsTool(sandbox),
		NewWriteFileTool(sandbox),
	)
	return e, sandbox.Base()
}

// ─── list_files ───────────────────────────────────────────────────────────────

func TestListFiles(t *testing.T) {
	e, dir := fileExecutor(t)
	writeFile(t, dir, "b.txt", "b")
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "notes.md", "n")
	writeFile(t, dir, "sub/deep.txt", "d")

	assert.Equal(t, "Files found (3):\n  - a.txt\n  - b.txt\n  - notes.md", run(t, e, "list_files", `{}`))
	assert.Equal(t, "Files found (2):\n  - a.txt\n  - b.txt", run(t, e, "list_files", `{"pattern":"*.txt"}`))
	assert.Equal(t, "Files found (3):\n  - a.txt\n  - b.txt\n  - sub/deep.txt", run(t, e, "list_files", `{"pattern":"**/*.txt"}`))
	assert.Equal(t, "No files found matching pattern: *.csv", run(t, e, "list_files", `{"pattern":"*.csv"}`))
}

// ─── read_file ────────────────────────────────────────────────────────────────

func TestReadFile(t *testing.T) {
	e, dir := fileExecutor(t)
	writeFile(t, dir, "hello.txt", "hello world")

	assert.Equal(t, "Contents of hello.txt:\n\nhello world", run(t, e, "read_file", `{"filename":"hello.txt"}`))
	assert.Equal(t, "Error: File 'missing.txt' not found", run(t, e, "read_file", `{"filename":"missing.txt"}`))
	assert.Equal(t, accessDeniedMessage, run(t, e, "read_file", `{"filename":"../outside.txt"}`))
	assert.Equal(t, accessDeniedMessage, run(t, e, "read_file", `{"filename":"/etc/passwd"}`))
}

func TestReadFile_RejectsBinary(t *testing.T) {
	e, dir := fileExecutor(t)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img.png"), png, 0o644))

	assert.Equal(t, "Error: File 'img.png' is not a text file", run(t, e, "read_file", `{"filename":"img.png"}`))
}

func TestReadFile_SymlinkEscape(t *testing.T) {
	e, dir := fileExecutor(t)
	outside := t.TempDir()
	writeFile(t, outside, "secret.txt", "secret")
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, accessDeniedMessage, run(t, e, "read_file", `{"filename":"link.txt"}`))
}

func TestSearchAndList_SkipSymlinkEscape(t *testing.T) {
	e, dir := fileExecutor(t)
	outside := t.TempDir()
	writeFile(t, outside, "secret.txt", "TOPSECRET token")
	writeFile(t, dir, "inside.txt", "plain")
	if err := os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(dir, "leak.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, accessDeniedMessage, run(t, e, "read_file", `{"filename":"leak.txt"}`))
	assert.Equal(t, "No matches found for: topsecret", run(t, e, "search_files", `{"query":"topsecret"}`))
	assert.Equal(t, "Files found (1):\n  - inside.txt", run(t, e, "list_files", `{}`))
}

// ─── search_files ─────────────────────────────────────────────────────────────

func TestSearchFiles(t *testing.T) {
	e, dir := fileExecutor(t)
	writeFile(t, dir, "a.txt", "Alpha\nbeta\nALPHA again\nalpha three\nalpha four")
	writeFile(t, dir, "sub/b.txt", "nothing\n  alpha inside  ")
	writeFile(t, dir, "c.txt", "no match here")

	got := run(t, e, "search_files", `{"query":"alpha"}`)
	assert.Equal(t, "Found 'alpha' in 2 file(s):\n\n"+
		"a.txt:\n  Line 1: Alpha\n  Line 3: ALPHA again\n  Line 4: alpha three\n\n"+
		"sub/b.txt:\n  Line 2: alpha inside", got)

	assert.Equal(t, "No matches found for: zeta", run(t, e, "search_files", `{"query":"zeta"}`))
}

// ─── file_stats / write_file ──────────────────────────────────────────────────

func TestFileStats(t *testing.T) {
	e, dir := fileExecutor(t)
	writeFile(t, dir, "doc.txt", "one two\nthree")

	assert.Equal(t, "Statistics for doc.txt:\n  Size: 13 bytes\n  Lines: 2\n  Words: 3\n  Characters: 13",
		run(t, e, "file_stats", `{"filename":"doc.txt"}`))
	assert.Equal(t, "Error: File 'nope.txt' not found", run(t, e, "file_stats", `{"filename":"nope.txt"}`))
}

func TestWriteFile(t *testing.T) {
	e, dir := fileExecutor(t)

	assert.Equal(t, "✓ Successfully wrote 5 characters to out/new.txt",
		run(t, e, "write_file", `{"filename":"out/new.txt","content":"hello"}`))
	data, err := os.ReadFile(filepath.Join(dir, "out", "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Equal(t, "Error: Cannot write outside allowed directory",
		run(t, e, "write_file", `{"filename":"../escape.txt","content":"x"}`))
}

func TestWriteFile_SymlinkDirEscape(t *testing.T) {
	e, dir := fileExecutor(t)
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, "Error: Cannot write outside allowed directory",
		run(t, e, "write_file", `{"filename":"link/pwned.txt","content":"x"}`))
	assert.Equal(t, "Error: Cannot write outside allowed directory",
		run(t, e, "write_file", `{"filename":"link/deeper/pwned.txt","content":"x"}`))
	_, err := os.Stat(filepath.Join(outside, "pwned.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outside, "deeper"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFile_DanglingSymlink(t *testing.T) {
	e, dir := fileExecutor(t)
	target := filepath.Join(t.TempDir(), "created.txt")
	if err := os.Symlink(target, filepath.Join(dir, "dangling.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, "Error: Cannot write outside allowed directory",
		run(t, e, "write_file", `{"filename":"dangling.txt","content":"x"}`))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestSandbox_ResolveStaysInside(t *testing.T) {
	sandbox, err := NewSandbox(t.TempDir())
	require.NoError(t, err)

	p, err := sandbox.resolve("nested/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sandbox.Base(), "nested", "file.txt"), p)

	_, err = sandbox.resolve("../x")
	assert.ErrorIs(t, err, errOutsideBase)
}
