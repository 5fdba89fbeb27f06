package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/crystaldolphin/toolchat/internal/schema"
)

const (
	maxReadBytes        = 1 << 20
	maxSearchMatches    = 3
	defaultListPattern  = "*"
	accessDeniedMessage = "Error: Access denied to file outside allowed directory"
)

var errOutsideBase = errors.New("path is outside the allowed directory")

// Sandbox resolves file names against a single base directory and refuses
// anything that escapes it, symlinks included.
type Sandbox struct {
	base string
}

// NewSandbox creates base if needed and returns a Sandbox rooted at it.
func NewSandbox(base string) (*Sandbox, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve base path %s: %w", base, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create base path %s: %w", abs, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Sandbox{base: abs}, nil
}

func (s *Sandbox) Base() string { return s.base }

// resolve maps name to an absolute path inside the base directory.
// Symlinks are followed in the longest existing prefix, so a path that does
// not exist yet cannot reach outside through a linked parent directory.
func (s *Sandbox) resolve(name string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.base, p)
	}
	resolved, err := evalExistingPrefix(filepath.Clean(p))
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(s.base, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideBase
	}
	return resolved, nil
}

// evalExistingPrefix resolves symlinks in the deepest existing ancestor of p
// and re-appends the missing components. An entry that exists but cannot be
// resolved, such as a dangling symlink, is rejected.
func evalExistingPrefix(p string) (string, error) {
	var missing []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if _, lerr := os.Lstat(cur); lerr == nil {
			return "", errOutsideBase
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}

// contains reports whether the base-relative rel resolves inside the base.
func (s *Sandbox) contains(rel string) bool {
	_, err := s.resolve(filepath.FromSlash(rel))
	return err == nil
}

// isText reports whether the file content looks like text.
func isText(path string, size int64) bool {
	if size == 0 {
		return true
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// ListFilesTool
// ---------------------------------------------------------------------------

// ListFilesTool lists files matching a glob pattern ("*", "*.txt", "**/*.md").
type ListFilesTool struct {
	sandbox *Sandbox
}

func NewListFilesTool(sandbox *Sandbox) *ListFilesTool {
	return &ListFilesTool{sandbox: sandbox}
}

func (t *ListFilesTool) Descriptor() schema.ToolDescriptor {
	return schema.NewDescriptor(string(ToolListFiles), "List files in the test directory", "pattern (optional)")
}

func (t *ListFilesTool) Invoke(_ context.Context, args schema.Args) schema.ToolResult {
	pattern, err := args.OptionalString("pattern", defaultListPattern)
	if err != nil {
		return schema.InvalidArguments(string(ToolListFiles), err)
	}
	if pattern == "" {
		pattern = defaultListPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return schema.Success(fmt.Sprintf("Error listing files: invalid pattern '%s'", pattern))
	}

	fsys := os.DirFS(t.sandbox.base)
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return schema.Failed(schema.FailureExecution, string(ToolListFiles), err)
	}
	matches = slices.DeleteFunc(matches, func(m string) bool { return !t.sandbox.contains(m) })
	if len(matches) == 0 {
		return schema.Success(fmt.Sprintf("No files found matching pattern: %s", pattern))
	}
	sort.Strings(matches)

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, "  - "+m)
	}
	return schema.Success(fmt.Sprintf("Files found (%d):\n%s", len(matches), strings.Join(lines, "\n")))
}

// ---------------------------------------------------------------------------
// ReadFileTool
// ---------------------------------------------------------------------------

// ReadFileTool reads a text file inside the sandbox and returns its contents.
type ReadFileTool struct {
	sandbox *Sandbox
}

func NewReadFileTool(sandbox *Sandbox) *ReadFileTool {
	return &ReadFileTool{sandbox: sandbox}
}

func (t *ReadFileTool) Descriptor() schema.ToolDescriptor {
	return schema.NewDescriptor(string(ToolReadFile), "Read contents of a file", "filename")
}

func (t *ReadFileTool) Invoke(_ context.Context, args schema.Args) schema.ToolResult {
	filename, err := args.String("filename")
	if err != nil {
		return schema.InvalidArguments(string(ToolReadFile), err)
	}
	fp, err := t.sandbox.resolve(filename)
	if err != nil {
		return schema.Success(accessDeniedMessage)
	}
	info, err := os.Stat(fp)
	if err != nil {
		return schema.Success(fmt.Sprintf("Error: File '%s' not found", filename))
	}
	if !info.Mode().IsRegular() {
		return schema.Success(fmt.Sprintf("Error: '%s' is not a file", filename))
	}
	if info.Size() > maxReadBytes {
		return schema.Success(fmt.Sprintf("Error: File '%s' is too large (%d bytes)", filename, info.Size()))
	}
	if !isText(fp, info.Size()) {
		return schema.Success(fmt.Sprintf("Error: File '%s' is not a text file", filename))
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return schema.Success(fmt.Sprintf("Error reading file: %s", err))
	}
	return schema.Success(fmt.Sprintf("Contents of %s:\n\n%s", filename, string(data)))
}

// ---------------------------------------------------------------------------
// SearchFilesTool
// ---------------------------------------------------------------------------

// SearchFilesTool finds text files containing a query, case-insensitively.
type SearchFilesTool struct {
	sandbox *Sandbox
}

func NewSearchFilesTool(sandbox *Sandbox) *SearchFilesTool {
	return &SearchFilesTool{sandbox: sandbox}
}

func (t *SearchFilesTool) Descriptor() schema.ToolDescriptor {
	return schema.NewDescriptor(string(ToolSearchFiles), "Search for text in files", "query")
}

func (t *SearchFilesTool) Invoke(ctx context.Context, args schema.Args) schema.ToolResult {
	query, err := args.String("query")
	if err != nil {
		return schema.InvalidArguments(string(ToolSearchFiles), err)
	}
	if strings.TrimSpace(query) == "" {
		return schema.Success("Error: query must not be empty")
	}
	needle := strings.ToLower(query)

	var results []string
	walkErr := doublestar.GlobWalk(os.DirFS(t.sandbox.base), "**", func(rel string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		path, err := t.sandbox.resolve(filepath.FromSlash(rel))
		if err != nil {
			return nil
		}
		if block := searchFile(path, rel, needle); block != "" {
			results = append(results, block)
		}
		return nil
	}, doublestar.WithFilesOnly())
	if walkErr != nil {
		return schema.Failed(schema.FailureExecution, string(ToolSearchFiles), walkErr)
	}

	if len(results) == 0 {
		return schema.Success(fmt.Sprintf("No matches found for: %s", query))
	}
	sort.Strings(results)
	return schema.Success(fmt.Sprintf("Found '%s' in %d file(s):\n\n%s", query, len(results), strings.Join(results, "\n\n")))
}

// searchFile returns the match block for one file, or "" when it does not
// match or cannot be read as text.
func searchFile(path, rel, needle string) string {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxReadBytes || !isText(path, info.Size()) {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(data) {
		return ""
	}
	content := string(data)
	if !strings.Contains(strings.ToLower(content), needle) {
		return ""
	}

	var matches []string
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			matches = append(matches, fmt.Sprintf("  Line %d: %s", i+1, strings.TrimSpace(line)))
			if len(matches) == maxSearchMatches {
				break
			}
		}
	}
	return filepath.ToSlash(rel) + ":\n" + strings.Join(matches, "\n")
}

// ---------------------------------------------------------------------------
// FileStatsTool
// ---------------------------------------------------------------------------

// FileStatsTool reports size, line, word and character counts for a file.
type FileStatsTool struct {
	sandbox *Sandbox
}

func NewFileStatsTool(sandbox *Sandbox) *FileStatsTool {
	return &FileStatsTool{sandbox: sandbox}
}

func (t *FileStatsTool) Descriptor() schema.ToolDescriptor {
	return schema.ToolDescriptor{
		Name:        string(ToolFileStats),
		Description: "Get size, line, word and character counts of a file",
		Params:      []schema.Param{schema.ParseParam("filename").Typed(schema.TypeString)},
		Convention:  schema.ByName,
	}
}

func (t *FileStatsTool) Invoke(_ context.Context, args schema.Args) schema.ToolResult {
	filename, err := args.String("filename")
	if err != nil {
		return schema.InvalidArguments(string(ToolFileStats), err)
	}
	fp, err := t.sandbox.resolve(filename)
	if err != nil {
		return schema.Success(accessDeniedMessage)
	}
	info, err := os.Stat(fp)
	if err != nil || !info.Mode().IsRegular() {
		return schema.Success(fmt.Sprintf("Error: File '%s' not found", filename))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for %s:\n", filename)
	fmt.Fprintf(&b, "  Size: %d bytes", info.Size())
	if info.Size() <= maxReadBytes && isText(fp, info.Size()) {
		data, err := os.ReadFile(fp)
		if err != nil {
			return schema.Success(fmt.Sprintf("Error reading file: %s", err))
		}
		content := string(data)
		fmt.Fprintf(&b, "\n  Lines: %d", len(strings.Split(content, "\n")))
		fmt.Fprintf(&b, "\n  Words: %d", len(strings.Fields(content)))
		fmt.Fprintf(&b, "\n  Characters: %d", utf8.RuneCountInString(content))
	}
	return schema.Success(b.String())
}

// ---------------------------------------------------------------------------
// WriteFileTool
// ---------------------------------------------------------------------------

// WriteFileTool writes content to a file, creating parent directories as needed.
type WriteFileTool struct {
	sandbox *Sandbox
}

func NewWriteFileTool(sandbox *Sandbox) *WriteFileTool {
	return &WriteFileTool{sandbox: sandbox}
}

func (t *WriteFileTool) Descriptor() schema.ToolDescriptor {
	return schema.ToolDescriptor{
		Name:        string(ToolWriteFile),
		Description: "Write content to a file in the test directory",
		Params: []schema.Param{
			schema.ParseParam("filename").Typed(schema.TypeString),
			schema.ParseParam("content").Typed(schema.TypeString),
		},
		Convention: schema.ByName,
	}
}

func (t *WriteFileTool) Invoke(_ context.Context, args schema.Args) schema.ToolResult {
	filename, err := args.String("filename")
	if err != nil {
		return schema.InvalidArguments(string(ToolWriteFile), err)
	}
	content, err := args.String("content")
	if err != nil {
		return schema.InvalidArguments(string(ToolWriteFile), err)
	}
	fp, err := t.sandbox.resolve(filename)
	if err != nil {
		return schema.Success("Error: Cannot write outside allowed directory")
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return schema.Success(fmt.Sprintf("Error creating directory: %s", err))
	}
	if err := os.WriteFile(fp, []byte(content), 0o644); err != nil {
		return schema.Success(fmt.Sprintf("Error writing file: %s", err))
	}
	return schema.Success(fmt.Sprintf("✓ Successfully wrote %d characters to %s", utf8.RuneCountInString(content), filename))
}
