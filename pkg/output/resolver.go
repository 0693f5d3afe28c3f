package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/observability"
	"github.com/matzehuels/scenebridge/pkg/passes"
)

// passPrefixes are backend prefixes stripped from pass names when matching
// file names.
var passPrefixes = []string{"aiAOV_", "rsAov_", "RS_", "aov_"}

// Resolution is the outcome of locating a rendered file.
type Resolution struct {
	Path       string   `json:"path"`
	Found      bool     `json:"found"`
	Candidates []string `json:"candidates,omitempty"`

	// Warning is a NO_RENDER_OUTPUT error when nothing was found.
	Warning error `json:"-"`
}

// Resolver finds files written for an image prefix.
type Resolver struct {
	Logger *log.Logger
}

// NewResolver returns a Resolver. A nil logger discards output.
func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{Logger: logger}
}

// Pattern returns the glob, relative to the directory of prefix, matching
// files a render to prefix may write: the prefix base name followed by a
// boundary, in that directory, in a subdirectory one level down, or inside
// a directory named after the prefix.
func Pattern(prefix string) string {
	base := glob.QuoteMeta(filepath.Base(prefix))
	return "{" + strings.Join([]string{
		base + ".*",
		base + "_*",
		base + "/*",
		"*/" + base + ".*",
		"*/" + base + "_*",
	}, ",") + "}"
}

// Candidates lists images rendered to prefix for frame in lexical order.
// Only image files count; files without a frame number count only when
// their extension is ext.
func (r *Resolver) Candidates(prefix string, frame int, ext string) ([]string, error) {
	g, err := glob.Compile(Pattern(prefix), '/')
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "output pattern for %s", prefix)
	}

	dir := filepath.Dir(prefix)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var rels []string
	for _, e := range entries {
		if !e.IsDir() {
			rels = append(rels, e.Name())
			continue
		}
		sub, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			r.Logger.Debug("skip output subdirectory", "dir", e.Name(), "error", err)
			continue
		}
		for _, f := range sub {
			if !f.IsDir() {
				rels = append(rels, e.Name()+"/"+f.Name())
			}
		}
	}

	ext = strings.TrimPrefix(ext, ".")
	var out []string
	for _, rel := range rels {
		if !g.Match(rel) || !isFrameImage(rel, frame, ext) {
			continue
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	sort.Strings(out)
	return out, nil
}

// isFrameImage reports whether rel is an image of frame. Frameless images
// must use ext.
func isFrameImage(rel string, frame int, ext string) bool {
	fileExt := strings.TrimPrefix(path.Ext(rel), ".")
	if !passes.IsImageFormat(fileExt) {
		return false
	}
	if n, ok := frameNumber(rel); ok {
		return n == frame
	}
	return strings.EqualFold(fileExt, ext)
}

// Clean removes images left by an earlier render of prefix at frame and
// returns how many were removed.
func (r *Resolver) Clean(prefix string, frame int, ext string) (int, error) {
	stale, err := r.Candidates(prefix, frame, ext)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, file := range stale {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove stale output: %w", err)
		}
		removed++
	}
	if removed > 0 {
		r.Logger.Debug("removed stale output", "prefix", prefix, "frame", frame, "files", removed)
	}
	return removed, nil
}

// Match picks the candidate whose path below the directory of prefix refers
// to pass, or the first candidate when none does.
func Match(pass, prefix string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	dir := filepath.Dir(prefix)
	names := passNames(pass)
	for _, c := range candidates {
		rel := strings.ToLower(relative(dir, c))
		for _, n := range names {
			if containsBounded(rel, n) {
				return c
			}
		}
	}
	return candidates[0]
}

// Resolve locates the file rendered for pass. When nothing matches, the
// resolution carries a best-guess path and a NO_RENDER_OUTPUT warning.
func (r *Resolver) Resolve(ctx context.Context, pass, prefix string, frame int, ext string) Resolution {
	candidates, err := r.Candidates(prefix, frame, ext)
	if err != nil {
		r.Logger.Warn("cannot list render output", "prefix", prefix, "error", err)
	}
	observability.Render().OnOutputResolved(ctx, pass, len(candidates), len(candidates) > 0)

	if len(candidates) == 0 {
		guess := BestGuess(prefix, frame, ext)
		warning := errors.New(errors.ErrCodeNoRenderOutput, "no output found for pass %q at frame %d", pass, frame)
		r.Logger.Warn("render produced no output", "pass", pass, "frame", frame, "guess", guess)
		return Resolution{Path: guess, Warning: warning}
	}
	return Resolution{
		Path:       Match(pass, prefix, candidates),
		Found:      true,
		Candidates: candidates,
	}
}

// BestGuess returns the conventional path of a frame rendered to prefix.
func BestGuess(prefix string, frame int, ext string) string {
	return fmt.Sprintf("%s.%04d.%s", prefix, frame, strings.TrimPrefix(ext, "."))
}

// passNames returns the lowercase names a file may use for pass.
func passNames(pass string) []string {
	lower := strings.ToLower(pass)
	names := []string{lower}
	for _, p := range passPrefixes {
		if stripped, ok := strings.CutPrefix(lower, strings.ToLower(p)); ok && stripped != "" {
			names = append(names, stripped)
		}
	}
	return names
}

// relative returns path below dir with forward slashes, or its base name
// when path is outside dir.
func relative(dir, p string) string {
	rel, err := filepath.Rel(dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(p)
	}
	return filepath.ToSlash(rel)
}

func isBoundary(c byte) bool {
	switch c {
	case '/', '\\', '.', '_', '-':
		return true
	}
	return false
}

// containsBounded reports whether name occurs in s delimited on both sides
// by a boundary character or the ends of s.
func containsBounded(s, name string) bool {
	if name == "" {
		return false
	}
	for from := 0; from <= len(s)-len(name); {
		i := strings.Index(s[from:], name)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(name)
		if (start == 0 || isBoundary(s[start-1])) && (end == len(s) || isBoundary(s[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

// frameNumber extracts the frame number from names like "shot.0012.exr"
// or "shot_12.exr".
func frameNumber(rel string) (int, bool) {
	name := filepath.Base(rel)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 0 || (name[i-1] != '.' && name[i-1] != '_') {
		return 0, false
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}
