package scan

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ErrInvalidDepth is returned for a MaxDepth below -1.
var ErrInvalidDepth = eris.New("scan: max depth must be -1 or greater")

// Kind classifies a media file by extension.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

type Options struct {
	// MaxDepth limits how many directories below root are visited.
	// -1 means unlimited, 0 means root only.
	MaxDepth int

	// IncludeHidden also visits dot files and dot directories.
	IncludeHidden bool

	PhotoExtensions []string
	VideoExtensions []string
}

func DefaultOptions() Options {
	return Options{
		MaxDepth: -1,
		PhotoExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".tif", ".tiff", ".bmp",
		},
		VideoExtensions: []string{
			".mp4", ".mov", ".m4v", ".mkv", ".avi", ".webm", ".mts", ".3gp",
		},
	}
}

// Record is one discovered media file. Path is relative to the scan root and
// slash separated.
type Record struct {
	Path          string    `json:"path"`
	Kind          Kind      `json:"kind"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	ModTime       time.Time `json:"mod_time"`
}

// Classifier maps file names to media kinds.
type Classifier struct {
	photo map[string]bool
	video map[string]bool
}

func NewClassifier(opts Options) Classifier {
	return Classifier{
		photo: normalizeExts(opts.PhotoExtensions),
		video: normalizeExts(opts.VideoExtensions),
	}
}

// Kind reports the media kind of name, or false if it is not media.
func (c Classifier) Kind(name string) (Kind, bool) {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case c.photo[ext]:
		return KindPhoto, true
	case c.video[ext]:
		return KindVideo, true
	default:
		return "", false
	}
}

// Scan walks fsys below root and returns every media file, sorted by path.
func Scan(fsys fs.FS, root string, opts Options) ([]Record, error) {
	if opts.MaxDepth < -1 {
		return nil, ErrInvalidDepth
	}

	classify := NewClassifier(opts)
	root = path.Clean(root)

	var matches []Record

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "scan: walk %s", p)
		}

		rel := relative(root, p)
		if rel == "." {
			return nil
		}
		if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if opts.MaxDepth >= 0 && depth(rel) > opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if opts.MaxDepth >= 0 && depth(rel) > opts.MaxDepth {
			return nil
		}

		kind, ok := classify.Kind(rel)
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return eris.Wrapf(err, "scan: stat %s", p)
		}

		matches = append(matches, Record{
			Path:          rel,
			Kind:          kind,
			FileSizeBytes: info.Size(),
			ModTime:       info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})
	return matches, nil
}

// Paths returns the paths of records in order.
func Paths(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		e := strings.TrimSpace(strings.ToLower(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}

// relative returns p relative to root. fs.FS paths are always slash separated
// and WalkDir only yields paths below root.
func relative(root, p string) string {
	if root == "." {
		return p
	}
	if p == root {
		return "."
	}
	return strings.TrimPrefix(p, root+"/")
}

func depth(rel string) int {
	if rel == "." {
		return 0
	}
	return strings.Count(rel, "/")
}
