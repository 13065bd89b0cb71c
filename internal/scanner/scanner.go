// Package scanner walks an archive tree and produces file records for the
// classifier. The walk is streaming: records are handed to a callback as they
// are discovered and never buffered whole.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"curator/internal/fileutil"
	"curator/internal/inventory"
)

// FileRecord is one file observed during a walk, together with everything the
// classifier can learn from the path alone.
type FileRecord struct {
	Path         string
	FileName     string
	Extension    string
	SizeBytes    int64
	ModifiedAt   time.Time
	FolderPath   string
	RelativePath string

	InferredBrand     inventory.Brand
	InferredAssetType inventory.AssetType

	// ContentHash is set only when Options.ComputeHash is on. It is a
	// fingerprint hint, not an identity.
	ContentHash string

	IsVideo  bool
	Modified bool
}

// Options controls a walk.
type Options struct {
	IncludeHidden bool
	ComputeHash   bool
	VideoOnly     bool

	// MaxFiles stops the walk after emitting that many records. Zero means
	// unbounded.
	MaxFiles int

	// KnownPaths switches the walk to incremental mode: paths already known
	// are emitted only when modified after Since, new paths always. A nil map
	// means a full scan where every file counts as new.
	Since      time.Time
	KnownPaths map[string]struct{}
}

// Result accumulates walk statistics alongside the record stream.
type Result struct {
	TotalFiles     int
	VideoFiles     int
	OtherFiles     int
	FoldersScanned int
	TotalSizeBytes int64

	ByExtension map[string]int
	ByBrand     map[inventory.Brand]int

	NewFiles      int
	ModifiedFiles int

	Elapsed time.Duration
	Errors  []string
}

// mediaExtensions is the fixed set of container formats treated as video.
var mediaExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".mxf": {},
	".avi": {},
	".mkv": {},
	".wmv": {},
	".m4v": {},
}

// brandFolders maps lowercased directory names to the brand they imply.
// First hit along the path from the root wins.
var brandFolders = map[string]inventory.Brand{
	"wsop":                inventory.BrandWSOP,
	"wsope":               inventory.BrandWSOPE,
	"wsop europe":         inventory.BrandWSOPE,
	"wsopc":               inventory.BrandWSOPC,
	"circuit":             inventory.BrandWSOPC,
	"wsopp":               inventory.BrandWSOPP,
	"wsop paradise":       inventory.BrandWSOPP,
	"hcl":                 inventory.BrandHCL,
	"hustler casino live": inventory.BrandHCL,
	"pad":                 inventory.BrandPAD,
	"poker after dark":    inventory.BrandPAD,
	"gg millions":         inventory.BrandGGMillions,
	"ggmillions":          inventory.BrandGGMillions,
	"mpp":                 inventory.BrandMPP,
	"merit poker":         inventory.BrandMPP,
	"gog":                 inventory.BrandGOG,
	"game of gold":        inventory.BrandGOG,
	"wpt":                 inventory.BrandWPT,
	"ept":                 inventory.BrandEPT,
}

var assetTypeFolders = map[string]inventory.AssetType{
	"streams":    inventory.AssetStream,
	"stream":     inventory.AssetStream,
	"subclips":   inventory.AssetSubclip,
	"subclip":    inventory.AssetSubclip,
	"masters":    inventory.AssetMaster,
	"master":     inventory.AssetMaster,
	"hand clips": inventory.AssetHandClip,
	"hand_clips": inventory.AssetHandClip,
	"clean":      inventory.AssetClean,
	"raw":        inventory.AssetRaw,
	"mov":        inventory.AssetMOV,
	"mxf":        inventory.AssetMXF,
}

// IsMediaExtension reports whether ext (with leading dot, any case) is one of
// the recognized video containers.
func IsMediaExtension(ext string) bool {
	_, ok := mediaExtensions[strings.ToLower(ext)]
	return ok
}

// errStop aborts the walk once MaxFiles is reached.
var errStop = fmt.Errorf("scanner: file limit reached")

// Walk runs a depth-first traversal of root, calling fn for every record that
// passes the filters. Unreadable directories are recorded in Result.Errors
// and skipped. A non-nil error from fn aborts the walk and is returned.
func Walk(ctx context.Context, root string, opts Options, fn func(FileRecord) error) (*Result, error) {
	start := time.Now()
	result := &Result{
		ByExtension: make(map[string]int),
		ByBrand:     make(map[inventory.Brand]int),
	}

	root = filepath.Clean(root)
	emitted := 0

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, walkErr))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != root && !opts.IncludeHidden && fileutil.IsHidden(name) {
				return fs.SkipDir
			}
			result.FoldersScanned++
			return nil
		}
		if !opts.IncludeHidden && fileutil.IsHidden(name) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(name))
		_, isVideo := mediaExtensions[ext]
		if opts.VideoOnly && !isVideo {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			return nil
		}

		result.TotalFiles++
		result.TotalSizeBytes += info.Size()
		if isVideo {
			result.VideoFiles++
		} else {
			result.OtherFiles++
		}
		result.ByExtension[ext]++

		record := FileRecord{
			Path:       path,
			FileName:   name,
			Extension:  ext,
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
			FolderPath: filepath.Dir(path),
			IsVideo:    isVideo,
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			record.RelativePath = rel
		}
		record.InferredBrand, record.InferredAssetType = inferFromPath(record.RelativePath)
		if record.InferredBrand != "" {
			result.ByBrand[record.InferredBrand]++
		}

		if opts.KnownPaths != nil {
			if _, known := opts.KnownPaths[path]; known {
				if !record.ModifiedAt.After(opts.Since) {
					return nil
				}
				record.Modified = true
				result.ModifiedFiles++
			} else {
				result.NewFiles++
			}
		} else {
			result.NewFiles++
		}

		if opts.ComputeHash {
			hash, hashErr := fileutil.HashFilePrefix(path)
			if hashErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, hashErr))
			} else {
				record.ContentHash = hash
			}
		}

		if err := fn(record); err != nil {
			return err
		}
		emitted++
		if opts.MaxFiles > 0 && emitted >= opts.MaxFiles {
			return errStop
		}
		return nil
	})

	result.Elapsed = time.Since(start)
	if err != nil && err != errStop {
		return result, err
	}
	return result, nil
}

// inferFromPath resolves brand and asset type from the directory components
// of the path relative to the scan root. The first matching component wins
// independently for each table.
func inferFromPath(relative string) (inventory.Brand, inventory.AssetType) {
	var (
		brand     inventory.Brand
		assetType inventory.AssetType
	)
	dir := filepath.Dir(relative)
	if dir == "." {
		return "", ""
	}
	for _, component := range strings.Split(filepath.ToSlash(dir), "/") {
		key := strings.ToLower(component)
		if brand == "" {
			if b, ok := brandFolders[key]; ok {
				brand = b
			}
		}
		if assetType == "" {
			if t, ok := assetTypeFolders[key]; ok {
				assetType = t
			}
		}
	}
	return brand, assetType
}
