// Package classify turns scanner file records into inventory assets. The
// filename grammar does the heavy lifting; folder and keyword fallbacks fill
// what the grammar missed at reduced confidence.
package classify

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"curator/internal/daylabel"
	"curator/internal/fileutil"
	"curator/internal/inventory"
	"curator/internal/scanner"
)

const (
	// defaultConfidence is assigned when no grammar pattern and no fallback
	// produced anything usable.
	defaultConfidence = 0.5

	// Fallback caps. A grammar hit degraded by a fallback never keeps its
	// full base confidence.
	folderYearCap   = 0.80
	folderDayCap    = 0.75
	keywordEventCap = 0.70
)

var (
	folderYearPattern    = regexp.MustCompile(`\b(19[7-9]\d|20\d{2})\b`)
	folderDayPattern     = regexp.MustCompile(`(?i)\bDay\s*(\d+[A-D]?)\b`)
	folderEpisodePattern = regexp.MustCompile(`(?i)\bEpisode\s*(\d+)\b`)
	wordPattern          = regexp.MustCompile(`[a-z0-9]+`)
)

// extensionTypes resolves an asset type from the container when the folder
// tables said nothing.
var extensionTypes = map[string]inventory.AssetType{
	".mov": inventory.AssetMOV,
	".mxf": inventory.AssetMXF,
}

// AssetUUID derives the deterministic identity of a file from its normalized
// path: the first 16 bytes of the path digest, framed as a version 4 UUID so
// downstream consumers cannot tell it apart from a random one.
func AssetUUID(path string) string {
	sum := sha256.Sum256([]byte(fileutil.NormalizePath(path)))
	var id uuid.UUID
	copy(id[:], sum[:16])
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}

// Classify builds an Asset from a file record. It never fails: unparseable
// names yield a low-confidence asset with parse_method "default".
func Classify(record scanner.FileRecord) inventory.Asset {
	asset := inventory.Asset{
		UUID:         AssetUUID(record.Path),
		FileName:     record.FileName,
		FilePath:     record.Path,
		RelativePath: record.RelativePath,
		FolderPath:   record.FolderPath,
		Extension:    record.Extension,
		SizeBytes:    record.SizeBytes,
		ModifiedAt:   record.ModifiedAt,
		ContentHash:  record.ContentHash,
	}

	stem := strings.TrimSuffix(record.FileName, filepath.Ext(record.FileName))
	var reasons []string

	matched := applyGrammar(stem, &asset)
	if matched != nil {
		asset.ParseMethod = matched.name
		asset.Confidence = matched.confidence
		asset.Meta.Pattern = matched.name
		reasons = append(reasons, "pattern "+matched.name)
	} else {
		asset.ParseMethod = "default"
		asset.Confidence = defaultConfidence
	}

	// Day designations ride along in any filename shape; the grammar only
	// binds them for a few patterns.
	if asset.DayLabel == "" {
		asset.DayLabel = daylabel.FromString(stem)
	}

	// Fallbacks for fields the grammar left empty.
	if asset.Year == 0 {
		if year := yearFromFolder(record.RelativePath); year != 0 {
			asset.Year = year
			capConfidence(&asset, folderYearCap)
			reasons = append(reasons, "year from folder")
		}
	}
	if asset.DayLabel == "" && asset.Episode == 0 {
		if day, episode := dayFromFolder(record.RelativePath); day != "" || episode != 0 {
			asset.DayLabel = day
			if episode != 0 {
				asset.Episode = episode
			}
			capConfidence(&asset, folderDayCap)
			reasons = append(reasons, "day from folder")
		}
	}

	resolveBrand(matched, record, &asset)
	resolveAssetType(record, &asset)
	resolveEventType(matched, stem, &asset, &reasons)

	if asset.Year == 0 {
		// Nothing recovered a year; pin to the current one at floor
		// confidence so the row is still indexable by (brand, year).
		asset.Year = time.Now().Year()
		if asset.Confidence > defaultConfidence {
			asset.Confidence = defaultConfidence
		}
	}

	asset.Classification = buildClassification(asset)
	asset.ClassificationReason = strings.Join(reasons, "; ")
	return asset
}

func applyGrammar(stem string, asset *inventory.Asset) *pattern {
	for i := range patterns {
		p := &patterns[i]
		groups := p.re.FindStringSubmatch(stem)
		if groups == nil {
			continue
		}
		p.apply(groups, asset)
		return p
	}
	return nil
}

func capConfidence(asset *inventory.Asset, limit float64) {
	if asset.Confidence > limit {
		asset.Confidence = limit
	}
}

func yearFromFolder(relative string) int {
	dir := filepath.Dir(relative)
	if dir == "." {
		return 0
	}
	if groups := folderYearPattern.FindStringSubmatch(dir); groups != nil {
		year, _ := strconv.Atoi(groups[1])
		return year
	}
	return 0
}

func dayFromFolder(relative string) (string, int) {
	dir := filepath.Dir(relative)
	if dir == "." {
		return "", 0
	}
	var (
		day     string
		episode int
	)
	if groups := folderDayPattern.FindStringSubmatch(dir); groups != nil {
		day = daylabel.FromString("Day " + groups[1])
	}
	if groups := folderEpisodePattern.FindStringSubmatch(dir); groups != nil {
		episode, _ = strconv.Atoi(groups[1])
	}
	return day, episode
}

// resolveBrand prefers the grammar's binding, then the folder tables, then
// falls back to WSOP, which dominates the archive.
func resolveBrand(matched *pattern, record scanner.FileRecord, asset *inventory.Asset) {
	switch {
	case matched != nil && matched.brand != "":
		asset.Brand = matched.brand
		asset.Meta.BrandCode = string(matched.brand)
	case record.InferredBrand != "":
		asset.Brand = record.InferredBrand
	default:
		asset.Brand = inventory.BrandWSOP
	}
}

func resolveAssetType(record scanner.FileRecord, asset *inventory.Asset) {
	switch {
	case record.InferredAssetType != "":
		asset.AssetType = record.InferredAssetType
	default:
		if t, ok := extensionTypes[record.Extension]; ok {
			asset.AssetType = t
		} else {
			asset.AssetType = inventory.AssetGeneric
		}
	}
}

// eventKeywords maps filename tokens to the event type they imply. Checked
// only when the grammar did not bind one.
var eventKeywords = []struct {
	tokens    []string
	eventType inventory.EventType
}{
	{[]string{"bracelet", "ev"}, inventory.EventBracelet},
	{[]string{"circuit", "ring"}, inventory.EventCircuit},
	{[]string{"cash", "cashgame"}, inventory.EventCashGame},
	{[]string{"main", "me"}, inventory.EventMain},
}

func resolveEventType(matched *pattern, stem string, asset *inventory.Asset, reasons *[]string) {
	if matched != nil && matched.eventType != "" {
		asset.EventType = matched.eventType
		return
	}
	tokens := map[string]struct{}{}
	for _, w := range wordPattern.FindAllString(strings.ToLower(stem), -1) {
		tokens[w] = struct{}{}
	}
	for _, kw := range eventKeywords {
		for _, token := range kw.tokens {
			if _, ok := tokens[token]; ok {
				asset.EventType = kw.eventType
				capConfidence(asset, keywordEventCap)
				*reasons = append(*reasons, "event type from keyword "+token)
				return
			}
		}
	}
	asset.EventType = inventory.EventMain
}

// buildClassification is a short human label used by reports and dashboards.
func buildClassification(asset inventory.Asset) string {
	parts := []string{string(asset.Brand)}
	if asset.Year != 0 {
		parts = append(parts, strconv.Itoa(asset.Year))
	}
	switch {
	case asset.EventNumber != 0:
		parts = append(parts, fmt.Sprintf("Event #%d", asset.EventNumber))
	case asset.Season != 0 && asset.Episode != 0:
		parts = append(parts, fmt.Sprintf("S%02dE%02d", asset.Season, asset.Episode))
	case asset.Episode != 0:
		parts = append(parts, fmt.Sprintf("Episode %d", asset.Episode))
	}
	if asset.DayLabel != "" {
		parts = append(parts, asset.DayLabel)
	}
	return strings.Join(parts, " ")
}
