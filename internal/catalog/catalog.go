// Package catalog normalizes streaming-catalog entries into the same
// projection the classifier produces for archive files, so the matcher can
// compare the two sides field by field.
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"curator/internal/daylabel"
	"curator/internal/inventory"
)

var (
	eventNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Event\s*#?\s*(\d+)`),
		regexp.MustCompile(`(?i)\bEV[_-]?(\d+)\b`),
		regexp.MustCompile(`#(\d+)`),
	}
	yearPattern    = regexp.MustCompile(`\b(19[7-9]\d|20\d{2})\b`)
	seasonPattern  = regexp.MustCompile(`(?i)\bSeason\s*(\d+)\b|\bS(\d{1,2})E`)
	episodePattern = regexp.MustCompile(`(?i)\bEpisode\s*(\d+)\b|\bS\d{1,2}E(\d{1,3})\b`)

	titleCaser = cases.Title(language.Und)
)

// categoryBuckets is checked by substring against the uppercased title.
// Order matters: the more specific markers come first.
var categoryBuckets = []struct {
	marker string
	bucket string
	brand  inventory.Brand
}{
	{"CIRCUIT", "CIRCUIT", inventory.BrandWSOPC},
	{"CYPRUS", "CYPRUS", inventory.BrandMPP},
	{"WSOPE", "WSOPE", inventory.BrandWSOPE},
	{"EUROPE", "EUROPE", inventory.BrandWSOPE},
	{"MAIN EVENT", "MAIN_EVENT", ""},
	{"MAIN_EVENT", "MAIN_EVENT", ""},
	{"BRACELET", "BRACELET", ""},
	{"HYPERDECK", "HYPERDECK", ""},
}

// brandMarkers resolves a brand from explicit title mentions when no
// category bucket implied one.
var brandMarkers = []struct {
	marker string
	brand  inventory.Brand
}{
	{"HUSTLER CASINO", inventory.BrandHCL},
	{"HCL", inventory.BrandHCL},
	{"POKER AFTER DARK", inventory.BrandPAD},
	{"PAD", inventory.BrandPAD},
	{"GG MILLIONS", inventory.BrandGGMillions},
	{"GAME OF GOLD", inventory.BrandGOG},
	{"WPT", inventory.BrandWPT},
	{"EPT", inventory.BrandEPT},
	{"MPP", inventory.BrandMPP},
	{"WSOP", inventory.BrandWSOP},
}

// Normalize builds a CatalogVideo from a raw catalog row. It is a pure
// string function: no filesystem, no store. The result always has
// nas_matched unset and all downstream fields empty.
func Normalize(videoID, title string, durationSec float64, rawJSON string) inventory.CatalogVideo {
	video := inventory.CatalogVideo{
		VideoID:      videoID,
		Title:        title,
		DurationSec:  durationSec,
		MetadataJSON: rawJSON,
	}

	upper := strings.ToUpper(title)

	video.EventNumber = ExtractEventNumber(title)
	video.DayLabel = ExtractDayInfo(title, video.EventNumber != 0)
	video.ContentType = extractCategory(upper)
	video.Brand = extractBrand(upper, video.ContentType)

	if groups := yearPattern.FindStringSubmatch(title); groups != nil {
		video.Year, _ = strconv.Atoi(groups[1])
	}
	if n := firstGroup(seasonPattern, title); n != 0 {
		video.Season = n
	}
	if n := firstGroup(episodePattern, title); n != 0 {
		video.Episode = n
	}

	video.SeriesName = seriesName(video.Brand)
	return video
}

// ExtractEventNumber tries the three accepted event-number spellings in
// order and returns 0 when none applies.
func ExtractEventNumber(title string) int {
	for _, re := range eventNumberPatterns {
		if groups := re.FindStringSubmatch(title); groups != nil {
			n, err := strconv.Atoi(groups[1])
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// ExtractDayInfo derives the canonical day label from a catalog title.
// "Final Table" always means FINAL; a title naming an event but no day is
// treated as its final-table coverage.
func ExtractDayInfo(title string, hasEventNumber bool) string {
	if label := daylabel.FromString(title); label != "" {
		return label
	}
	if hasEventNumber {
		return daylabel.Final
	}
	return ""
}

func extractCategory(upper string) string {
	for _, c := range categoryBuckets {
		if strings.Contains(upper, c.marker) {
			return c.bucket
		}
	}
	return ""
}

func extractBrand(upper, category string) inventory.Brand {
	for _, c := range categoryBuckets {
		if c.bucket == category && c.brand != "" {
			return c.brand
		}
	}
	for _, m := range brandMarkers {
		if strings.Contains(upper, m.marker) {
			return m.brand
		}
	}
	return inventory.BrandWSOP
}

func firstGroup(re *regexp.Regexp, s string) int {
	groups := re.FindStringSubmatch(s)
	if groups == nil {
		return 0
	}
	for _, g := range groups[1:] {
		if g == "" {
			continue
		}
		if n, err := strconv.Atoi(g); err == nil {
			return n
		}
	}
	return 0
}

// seriesName renders the display name for a brand the way the dashboards
// show it.
func seriesName(brand inventory.Brand) string {
	switch brand {
	case inventory.BrandWSOP:
		return "World Series of Poker"
	case inventory.BrandWSOPE:
		return "World Series of Poker Europe"
	case inventory.BrandWSOPC:
		return "World Series of Poker Circuit"
	case inventory.BrandWSOPP:
		return "World Series of Poker Paradise"
	case inventory.BrandHCL:
		return "Hustler Casino Live"
	case inventory.BrandPAD:
		return "Poker After Dark"
	case inventory.BrandGGMillions:
		return "GG Millions"
	case inventory.BrandMPP:
		return "Merit Poker Premier"
	case inventory.BrandGOG:
		return "Game of Gold"
	default:
		return titleCaser.String(strings.ToLower(strings.ReplaceAll(string(brand), "_", " ")))
	}
}
