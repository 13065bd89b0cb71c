package classify

import (
	"regexp"
	"strconv"

	"curator/internal/daylabel"
	"curator/internal/inventory"
)

// pattern is one entry of the filename grammar. Patterns are tried in table
// order against the bare filename (extension stripped); the first match wins
// and its hook fills the asset straight from the capture groups.
type pattern struct {
	name       string
	re         *regexp.Regexp
	brand      inventory.Brand
	eventType  inventory.EventType
	confidence float64
	apply      func(groups []string, a *inventory.Asset)
}

// The grammar. Order matters: bracelet_ev must precede mxf_format or
// "WSOP-2025-ev-21" would be swallowed by the looser episode shape, and the
// year-bearing HCL form must precede the season-bearing one.
var patterns = []pattern{
	{
		name:       "ggpoker_gtd",
		re:         regexp.MustCompile(`(?i)\$[\d,.]+[KM]?\s*GTD.*?Day\s*(\d+)`),
		brand:      inventory.BrandGGMillions,
		eventType:  inventory.EventCashGame,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			a.DayLabel = "Day " + g[1]
			a.Meta.DayLabel = a.DayLabel
		},
	},
	{
		name:       "wsop_2025_be",
		re:         regexp.MustCompile(`(?i)WSOP\s+(\d{4})\s+(?:Bracelet\s+)?Event\s*#?\s*(\d+)`),
		brand:      inventory.BrandWSOP,
		eventType:  inventory.EventBracelet,
		confidence: 0.95,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setEventNumber(a, g[2])
		},
	},
	{
		name:       "wsope_be",
		re:         regexp.MustCompile(`(?i)WSOPE[_\s-](\d{4})[_\s-].*?BE\s*#?\s*(\d+)`),
		brand:      inventory.BrandWSOPE,
		eventType:  inventory.EventBracelet,
		confidence: 0.95,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setEventNumber(a, g[2])
		},
	},
	{
		name:       "wsop_episode_modern",
		re:         regexp.MustCompile(`(?i)WSOP\s+(\d{4})\s+Main\s+Event\s*[|_-]*\s*Episode\s*(\d+)`),
		brand:      inventory.BrandWSOP,
		eventType:  inventory.EventMain,
		confidence: 0.95,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "mastered_mov",
		re:         regexp.MustCompile(`(?i)WSOP(\d{2})_ME(\d{2,3})_FINAL`),
		brand:      inventory.BrandWSOP,
		eventType:  inventory.EventMain,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			yy, _ := strconv.Atoi(g[1])
			a.Year = 2000 + yy
			a.Meta.YearCode = g[1]
			setEpisode(a, g[2])
			a.DayLabel = daylabel.Final
			a.Meta.DayLabel = daylabel.Final
		},
	},
	{
		name:       "espn_show",
		re:         regexp.MustCompile(`(?i)ESPN\s+(\d{4})\s+WSOP\s+SEASON\s+(\d+)\s+SHOW\s+(\d+)`),
		brand:      inventory.BrandWSOP,
		eventType:  inventory.EventMain,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setSeason(a, g[2])
			setEpisode(a, g[3])
		},
	},
	{
		name:       "bracelet_ev",
		re:         regexp.MustCompile(`(?i)WSOP-(\d{4})-ev-?(\d+)`),
		brand:      inventory.BrandWSOP,
		eventType:  inventory.EventBracelet,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setEventNumber(a, g[2])
		},
	},
	{
		name:       "mxf_format",
		re:         regexp.MustCompile(`(?i)WSOP-(\d{4})-(\d+)$`),
		brand:      inventory.BrandWSOP,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "bracelet_modern",
		re:         regexp.MustCompile(`(?i)(\d+)-wsop-(\d{4})-be-ev-?(\d+)`),
		brand:      inventory.BrandWSOP,
		eventType:  inventory.EventBracelet,
		confidence: 0.95,
		apply: func(g []string, a *inventory.Asset) {
			a.Meta.SequenceNum = g[1]
			setEpisode(a, g[1])
			setYear(a, g[2])
			setEventNumber(a, g[3])
		},
	},
	{
		name:       "hcl_year_episode",
		re:         regexp.MustCompile(`(?i)HCL[_\s-](\d{4})[_\s-]EP?\s*(\d+)`),
		brand:      inventory.BrandHCL,
		eventType:  inventory.EventCashGame,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "pad_season_episode",
		re:         regexp.MustCompile(`(?i)PAD[_\s-]S(\d+)[_\s-]?EP?\s*(\d+)`),
		brand:      inventory.BrandPAD,
		eventType:  inventory.EventCashGame,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			setSeason(a, g[1])
			setEpisode(a, g[2])
			// Poker After Dark season 1 aired in 2011.
			a.Year = 2010 + a.Season
		},
	},
	{
		name:       "hcl_season_episode",
		re:         regexp.MustCompile(`(?i)HCL[_\s-]S(\d+)[_\s-]?EP?\s*(\d+)`),
		brand:      inventory.BrandHCL,
		eventType:  inventory.EventCashGame,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			setSeason(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "gog_season_episode",
		re:         regexp.MustCompile(`(?i)GOG[_\s-]S(\d+)[_\s-]?EP?\s*(\d+)`),
		brand:      inventory.BrandGOG,
		eventType:  inventory.EventCashGame,
		confidence: 0.90,
		apply: func(g []string, a *inventory.Asset) {
			setSeason(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "mpp_season_episode",
		re:         regexp.MustCompile(`(?i)MPP[_\s-]S(\d+)[_\s-]?EP?\s*(\d+)`),
		brand:      inventory.BrandMPP,
		eventType:  inventory.EventSide,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			setSeason(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "wsopc_year",
		re:         regexp.MustCompile(`(?i)WSOPC[_\s-](\d{4})`),
		brand:      inventory.BrandWSOPC,
		eventType:  inventory.EventCircuit,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
		},
	},
	{
		name:       "wpt_year",
		re:         regexp.MustCompile(`(?i)WPT[_\s-]?(\d{4})`),
		brand:      inventory.BrandWPT,
		eventType:  inventory.EventMain,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
		},
	},
	{
		name:       "ept_year",
		re:         regexp.MustCompile(`(?i)EPT[_\s-]?(\d{4})`),
		brand:      inventory.BrandEPT,
		eventType:  inventory.EventMain,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
		},
	},
	{
		name:       "wsop_day",
		re:         regexp.MustCompile(`(?i)WSOP\s+(\d{4}).*?(Day\s*\d+[A-D]?(?:\s*Part\s*\d+)?)`),
		brand:      inventory.BrandWSOP,
		confidence: 0.85,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
			a.DayLabel = daylabel.FromString(g[2])
			a.Meta.DayLabel = a.DayLabel
		},
	},
	{
		name:       "generic_season_episode",
		re:         regexp.MustCompile(`(?i)\bS(\d{1,2})[_\s-]?EP?\s*(\d{1,3})\b`),
		confidence: 0.80,
		apply: func(g []string, a *inventory.Asset) {
			setSeason(a, g[1])
			setEpisode(a, g[2])
		},
	},
	{
		name:       "loose_year",
		re:         regexp.MustCompile(`\b(19[7-9]\d|20\d{2})\b`),
		confidence: 0.75,
		apply: func(g []string, a *inventory.Asset) {
			setYear(a, g[1])
		},
	},
}

func setYear(a *inventory.Asset, raw string) {
	if y, err := strconv.Atoi(raw); err == nil {
		a.Year = y
		a.Meta.YearCode = raw
	}
}

func setEventNumber(a *inventory.Asset, raw string) {
	if n, err := strconv.Atoi(raw); err == nil {
		a.EventNumber = n
		a.Meta.EventNumber = raw
	}
}

func setSeason(a *inventory.Asset, raw string) {
	if n, err := strconv.Atoi(raw); err == nil {
		a.Season = n
		a.Meta.Season = raw
	}
}

func setEpisode(a *inventory.Asset, raw string) {
	if n, err := strconv.Atoi(raw); err == nil {
		a.Episode = n
		a.Meta.Episode = raw
	}
}
