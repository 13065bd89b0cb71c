package inventory

import (
	"strings"
	"time"
)

// FilenameMeta holds the raw fields extracted by the filename grammar. These
// values are never overwritten by later inference; resolvers read them but
// write their conclusions to the Asset fields instead.
type FilenameMeta struct {
	Pattern     string `json:"pattern,omitempty"`
	BrandCode   string `json:"brand_code,omitempty"`
	YearCode    string `json:"year_code,omitempty"`
	SequenceNum string `json:"sequence_num,omitempty"`
	EventNumber string `json:"event_number,omitempty"`
	Season      string `json:"season,omitempty"`
	Episode     string `json:"episode,omitempty"`
	DayLabel    string `json:"day_label,omitempty"`
	GameCode    string `json:"game_code,omitempty"`
}

// Empty reports whether no grammar pattern extracted anything.
func (m FilenameMeta) Empty() bool {
	return m == FilenameMeta{}
}

// TechSpec carries the optional media attributes filled by the ffprobe pass.
type TechSpec struct {
	DurationSec float64 `json:"duration_sec,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
	BitRate     int64   `json:"bitrate,omitempty"`
	VideoCodec  string  `json:"video_codec,omitempty"`
	AudioCodec  string  `json:"audio_codec,omitempty"`
}

// Asset is one physical media file in the archive.
type Asset struct {
	UUID         string
	FileName     string
	FilePath     string
	RelativePath string
	FolderPath   string
	Extension    string
	SizeBytes    int64
	ModifiedAt   time.Time

	Brand     Brand
	AssetType AssetType

	// Event context. Year 0 means unknown (stored as NULL); the classifier
	// only leaves it unset for unparseable pre-scan-era material.
	Year        int
	EventType   EventType
	EventNumber int
	Season      int
	Episode     int
	DayLabel    string
	Location    string

	TechSpec *TechSpec
	Meta     FilenameMeta

	Classification       string
	ClassificationReason string
	Confidence           float64
	ParseMethod          string
	ContentHash          string
	SourceOrigin         string

	PokerGoMatched bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Segment is a labeled time range inside an Asset, typically a poker hand.
type Segment struct {
	ID              int64
	ParentAssetUUID string
	RowNumber       int
	TimeInSec       float64
	TimeOutSec      float64
	SegmentType     string

	Players     []string
	Winner      string
	WinningHand string
	LosingHand  string
	PotSize     float64
	AllInStage  string

	ActionTags  []string
	EmotionTags []string

	// Situation flags are boolean shortcuts derived from the tag sets.
	Cooler      bool
	BadBeat     bool
	Suckout     bool
	Bluff       bool
	HeroCall    bool
	HeroFold    bool
	RiverKiller bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// situationTags maps action-tag spellings to the flag they imply.
var situationTags = map[string]string{
	"cooler":       "cooler",
	"bad_beat":     "bad_beat",
	"bad-beat":     "bad_beat",
	"badbeat":      "bad_beat",
	"suckout":      "suckout",
	"bluff":        "bluff",
	"hero_call":    "hero_call",
	"hero-call":    "hero_call",
	"hero_fold":    "hero_fold",
	"hero-fold":    "hero_fold",
	"river_killer": "river_killer",
	"river-killer": "river_killer",
}

// DeriveSituationFlags recomputes the boolean shortcut flags from the action
// tag set, keeping the two representations consistent.
func (s *Segment) DeriveSituationFlags() {
	s.Cooler = false
	s.BadBeat = false
	s.Suckout = false
	s.Bluff = false
	s.HeroCall = false
	s.HeroFold = false
	s.RiverKiller = false
	for _, tag := range s.ActionTags {
		switch situationTags[normalizeTag(tag)] {
		case "cooler":
			s.Cooler = true
		case "bad_beat":
			s.BadBeat = true
		case "suckout":
			s.Suckout = true
		case "bluff":
			s.Bluff = true
		case "hero_call":
			s.HeroCall = true
		case "hero_fold":
			s.HeroFold = true
		case "river_killer":
			s.RiverKiller = true
		}
	}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// CatalogVideo is one entry from the external streaming catalog, normalized
// to the same projection the classifier produces for assets.
type CatalogVideo struct {
	VideoID     string
	Title       string
	DurationSec float64

	Brand       Brand
	Year        int
	EventNumber int
	Season      int
	Episode     int
	DayLabel    string
	ContentType string
	SeriesName  string

	// MetadataJSON preserves the raw catalog payload as an opaque blob.
	MetadataJSON string

	NASMatched bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Match links one Asset with one CatalogVideo in either direction.
type Match struct {
	ID         int64
	AssetUUID  string
	VideoID    string
	MatchType  MatchType
	Confidence float64
	Reason     string
	Verified   bool
	CreatedAt  time.Time
}

// ScanHistory records one scan pass over a source.
type ScanHistory struct {
	ID            int64
	ScanType      ScanType
	StartedAt     time.Time
	CompletedAt   *time.Time
	Status        ScanStatus
	TotalFiles    int
	NewFiles      int
	ModifiedFiles int
	Errors        []string
	ScanPath      string
	OptionsJSON   string
	ErrorMessage  string
}
