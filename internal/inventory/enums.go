package inventory

import "strings"

// Brand identifies the producer/series family an asset belongs to.
type Brand string

const (
	BrandWSOP       Brand = "WSOP"
	BrandWSOPE      Brand = "WSOPE"
	BrandWSOPC      Brand = "WSOPC"
	BrandWSOPP      Brand = "WSOPP"
	BrandHCL        Brand = "HCL"
	BrandPAD        Brand = "PAD"
	BrandGGMillions Brand = "GG_MILLIONS"
	BrandMPP        Brand = "MPP"
	BrandGOG        Brand = "GOG"
	BrandWPT        Brand = "WPT"
	BrandEPT        Brand = "EPT"
	BrandOther      Brand = "OTHER"
)

var allBrands = []Brand{
	BrandWSOP, BrandWSOPE, BrandWSOPC, BrandWSOPP,
	BrandHCL, BrandPAD, BrandGGMillions, BrandMPP,
	BrandGOG, BrandWPT, BrandEPT, BrandOther,
}

// wsopFamily groups the World Series brands that share catalog coverage.
var wsopFamily = map[Brand]struct{}{
	BrandWSOP:  {},
	BrandWSOPE: {},
	BrandWSOPC: {},
	BrandWSOPP: {},
}

// AllBrands returns the known brand values in declaration order.
func AllBrands() []Brand {
	return append([]Brand(nil), allBrands...)
}

// ParseBrand maps a raw string to a Brand, returning BrandOther for
// unrecognized input.
func ParseBrand(value string) Brand {
	candidate := Brand(strings.ToUpper(strings.TrimSpace(value)))
	for _, brand := range allBrands {
		if candidate == brand {
			return brand
		}
	}
	return BrandOther
}

// Valid reports whether b is one of the declared brand values.
func (b Brand) Valid() bool {
	for _, brand := range allBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// InWSOPFamily reports whether the brand belongs to the World Series family.
func (b Brand) InWSOPFamily() bool {
	_, ok := wsopFamily[b]
	return ok
}

// Compatible reports whether assets of brand b can match catalog entries of
// brand other: equal brands always match, and any two World Series brands
// are considered interchangeable on the catalog side.
func (b Brand) Compatible(other Brand) bool {
	if b == other {
		return true
	}
	return b.InWSOPFamily() && other.InWSOPFamily()
}

// AssetType identifies the role a physical file plays in the archive.
type AssetType string

const (
	AssetStream   AssetType = "STREAM"
	AssetSubclip  AssetType = "SUBCLIP"
	AssetMaster   AssetType = "MASTER"
	AssetHandClip AssetType = "HAND_CLIP"
	AssetClean    AssetType = "CLEAN"
	AssetRaw      AssetType = "RAW"
	AssetMOV      AssetType = "MOV"
	AssetMXF      AssetType = "MXF"
	AssetGeneric  AssetType = "GENERIC"
)

var allAssetTypes = []AssetType{
	AssetStream, AssetSubclip, AssetMaster, AssetHandClip,
	AssetClean, AssetRaw, AssetMOV, AssetMXF, AssetGeneric,
}

// Valid reports whether t is one of the declared asset types.
func (t AssetType) Valid() bool {
	for _, at := range allAssetTypes {
		if t == at {
			return true
		}
	}
	return false
}

// EventType identifies the structural kind of poker event.
type EventType string

const (
	EventMain     EventType = "ME"
	EventBracelet EventType = "BE"
	EventSide     EventType = "SE"
	EventCircuit  EventType = "CIRCUIT"
	EventCashGame EventType = "CASH_GAME"
)

// Valid reports whether e is one of the declared event types.
func (e EventType) Valid() bool {
	switch e {
	case EventMain, EventBracelet, EventSide, EventCircuit, EventCashGame:
		return true
	}
	return false
}

// MatchType records which strategy produced a match row.
type MatchType string

const (
	MatchEventDay        MatchType = "event_day"
	MatchTitleSimilarity MatchType = "title_similarity"
	MatchManual          MatchType = "manual"
)

// ScanType labels a scan_history row.
type ScanType string

const (
	ScanFull        ScanType = "full"
	ScanIncremental ScanType = "incremental"
	ScanMediaInfo   ScanType = "media_info"
)

// ScanStatus is the lifecycle state of a scan pass.
type ScanStatus string

const (
	ScanRunning   ScanStatus = "running"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)
