package catalog

import "time"

// AssetType distinguishes text exports from raw voice-over containers.
type AssetType string

const (
	AssetText  AssetType = "text"
	AssetAudio AssetType = "audio"
)

// ParseAssetType converts a string into a known AssetType.
func ParseAssetType(value string) (AssetType, bool) {
	switch AssetType(value) {
	case AssetText:
		return AssetText, true
	case AssetAudio:
		return AssetAudio, true
	default:
		return "", false
	}
}

// SourceAsset is an uploaded raw file belonging to the project: a text
// export that yields translation lines, or an audio container holding
// original voice-over.
type SourceAsset struct {
	ID   int64
	Type AssetType
	Name string
	Path string
	// NonDialogue excludes pure SFX/music tracks from the dubbing workflow.
	NonDialogue bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TranslationLine is one translatable unit of text tied to a source asset
// and an engine-native key.
type TranslationLine struct {
	ID            int64
	SourceAssetID int64
	Key           string
	OriginalText  string
	// TranslatedText is nil until a translator supplies text; clearing it
	// resets the line to not_translated.
	TranslatedText *string
	Status         Status
	CharacterID    *int64
	// OriginalVoiceAssetID references the source-language recording used
	// for timing and performance matching.
	OriginalVoiceAssetID *int64
	// RecordingPath is the persisted handle of the encoded dub take.
	RecordingPath string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasScript reports whether the line carries non-empty translated text for a
// performer to read.
func (l *TranslationLine) HasScript() bool {
	return l.TranslatedText != nil && *l.TranslatedText != ""
}

// NewLine is the insert payload for one parsed line.
type NewLine struct {
	Key          string
	OriginalText string
}

// Stats aggregates line counts per lifecycle status plus asset totals.
type Stats struct {
	Assets        int
	Lines         int
	NotTranslated int
	Translated    int
	Reviewed      int
	Approved      int
	Recorded      int
}
