package lingocache

import "time"

// Entry is the unit of storage: one cached translation result.
type Entry struct {
	Key            string `json:"key"` // fingerprint from DeriveKey, unique
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"` // "auto" permitted
	TargetLang     string `json:"target_lang"`
	Model          string `json:"model"`
	CreatedAt      int64  `json:"created_at"` // milliseconds since epoch, set at storage time
}

// Stats holds aggregate numbers over the whole store.
// Healthy is set by the Manager relative to its configured ceiling.
type Stats struct {
	TotalEntries    int64
	SourceBytes     int64
	TranslatedBytes int64
	OldestTimestamp int64 // milliseconds since epoch, 0 when empty
	NewestTimestamp int64
	Healthy         bool
}

// TotalBytes returns the combined size of source and translated text.
func (s Stats) TotalBytes() int64 {
	return s.SourceBytes + s.TranslatedBytes
}

// SizeKB returns the total text size in kilobytes.
func (s Stats) SizeKB() float64 {
	return float64(s.TotalBytes()) / 1024
}

// SizeMB returns the total text size in megabytes.
func (s Stats) SizeMB() float64 {
	return float64(s.TotalBytes()) / (1024 * 1024)
}

// OldestAge returns the age of the oldest entry relative to now.
// Returns 0 for an empty store.
func (s Stats) OldestAge(now time.Time) time.Duration {
	if s.OldestTimestamp == 0 {
		return 0
	}
	return now.Sub(time.UnixMilli(s.OldestTimestamp))
}

// NewestAge returns the age of the newest entry relative to now.
func (s Stats) NewestAge(now time.Time) time.Duration {
	if s.NewestTimestamp == 0 {
		return 0
	}
	return now.Sub(time.UnixMilli(s.NewestTimestamp))
}

// ModelStats holds the same aggregates as Stats for a single model.
type ModelStats struct {
	Model           string
	TotalEntries    int64
	SourceBytes     int64
	TranslatedBytes int64
	OldestTimestamp int64
	NewestTimestamp int64
}
