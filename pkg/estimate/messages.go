package estimate

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the English text.
const (
	keyDescOriginal  = "EXIF capture time"
	keyDescDigitized = "EXIF digitized time"
	keyDescModified  = "EXIF modified time"
	keyDescFilename  = "Filename (%s)"
	keyDescMtime     = "File modification time"

	keyNoDatetime    = "No date or time information found"
	keyInconsistent  = "Date and time sources disagree significantly"
	keyConflict      = "%s and %s differ by %s"
	keyNoOriginal    = "EXIF capture time is missing; the estimate is less reliable"
	keyMtimeOnly     = "Relying solely on the file modification time, which may differ from the capture time"
	keyDateOnly      = "No time of day available; this is a date-only estimate"
	keyFilenameTime  = "Time of day recovered from the filename (%s)"
	keyWithTime      = "%s (with time)"
	keyDateOnlyLabel = "%s (date only)"

	keyDays    = "%dd %dh"
	keyHours   = "%dh %dm"
	keyMinutes = "%dm"
	keySeconds = "%ds"
)

var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	ja := map[string]string{
		keyDescOriginal:  "Exif撮影日時",
		keyDescDigitized: "Exifデジタル化日時",
		keyDescModified:  "Exif更新日時",
		keyDescFilename:  "ファイル名 (%s)",
		keyDescMtime:     "ファイル更新日時",
		keyNoDatetime:    "日時情報が見つかりません",
		keyInconsistent:  "複数の日時情報に大きな差異があります",
		keyConflict:      "%sと%sに%sの差があります",
		keyNoOriginal:    "Exif撮影日時が存在しません。推定日時の信頼性が低下します",
		keyMtimeOnly:     "ファイル更新日時のみで推定しています。実際の撮影日時と異なる可能性があります",
		keyDateOnly:      "時間情報がないため、日付のみの推定です",
		keyFilenameTime:  "ファイル名から時間情報を抽出しました (%s)",
		keyWithTime:      "%s (時間付き)",
		keyDateOnlyLabel: "%s (日付のみ)",
		keyDays:          "%d日%d時間",
		keyHours:         "%d時間%d分",
		keyMinutes:       "%d分",
		keySeconds:       "%d秒",
	}
	for key, msg := range ja {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Japanese, key, msg)
	}
	return b
}()

// ParseLanguage resolves a BCP 47 string to one of the supported message
// languages. Unknown or malformed input resolves to English.
func ParseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return resolveLanguage(tag)
}

func resolveLanguage(tag language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// FormatDuration renders d using its largest nonzero unit pair, e.g. "10d 0h",
// "2h 5m", "7m" or "30s" (or the Japanese equivalents).
func FormatDuration(d time.Duration, tag language.Tag) string {
	return formatDuration(newPrinter(resolveLanguage(tag)), d)
}

func formatDuration(p *message.Printer, d time.Duration) string {
	d = absDuration(d)
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return p.Sprintf(keyDays, days, hours%24)
	case hours > 0:
		return p.Sprintf(keyHours, hours, minutes%60)
	case minutes > 0:
		return p.Sprintf(keyMinutes, minutes)
	default:
		return p.Sprintf(keySeconds, seconds)
	}
}
