// Package notes implements the detail-page resolution and extraction
// pipeline: fetching a note URL with a warmed session, following client-side
// redirects, classifying the final source, and extracting a normalized note
// with a per-source strategy.
package notes

// SourceType identifies which extraction strategy produced a note. The
// serialized names are part of the API contract.
type SourceType string

const (
	// SourceDianping is a Dianping mobile note page with server-embedded JSON state.
	SourceDianping SourceType = "dianping"
	// SourceCtrip is a Ctrip note page; content is client-rendered, only
	// metadata is extractable.
	SourceCtrip SourceType = "ctrip"
	// SourceBaidu is a Baidu note page behind the anti-bot gate.
	SourceBaidu SourceType = "baidu"
	// SourceGeneric covers unrecognized hosts with best-effort extraction.
	SourceGeneric SourceType = "generic"
	// SourceAggregatorRedirect marks a Baidu result that redirected to a
	// third-party platform we do not deep-extract.
	SourceAggregatorRedirect SourceType = "baidu_redirect"
	// SourceSecurityCheck marks a note blocked by an anti-bot verification
	// page even after the bounded retry.
	SourceSecurityCheck SourceType = "security_check"
	// SourceParseError marks a recognized source whose embedded data could
	// not be parsed.
	SourceParseError SourceType = "parse_error"
)

// Note is the unified output record for any detail-page fetch. Extraction
// failures are captured in Error and NeedJump rather than surfaced as HTTP
// failures, so clients can always render a degraded view.
type Note struct {
	Type        SourceType `json:"type"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Images      []string   `json:"images"`
	Source      string     `json:"source"`
	PublishTime string     `json:"publishTime"`
	RawURL      string     `json:"rawUrl"`
	OriginalURL string     `json:"originalUrl"`
	// NeedJump is set whenever extraction is known-incomplete and a human
	// should view the original page.
	NeedJump bool   `json:"needJump"`
	Error    string `json:"error,omitempty"`
}

// newNote returns a Note with the invariant fields prefilled.
func newNote(rawURL, originalURL string) *Note {
	return &Note{
		Type:        SourceGeneric,
		Images:      []string{},
		RawURL:      rawURL,
		OriginalURL: originalURL,
	}
}
