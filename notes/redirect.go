package notes

import "regexp"

// Mechanism names the client-side redirect idiom found in a page body.
type Mechanism string

const (
	MechanismScriptLocation Mechanism = "script-location"
	MechanismMetaRefresh    Mechanism = "meta-refresh"
)

// RedirectHint is evidence that a fetched page instructs the client to
// navigate elsewhere.
type RedirectHint struct {
	TargetURL string
	Mechanism Mechanism
}

// The contract is to detect two known redirect idioms, not to interpret
// script. Patterns stay narrowly scoped to those idioms.
var (
	scriptLocationRe = regexp.MustCompile(`window\.location\.replace\(["']([^"']+)["']\)`)
	metaRefreshRe    = regexp.MustCompile(`(?i)<meta[^>]+http-equiv=["']refresh["'][^>]+content=["'][^;]+;\s*url=([^"']+)["']`)
)

// ResolveRedirect scans body for a client-side redirect. A script location
// assignment wins over a meta refresh; only the first match is used. Returns
// nil when the page is not a redirect.
func ResolveRedirect(body string) *RedirectHint {
	if m := scriptLocationRe.FindStringSubmatch(body); m != nil {
		return &RedirectHint{TargetURL: m[1], Mechanism: MechanismScriptLocation}
	}
	if m := metaRefreshRe.FindStringSubmatch(body); m != nil {
		return &RedirectHint{TargetURL: m[1], Mechanism: MechanismMetaRefresh}
	}
	return nil
}
