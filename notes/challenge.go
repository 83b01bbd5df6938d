package notes

import (
	"context"
	"net/http"
	"strings"

	"github.com/foodnotes/foodnotes/fetch"
)

// minPlausibleBodyLen is the byte-length floor below which a note page body
// cannot be real content and is treated as a challenge page.
const minPlausibleBodyLen = 2000

// challenged reports whether body looks like an anti-bot verification
// response: the known challenge marker, the known timeout marker, or a body
// under the plausible-content floor.
func challenged(body string) bool {
	return strings.Contains(body, "安全验证") ||
		strings.Contains(body, "timeout") ||
		len(body) < minPlausibleBodyLen
}

// passChallenge applies the bounded single-retry policy for the Baidu note
// source. When the body looks challenged it waits, re-fetches once with the
// complete retry profile, and adopts the retry body only on a 200. The
// returned bool is false when the (possibly replaced) body is still
// challenged; callers must then give up without selector-based extraction.
func (p *Pipeline) passChallenge(ctx context.Context, session *fetch.Client, rawURL, body string) (string, bool) {
	if !challenged(body) {
		return body, true
	}

	p.logger.Warn("anti-bot challenge suspected, retrying once", "url", rawURL, "length", len(body))
	p.sleep(p.delays.ChallengeRetry)

	retry, err := session.Fetch(ctx, rawURL, fetch.ProfileRetry, p.timeouts.Retry)
	if err != nil {
		p.logger.Error("challenge retry failed", "url", rawURL, "error", err)
	} else if retry.StatusCode == http.StatusOK {
		body = retry.Body
	}

	if challenged(body) {
		return body, false
	}
	return body, true
}
