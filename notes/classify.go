package notes

import (
	"net/url"
	"strings"
)

// domainFragments maps host fragments to source types in match order; the
// first match wins.
var domainFragments = []struct {
	fragment string
	source   SourceType
}{
	{"m.dianping.com", SourceDianping},
	{"m.ctrip.com", SourceCtrip},
	{"mbd.baidu.com", SourceBaidu},
}

// Classify maps a resolved URL to its source type by substring match on the
// host. Unknown hosts are SourceGeneric, never an error.
func Classify(rawURL string) SourceType {
	h := host(rawURL)
	for _, d := range domainFragments {
		if strings.Contains(h, d.fragment) {
			return d.source
		}
	}
	return SourceGeneric
}

// FromAggregator reports whether the URL belongs to the Baidu domain family.
// The original URL's family changes the attribution string downstream even
// when the final content comes from a different domain.
func FromAggregator(rawURL string) bool {
	return strings.Contains(host(rawURL), "baidu.com")
}

// host extracts the host for fragment matching, falling back to the raw
// string when the URL does not parse.
func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
