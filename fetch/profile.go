package fetch

import "net/http"

// Profile selects a canned browser-identity header set for an outbound call.
type Profile int

const (
	// ProfileBaidu is the full Chrome header set with the transfer encoding
	// pinned to gzip/deflate. Baidu serves garbled bodies under brotli, so
	// that encoding must never be advertised to it.
	ProfileBaidu Profile = iota
	// ProfileDouguo is the full Chrome header set; the transport negotiates
	// compression itself.
	ProfileDouguo
	// ProfileGeneric is the minimal set used for unrecognized third-party
	// hosts reached through redirects.
	ProfileGeneric
	// ProfileRetry is the most complete header set, used for the single
	// anti-bot retry.
	ProfileRetry
)

// apply sets the profile's headers on req. Profiles that pin Accept-Encoding
// take over decompression from the transport; decodeBody handles that.
func (p Profile) apply(req *http.Request) {
	h := req.Header
	h.Set("User-Agent", userAgent)
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")

	switch p {
	case ProfileBaidu, ProfileDouguo:
		h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
		h.Set("Cache-Control", "max-age=0")
		h.Set("Sec-Ch-Ua", `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`)
		h.Set("Sec-Ch-Ua-Mobile", "?0")
		h.Set("Sec-Ch-Ua-Platform", `"macOS"`)
		h.Set("Sec-Fetch-Dest", "document")
		h.Set("Sec-Fetch-Mode", "navigate")
		h.Set("Sec-Fetch-Site", "none")
		h.Set("Sec-Fetch-User", "?1")
		h.Set("DNT", "1")
		if p == ProfileBaidu {
			h.Set("Accept-Encoding", "gzip, deflate")
			h.Set("Referer", "https://www.baidu.com/")
		} else {
			h.Set("Referer", "https://www.douguo.com/")
		}
	case ProfileGeneric:
		h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
		h.Set("Accept-Encoding", "gzip, deflate")
	case ProfileRetry:
		h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
		h.Set("Accept-Encoding", "gzip, deflate")
		h.Set("Cache-Control", "max-age=0")
		h.Set("Sec-Fetch-Dest", "document")
		h.Set("Sec-Fetch-Mode", "navigate")
		h.Set("Sec-Fetch-Site", "none")
		h.Set("Sec-Fetch-User", "?1")
		h.Set("Referer", "https://www.baidu.com/")
	}
}
