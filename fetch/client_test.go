package fetch

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBodyAndStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>hello</html>"))
	}))
	defer ts.Close()

	c := NewClient()
	res, err := c.Fetch(context.Background(), ts.URL, ProfileGeneric, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<html>hello</html>", res.Body)
	assert.Equal(t, ts.URL, res.FinalURL)
}

// TestFetchNonOKIsNotAnError verifies 4xx/5xx are returned for
// interpretation unless FetchOK is used.
func TestFetchNonOKIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient()

	res, err := c.Fetch(context.Background(), ts.URL, ProfileGeneric, 5*time.Second)
	require.NoError(t, err, "plain Fetch should return 404 as a result")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	_, err = c.FetchOK(context.Background(), ts.URL, ProfileGeneric, 5*time.Second)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr, "FetchOK should raise on 404")
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

// TestSessionPersistsCookies verifies cookies set by one call are sent on
// the next call in the same session.
func TestSessionPersistsCookies(t *testing.T) {
	var gotCookie string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warm":
			http.SetCookie(w, &http.Cookie{Name: "session_token", Value: "abc123"})
		case "/page":
			if c, err := r.Cookie("session_token"); err == nil {
				gotCookie = c.Value
			}
		}
	}))
	defer ts.Close()

	c := NewClient()
	c.Warm(context.Background(), ts.URL+"/warm", ProfileDouguo, 5*time.Second)

	_, err := c.Fetch(context.Background(), ts.URL+"/page", ProfileDouguo, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abc123", gotCookie, "warm-up cookie should carry to the next call")
}

// TestSessionsAreIsolated verifies a fresh client does not see another
// session's cookies.
func TestSessionsAreIsolated(t *testing.T) {
	sawCookie := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/warm" {
			http.SetCookie(w, &http.Cookie{Name: "tok", Value: "x"})
			return
		}
		if _, err := r.Cookie("tok"); err == nil {
			sawCookie = true
		}
	}))
	defer ts.Close()

	first := NewClient()
	first.Warm(context.Background(), ts.URL+"/warm", ProfileGeneric, 5*time.Second)

	second := NewClient()
	_, err := second.Fetch(context.Background(), ts.URL+"/page", ProfileGeneric, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, sawCookie, "sessions must not share cookies")
}

func TestFetchTimeoutClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	c := NewClient()
	_, err := c.Fetch(context.Background(), ts.URL, ProfileGeneric, 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "deadline overrun should classify as timeout")
}

func TestFetchTransportError(t *testing.T) {
	c := NewClient()
	// Reserved TEST-NET address, nothing listens there.
	_, err := c.Fetch(context.Background(), "http://192.0.2.1:9/", ProfileGeneric, 200*time.Millisecond)
	require.Error(t, err)
}

// TestBaiduProfilePinsEncoding verifies the Baidu profile never advertises
// brotli and that the pinned gzip path decompresses manually.
func TestBaiduProfilePinsEncoding(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip, deflate", r.Header.Get("Accept-Encoding"))
		assert.NotContains(t, r.Header.Get("Accept-Encoding"), "br")

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<html>压缩内容</html>"))
		gz.Close()
	}))
	defer ts.Close()

	c := NewClient()
	res, err := c.Fetch(context.Background(), ts.URL, ProfileBaidu, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "<html>压缩内容</html>", res.Body)
}

// TestCharsetTranscoding verifies GBK pages come back as UTF-8.
func TestCharsetTranscoding(t *testing.T) {
	// "你好" in GBK
	gbk := []byte{0xc4, 0xe3, 0xba, 0xc3}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		w.Write(gbk)
	}))
	defer ts.Close()

	c := NewClient()
	res, err := c.Fetch(context.Background(), ts.URL, ProfileGeneric, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "你好", res.Body)
}

func TestProfileHeaders(t *testing.T) {
	tests := []struct {
		name        string
		profile     Profile
		wantReferer string
		wantSecCh   bool
	}{
		{"baidu", ProfileBaidu, "https://www.baidu.com/", true},
		{"douguo", ProfileDouguo, "https://www.douguo.com/", true},
		{"generic", ProfileGeneric, "", false},
		{"retry", ProfileRetry, "https://www.baidu.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
			tt.profile.apply(req)

			assert.Equal(t, userAgent, req.Header.Get("User-Agent"))
			assert.Equal(t, tt.wantReferer, req.Header.Get("Referer"))
			if tt.wantSecCh {
				assert.NotEmpty(t, req.Header.Get("Sec-Ch-Ua"))
			} else {
				assert.Empty(t, req.Header.Get("Sec-Ch-Ua"))
			}
		})
	}
}
