package geo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAmap(base string) *Amap {
	return NewAmap("test-key", base, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReverseGeocode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/geocode/regeo", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "120.15,30.27", r.URL.Query().Get("location"))

		fmt.Fprint(w, `{
			"status": "1",
			"info": "OK",
			"regeocode": {
				"formatted_address": "浙江省杭州市西湖区北山街道",
				"addressComponent": {
					"province": "浙江省",
					"city": "杭州市",
					"district": "西湖区",
					"township": "北山街道",
					"streetNumber": {"street": "北山路", "number": "1号"}
				}
			}
		}`)
	}))
	defer ts.Close()

	loc, err := testAmap(ts.URL).ReverseGeocode(context.Background(), "30.27", "120.15")
	require.NoError(t, err)

	assert.Equal(t, 0, loc.Status)
	assert.Equal(t, "success", loc.Message)
	assert.Equal(t, "浙江省杭州市西湖区北山街道", loc.Content.Address)
	assert.Equal(t, "浙江省", loc.Content.AddressDetail.Province)
	assert.Equal(t, "杭州市", loc.Content.AddressDetail.City)
	assert.Equal(t, "北山街道", loc.Content.AddressDetail.Street)
	assert.Equal(t, "北山路1号", loc.Content.AddressDetail.StreetNumber)
	// point echoes the request coordinates
	assert.Equal(t, Point{X: "120.15", Y: "30.27"}, loc.Content.Point)
	assert.Equal(t, "gps+amap", loc.Source)
}

// TestReverseGeocodeMunicipality verifies the city falls back to the
// province when amap reports city as an empty array.
func TestReverseGeocodeMunicipality(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "1",
			"regeocode": {
				"formatted_address": "上海市黄浦区南京东路街道",
				"addressComponent": {
					"province": "上海市",
					"city": [],
					"district": "黄浦区",
					"township": "南京东路街道",
					"streetNumber": {"street": [], "number": []}
				}
			}
		}`)
	}))
	defer ts.Close()

	loc, err := testAmap(ts.URL).ReverseGeocode(context.Background(), "31.23", "121.47")
	require.NoError(t, err)

	assert.Equal(t, "上海市", loc.Content.AddressDetail.City)
	assert.Empty(t, loc.Content.AddressDetail.StreetNumber)
}

// TestReverseGeocodeBuildsAddress verifies the address is assembled from
// components when formatted_address is missing.
func TestReverseGeocodeBuildsAddress(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "1",
			"regeocode": {
				"addressComponent": {
					"province": "浙江省",
					"city": "杭州市",
					"district": "西湖区",
					"township": "",
					"streetNumber": {"street": "", "number": ""}
				}
			}
		}`)
	}))
	defer ts.Close()

	loc, err := testAmap(ts.URL).ReverseGeocode(context.Background(), "30.27", "120.15")
	require.NoError(t, err)
	assert.Equal(t, "浙江省杭州市西湖区", loc.Content.Address)
}

func TestReverseGeocodeUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "0", "info": "INVALID_USER_KEY"}`)
	}))
	defer ts.Close()

	_, err := testAmap(ts.URL).ReverseGeocode(context.Background(), "30.27", "120.15")

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "INVALID_USER_KEY", upstreamErr.Message)
}
