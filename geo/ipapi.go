package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode"
)

// IPAPI is a client for the ip-api.com IP location service.
type IPAPI struct {
	base    string
	timeout time.Duration
	hc      *http.Client
	logger  *slog.Logger
}

// NewIPAPI creates an ip-api.com client. base is the API origin
// (http://ip-api.com in production, a stub server in tests).
func NewIPAPI(base string, timeout time.Duration, logger *slog.Logger) *IPAPI {
	return &IPAPI{
		base:    base,
		timeout: timeout,
		hc:      &http.Client{},
		logger:  logger,
	}
}

type ipapiResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Country    string      `json:"country"`
	RegionName string      `json:"regionName"`
	City       string      `json:"city"`
	District   string      `json:"district"`
	Lat        json.Number `json:"lat"`
	Lon        json.Number `json:"lon"`
	Query      string      `json:"query"`
}

// Locate resolves the caller's public IP to a location. lang=zh-CN asks for
// Chinese place names, but city names still come back in English for many
// IPs; those are replaced by the province.
func (i *IPAPI) Locate(ctx context.Context) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	endpoint := i.base + "/json/?lang=zh-CN&fields=status,message,country,regionName,city,district,lat,lon,query"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid ip location request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := i.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ip location request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ip location response: %w", err)
	}

	var data ipapiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode ip location response: %w", err)
	}

	if data.Status != "success" {
		msg := data.Message
		if msg == "" {
			msg = "定位失败"
		}
		return nil, &UpstreamError{Message: msg}
	}

	province := data.RegionName
	city := data.City

	var displayCity, displayAddress string
	switch {
	case !hasHan(city) && province != "":
		displayCity = province
		displayAddress = province
	case city != "" && hasHan(city):
		displayCity = city
		displayAddress = province
		if displayAddress != "" {
			displayAddress += " "
		}
		displayAddress += city
	default:
		displayCity = province
		displayAddress = province
		if displayCity == "" {
			displayCity = "未知"
			displayAddress = "未知"
		}
	}

	i.logger.Info("ip location resolved",
		"province", province,
		"city", city,
		"display", displayAddress,
	)

	return &Location{
		Status:  0,
		Message: "success",
		Content: Content{
			Address: displayAddress,
			AddressDetail: AddressDetail{
				Province: province,
				City:     displayCity,
				District: data.District,
				CityCode: "",
			},
			Point: Point{X: data.Lon.String(), Y: data.Lat.String()},
		},
		IP:     data.Query,
		Source: "ip-api.com",
	}, nil
}

// hasHan reports whether s contains at least one Han character.
func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
