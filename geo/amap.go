package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Amap is a client for the amap reverse geocoding API.
type Amap struct {
	key     string
	base    string
	timeout time.Duration
	hc      *http.Client
	logger  *slog.Logger
}

// NewAmap creates an amap client. base is the API origin
// (https://restapi.amap.com in production, a stub server in tests).
func NewAmap(key, base string, timeout time.Duration, logger *slog.Logger) *Amap {
	return &Amap{
		key:     key,
		base:    base,
		timeout: timeout,
		hc:      &http.Client{},
		logger:  logger,
	}
}

type amapResponse struct {
	Status    string `json:"status"`
	Info      string `json:"info"`
	Regeocode *struct {
		FormattedAddress flexString `json:"formatted_address"`
		AddressComponent struct {
			Province     flexString `json:"province"`
			City         flexString `json:"city"`
			District     flexString `json:"district"`
			Township     flexString `json:"township"`
			StreetNumber struct {
				Street flexString `json:"street"`
				Number flexString `json:"number"`
			} `json:"streetNumber"`
		} `json:"addressComponent"`
	} `json:"regeocode"`
}

// ReverseGeocode resolves lat/lon to a detailed address. An amap-reported
// failure returns an UpstreamError carrying amap's info message.
func (a *Amap) ReverseGeocode(ctx context.Context, lat, lon string) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("key", a.key)
	q.Set("location", lon+","+lat)
	q.Set("extensions", "all")
	q.Set("output", "json")
	endpoint := a.base + "/v3/geocode/regeo?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid geocode request: %w", err)
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read geocode response: %w", err)
	}

	var data amapResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	a.logger.Info("reverse geocode response", "status", data.Status, "info", data.Info)

	if data.Status != "1" || data.Regeocode == nil {
		msg := data.Info
		if msg == "" {
			msg = "逆地理编码失败"
		}
		return nil, &UpstreamError{Message: msg}
	}

	comp := data.Regeocode.AddressComponent
	province := string(comp.Province)
	city := string(comp.City)
	if city == "" {
		// Municipalities report no city; the province is the city.
		city = province
	}
	district := string(comp.District)
	township := string(comp.Township)
	street := string(comp.StreetNumber.Street)
	number := string(comp.StreetNumber.Number)

	address := string(data.Regeocode.FormattedAddress)
	if address == "" {
		address = province + city + district + township + street + number
	}

	return &Location{
		Status:  0,
		Message: "success",
		Content: Content{
			Address: address,
			AddressDetail: AddressDetail{
				Province:     province,
				City:         city,
				District:     district,
				Street:       township,
				StreetNumber: street + number,
			},
			Point: Point{X: lon, Y: lat},
		},
		Source: "gps+amap",
	}, nil
}
