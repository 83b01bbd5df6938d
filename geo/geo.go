// Package geo proxies two external location APIs: amap reverse geocoding
// (coordinates to address) and ip-api.com IP location. Both are normalized
// into the same Location shape for the client.
package geo

import (
	"encoding/json"
	"fmt"
)

// Location is the unified response shape for both geo endpoints.
type Location struct {
	Status  int     `json:"status"`
	Message string  `json:"message"`
	Content Content `json:"content"`
	IP      string  `json:"ip,omitempty"`
	Source  string  `json:"source"`
}

// Content holds the resolved address and coordinates.
type Content struct {
	Address       string        `json:"address"`
	AddressDetail AddressDetail `json:"address_detail"`
	Point         Point         `json:"point"`
}

// AddressDetail breaks the address into components. Street fields are only
// populated by reverse geocoding; CityCode only by IP location.
type AddressDetail struct {
	Province     string `json:"province"`
	City         string `json:"city"`
	District     string `json:"district"`
	Street       string `json:"street,omitempty"`
	StreetNumber string `json:"streetNumber,omitempty"`
	CityCode     string `json:"city_code,omitempty"`
}

// Point is a lon/lat pair echoed as strings, x=longitude, y=latitude.
type Point struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// UpstreamError reports a failure the upstream API itself signalled, as
// opposed to a transport failure reaching it.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream reported failure: %s", e.Message)
}

// flexString tolerates the amap quirk of returning [] instead of "" for
// absent string fields (municipality responses do this for city).
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	// Arrays (and anything else non-string) mean "absent".
	*s = ""
	return nil
}
