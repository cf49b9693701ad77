package geo

import (
	"encoding/json"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim endpoint.
// It is free to use, but its usage policy caps clients at one request
// per second, which is why the Resolver paces calls.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// ErrProviderStatus is returned when the provider responds with a
// non-200 status code.
var ErrProviderStatus = errors.New("unexpected geocoding response status")

// NominatimProvider implements Provider against the Nominatim
// /reverse endpoint.
type NominatimProvider struct {
	// BaseURL lets tests and self-hosted instances override the
	// public endpoint.
	BaseURL string

	client *http.Client
}

// NewNominatimProvider creates a provider using the given client.
// A nil client falls back to a default with a 10 second timeout.
func NewNominatimProvider(client *http.Client) *NominatimProvider {
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &NominatimProvider{
		BaseURL: DefaultNominatimURL,
		client:  client,
	}
}

// nominatimResponse is the subset of the /reverse payload we consume.
type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// nominatimAddress carries the address components Nominatim may or may
// not include; any of these can be absent depending on the location.
type nominatimAddress struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Hamlet      string `json:"hamlet"`
	State       string `json:"state"`
	Province    string `json:"province"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Postcode    string `json:"postcode"`
}

// Reverse performs a single reverse-geocoding call.
func (n *NominatimProvider) Reverse(lat, lon float64) (*Result, error) {
	u, err := url.Parse(n.BaseURL + "/reverse")

	if err != nil {
		return nil, errors.Wrap(err, "invalid nominatim url")
	}

	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)

	if err != nil {
		return nil, err
	}

	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "SiteMapper/1.0 (Go "+runtime.Version()+")")

	res, err := n.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrProviderStatus, res.Status)
	}

	var payload nominatimResponse

	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "unable to decode geocoding response")
	}

	return payload.result(), nil
}

// result maps the wire payload onto a Result, applying the component
// fallback chains and the Unknown sentinels.
func (p *nominatimResponse) result() *Result {
	a := p.Address

	city, _ := lo.Coalesce(a.City, a.Town, a.Village, a.Hamlet)
	state, _ := lo.Coalesce(a.State, a.Province)

	r := &Result{
		DisplayName:      p.DisplayName,
		City:             city,
		State:            state,
		Country:          a.Country,
		CountryCode:      strings.ToUpper(a.CountryCode),
		Postcode:         a.Postcode,
		FormattedAddress: formatAddress(city, state, a.Country),
	}

	if r.DisplayName == "" {
		r.DisplayName = UnknownLocation
	}

	if r.City == "" {
		r.City = UnknownCity
	}

	if r.State == "" {
		r.State = UnknownState
	}

	if r.Country == "" {
		r.Country = UnknownCountry
	}

	return r
}
