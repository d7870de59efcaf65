package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNominatim(url string) *Nominatim {
	n := NewNominatim(zerolog.Nop())
	n.BaseURL = url
	return n
}

func TestNominatim_CountryCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "3", q.Get("zoom"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "33.5731", q.Get("lat"))
		assert.Equal(t, "-7.5898", q.Get("lon"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"address":{"country":"Morocco","country_code":"ma"}}`))
	}))
	defer srv.Close()

	cc, err := newTestNominatim(srv.URL).CountryCode(context.Background(), Coordinates{Lat: 33.5731, Lng: -7.5898})
	require.NoError(t, err)
	assert.Equal(t, "MA", cc)
}

func TestNominatim_CountryCodeOcean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	cc, err := newTestNominatim(srv.URL).CountryCode(context.Background(), Coordinates{})
	require.NoError(t, err)
	assert.Empty(t, cc)
}

func TestNominatim_CountryCodeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestNominatim(srv.URL).CountryCode(context.Background(), Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestNominatim_PlaceName(t *testing.T) {
	tests := []struct {
		name string
		body string
		lang string
		want string
	}{
		{"city and country arabic", `{"address":{"city":"الرياض","country":"السعودية"}}`, "ar", "الرياض، السعودية"},
		{"town fallback", `{"address":{"town":"Bath","country":"UK"}}`, "en", "Bath, UK"},
		{"state only", `{"address":{"state":"Ontario"}}`, "en", "Ontario"},
		{"nothing", `{}`, "ar", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.lang, r.URL.Query().Get("accept-language"))
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := newTestNominatim(srv.URL).PlaceName(context.Background(), Coordinates{Lat: 1, Lng: 2}, tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNominatim_SearchCities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Jeddah", q.Get("q"))
		assert.Equal(t, "sa", q.Get("countrycodes"))
		assert.Equal(t, "10", q.Get("limit"))
		w.Write([]byte(`[
			{"display_name":"Jeddah, Makkah","lat":"21.54","lon":"39.17","address":{"city":"Jeddah","country":"Saudi Arabia"}},
			{"display_name":"Jeddah dup","lat":"21.55","lon":"39.18","address":{"city":"Jeddah","country":"Saudi Arabia"}},
			{"display_name":"Jeddah Islamic Port","lat":"bad","lon":"39.1","address":{}},
			{"display_name":"Al Balad","lat":"21.48","lon":"39.18","address":{}}
		]`))
	}))
	defer srv.Close()

	got, err := newTestNominatim(srv.URL).SearchCities(context.Background(), "  Jeddah ", "SA", "en", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, City{Name: "Jeddah", Country: "Saudi Arabia", Lat: 21.54, Lng: 39.17}, got[0])
	assert.Equal(t, "Al Balad", got[1].Name)
}

func TestNominatim_SearchCitiesShortQuery(t *testing.T) {
	var terms []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terms = append(terms, r.URL.Query().Get("q"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	n := newTestNominatim(srv.URL)

	got, err := n.SearchCities(context.Background(), "a", "", "ar", 500)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, terms, "no request without a country")

	_, err = n.SearchCities(context.Background(), "", "JO", "ar", 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "town", "village"}, terms)
}
