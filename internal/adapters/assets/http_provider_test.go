package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
)

func TestHTTPProvider_FontPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/regular.ttf":
			w.Write([]byte("regular-font-bytes"))
		case "/bold.ttf":
			w.Write([]byte("bold-font-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := NewHTTPProvider(&config.AssetsConfig{
		FontRegularURL: server.URL + "/regular.ttf",
		FontBoldURL:    server.URL + "/bold.ttf",
	})

	pair, err := provider.FontPair(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("regular-font-bytes"), pair.Regular)
	assert.Equal(t, []byte("bold-font-bytes"), pair.Bold)
	assert.NotEmpty(t, pair.Family)
}

func TestHTTPProvider_FontPair_AllOrNothing(t *testing.T) {
	// Bold returns 500 on every attempt; the whole pair must fail even
	// though the regular face is available
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/regular.ttf" {
			w.Write([]byte("regular-font-bytes"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewHTTPProvider(&config.AssetsConfig{
		FontRegularURL: server.URL + "/regular.ttf",
		FontBoldURL:    server.URL + "/bold.ttf",
	})

	_, err := provider.FontPair(context.Background())
	assert.Error(t, err)
}

func TestHTTPProvider_FontPair_Unconfigured(t *testing.T) {
	provider := NewHTTPProvider(&config.AssetsConfig{})

	_, err := provider.FontPair(context.Background())
	assert.Error(t, err)
}

func TestHTTPProvider_Logo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("logo-bytes"))
	}))
	defer server.Close()

	provider := NewHTTPProvider(&config.AssetsConfig{
		LogoURL: server.URL + "/logo.png",
	})

	logo, err := provider.Logo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "png", logo.Format)
	assert.Equal(t, []byte("logo-bytes"), logo.Data)
}

func TestHTTPProvider_Logo_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewHTTPProvider(&config.AssetsConfig{
		LogoURL: server.URL + "/logo.png",
	})

	_, err := provider.Logo(context.Background())
	assert.Error(t, err)
}

func TestImageFormat(t *testing.T) {
	assert.Equal(t, "jpg", imageFormat("https://cdn.example.com/logo.JPG"))
	assert.Equal(t, "jpg", imageFormat("/images/logo.jpeg"))
	assert.Equal(t, "gif", imageFormat("/images/logo.gif"))
	assert.Equal(t, "png", imageFormat("/images/logo.png"))
	assert.Equal(t, "png", imageFormat("/images/logo"))
}
