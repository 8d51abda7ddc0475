package providers

import "context"

// FontPair holds the fetched regular and bold font files for guide
// rendering. The pair is all-or-nothing: if either face is unavailable the
// render backend falls back to its built-in fonts for both.
type FontPair struct {
	Family  string
	Regular []byte
	Bold    []byte
}

// LogoImage holds the fetched clinic logo
type LogoImage struct {
	// Format is the image type as understood by the render backend,
	// e.g. "png" or "jpg"
	Format string
	Data   []byte
}

// AssetProvider defines the interface for fetching the optional external
// assets embedded in generated guides. Failures are expected and must be
// recoverable by the caller; they never abort generation.
type AssetProvider interface {
	// FontPair fetches the regular and bold font files. An error means
	// neither face should be used.
	FontPair(ctx context.Context) (*FontPair, error)

	// Logo fetches the clinic logo image
	Logo(ctx context.Context) (*LogoImage, error)
}
