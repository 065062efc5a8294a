package entity

// Image is an artwork reference returned by Spotify.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// ArtistRef is the short artist form embedded in albums.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is the subset of a Spotify album the service reads.
type Album struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ReleaseDate  string            `json:"release_date,omitempty"`
	TotalTracks  int               `json:"total_tracks,omitempty"`
	Images       []Image           `json:"images,omitempty"`
	Artists      []ArtistRef       `json:"artists,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// ImageURL returns the first cover URL, or empty when there is none.
func (a *Album) ImageURL() string {
	if len(a.Images) == 0 {
		return ""
	}

	return a.Images[0].URL
}

// SpotifyURL returns the album page on open.spotify.com.
func (a *Album) SpotifyURL() string {
	return a.ExternalURLs["spotify"]
}

// ReleaseYear returns the year part of the release date.
func (a *Album) ReleaseYear() string {
	if len(a.ReleaseDate) < 4 {
		return a.ReleaseDate
	}

	return a.ReleaseDate[:4]
}

// SpotifyProfile is the subset of a Spotify user profile used for follow enrichment.
type SpotifyProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Images      []Image `json:"images,omitempty"`
}

// ImageURL returns the first image URL, or empty when there is none.
func (p *SpotifyProfile) ImageURL() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}

	return p.Images[0].URL
}
