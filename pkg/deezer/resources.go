package deezer

import (
	"fmt"
)

// Track represents a Deezer track.
type Track struct {
	ID                 int64    `json:"id"                            yaml:"id"`
	Title              string   `json:"title"                         yaml:"title"`
	TitleShort         string   `json:"title_short,omitempty"         yaml:"title_short,omitempty"`
	TitleVersion       string   `json:"title_version,omitempty"       yaml:"title_version,omitempty"`
	ISRC               string   `json:"isrc,omitempty"                yaml:"isrc,omitempty"`
	Link               string   `json:"link,omitempty"                yaml:"link,omitempty"`
	Share              string   `json:"share,omitempty"               yaml:"share,omitempty"`
	Duration           int      `json:"duration"                      yaml:"duration"`
	TrackPosition      int      `json:"track_position,omitempty"      yaml:"track_position,omitempty"`
	DiskNumber         int      `json:"disk_number,omitempty"         yaml:"disk_number,omitempty"`
	Rank               int      `json:"rank,omitempty"                yaml:"rank,omitempty"`
	ReleaseDate        Date     `json:"release_date,omitzero"         yaml:"release_date,omitempty"`
	ExplicitLyrics     bool     `json:"explicit_lyrics"               yaml:"explicit_lyrics"`
	Readable           bool     `json:"readable"                      yaml:"readable"`
	Preview            string   `json:"preview,omitempty"             yaml:"preview,omitempty"`
	BPM                float64  `json:"bpm,omitempty"                 yaml:"bpm,omitempty"`
	Gain               float64  `json:"gain,omitempty"                yaml:"gain,omitempty"`
	AvailableCountries []string `json:"available_countries,omitempty" yaml:"available_countries,omitempty"`

	// Relationships by id, with display names flattened in.
	ArtistID       int64   `json:"artist_id,omitempty"       yaml:"artist_id,omitempty"`
	ArtistName     string  `json:"artist_name,omitempty"     yaml:"artist_name,omitempty"`
	AlbumID        int64   `json:"album_id,omitempty"        yaml:"album_id,omitempty"`
	AlbumTitle     string  `json:"album_title,omitempty"     yaml:"album_title,omitempty"`
	ContributorIDs []int64 `json:"contributor_ids,omitempty" yaml:"contributor_ids,omitempty"`
}

// Validate checks the fields every track must carry.
func (t *Track) Validate() error {
	return requireIdentity("track", t.ID, "title", t.Title)
}

// Album represents a Deezer album.
type Album struct {
	ID             int64  `json:"id"                        yaml:"id"`
	Title          string `json:"title"                     yaml:"title"`
	UPC            string `json:"upc,omitempty"             yaml:"upc,omitempty"`
	Link           string `json:"link,omitempty"            yaml:"link,omitempty"`
	Share          string `json:"share,omitempty"           yaml:"share,omitempty"`
	Cover          Images `json:"cover"                     yaml:"cover"`
	Label          string `json:"label,omitempty"           yaml:"label,omitempty"`
	NbTracks       int    `json:"nb_tracks,omitempty"       yaml:"nb_tracks,omitempty"`
	Duration       int    `json:"duration,omitempty"        yaml:"duration,omitempty"`
	Fans           int    `json:"fans,omitempty"            yaml:"fans,omitempty"`
	ReleaseDate    Date   `json:"release_date,omitzero"     yaml:"release_date,omitempty"`
	RecordType     string `json:"record_type,omitempty"     yaml:"record_type,omitempty"`
	Available      bool   `json:"available"                 yaml:"available"`
	Tracklist      string `json:"tracklist,omitempty"       yaml:"tracklist,omitempty"`
	ExplicitLyrics bool   `json:"explicit_lyrics"           yaml:"explicit_lyrics"`

	GenreID        int64   `json:"genre_id,omitempty"        yaml:"genre_id,omitempty"`
	GenreIDs       []int64 `json:"genre_ids,omitempty"       yaml:"genre_ids,omitempty"`
	ArtistID       int64   `json:"artist_id,omitempty"       yaml:"artist_id,omitempty"`
	ArtistName     string  `json:"artist_name,omitempty"     yaml:"artist_name,omitempty"`
	ContributorIDs []int64 `json:"contributor_ids,omitempty" yaml:"contributor_ids,omitempty"`
}

// Validate checks the fields every album must carry.
func (a *Album) Validate() error {
	return requireIdentity("album", a.ID, "title", a.Title)
}

// Artist represents a Deezer artist.
type Artist struct {
	ID        int64  `json:"id"                  yaml:"id"`
	Name      string `json:"name"                yaml:"name"`
	Link      string `json:"link,omitempty"      yaml:"link,omitempty"`
	Share     string `json:"share,omitempty"     yaml:"share,omitempty"`
	Picture   Images `json:"picture"             yaml:"picture"`
	NbAlbum   int    `json:"nb_album,omitempty"  yaml:"nb_album,omitempty"`
	NbFan     int    `json:"nb_fan,omitempty"    yaml:"nb_fan,omitempty"`
	Radio     bool   `json:"radio"               yaml:"radio"`
	Tracklist string `json:"tracklist,omitempty" yaml:"tracklist,omitempty"`
}

// Validate checks the fields every artist must carry.
func (a *Artist) Validate() error {
	return requireIdentity("artist", a.ID, "name", a.Name)
}

// Playlist represents a Deezer playlist.
type Playlist struct {
	ID            int64  `json:"id"                    yaml:"id"`
	Title         string `json:"title"                 yaml:"title"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Duration      int    `json:"duration,omitempty"    yaml:"duration,omitempty"`
	Public        bool   `json:"public"                yaml:"public"`
	IsLovedTrack  bool   `json:"is_loved_track"        yaml:"is_loved_track"`
	Collaborative bool   `json:"collaborative"         yaml:"collaborative"`
	NbTracks      int    `json:"nb_tracks,omitempty"   yaml:"nb_tracks,omitempty"`
	Fans          int    `json:"fans,omitempty"        yaml:"fans,omitempty"`
	Link          string `json:"link,omitempty"        yaml:"link,omitempty"`
	Share         string `json:"share,omitempty"       yaml:"share,omitempty"`
	Picture       Images `json:"picture"               yaml:"picture"`
	Checksum      string `json:"checksum,omitempty"    yaml:"checksum,omitempty"`
	Tracklist     string `json:"tracklist,omitempty"   yaml:"tracklist,omitempty"`

	CreatorID   int64  `json:"creator_id,omitempty"   yaml:"creator_id,omitempty"`
	CreatorName string `json:"creator_name,omitempty" yaml:"creator_name,omitempty"`
}

// Validate checks the fields every playlist must carry.
func (p *Playlist) Validate() error {
	return requireIdentity("playlist", p.ID, "title", p.Title)
}

// Genre represents a Deezer genre. The "All" genre has id 0.
type Genre struct {
	ID      int64  `json:"id"      yaml:"id"`
	Name    string `json:"name"    yaml:"name"`
	Picture Images `json:"picture" yaml:"picture"`
}

// Validate checks the fields every genre must carry.
func (g *Genre) Validate() error {
	return requireName("genre", g.Name)
}

// Radio represents a Deezer radio (mix).
type Radio struct {
	ID          int64  `json:"id"                    yaml:"id"`
	Title       string `json:"title"                 yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Share       string `json:"share,omitempty"       yaml:"share,omitempty"`
	Picture     Images `json:"picture"               yaml:"picture"`
	Tracklist   string `json:"tracklist,omitempty"   yaml:"tracklist,omitempty"`
}

// Validate checks the fields every radio must carry.
func (r *Radio) Validate() error {
	return requireIdentity("radio", r.ID, "title", r.Title)
}

// User represents a Deezer user. Private fields are only present for the token owner.
type User struct {
	ID                   int64  `json:"id"                               yaml:"id"`
	Name                 string `json:"name"                             yaml:"name"`
	Lastname             string `json:"lastname,omitempty"               yaml:"lastname,omitempty"`
	Firstname            string `json:"firstname,omitempty"              yaml:"firstname,omitempty"`
	Email                string `json:"email,omitempty"                  yaml:"email,omitempty"`
	Status               int    `json:"status,omitempty"                 yaml:"status,omitempty"`
	Birthday             Date   `json:"birthday,omitzero"                yaml:"birthday,omitempty"`
	InscriptionDate      Date   `json:"inscription_date,omitzero"        yaml:"inscription_date,omitempty"`
	Gender               string `json:"gender,omitempty"                 yaml:"gender,omitempty"`
	Link                 string `json:"link,omitempty"                   yaml:"link,omitempty"`
	Picture              Images `json:"picture"                          yaml:"picture"`
	Country              string `json:"country,omitempty"                yaml:"country,omitempty"`
	Lang                 string `json:"lang,omitempty"                   yaml:"lang,omitempty"`
	IsKid                bool   `json:"is_kid"                           yaml:"is_kid"`
	ExplicitContentLevel string `json:"explicit_content_level,omitempty" yaml:"explicit_content_level,omitempty"`
	Tracklist            string `json:"tracklist,omitempty"              yaml:"tracklist,omitempty"`
}

// Validate checks the fields every user must carry.
func (u *User) Validate() error {
	return requireIdentity("user", u.ID, "name", u.Name)
}

// Editorial represents a Deezer editorial section. Editorial 0 is the global one.
type Editorial struct {
	ID      int64  `json:"id"      yaml:"id"`
	Name    string `json:"name"    yaml:"name"`
	Picture Images `json:"picture" yaml:"picture"`
}

// Validate checks the fields every editorial must carry.
func (e *Editorial) Validate() error {
	return requireName("editorial", e.Name)
}

// Podcast represents a Deezer podcast.
type Podcast struct {
	ID          int64  `json:"id"                    yaml:"id"`
	Title       string `json:"title"                 yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Available   bool   `json:"available"             yaml:"available"`
	Fans        int    `json:"fans,omitempty"        yaml:"fans,omitempty"`
	Link        string `json:"link,omitempty"        yaml:"link,omitempty"`
	Share       string `json:"share,omitempty"       yaml:"share,omitempty"`
	Picture     Images `json:"picture"               yaml:"picture"`
}

// Validate checks the fields every podcast must carry.
func (p *Podcast) Validate() error {
	return requireIdentity("podcast", p.ID, "title", p.Title)
}

// Episode represents a podcast episode.
type Episode struct {
	ID          int64  `json:"id"                      yaml:"id"`
	Title       string `json:"title"                   yaml:"title"`
	Description string `json:"description,omitempty"   yaml:"description,omitempty"`
	Available   bool   `json:"available"               yaml:"available"`
	Duration    int    `json:"duration,omitempty"      yaml:"duration,omitempty"`
	ReleaseDate Date   `json:"release_date,omitzero"   yaml:"release_date,omitempty"`
	Link        string `json:"link,omitempty"          yaml:"link,omitempty"`
	Share       string `json:"share,omitempty"         yaml:"share,omitempty"`
	Picture     Images `json:"picture"                 yaml:"picture"`

	PodcastID    int64  `json:"podcast_id,omitempty"    yaml:"podcast_id,omitempty"`
	PodcastTitle string `json:"podcast_title,omitempty" yaml:"podcast_title,omitempty"`
}

// Validate checks the fields every episode must carry.
func (e *Episode) Validate() error {
	return requireIdentity("episode", e.ID, "title", e.Title)
}

// Chart aggregates the top records of a genre (0 for all genres).
type Chart struct {
	GenreID   int64      `json:"genre_id"  yaml:"genre_id"`
	Tracks    []Track    `json:"tracks"    yaml:"tracks"`
	Albums    []Album    `json:"albums"    yaml:"albums"`
	Artists   []Artist   `json:"artists"   yaml:"artists"`
	Playlists []Playlist `json:"playlists" yaml:"playlists"`
	Podcasts  []Podcast  `json:"podcasts"  yaml:"podcasts"`
}

// Infos describes what the Deezer API offers in the caller's country.
type Infos struct {
	CountryISO  string `json:"country_iso"  yaml:"country_iso"`
	Country     string `json:"country"      yaml:"country"`
	Open        bool   `json:"open"         yaml:"open"`
	Pop         string `json:"pop,omitempty" yaml:"pop,omitempty"`
	HasPodcasts bool   `json:"has_podcasts" yaml:"has_podcasts"`
}

// Validate checks the fields every infos payload must carry.
func (i *Infos) Validate() error {
	if i.CountryISO == "" {
		return fmt.Errorf("%w: infos.country_iso", ErrMissingField)
	}

	return nil
}

// UserOptions describes the streaming options of the token owner.
type UserOptions struct {
	Streaming         bool `json:"streaming"          yaml:"streaming"`
	StreamingDuration int  `json:"streaming_duration" yaml:"streaming_duration"`
	Offline           bool `json:"offline"            yaml:"offline"`
	HQ                bool `json:"hq"                 yaml:"hq"`
	AdsDisplay        bool `json:"ads_display"        yaml:"ads_display"`
	AdsAudio          bool `json:"ads_audio"          yaml:"ads_audio"`
	TooManyDevices    bool `json:"too_many_devices"   yaml:"too_many_devices"`
	CanSubscribe      bool `json:"can_subscribe"      yaml:"can_subscribe"`
	RadioSkips        int  `json:"radio_skips"        yaml:"radio_skips"`
	Lossless          bool `json:"lossless"           yaml:"lossless"`
	Preview           bool `json:"preview"            yaml:"preview"`
}

// SearchResult is the first page of a track search.
type SearchResult struct {
	Query  string  `json:"query"          yaml:"query"`
	Total  int     `json:"total"          yaml:"total"`
	Next   string  `json:"next,omitempty" yaml:"next,omitempty"`
	Tracks []Track `json:"tracks"         yaml:"tracks"`
}

func requireIdentity(kind string, id int64, field, value string) error {
	if id == 0 {
		return fmt.Errorf("%w: %s.id", ErrMissingField, kind)
	}

	if value == "" {
		return fmt.Errorf("%w: %s.%s", ErrMissingField, kind, field)
	}

	return nil
}

func requireName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s.name", ErrMissingField, kind)
	}

	return nil
}
