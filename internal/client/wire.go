package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

var errInvalidNumber = errors.New("invalid number")

// flexInt64 accepts numbers, quoted numbers and null. Deezer returns some
// numeric fields as strings depending on the endpoint.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0

		return nil
	}

	if data[0] == '"' {
		var raw string

		err := json.Unmarshal(data, &raw)
		if err != nil {
			return fmt.Errorf("%w: %s", errInvalidNumber, data)
		}

		if raw == "" {
			*f = 0

			return nil
		}

		data = []byte(raw)
	}

	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: %s", errInvalidNumber, data)
	}

	*f = flexInt64(value)

	return nil
}

// wireList is the paginated envelope. A missing data key is schema drift.
type wireList[W any] struct {
	Data  *[]W   `json:"data"`
	Total int    `json:"total"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// wireRef is a nested record Deezer inlines into another one.
type wireRef struct {
	ID    flexInt64 `json:"id"`
	Name  string    `json:"name"`
	Title string    `json:"title"`
}

func (r *wireRef) id() int64 {
	if r == nil {
		return 0
	}

	return int64(r.ID)
}

func (r *wireRef) label() string {
	if r == nil {
		return ""
	}

	if r.Name != "" {
		return r.Name
	}

	return r.Title
}

func refIDs(refs []wireRef) []int64 {
	if len(refs) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(refs))
	for i := range refs {
		ids = append(ids, refs[i].id())
	}

	return ids
}

type wirePicture struct {
	Picture       string `json:"picture"`
	PictureSmall  string `json:"picture_small"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	PictureXL     string `json:"picture_xl"`
}

func (p wirePicture) images() deezer.Images {
	medium := p.PictureMedium
	if medium == "" {
		medium = p.Picture
	}

	return deezer.Images{Small: p.PictureSmall, Medium: medium, Big: p.PictureBig, XL: p.PictureXL}
}

type wireCover struct {
	Cover       string `json:"cover"`
	CoverSmall  string `json:"cover_small"`
	CoverMedium string `json:"cover_medium"`
	CoverBig    string `json:"cover_big"`
	CoverXL     string `json:"cover_xl"`
}

func (c wireCover) images() deezer.Images {
	medium := c.CoverMedium
	if medium == "" {
		medium = c.Cover
	}

	return deezer.Images{Small: c.CoverSmall, Medium: medium, Big: c.CoverBig, XL: c.CoverXL}
}

type wireTrack struct {
	ID                 flexInt64   `json:"id"`
	Readable           bool        `json:"readable"`
	Title              string      `json:"title"`
	TitleShort         string      `json:"title_short"`
	TitleVersion       string      `json:"title_version"`
	ISRC               string      `json:"isrc"`
	Link               string      `json:"link"`
	Share              string      `json:"share"`
	Duration           flexInt64   `json:"duration"`
	TrackPosition      flexInt64   `json:"track_position"`
	DiskNumber         flexInt64   `json:"disk_number"`
	Rank               flexInt64   `json:"rank"`
	ReleaseDate        deezer.Date `json:"release_date"`
	ExplicitLyrics     bool        `json:"explicit_lyrics"`
	Preview            string      `json:"preview"`
	BPM                float64     `json:"bpm"`
	Gain               float64     `json:"gain"`
	AvailableCountries []string    `json:"available_countries"`
	Contributors       []wireRef   `json:"contributors"`
	Artist             *wireRef    `json:"artist"`
	Album              *wireRef    `json:"album"`
}

func (w *wireTrack) record() *deezer.Track {
	return &deezer.Track{
		ID:                 int64(w.ID),
		Title:              w.Title,
		TitleShort:         w.TitleShort,
		TitleVersion:       w.TitleVersion,
		ISRC:               w.ISRC,
		Link:               w.Link,
		Share:              w.Share,
		Duration:           int(w.Duration),
		TrackPosition:      int(w.TrackPosition),
		DiskNumber:         int(w.DiskNumber),
		Rank:               int(w.Rank),
		ReleaseDate:        w.ReleaseDate,
		ExplicitLyrics:     w.ExplicitLyrics,
		Readable:           w.Readable,
		Preview:            w.Preview,
		BPM:                w.BPM,
		Gain:               w.Gain,
		AvailableCountries: w.AvailableCountries,
		ArtistID:           w.Artist.id(),
		ArtistName:         w.Artist.label(),
		AlbumID:            w.Album.id(),
		AlbumTitle:         w.Album.label(),
		ContributorIDs:     refIDs(w.Contributors),
	}
}

type wireAlbum struct {
	wireCover

	ID             flexInt64          `json:"id"`
	Title          string             `json:"title"`
	UPC            string             `json:"upc"`
	Link           string             `json:"link"`
	Share          string             `json:"share"`
	Label          string             `json:"label"`
	NbTracks       flexInt64          `json:"nb_tracks"`
	Duration       flexInt64          `json:"duration"`
	Fans           flexInt64          `json:"fans"`
	ReleaseDate    deezer.Date        `json:"release_date"`
	RecordType     string             `json:"record_type"`
	Available      bool               `json:"available"`
	Tracklist      string             `json:"tracklist"`
	ExplicitLyrics bool               `json:"explicit_lyrics"`
	GenreID        flexInt64          `json:"genre_id"`
	Genres         *wireList[wireRef] `json:"genres"`
	Artist         *wireRef           `json:"artist"`
	Contributors   []wireRef          `json:"contributors"`
}

func (w *wireAlbum) record() *deezer.Album {
	album := &deezer.Album{
		ID:             int64(w.ID),
		Title:          w.Title,
		UPC:            w.UPC,
		Link:           w.Link,
		Share:          w.Share,
		Cover:          w.images(),
		Label:          w.Label,
		NbTracks:       int(w.NbTracks),
		Duration:       int(w.Duration),
		Fans:           int(w.Fans),
		ReleaseDate:    w.ReleaseDate,
		RecordType:     w.RecordType,
		Available:      w.Available,
		Tracklist:      w.Tracklist,
		ExplicitLyrics: w.ExplicitLyrics,
		GenreID:        int64(w.GenreID),
		ArtistID:       w.Artist.id(),
		ArtistName:     w.Artist.label(),
		ContributorIDs: refIDs(w.Contributors),
	}

	if w.Genres != nil && w.Genres.Data != nil {
		album.GenreIDs = refIDs(*w.Genres.Data)
	}

	return album
}

type wireArtist struct {
	wirePicture

	ID        flexInt64 `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Share     string    `json:"share"`
	NbAlbum   flexInt64 `json:"nb_album"`
	NbFan     flexInt64 `json:"nb_fan"`
	Radio     bool      `json:"radio"`
	Tracklist string    `json:"tracklist"`
}

func (w *wireArtist) record() *deezer.Artist {
	return &deezer.Artist{
		ID:        int64(w.ID),
		Name:      w.Name,
		Link:      w.Link,
		Share:     w.Share,
		Picture:   w.images(),
		NbAlbum:   int(w.NbAlbum),
		NbFan:     int(w.NbFan),
		Radio:     w.Radio,
		Tracklist: w.Tracklist,
	}
}

type wirePlaylist struct {
	wirePicture

	ID            flexInt64 `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Duration      flexInt64 `json:"duration"`
	Public        bool      `json:"public"`
	IsLovedTrack  bool      `json:"is_loved_track"`
	Collaborative bool      `json:"collaborative"`
	NbTracks      flexInt64 `json:"nb_tracks"`
	Fans          flexInt64 `json:"fans"`
	Link          string    `json:"link"`
	Share         string    `json:"share"`
	Checksum      string    `json:"checksum"`
	Tracklist     string    `json:"tracklist"`
	Creator       *wireRef  `json:"creator"`
	User          *wireRef  `json:"user"`
}

func (w *wirePlaylist) record() *deezer.Playlist {
	creator := w.Creator
	if creator == nil {
		creator = w.User
	}

	return &deezer.Playlist{
		ID:            int64(w.ID),
		Title:         w.Title,
		Description:   w.Description,
		Duration:      int(w.Duration),
		Public:        w.Public,
		IsLovedTrack:  w.IsLovedTrack,
		Collaborative: w.Collaborative,
		NbTracks:      int(w.NbTracks),
		Fans:          int(w.Fans),
		Link:          w.Link,
		Share:         w.Share,
		Picture:       w.images(),
		Checksum:      w.Checksum,
		Tracklist:     w.Tracklist,
		CreatorID:     creator.id(),
		CreatorName:   creator.label(),
	}
}

type wireGenre struct {
	wirePicture

	ID   flexInt64 `json:"id"`
	Name string    `json:"name"`
}

func (w *wireGenre) record() *deezer.Genre {
	return &deezer.Genre{ID: int64(w.ID), Name: w.Name, Picture: w.images()}
}

func (w *wireGenre) editorial() *deezer.Editorial {
	return &deezer.Editorial{ID: int64(w.ID), Name: w.Name, Picture: w.images()}
}

type wireRadio struct {
	wirePicture

	ID          flexInt64 `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Share       string    `json:"share"`
	Tracklist   string    `json:"tracklist"`
}

func (w *wireRadio) record() *deezer.Radio {
	return &deezer.Radio{
		ID:          int64(w.ID),
		Title:       w.Title,
		Description: w.Description,
		Share:       w.Share,
		Picture:     w.images(),
		Tracklist:   w.Tracklist,
	}
}

type wireUser struct {
	wirePicture

	ID                   flexInt64   `json:"id"`
	Name                 string      `json:"name"`
	Lastname             string      `json:"lastname"`
	Firstname            string      `json:"firstname"`
	Email                string      `json:"email"`
	Status               flexInt64   `json:"status"`
	Birthday             deezer.Date `json:"birthday"`
	InscriptionDate      deezer.Date `json:"inscription_date"`
	Gender               string      `json:"gender"`
	Link                 string      `json:"link"`
	Country              string      `json:"country"`
	Lang                 string      `json:"lang"`
	IsKid                bool        `json:"is_kid"`
	ExplicitContentLevel string      `json:"explicit_content_level"`
	Tracklist            string      `json:"tracklist"`
}

func (w *wireUser) record() *deezer.User {
	return &deezer.User{
		ID:                   int64(w.ID),
		Name:                 w.Name,
		Lastname:             w.Lastname,
		Firstname:            w.Firstname,
		Email:                w.Email,
		Status:               int(w.Status),
		Birthday:             w.Birthday,
		InscriptionDate:      w.InscriptionDate,
		Gender:               w.Gender,
		Link:                 w.Link,
		Picture:              w.images(),
		Country:              w.Country,
		Lang:                 w.Lang,
		IsKid:                w.IsKid,
		ExplicitContentLevel: w.ExplicitContentLevel,
		Tracklist:            w.Tracklist,
	}
}

type wirePodcast struct {
	wirePicture

	ID          flexInt64 `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	Fans        flexInt64 `json:"fans"`
	Link        string    `json:"link"`
	Share       string    `json:"share"`
}

func (w *wirePodcast) record() *deezer.Podcast {
	return &deezer.Podcast{
		ID:          int64(w.ID),
		Title:       w.Title,
		Description: w.Description,
		Available:   w.Available,
		Fans:        int(w.Fans),
		Link:        w.Link,
		Share:       w.Share,
		Picture:     w.images(),
	}
}

type wireEpisode struct {
	wirePicture

	ID          flexInt64   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Available   bool        `json:"available"`
	Duration    flexInt64   `json:"duration"`
	ReleaseDate deezer.Date `json:"release_date"`
	Link        string      `json:"link"`
	Share       string      `json:"share"`
	Podcast     *wireRef    `json:"podcast"`
}

func (w *wireEpisode) record() *deezer.Episode {
	return &deezer.Episode{
		ID:           int64(w.ID),
		Title:        w.Title,
		Description:  w.Description,
		Available:    w.Available,
		Duration:     int(w.Duration),
		ReleaseDate:  w.ReleaseDate,
		Link:         w.Link,
		Share:        w.Share,
		Picture:      w.images(),
		PodcastID:    w.Podcast.id(),
		PodcastTitle: w.Podcast.label(),
	}
}

type wireChart struct {
	Tracks    *wireList[wireTrack]    `json:"tracks"`
	Albums    *wireList[wireAlbum]    `json:"albums"`
	Artists   *wireList[wireArtist]   `json:"artists"`
	Playlists *wireList[wirePlaylist] `json:"playlists"`
	Podcasts  *wireList[wirePodcast]  `json:"podcasts"`
}
