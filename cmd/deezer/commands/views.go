package commands

import (
	"strconv"
	"strings"

	"github.com/fivetwenty-io/deezer/internal/constants"
	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

var trackColumns = columns[deezer.Track]{
	header: []string{"ID", "Title", "Artist", "Album", "Duration", "Rank"},
	row: func(t *deezer.Track) []string {
		return []string{formatID(t.ID), truncate(t.Title), truncate(t.ArtistName), truncate(t.AlbumTitle), formatDuration(t.Duration), formatInt(t.Rank)}
	},
}

var albumColumns = columns[deezer.Album]{
	header: []string{"ID", "Title", "Artist", "Type", "Released", "Tracks"},
	row: func(a *deezer.Album) []string {
		return []string{formatID(a.ID), truncate(a.Title), truncate(a.ArtistName), formatKind(a.RecordType), formatDate(a.ReleaseDate), formatInt(a.NbTracks)}
	},
}

var artistColumns = columns[deezer.Artist]{
	header: []string{"ID", "Name", "Albums", "Fans"},
	row: func(a *deezer.Artist) []string {
		return []string{formatID(a.ID), truncate(a.Name), formatInt(a.NbAlbum), formatInt(a.NbFan)}
	},
}

var playlistColumns = columns[deezer.Playlist]{
	header: []string{"ID", "Title", "Creator", "Tracks", "Fans"},
	row: func(p *deezer.Playlist) []string {
		return []string{formatID(p.ID), truncate(p.Title), truncate(p.CreatorName), formatInt(p.NbTracks), formatInt(p.Fans)}
	},
}

var genreColumns = columns[deezer.Genre]{
	header: []string{"ID", "Name"},
	row: func(g *deezer.Genre) []string {
		return []string{formatID(g.ID), g.Name}
	},
}

var radioColumns = columns[deezer.Radio]{
	header: []string{"ID", "Title", "Description"},
	row: func(r *deezer.Radio) []string {
		return []string{formatID(r.ID), truncate(r.Title), truncate(formatText(r.Description))}
	},
}

var userColumns = columns[deezer.User]{
	header: []string{"ID", "Name", "Country"},
	row: func(u *deezer.User) []string {
		return []string{formatID(u.ID), truncate(u.Name), formatText(u.Country)}
	},
}

var editorialColumns = columns[deezer.Editorial]{
	header: []string{"ID", "Name"},
	row: func(e *deezer.Editorial) []string {
		return []string{formatID(e.ID), e.Name}
	},
}

var podcastColumns = columns[deezer.Podcast]{
	header: []string{"ID", "Title", "Fans", "Available"},
	row: func(p *deezer.Podcast) []string {
		return []string{formatID(p.ID), truncate(p.Title), formatInt(p.Fans), formatBool(p.Available)}
	},
}

var episodeColumns = columns[deezer.Episode]{
	header: []string{"ID", "Title", "Released", "Duration"},
	row: func(e *deezer.Episode) []string {
		return []string{formatID(e.ID), truncate(e.Title), formatDate(e.ReleaseDate), formatDuration(e.Duration)}
	},
}

func trackDetail(t *deezer.Track) [][]string {
	return [][]string{
		{"ID", formatID(t.ID)},
		{"Title", t.Title},
		{"Artist", formatText(t.ArtistName)},
		{"Album", formatText(t.AlbumTitle)},
		{"Duration", formatDuration(t.Duration)},
		{"Position", formatInt(t.TrackPosition)},
		{"Released", formatDate(t.ReleaseDate)},
		{"ISRC", formatText(t.ISRC)},
		{"BPM", formatFloat(t.BPM)},
		{"Rank", formatInt(t.Rank)},
		{"Explicit", formatBool(t.ExplicitLyrics)},
		{"Readable", formatBool(t.Readable)},
		{"Link", formatText(t.Link)},
	}
}

func albumDetail(a *deezer.Album) [][]string {
	return [][]string{
		{"ID", formatID(a.ID)},
		{"Title", a.Title},
		{"Artist", formatText(a.ArtistName)},
		{"Type", formatKind(a.RecordType)},
		{"Label", formatText(a.Label)},
		{"Released", formatDate(a.ReleaseDate)},
		{"Tracks", formatInt(a.NbTracks)},
		{"Duration", formatDuration(a.Duration)},
		{"Fans", formatInt(a.Fans)},
		{"UPC", formatText(a.UPC)},
		{"Genres", formatIDs(a.GenreIDs)},
		{"Cover", formatText(a.Cover.Largest())},
		{"Link", formatText(a.Link)},
	}
}

func artistDetail(a *deezer.Artist) [][]string {
	return [][]string{
		{"ID", formatID(a.ID)},
		{"Name", a.Name},
		{"Albums", formatInt(a.NbAlbum)},
		{"Fans", formatInt(a.NbFan)},
		{"Radio", formatBool(a.Radio)},
		{"Picture", formatText(a.Picture.Largest())},
		{"Link", formatText(a.Link)},
	}
}

func playlistDetail(p *deezer.Playlist) [][]string {
	return [][]string{
		{"ID", formatID(p.ID)},
		{"Title", p.Title},
		{"Description", formatText(p.Description)},
		{"Creator", formatText(p.CreatorName)},
		{"Tracks", formatInt(p.NbTracks)},
		{"Duration", formatDuration(p.Duration)},
		{"Fans", formatInt(p.Fans)},
		{"Public", formatBool(p.Public)},
		{"Collaborative", formatBool(p.Collaborative)},
		{"Link", formatText(p.Link)},
	}
}

func genreDetail(g *deezer.Genre) [][]string {
	return [][]string{
		{"ID", formatID(g.ID)},
		{"Name", g.Name},
		{"Picture", formatText(g.Picture.Largest())},
	}
}

func radioDetail(r *deezer.Radio) [][]string {
	return [][]string{
		{"ID", formatID(r.ID)},
		{"Title", r.Title},
		{"Description", formatText(r.Description)},
		{"Tracklist", formatText(r.Tracklist)},
	}
}

func userDetail(u *deezer.User) [][]string {
	rows := [][]string{
		{"ID", formatID(u.ID)},
		{"Name", u.Name},
		{"Country", formatText(u.Country)},
		{"Link", formatText(u.Link)},
	}

	// Private fields are only returned to the token owner.
	if u.Email != "" {
		rows = append(rows,
			[]string{"Email", u.Email},
			[]string{"Language", formatText(u.Lang)},
			[]string{"Member Since", formatDate(u.InscriptionDate)},
		)
	}

	return rows
}

func editorialDetail(e *deezer.Editorial) [][]string {
	return [][]string{
		{"ID", formatID(e.ID)},
		{"Name", e.Name},
		{"Picture", formatText(e.Picture.Largest())},
	}
}

func podcastDetail(p *deezer.Podcast) [][]string {
	return [][]string{
		{"ID", formatID(p.ID)},
		{"Title", p.Title},
		{"Description", formatText(truncate(p.Description))},
		{"Fans", formatInt(p.Fans)},
		{"Available", formatBool(p.Available)},
		{"Link", formatText(p.Link)},
	}
}

func infosDetail(i *deezer.Infos) [][]string {
	return [][]string{
		{"Country", i.Country},
		{"Country ISO", i.CountryISO},
		{"Open", formatBool(i.Open)},
		{"Podcasts", formatBool(i.HasPodcasts)},
	}
}

func formatFloat(value float64) string {
	if value == 0 {
		return constants.NotAvailable
	}

	return strconv.FormatFloat(value, 'f', 1, 64)
}

func formatIDs(ids []int64) string {
	if len(ids) == 0 {
		return constants.NotAvailable
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = formatID(id)
	}

	return strings.Join(parts, ", ")
}
