package forms

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manga_tracker/library"
)

func validForm() SeriesForm {
	f := NewSeriesForm()
	f.Title = "Vinland Saga"
	f.Thumbnail = "https://example.com/v.jpg"
	return f
}

func TestExternalIDsQuery(t *testing.T) {
	_, err := ExternalIDs{MU: "  ", Line: ""}.Query()
	assert.ErrorIs(t, err, ErrNoExternalIDs)

	q, err := ExternalIDs{Line: "o:95", MAL: " 12 ", MU: "abc"}.Query()
	require.NoError(t, err)
	assert.Equal(t, "mu=abc&mal=12&line=o%3A95", q)
}

func TestExternalIDsPayload(t *testing.T) {
	ids, err := ExternalIDs{MU: "abc", Dex: "d-1", MAL: "12", Bato: " 7 "}.Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mu": "abc", "dex": "d-1", "mal": 12, "bato": 7}, ids)

	_, err = ExternalIDs{MAL: "twelve"}.Payload()
	assert.ErrorIs(t, err, ErrInvalid)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "mal")
}

func TestPayloadGenres(t *testing.T) {
	f := validForm()
	f.Genres = "drama, slice of life"
	p, err := f.Payload(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"drama", "slice of life"}, p.Genres)

	f.Genres = ""
	p, err = f.Payload(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Genres)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"genres":[]`)
	assert.Contains(t, string(body), `"ids":{}`)
	assert.Contains(t, string(body), `"year":null`)
}

func TestPayloadShape(t *testing.T) {
	f := validForm()
	f.AltTitles = "ヴィンランド・サガ, , Vinland"
	f.Type = "Manga"
	f.Status = "reading"
	f.Year = " 2005 "
	f.IsMarkdown = true
	f.Authors = "Yukimura Makoto,  "
	f.VolCh = ""

	p, err := f.Payload(map[string]any{"mal": 642})
	require.NoError(t, err)

	year := 2005
	want := SeriesPayload{
		Title:      "Vinland Saga",
		AltTitles:  []string{"ヴィンランド・サガ", "Vinland"},
		Type:       "Manga",
		Status:     "reading",
		Year:       &year,
		IsMarkdown: true,
		Genres:     []string{},
		Authors:    []library.Author{{Name: "Yukimura Makoto", Type: "Author"}},
		Thumbnail:  "https://example.com/v.jpg",
		IDs:        map[string]any{"mal": 642},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "vol_ch", "empty text fields are omitted")
	assert.NotContains(t, string(body), "description")
}

func TestValidateRequired(t *testing.T) {
	f := SeriesForm{Year: "soon"}
	err := f.Validate()
	require.True(t, errors.Is(err, ErrInvalid))
	fe := err.(FieldErrors)
	for _, key := range []string{FieldTitle, FieldType, FieldStatus, FieldThumbnail, FieldYear} {
		assert.Contains(t, fe, key)
	}
	assert.Equal(t, "Title is required", fe[FieldTitle])

	_, err = f.Payload(nil)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NoError(t, validForm().Validate())
}

func TestFromRecord(t *testing.T) {
	year := 1989
	f := FromRecord(library.Series{
		Title:      "Berserk",
		AltTitles:  []string{"ベルセルク", "Berserk: The Prototype"},
		Type:       "manga",
		Year:       &year,
		Genres:     []string{"action", "horror"},
		Authors:    []library.Author{{Name: "Miura Kentarou"}, {Name: "Studio Gaga", Type: "Artist"}},
		IsMarkdown: true,
		Thumbnail:  "https://example.com/b.jpg",
	})
	assert.Equal(t, "Manga", f.Type)
	assert.Equal(t, DefaultStatus, f.Status)
	assert.Equal(t, "1989", f.Year)
	assert.Equal(t, "ベルセルク, Berserk: The Prototype", f.AltTitles)
	assert.Equal(t, "action, horror", f.Genres)
	assert.Equal(t, "Miura Kentarou, Studio Gaga", f.Authors)
	assert.True(t, f.IsMarkdown)

	unknown := FromRecord(library.Series{Type: "Webcomic", Status: "reading"})
	assert.Equal(t, "Manga", unknown.Type)
	assert.Equal(t, "reading", unknown.Status)
}

func TestGetSetRoundTrip(t *testing.T) {
	var f SeriesForm
	for _, key := range SeriesFields {
		if key == FieldIsMarkdown {
			f.Set(key, "true")
			continue
		}
		f.Set(key, key+"-value")
	}
	for _, key := range SeriesFields {
		if key == FieldIsMarkdown {
			assert.Equal(t, "true", f.Get(key))
			continue
		}
		assert.Equal(t, key+"-value", f.Get(key))
	}
}
