package flow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manga_tracker/filter"
	"manga_tracker/forms"
	"manga_tracker/library"
)

// backend is a fake tracker API. Handlers can be swapped per test.
type backend struct {
	engine   *gin.Engine
	lastBody map[string]any
	lastURL  string
	calls    int
}

func newBackend(t *testing.T) (*backend, *Runner) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := &backend{engine: gin.New()}
	srv := httptest.NewServer(b.engine)
	t.Cleanup(srv.Close)

	client, err := library.NewClient(library.Options{BaseURL: srv.URL, APIPrefix: "/api/v1", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return b, New(client, nil)
}

func (b *backend) record(c *gin.Context) {
	b.calls++
	b.lastURL = c.Request.URL.String()
	b.lastBody = nil
	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		_ = json.NewDecoder(c.Request.Body).Decode(&b.lastBody)
	}
}

func TestLookupWithoutIDsMakesNoRequest(t *testing.T) {
	b, r := newBackend(t)
	b.engine.GET("/api/v1/external/series/data", b.record)

	_, res := r.Lookup(context.Background(), forms.ExternalIDs{MU: "   "})
	assert.False(t, res.OK)
	assert.Equal(t, "Please enter at least one external ID", res.Message)
	assert.Zero(t, b.calls)
}

func TestLookupSuccessAndFailure(t *testing.T) {
	b, r := newBackend(t)
	fail := false
	b.engine.GET("/api/v1/external/series/data", func(c *gin.Context) {
		b.record(c)
		if fail {
			c.JSON(http.StatusBadRequest, gin.H{"result": "KO"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": "OK", "data": gin.H{"title": "Berserk", "type": "Manga", "genres": []string{"action"}}})
	})

	form, res := r.Lookup(context.Background(), forms.ExternalIDs{MAL: "2", MU: "abc"})
	require.True(t, res.OK)
	assert.Equal(t, "Series data fetched successfully! Review and edit as needed.", res.Message)
	assert.Equal(t, "/api/v1/external/series/data?mu=abc&mal=2", b.lastURL)
	assert.Equal(t, "Berserk", form.Title)
	assert.Equal(t, "action", form.Genres)

	fail = true
	_, res = r.Lookup(context.Background(), forms.ExternalIDs{MAL: "2"})
	assert.False(t, res.OK)
	assert.Equal(t, "Failed to fetch series data", res.Message)
}

func TestAddSeriesFromExternal(t *testing.T) {
	b, r := newBackend(t)
	b.engine.POST("/api/v1/series", func(c *gin.Context) {
		b.record(c)
		c.JSON(http.StatusOK, gin.H{"result": "OK"})
	})

	form := forms.NewSeriesForm()
	form.Title = "Berserk"
	form.Thumbnail = "https://example.com/b.jpg"
	payload, err := BuildExternal(form, forms.ExternalIDs{MAL: "2", Bato: "77", Line: "o:1"})
	require.NoError(t, err)

	res := r.AddSeries(context.Background(), payload)
	assert.True(t, res.OK)
	assert.Equal(t, "Series added successfully!", res.Message)
	assert.Equal(t, map[string]any{"mal": float64(2), "bato": float64(77), "line": "o:1"}, b.lastBody["ids"])
}

func TestAddSeriesResponses(t *testing.T) {
	b, r := newBackend(t)
	status := http.StatusConflict
	body := gin.H{"result": "KO", "error": "Series with these IDs already exists, please use update."}
	b.engine.POST("/api/v1/series", func(c *gin.Context) {
		b.record(c)
		c.JSON(status, body)
	})

	form := forms.NewSeriesForm()
	form.Title = "Manual"
	form.Thumbnail = "https://example.com/m.jpg"
	payload, err := BuildManual(form)
	require.NoError(t, err)

	res := r.AddSeries(context.Background(), payload)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "already exists")
	assert.Equal(t, "Series already exists. Series with these IDs already exists, please use update.", res.Message)
	assert.Equal(t, map[string]any{}, b.lastBody["ids"])

	status, body = http.StatusBadRequest, gin.H{"result": "KO", "error": "Invalid type"}
	assert.Equal(t, "Invalid type", r.AddSeries(context.Background(), payload).Message)

	status, body = http.StatusInternalServerError, gin.H{"result": "KO"}
	assert.Equal(t, "Failed to add series", r.AddSeries(context.Background(), payload).Message)
}

func TestAddSeriesNetworkError(t *testing.T) {
	client, err := library.NewClient(library.Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	r := New(client, nil)

	res := r.AddSeries(context.Background(), forms.SeriesPayload{Title: "x"})
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "Network error: ")
}

func TestBuildExternalMergesFieldErrors(t *testing.T) {
	_, err := BuildExternal(forms.SeriesForm{Type: "Manga", Status: "reading", Thumbnail: "t"}, forms.ExternalIDs{Bato: "abc"})
	res := Invalid(err)
	assert.Equal(t, "Please fix the highlighted fields", res.Message)
	assert.Contains(t, res.Fields, "bato")
	assert.Contains(t, res.Fields, "title")
}

func TestSettingsFlow(t *testing.T) {
	b, r := newBackend(t)
	saveStatus := http.StatusNoContent
	b.engine.GET("/api/v1/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"result": "OK", "data": gin.H{
			"main_rating":     "mu",
			"title_languages": "en",
			"mu_integration":  1,
			"mu_username":     "reader",
			"mu_password":     true,
		}})
	})
	b.engine.PUT("/api/v1/settings", func(c *gin.Context) {
		b.record(c)
		if saveStatus == http.StatusNoContent {
			c.Status(saveStatus)
			return
		}
		c.JSON(saveStatus, gin.H{"message": "Invalid main_rating"})
	})

	settings, res := r.LoadSettings(context.Background())
	require.True(t, res.OK)
	form := forms.NewSettingsForm(settings)
	assert.Equal(t, forms.Configured, form.State(forms.GroupMU))

	payload, err := form.Payload()
	require.NoError(t, err)
	res = r.SaveSettings(context.Background(), payload)
	assert.True(t, res.OK)
	assert.Equal(t, "Settings saved successfully!", res.Message)
	assert.NotContains(t, b.lastBody, "mu_password")

	saveStatus = http.StatusBadRequest
	res = r.SaveSettings(context.Background(), payload)
	assert.False(t, res.OK)
	assert.Equal(t, "Invalid main_rating", res.Message)
}

func TestLoadSettingsFailure(t *testing.T) {
	b, r := newBackend(t)
	b.engine.GET("/api/v1/settings", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"result": "KO", "error": "Login required"})
	})
	_, res := r.LoadSettings(context.Background())
	assert.Equal(t, "Failed to load settings", res.Message)
	assert.True(t, res.Unauthorized)
}

func TestLoginFlow(t *testing.T) {
	b, r := newBackend(t)
	b.engine.POST("/api/v1/login", func(c *gin.Context) {
		switch c.PostForm("password") {
		case "right":
			c.JSON(http.StatusOK, gin.H{"result": "OK"})
		case "silent":
			c.JSON(http.StatusUnauthorized, gin.H{"result": "KO"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"result": "KO", "error": "Invalid password"})
		}
	})

	assert.True(t, r.Login(context.Background(), "right").OK)
	assert.Equal(t, "Invalid password", r.Login(context.Background(), "wrong").Message)
	assert.Equal(t, "Login failed", r.Login(context.Background(), "silent").Message)

	offline, err := library.NewClient(library.Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "Connection error. Please try again.", New(offline, nil).Login(context.Background(), "x").Message)
}

func TestLoadList(t *testing.T) {
	b, r := newBackend(t)
	respond := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"result": "OK", "data": []gin.H{{"id": 1, "title": "A"}}}) }
	b.engine.GET("/api/v1/series", func(c *gin.Context) {
		b.record(c)
		respond(c)
	})

	state := filter.Default()
	state.Status = "reading"
	res := r.LoadList(context.Background(), 7, state)
	require.NoError(t, res.Err)
	assert.Equal(t, uint64(7), res.Seq)
	assert.Equal(t, "/api/v1/series?status=Reading&excluded=nsfw&page=1", b.lastURL)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "A", res.Rows[0].Title)

	respond = func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"result": "OK", "data": []gin.H{}}) }
	res = r.LoadList(context.Background(), 8, state)
	assert.Equal(t, "No series found", res.Rows[0].Message)

	respond = func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"result": "KO", "error": "Invalid status"}) }
	res = r.LoadList(context.Background(), 9, state)
	assert.Error(t, res.Err)
	assert.Equal(t, "Error loading data: Invalid status", res.Rows[0].Message)

	respond = func(c *gin.Context) { c.JSON(http.StatusUnauthorized, gin.H{"result": "KO", "error": "Login required"}) }
	res = r.LoadList(context.Background(), 10, state)
	assert.True(t, res.Unauthorized())
}

func TestBusy(t *testing.T) {
	var add, save Busy
	assert.True(t, add.Start())
	assert.False(t, add.Start(), "second submit while busy is refused")
	assert.True(t, save.Start(), "other flows are independent")
	add.Done()
	assert.False(t, add.Active())
	assert.True(t, add.Start())
}
