package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staffListPage = `<!DOCTYPE html>
<html><body>
<div class="staff-grid">
  <div class="card">
    <a href="/th/staffs/s/arit-thammano"><img src="/uploads/arit-500x500.jpg">Arit</a>
  </div>
  <div class="card">
    <a href="/th/staffs/s/natthapong-jungteerapanich">Natthapong</a>
  </div>
  <div class="card">
    <a href="/th/staffs/s/arit-thammano">duplicate link</a>
  </div>
  <a href="/th/about">About the faculty</a>
</div>
</body></html>`

const profilePage = `<!DOCTYPE html>
<html><body>
<h2>เกี่ยวกับคณะ</h2>
<h3>รศ.ดร. อาริต ธรรมโน</h3>
<img src="/uploads/staffs/arit-500x500.jpg">
<a href="https://www.scopus.com/authid/detail.uri?authorId=55555555500">Scopus</a>
</body></html>`

const bareProfilePage = `<!DOCTYPE html>
<html><body>
<p>No external links here.</p>
<img src="/logo.png" width="40" height="40">
<img src="/banner.png" width="800" height="200">
</body></html>`

func newTestScraper(t *testing.T, handler http.Handler) (*Scraper, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := golog.New()
	logger.SetLevel("disable")
	s := NewScraper(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithDelay(0),
		WithLogger(logger),
	)
	return s, srv
}

func TestStaffList(t *testing.T) {
	s, srv := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/th/staffs/academic" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(staffListPage))
	}))

	staff, err := s.StaffList(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 2, "duplicate and non-profile links should be dropped")

	assert.Equal(t, "Arit Thammano", staff[0].Name)
	assert.Equal(t, srv.URL+"/th/staffs/s/arit-thammano", staff[0].ProfileURL)
	assert.Equal(t, srv.URL+"/uploads/arit-500x500.jpg", staff[0].ImageURL)

	assert.Equal(t, "Natthapong Jungteerapanich", staff[1].Name)
	assert.Empty(t, staff[1].ImageURL)
}

func TestStaffListError(t *testing.T) {
	s, _ := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	_, err := s.StaffList(context.Background())
	assert.Error(t, err)
}

func TestProfileData(t *testing.T) {
	s, srv := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profilePage))
	}))

	data, err := s.ProfileData(context.Background(), srv.URL+"/th/staffs/s/arit-thammano")
	require.NoError(t, err)

	assert.Equal(t, "55555555500", data.ScopusID)
	assert.Equal(t, "https://www.scopus.com/authid/detail.uri?authorId=55555555500", data.ScopusURL)
	assert.Equal(t, srv.URL+"/uploads/staffs/arit-500x500.jpg", data.ImageURL)
	assert.Equal(t, "รศ.ดร. อาริต ธรรมโน", data.ThaiName, "titled Thai name wins over section headings")
}

func TestProfileDataAbsentDetails(t *testing.T) {
	s, srv := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bareProfilePage))
	}))

	data, err := s.ProfileData(context.Background(), srv.URL+"/th/staffs/s/somebody")
	require.NoError(t, err)

	assert.Empty(t, data.ScopusID)
	assert.Empty(t, data.ThaiName)
	assert.Equal(t, srv.URL+"/banner.png", data.ImageURL, "large image fallback")
}

func TestScrapeAll(t *testing.T) {
	var profileHits int
	s, _ := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/th/staffs/academic":
			w.Write([]byte(staffListPage))
		case "/th/staffs/s/arit-thammano":
			profileHits++
			w.Write([]byte(profilePage))
		case "/th/staffs/s/natthapong-jungteerapanich":
			profileHits++
			http.Error(w, "gone", http.StatusNotFound)
		default:
			http.NotFound(w, r)
		}
	}))

	staff, err := s.ScrapeAll(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, 2, profileHits)

	assert.Equal(t, "55555555500", staff[0].ScopusID)
	assert.Equal(t, "รศ.ดร. อาริต ธรรมโน", staff[0].ThaiName)

	// Failed profile keeps its list-page record.
	assert.Empty(t, staff[1].ScopusID)
	assert.Equal(t, "Natthapong Jungteerapanich", staff[1].ThaiName)
}

func TestScrapeAllCancelled(t *testing.T) {
	s, _ := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(staffListPage))
	}))
	s.delay = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScrapeAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNameFromSlug(t *testing.T) {
	tests := []struct {
		url, linkText, want string
	}{
		{"https://x.test/th/staffs/s/arit-thammano", "ignored", "Arit Thammano"},
		{"https://x.test/th/staffs/s/arit-thammano/", "ignored", "Arit Thammano"},
		{"https://x.test/th/staffs/s/", "  Link Text ", "Link Text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nameFromSlug(tt.url, tt.linkText))
	}
}

func TestContainsThai(t *testing.T) {
	assert.True(t, containsThai("ดร. อาริต"))
	assert.False(t, containsThai("Arit Thammano"))
}
