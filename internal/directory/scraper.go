// Package directory scrapes the faculty staff directory: the list of
// academic staff, and per-profile details such as the Scopus author ID
// and the localized name. Everything here is heuristic DOM traversal
// over markup the faculty does not version; missing data degrades to
// empty fields, never to errors.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kataras/golog"

	"github.com/kmitl-it/advisorkg/internal/config"
	"github.com/kmitl-it/advisorkg/internal/professor"
)

var (
	// scopusAuthorRe extracts the author ID from a Scopus profile link.
	scopusAuthorRe = regexp.MustCompile(`authorId=(\d+)`)

	// thaiTitleRe matches Thai academic title prefixes.
	thaiTitleRe = regexp.MustCompile(`(ศ\.|รศ\.|ผศ\.|ดร\.|อาจารย์|ผศ\s|รศ\s|ศ\s)`)

	// imageNameRe extracts the encoded name part of a profile image URL.
	imageNameRe = regexp.MustCompile(`/([^/]+)-500x500\.jpg`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// skipHeadings are page section headings that look like names to the
// Thai-text heuristic but never are.
var skipHeadings = []string{
	"บุคลากรสายวิชาการ",
	"เกี่ยวกับคณะ",
	"รายวิชาที่สอน",
	"ประวัติส่วนตัว",
	"ช่องทางการติดต่อ",
	"ผลงานเพิ่มเติม",
	"ปริญญาตรี",
	"ปริญญาโท",
	"ปริญญาเอก",
}

// ProfileData is what one profile page yields. All fields are optional.
type ProfileData struct {
	ScopusID  string `json:"scopus_id,omitempty"`
	ScopusURL string `json:"scopus_url,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	ThaiName  string `json:"thai_name,omitempty"`
}

// Scraper fetches and parses staff directory pages.
type Scraper struct {
	httpClient     *http.Client
	baseURL        string
	listPath       string
	profilePattern *regexp.Regexp
	delay          time.Duration
	log            *golog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL sets a custom site base URL (for testing).
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		s.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		s.httpClient = hc
	}
}

// WithDelay sets the courtesy pause between profile requests.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) {
		s.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *golog.Logger) Option {
	return func(s *Scraper) {
		s.log = l
	}
}

// NewScraper creates a scraper for the faculty staff site.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		baseURL:        config.StaffBaseURL,
		listPath:       config.StaffListPath,
		profilePattern: regexp.MustCompile(config.StaffProfilePattern),
		delay:          config.DefaultScrapeDelay,
		log:            golog.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StaffList scrapes the academic staff page and returns one basic
// record per profile link, deduplicated by profile URL.
func (s *Scraper) StaffList(ctx context.Context) ([]professor.BasicRecord, error) {
	doc, err := s.fetch(ctx, s.baseURL+s.listPath)
	if err != nil {
		return nil, fmt.Errorf("fetching staff list: %w", err)
	}

	seen := make(map[string]bool)
	var staff []professor.BasicRecord

	doc.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || !s.profilePattern.MatchString(href) {
			return
		}

		profileURL := s.absoluteURL(href)
		if seen[profileURL] {
			return
		}
		seen[profileURL] = true

		staff = append(staff, professor.BasicRecord{
			Name:       nameFromSlug(profileURL, link.Text()),
			ProfileURL: profileURL,
			ImageURL:   s.imageNear(link),
		})
	})

	return staff, nil
}

// ProfileData scrapes one profile page for the Scopus ID, profile
// image, and localized name. Absent details stay empty; only transport
// failures are errors.
func (s *Scraper) ProfileData(ctx context.Context, profileURL string) (ProfileData, error) {
	var data ProfileData

	doc, err := s.fetch(ctx, profileURL)
	if err != nil {
		return data, fmt.Errorf("fetching profile: %w", err)
	}

	doc.Find(`a[href*="scopus.com"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if m := scopusAuthorRe.FindStringSubmatch(href); m != nil {
			data.ScopusID = m[1]
			data.ScopusURL = href
			return false
		}
		return true
	})

	data.ImageURL = s.profileImage(doc)
	data.ThaiName = s.thaiName(doc, data.ImageURL)

	return data, nil
}

// ScrapeAll walks the whole directory: the staff list, then each
// profile with a courtesy delay between requests. A profile that fails
// to scrape keeps its list-page data and the walk continues.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]professor.BasicRecord, error) {
	staff, err := s.StaffList(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Infof("found %d staff members", len(staff))

	for i := range staff {
		if i > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, err := s.ProfileData(ctx, staff[i].ProfileURL)
		if err != nil {
			s.log.Warnf("skipping profile details for %s: %v", staff[i].Name, err)
			continue
		}

		staff[i].ScopusID = data.ScopusID
		staff[i].ScopusURL = data.ScopusURL
		if data.ThaiName != "" {
			staff[i].ThaiName = data.ThaiName
		} else {
			staff[i].ThaiName = staff[i].Name
		}
		if data.ImageURL != "" {
			staff[i].ImageURL = data.ImageURL
		}
	}

	return staff, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (s *Scraper) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.baseURL + href
}

// nameFromSlug derives a display name from the profile URL slug, which
// is more reliable than the link text. Falls back to the link text.
func nameFromSlug(profileURL, linkText string) string {
	trimmed := strings.TrimRight(profileURL, "/")
	slug := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if slug == "" {
		return strings.TrimSpace(linkText)
	}

	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// imageNear finds the image associated with a staff link: inside the
// link itself, or anywhere under its parent element.
func (s *Scraper) imageNear(link *goquery.Selection) string {
	img := link.Find("img")
	if img.Length() == 0 {
		img = link.Parent().Find("img")
	}
	src, ok := img.First().Attr("src")
	if !ok || src == "" {
		return ""
	}
	return s.absoluteURL(src)
}

// profileImage picks the profile photo from a profile page: first an
// image whose path looks like an upload or staff asset, then any image
// with meaningful dimensions.
func (s *Scraper) profileImage(doc *goquery.Document) string {
	var found string

	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		lower := strings.ToLower(src)
		if strings.Contains(src, "/uploads/") || strings.Contains(lower, "staff") || strings.Contains(lower, "profile") {
			found = s.absoluteURL(src)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if src == "" {
			return true
		}
		w, _ := strconv.Atoi(img.AttrOr("width", "0"))
		h, _ := strconv.Atoi(img.AttrOr("height", "0"))
		if w > 100 || h > 100 {
			found = s.absoluteURL(src)
			return false
		}
		return true
	})

	return found
}

// thaiName extracts the localized name, trying the page text first and
// then the profile image filename.
func (s *Scraper) thaiName(doc *goquery.Document, imageURL string) string {
	var found string

	doc.Find("h2, h3, h4, p, span, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Children().Length() > 0 {
			return true // only leaf elements; containers repeat their children's text
		}
		text := strings.TrimSpace(whitespaceRe.ReplaceAllString(sel.Text(), " "))
		if len(text) <= 5 || !containsThai(text) {
			return true
		}
		for _, skip := range skipHeadings {
			if strings.Contains(text, skip) {
				return true
			}
		}
		if thaiTitleRe.MatchString(text) {
			found = text
			return false
		}
		if found == "" {
			found = text
		}
		return true
	})
	if found != "" {
		return found
	}

	// Image filenames carry the name URL-encoded, e.g.
	// /อาริต-ธรรมโน-500x500.jpg.
	if m := imageNameRe.FindStringSubmatch(imageURL); m != nil {
		if decoded, err := url.PathUnescape(m[1]); err == nil {
			name := strings.ReplaceAll(decoded, "-", " ")
			if containsThai(name) {
				return name
			}
		}
	}

	return ""
}

// containsThai reports whether the string has any character in the
// Thai Unicode block.
func containsThai(s string) bool {
	for _, r := range s {
		if r >= 0x0E00 && r <= 0x0E7F {
			return true
		}
	}
	return false
}
