// Package news plays the latest Eye Witness News audio bulletin.
package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// ErrBulletinNotFound is returned when the page has no bulletin audio
var ErrBulletinNotFound = errors.New("bulletin not found")

// DefaultURL is the EWN home page carrying the bulletin player
const DefaultURL = "http://ewn.co.za/"

// bulletinSelector finds the Cape Town bulletin inside the audio player
const bulletinSelector = "#NewsBulletinAudio [data-location=cpt]"

// BulletinSource finds the URL of the current audio bulletin
type BulletinSource interface {
	Bulletin(ctx context.Context) (string, error)
}

// Compile-time interface check.
var _ BulletinSource = (*Scraper)(nil)

// Scraper reads the bulletin URL off the news site's home page
type Scraper struct {
	url string
	c   *colly.Collector
}

// NewScraper creates a scraper for pageURL. A zero timeout keeps colly's
// default.
func NewScraper(pageURL string, timeout time.Duration, userAgent string) *Scraper {
	if pageURL == "" {
		pageURL = DefaultURL
	}
	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if userAgent != "" {
		opts = append(opts, colly.UserAgent(userAgent))
	}
	c := colly.NewCollector(opts...)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	return &Scraper{url: pageURL, c: c}
}

// Bulletin fetches the page and returns the first bulletin audio URL
func (s *Scraper) Bulletin(ctx context.Context) (string, error) {
	c := s.c.Clone()
	c.Context = ctx

	var audio string
	c.OnHTML(bulletinSelector, func(e *colly.HTMLElement) {
		if audio == "" {
			audio = strings.TrimSpace(e.Attr("data-audiourl"))
		}
	})

	if err := c.Visit(s.url); err != nil {
		return "", fmt.Errorf("visit %s: %w", s.url, err)
	}
	if audio == "" {
		return "", ErrBulletinNotFound
	}
	return audio, nil
}
