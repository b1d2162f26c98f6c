package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmshv/bulletin/utils"
)

const (
	DateLayout      = "02/01/2006"
	TimestampLayout = "02/01/2006 15.04"
)

type Kind string

const (
	KindNews      Kind = "news"
	KindPrivateAd Kind = "private ad"
	KindWeather   Kind = "weather"
)

// ParseKind reads a record type discriminator. Case and surrounding spaces are ignored.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindNews, KindPrivateAd, KindWeather:
		return k, nil
	}
	return "", fmt.Errorf("unknown record type %q", s)
}

// RenderPolicy tells how a record is written to the feed file.
type RenderPolicy int

const (
	// RenderNormalized passes the published text through normalization and
	// capitalization once more before it is written.
	RenderNormalized RenderPolicy = iota
	// RenderVerbatim writes the published text as is.
	RenderVerbatim
)

// Record is one bulletin item. The set of implementations is closed:
// News, PrivateAd and Weather.
type Record interface {
	ID() string
	Kind() Kind
	// Text is the body the feed statistics are counted on.
	Text() string
	Publish() string
	SavePolicy() RenderPolicy

	sealed()
}

type News struct {
	id        string
	text      string
	city      string
	published time.Time
}

func NewNews(text string, city string) *News {
	return NewNewsAt(text, city, time.Now())
}

func NewNewsAt(text string, city string, now time.Time) *News {
	return &News{
		id:        uuid.NewString(),
		text:      text,
		city:      utils.TitleCase(city),
		published: now,
	}
}

func (n *News) ID() string               { return n.id }
func (n *News) Kind() Kind               { return KindNews }
func (n *News) Text() string             { return n.text }
func (n *News) City() string             { return n.city }
func (n *News) PublishedAt() time.Time   { return n.published }
func (n *News) SavePolicy() RenderPolicy { return RenderNormalized }
func (n *News) sealed()                  {}

func (n *News) Publish() string {
	return fmt.Sprintf("News -------------------------\n%s\n%s, %s\n",
		body(n.text), n.city, n.published.Format(TimestampLayout))
}

type PrivateAd struct {
	id         string
	text       string
	expiration time.Time
	daysLeft   int
}

func NewPrivateAd(text string, expiration time.Time) *PrivateAd {
	return NewPrivateAdAt(text, expiration, time.Now())
}

// NewPrivateAdAt builds an ad as seen on the day of now. Days left are
// counted in calendar days, so an ad expiring tomorrow has one day left
// at any hour of today.
func NewPrivateAdAt(text string, expiration time.Time, now time.Time) *PrivateAd {
	expiration = dateOf(expiration)
	return &PrivateAd{
		id:         uuid.NewString(),
		text:       text,
		expiration: expiration,
		daysLeft:   daysBetween(dateOf(now), expiration),
	}
}

func (p *PrivateAd) ID() string               { return p.id }
func (p *PrivateAd) Kind() Kind               { return KindPrivateAd }
func (p *PrivateAd) Text() string             { return p.text }
func (p *PrivateAd) Expiration() time.Time    { return p.expiration }
func (p *PrivateAd) DaysLeft() int            { return p.daysLeft }
func (p *PrivateAd) SavePolicy() RenderPolicy { return RenderNormalized }
func (p *PrivateAd) sealed()                  {}

func (p *PrivateAd) Publish() string {
	return fmt.Sprintf("Private Ad ------------------\n%s\nActual until: %s, %d days left\n",
		body(p.text), p.expiration.Format(DateLayout), p.daysLeft)
}

type Weather struct {
	id          string
	city        string
	temperature int
	date        time.Time
}

func NewWeather(city string, temperature int) *Weather {
	return NewWeatherAt(city, temperature, time.Now())
}

func NewWeatherAt(city string, temperature int, now time.Time) *Weather {
	return &Weather{
		id:          uuid.NewString(),
		city:        utils.TitleCase(city),
		temperature: temperature,
		date:        now,
	}
}

func (w *Weather) ID() string               { return w.id }
func (w *Weather) Kind() Kind               { return KindWeather }
func (w *Weather) City() string             { return w.city }
func (w *Weather) Temperature() int         { return w.temperature }
func (w *Weather) Date() time.Time          { return w.date }
func (w *Weather) SavePolicy() RenderPolicy { return RenderVerbatim }
func (w *Weather) sealed()                  {}

func (w *Weather) Text() string {
	return fmt.Sprintf("It is %d in %s today.", w.temperature, w.city)
}

func (w *Weather) Publish() string {
	return fmt.Sprintf("Weather today--------------\n%s\n%s\n%s\n",
		w.Text(), w.date.Format(DateLayout), w.Remark())
}

// Remark describes the temperature: below 0 cold, 0..15 cool, 16..25 warm, above hot.
func (w *Weather) Remark() string {
	switch t := w.temperature; {
	case t < 0:
		return "It is cold"
	case t <= 15:
		return "It is cool"
	case t <= 25:
		return "It is warm"
	default:
		return "It is hot"
	}
}

func body(text string) string {
	return utils.CapitalizeFirstWord(utils.NormalizeText(text))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from time.Time, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
