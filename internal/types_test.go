package internal

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 19, 14, 35, 0, 0, time.UTC)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"news", KindNews, false},
		{" NEWS ", KindNews, false},
		{"Private Ad", KindPrivateAd, false},
		{"weather", KindWeather, false},
		{"privatead", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewsPublish(t *testing.T) {
	news := NewNewsAt("Big storm IZ coming. stay home", "lONDON", now)

	assert.Equal(t, "London", news.City())
	assert.Equal(t, KindNews, news.Kind())
	assert.NotEmpty(t, news.ID())
	assert.Equal(t, "Big storm IZ coming. stay home", news.Text())
	assert.Equal(t,
		"News -------------------------\nBig storm is coming. Stay home\nLondon, 19/10/2026 14.35\n",
		news.Publish())
	assert.Equal(t, RenderNormalized, news.SavePolicy())
}

func TestNewsCityTitleCased(t *testing.T) {
	cities := map[string]string{
		"london":   "London",
		"NEW YORK": "New York",
		"paris":    "Paris",
	}

	for in, want := range cities {
		assert.Equal(t, want, NewNewsAt("text", in, now).City())
		assert.Equal(t, want, NewWeatherAt(in, 1, now).City())
	}
}

func TestNewsDoesNotMutateInput(t *testing.T) {
	text, city := "Some TEXT", "kyiv"
	NewNewsAt(text, city, now)
	assert.Equal(t, "Some TEXT", text)
	assert.Equal(t, "kyiv", city)
}

func TestPrivateAdDaysLeft(t *testing.T) {
	tests := []struct {
		name       string
		expiration time.Time
		want       int
	}{
		{"ten days ahead", time.Date(2026, time.October, 29, 0, 0, 0, 0, time.UTC), 10},
		{"ten days ahead late evening", now.Add(10 * 24 * time.Hour), 10},
		{"today", time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), 0},
		{"in the past", time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), -2},
		{"across month", time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC), 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := NewPrivateAdAt("text", tt.expiration, now)
			assert.Equal(t, tt.want, ad.DaysLeft())
		})
	}
}

func TestPrivateAdPublish(t *testing.T) {
	expiration := time.Date(2026, time.October, 29, 0, 0, 0, 0, time.UTC)
	ad := NewPrivateAdAt("SELLING a bike. it iz red", expiration, now)

	assert.Equal(t, KindPrivateAd, ad.Kind())
	assert.Equal(t,
		"Private Ad ------------------\nSelling a bike. It is red\nActual until: 29/10/2026, 10 days left\n",
		ad.Publish())
	assert.Equal(t, RenderNormalized, ad.SavePolicy())
}

func TestWeatherRemark(t *testing.T) {
	tests := []struct {
		temperature int
		want        string
	}{
		{-5, "It is cold"},
		{-1, "It is cold"},
		{0, "It is cool"},
		{10, "It is cool"},
		{15, "It is cool"},
		{16, "It is warm"},
		{20, "It is warm"},
		{25, "It is warm"},
		{26, "It is hot"},
		{30, "It is hot"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.temperature), func(t *testing.T) {
			w := NewWeatherAt("london", tt.temperature, now)
			assert.Equal(t, tt.want, w.Remark())
			assert.Contains(t, w.Publish(), "\n"+tt.want+"\n")
		})
	}
}

func TestWeatherPublish(t *testing.T) {
	w := NewWeatherAt("oslo", -5, now)

	assert.Equal(t, "It is -5 in Oslo today.", w.Text())
	assert.Equal(t,
		"Weather today--------------\nIt is -5 in Oslo today.\n19/10/2026\nIt is cold\n",
		w.Publish())
	assert.Equal(t, RenderVerbatim, w.SavePolicy())
}

func TestIsKind(t *testing.T) {
	inner := NewError(SourceNotFound, "news_file.txt", "source file not found", errors.New("stat failed"))
	wrapped := fmt.Errorf("import txt: %w", inner)

	assert.True(t, IsKind(wrapped, SourceNotFound))
	assert.False(t, IsKind(wrapped, MalformedItem))
	assert.False(t, IsKind(errors.New("plain"), SourceNotFound))
	assert.Equal(t, "[source_not_found] news_file.txt: source file not found: stat failed", inner.Error())

	nested := NewError(IOFailure, "", "delete failed", NewError(SourceNotFound, "a.json", "gone", nil))
	assert.True(t, IsKind(nested, SourceNotFound))
	assert.Equal(t, "[io_failure] delete failed: [source_not_found] a.json: gone", nested.Error())
}
