package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Hello World", "hello world"},
		{"fixes standalone token", "It iz fine", "it is fine"},
		{"fixes adjacent tokens", "a iz iz b", "a is is b"},
		{"leaves words alone", "Ibiza izba quiz", "ibiza izba quiz"},
		{"leaves edge token", "iz here", "iz here"},
		{"needs spaces not tabs", "it\tiz\there", "it\tiz\there"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"A iz iz iz B",
		"THIS IZ IT. iz it? It IZ!",
		"News -------------------------\nweather IZ nice iz \n",
		"  leading iz  trailing iz ",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "input %q", in)
	}
}

func TestCapitalizeFirstWord(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single sentence", "hello WORLD", "Hello world"},
		{"sentences", "first one. second ONE! third? fourth: fifth", "First one. Second one! Third? Fourth: Fifth"},
		{"collapses whitespace after mark", "one.   two", "One. Two"},
		{"no split inside numbers", "at 10.30 today", "At 10.30 today"},
		{"newline", "news ---\nbody text\nlondon, 19/10/2026", "News ---\n Body text\n London, 19/10/2026"},
		{"trailing newline", "body\n", "Body\n "},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapitalizeFirstWord(tt.in))
		})
	}
}

func TestCapitalizeFirstWordIdempotent(t *testing.T) {
	inputs := []string{
		"first one. second one! third",
		"Private Ad ------------------\nselling a bike\nActual until: 29/10/2026, 10 days left\n",
		"weather today--------------\nit is 20 in London today.\n19/10/2026\nit is warm\n",
	}

	for _, in := range inputs {
		once := CapitalizeFirstWord(in)
		assert.Equal(t, once, CapitalizeFirstWord(once), "input %q", in)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "London", TitleCase("london"))
	assert.Equal(t, "London", TitleCase("LONDON"))
	assert.Equal(t, "New York", TitleCase("new york"))
	assert.Equal(t, "Stratford-Upon-Avon", TitleCase("stratford-upon-avon"))
	assert.Equal(t, "Kyiv", TitleCase("  kyiv "))
	assert.Equal(t, "", TitleCase(""))
}
