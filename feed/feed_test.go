package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmshv/bulletin/internal"
)

var now = time.Date(2026, time.October, 19, 14, 35, 0, 0, time.UTC)

type memoryWriter struct {
	feed          []string
	words         [][]string
	letterHeaders []string
	letters       [][]string
	err           error
}

func (m *memoryWriter) AppendFeed(text string) error {
	if m.err != nil {
		return m.err
	}
	m.feed = append(m.feed, text)
	return nil
}

func (m *memoryWriter) WriteWordCounts(rows [][]string) error {
	m.words = rows
	return m.err
}

func (m *memoryWriter) WriteLetterCounts(headers []string, rows [][]string) error {
	m.letterHeaders = headers
	m.letters = rows
	return m.err
}

func (m *memoryWriter) WriteWorkbook(words [][]string, letterHeaders []string, letters [][]string) error {
	m.words = words
	m.letterHeaders = letterHeaders
	m.letters = letters
	return m.err
}

func TestAddRecordCountsHelloWorld(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewNewsAt("Hello World", "london", now))

	stats := f.Stats()
	assert.Equal(t, map[string]int{"hello": 1, "world": 1}, stats.Words)
	assert.Equal(t, map[string]int{"h": 1, "w": 1}, stats.Uppercase)

	sum := 0
	for _, count := range stats.Letters {
		sum += count
	}
	assert.Equal(t, 10, sum)
	assert.Equal(t, 10, stats.TotalLetters)
	assert.Equal(t, 3, stats.Letters["l"])
}

func TestTotalLettersIsCumulative(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewNewsAt("Hello World", "london", now))
	f.AddRecord(internal.NewNewsAt("abc", "london", now))

	assert.Equal(t, 13, f.Stats().TotalLetters)

	w := &memoryWriter{}
	require.NoError(t, f.SaveLetterCounts(w))
	// h e l o w r d a b c
	require.Len(t, w.letters, 10)
	assert.Equal(t, []string{"h", "1", "1", "7.69%"}, w.letters[0])
	assert.Equal(t, []string{"l", "3", "0", "23.08%"}, w.letters[2])
	assert.Equal(t, []string{"c", "1", "0", "7.69%"}, w.letters[9])
}

func TestWordRowsKeepFirstSeenOrder(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewNewsAt("zeta alpha ZETA", "rome", now))
	f.AddRecord(internal.NewWeatherAt("rome", 20, now))

	w := &memoryWriter{}
	require.NoError(t, f.SaveWordCounts(w))
	assert.Equal(t, [][]string{
		{"zeta", "2"},
		{"alpha", "1"},
		{"it", "1"},
		{"is", "1"},
		{"20", "1"},
		{"in", "1"},
		{"rome", "1"},
		{"today.", "1"},
	}, w.words)
}

func TestEmptyFeedStats(t *testing.T) {
	f := New(nil)
	w := &memoryWriter{}

	require.NoError(t, f.SaveWordCounts(w))
	require.NoError(t, f.SaveLetterCounts(w))
	assert.Empty(t, w.words)
	assert.Empty(t, w.letters)
	assert.Equal(t, LetterHeaders, w.letterHeaders)
	assert.Equal(t, "0.00%", percentage(0, 0))
}

func TestPublishFeed(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewNewsAt("Hello World", "london", now))
	f.AddRecord(internal.NewWeatherAt("oslo", 20, now))

	want := "News feed:\n" +
		"News -------------------------\n Hello world\n London, 19/10/2026 14.35\n \n" +
		"Weather today--------------\n It is 20 in oslo today. 19/10/2026\n It is warm\n \n"
	assert.Equal(t, want, f.PublishFeed())
}

func TestPublishFeedEmpty(t *testing.T) {
	assert.Equal(t, "News feed:\n", New(nil).PublishFeed())
}

func TestSaveToFileAppliesSavePolicy(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewWeatherAt("oslo", 20, now))
	f.AddRecord(internal.NewPrivateAdAt("BIKE for sale", time.Date(2026, time.October, 29, 0, 0, 0, 0, time.UTC), now))

	w := &memoryWriter{}
	require.NoError(t, f.SaveToFile(w))
	require.Len(t, w.feed, 1)

	want := "Weather today--------------\nIt is 20 in Oslo today.\n19/10/2026\nIt is warm\n" +
		"Private ad ------------------\n Bike for sale\n Actual until: 29/10/2026, 10 days left\n \n"
	assert.Equal(t, want, w.feed[0])
}

func TestSaveToFileWritesEveryRecordEachTime(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewWeatherAt("oslo", 20, now))
	w := &memoryWriter{}
	require.NoError(t, f.SaveToFile(w))

	f.AddRecord(internal.NewWeatherAt("rome", 30, now))
	require.NoError(t, f.SaveToFile(w))

	require.Len(t, w.feed, 2)
	assert.Contains(t, w.feed[1], "Oslo")
	assert.Contains(t, w.feed[1], "Rome")
}

func TestSaveToFileError(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewNewsAt("text", "paris", now))
	w := &memoryWriter{err: errors.New("disk full")}

	assert.EqualError(t, f.SaveToFile(w), "disk full")
}

func TestRecordsReturnsCopyInInsertionOrder(t *testing.T) {
	f := New(nil)
	first := internal.NewNewsAt("one", "paris", now)
	second := internal.NewWeatherAt("paris", 3, now)
	f.AddRecord(first)
	f.AddRecord(second)

	records := f.Records()
	require.Len(t, records, 2)
	assert.Same(t, first, records[0])
	assert.Same(t, second, records[1])

	records[0] = second
	assert.Same(t, first, f.Records()[0])
	assert.Equal(t, 2, f.Len())
}

func TestSaveWorkbook(t *testing.T) {
	f := New(nil)
	f.AddRecord(internal.NewNewsAt("Go", "paris", now))
	w := &memoryWriter{}

	require.NoError(t, f.SaveWorkbook(w))
	assert.Equal(t, [][]string{{"go", "1"}}, w.words)
	assert.Equal(t, [][]string{{"g", "1", "1", "50.00%"}, {"o", "1", "0", "50.00%"}}, w.letters)
}
