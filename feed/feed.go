// Package feed keeps the ordered collection of bulletin records together
// with the word and letter statistics counted over them.
package feed

import (
	"log/slog"
	"strings"

	"github.com/tmshv/bulletin/internal"
	"github.com/tmshv/bulletin/utils"
)

const header = "News feed:\n"

// Writer persists what a feed renders.
type Writer interface {
	AppendFeed(text string) error
	WriteWordCounts(rows [][]string) error
	WriteLetterCounts(headers []string, rows [][]string) error
}

// WorkbookWriter is implemented by writers able to put both statistics
// tables into one spreadsheet.
type WorkbookWriter interface {
	WriteWorkbook(words [][]string, letterHeaders []string, letters [][]string) error
}

// NewsFeed is not safe for concurrent use. It is owned by the caller that
// drives imports and is handed to every source by reference.
type NewsFeed struct {
	logger  *slog.Logger
	records []internal.Record
	stats   *Stats
}

func New(logger *slog.Logger) *NewsFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsFeed{
		logger: logger,
		stats:  NewStats(),
	}
}

// AddRecord appends r and counts its text once.
func (f *NewsFeed) AddRecord(r internal.Record) {
	f.records = append(f.records, r)
	f.stats.CountWords(r.Text())
	f.stats.CountLetters(r.Text())

	f.logger.Debug("Record added",
		slog.String("id", r.ID()),
		slog.String("kind", string(r.Kind())),
		slog.Int("records", len(f.records)))
}

func (f *NewsFeed) Len() int {
	return len(f.records)
}

func (f *NewsFeed) Records() []internal.Record {
	result := make([]internal.Record, len(f.records))
	copy(result, f.records)
	return result
}

func (f *NewsFeed) Stats() Snapshot {
	return f.stats.Snapshot()
}

// PublishFeed renders every record in insertion order under the feed header.
func (f *NewsFeed) PublishFeed() string {
	var b strings.Builder
	b.WriteString(header)
	for _, r := range f.records {
		b.WriteString(normalized(r))
	}
	return b.String()
}

// SaveToFile appends every record held by the feed to the feed artifact,
// rendered according to each record's save policy.
func (f *NewsFeed) SaveToFile(w Writer) error {
	var b strings.Builder
	for _, r := range f.records {
		switch r.SavePolicy() {
		case internal.RenderVerbatim:
			b.WriteString(r.Publish())
		default:
			b.WriteString(normalized(r))
		}
	}

	if err := w.AppendFeed(b.String()); err != nil {
		return err
	}
	f.logger.Info("Feed saved", slog.Int("records", len(f.records)))
	return nil
}

func (f *NewsFeed) SaveWordCounts(w Writer) error {
	return w.WriteWordCounts(f.stats.WordRows())
}

func (f *NewsFeed) SaveLetterCounts(w Writer) error {
	return w.WriteLetterCounts(LetterHeaders, f.stats.LetterRows())
}

func (f *NewsFeed) SaveWorkbook(w WorkbookWriter) error {
	return w.WriteWorkbook(f.stats.WordRows(), LetterHeaders, f.stats.LetterRows())
}

func normalized(r internal.Record) string {
	return utils.CapitalizeFirstWord(utils.NormalizeText(r.Publish())) + "\n"
}
