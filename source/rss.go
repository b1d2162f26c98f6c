package source

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/tmshv/bulletin/internal"
)

var rssExtensions = []string{".rss", ".atom", ".feed"}

// RSSSource is a folder of saved RSS or Atom documents. Every feed item
// becomes a news record. Items carry no city, the first category is used
// when present and defaultCity otherwise.
type RSSSource struct {
	logger      *slog.Logger
	dir         string
	defaultCity string
	parser      *gofeed.Parser
}

func NewRSSSource(dir string, defaultCity string, logger *slog.Logger) *RSSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSSource{
		logger:      logger,
		dir:         dir,
		defaultCity: defaultCity,
		parser:      gofeed.NewParser(),
	}
}

func (s *RSSSource) Format() Format {
	return FormatRSS
}

func (s *RSSSource) Dir() string {
	return s.dir
}

func (s *RSSSource) ReadRecords() *Batch {
	batch := &Batch{}

	files, ok := listSourceFiles(batch, s.dir, "RSS", rssExtensions...)
	if !ok {
		return batch
	}

	for _, path := range files {
		items, err := s.readFeedFile(path)
		if err != nil {
			s.logger.Warn("Feed file skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
			batch.problem(err)
			continue
		}
		batch.Items = append(batch.Items, items...)
		batch.Consumed = append(batch.Consumed, path)
	}
	return batch
}

func (s *RSSSource) readFeedFile(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, internal.NewError(internal.IOFailure, path, "failed to open file", err)
	}
	defer file.Close()

	feed, err := s.parser.Parse(file)
	if err != nil {
		return nil, internal.NewError(internal.MalformedContainer, path, "unreadable feed", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for i, entry := range feed.Items {
		items = append(items, Item{
			Origin: fmt.Sprintf("%s#%d", path, i+1),
			Fields: s.entryFields(entry),
		})
	}
	return items, nil
}

func (s *RSSSource) entryFields(entry *gofeed.Item) Fields {
	city := s.defaultCity
	if len(entry.Categories) > 0 && strings.TrimSpace(entry.Categories[0]) != "" {
		city = strings.TrimSpace(entry.Categories[0])
	}

	description := entry.Description
	if description == "" {
		description = entry.Content
	}

	return Fields{
		KeyType: string(internal.KindNews),
		KeyText: joinSentences(strings.TrimSpace(entry.Title), plainText(description)),
		KeyCity: city,
	}
}

// plainText drops the markup of an HTML fragment and collapses whitespace.
func plainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func joinSentences(title string, body string) string {
	switch {
	case title == "":
		return body
	case body == "":
		return title
	case strings.ContainsAny(title[len(title)-1:], ".?!:"):
		return title + " " + body
	}
	return title + ". " + body
}

// DeleteFile removes a consumed feed document.
func (s *RSSSource) DeleteFile(path string) error {
	return deleteFile(s.logger, path)
}
