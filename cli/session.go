package cli

import (
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/tmshv/bulletin/feed"
	"github.com/tmshv/bulletin/internal"
	"github.com/tmshv/bulletin/internal/config"
	"github.com/tmshv/bulletin/source"
	"github.com/tmshv/bulletin/store"
)

// Session ties one feed to the store its artifacts are written to.
type Session struct {
	logger   *slog.Logger
	feed     *feed.NewsFeed
	store    store.Store
	importer *source.Importer
	sources  config.SourcesConfig
}

func NewSession(f *feed.NewsFeed, st store.Store, importer *source.Importer, sources config.SourcesConfig, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger:   logger,
		feed:     f,
		store:    st,
		importer: importer,
		sources:  sources,
	}
}

func (s *Session) Feed() *feed.NewsFeed {
	return s.feed
}

// DefaultPath is where format is read from when no path is given.
func (s *Session) DefaultPath(format source.Format) string {
	switch format {
	case source.FormatTxt:
		return s.sources.TxtFile
	case source.FormatJSON:
		return s.sources.JSONDir
	case source.FormatXML:
		return s.sources.XMLDir
	case source.FormatRSS:
		return s.sources.RSSDir
	}
	return ""
}

// Import reads the source of format at path into the feed and saves the
// feed when something was added. ok is false when there was nothing to read.
func (s *Session) Import(format source.Format, path string) (*source.Report, bool, error) {
	src, err := source.New(format, path, s.sources.DefaultCity, s.logger)
	if err != nil {
		return nil, false, err
	}

	report, ok := s.importer.Import(src, s.feed)
	if len(report.Added) == 0 {
		return report, ok, nil
	}
	return report, ok, s.feed.SaveToFile(s.store)
}

// Add puts a single record into the feed and saves the feed.
func (s *Session) Add(r internal.Record) error {
	s.feed.AddRecord(r)
	return s.feed.SaveToFile(s.store)
}

// ExportStats rewrites every statistics artifact. A failing export does not
// stop the others.
func (s *Session) ExportStats() error {
	var result *multierror.Error
	if err := s.feed.SaveWordCounts(s.store); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.feed.SaveLetterCounts(s.store); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.feed.SaveWorkbook(s.store); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
