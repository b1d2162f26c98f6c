// Package source reads bulletin records from files of different formats.
//
// Every format is read into the same raw shape first: a list of Items, each
// holding a Fields mapping. Building records from Fields, adding them to a
// feed and cleaning up consumed files is shared by all formats, see Importer.
package source

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/tmshv/bulletin/internal"
)

type Format string

const (
	FormatTxt  Format = "txt"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatRSS  Format = "rss"
)

var Formats = []Format{FormatTxt, FormatJSON, FormatXML, FormatRSS}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// New opens the source of the given format at path: a file for txt, a
// folder for the others. defaultCity is used by feeds that carry no city.
func New(format Format, path string, defaultCity string, logger *slog.Logger) (Source, error) {
	switch format {
	case FormatTxt:
		return NewTxtSource(path, logger), nil
	case FormatJSON:
		return NewJSONSource(path, logger), nil
	case FormatXML:
		return NewXMLSource(path, logger), nil
	case FormatRSS:
		return NewRSSSource(path, defaultCity, logger), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Sink receives the records built from a source. *feed.NewsFeed is one.
type Sink interface {
	AddRecord(internal.Record)
}

type Source interface {
	Format() Format
	// ReadRecords never fails: problems are collected in the returned batch
	// and an unreadable source gives an empty one.
	ReadRecords() *Batch
	DeleteFile(path string) error
}

// Writer is implemented by the formats records can be exported to.
type Writer interface {
	WriteRecords(records []internal.Record) error
}

// Item is one raw record as read from a source. Origin tells where it came
// from. Err is set when the item could not even be split into fields.
type Item struct {
	Origin string
	Fields Fields
	Err    error
}

type Batch struct {
	Items []Item
	// Consumed lists the files that were read completely.
	Consumed []string
	Problems *multierror.Error
}

func (b *Batch) Empty() bool {
	return len(b.Items) == 0
}

func (b *Batch) problem(err error) {
	b.Problems = multierror.Append(b.Problems, err)
}

type Skip struct {
	Item   Item
	Reason error
}

// Report tells what happened to every item of an import.
type Report struct {
	Format   Format
	Added    []internal.Record
	Skipped  []Skip
	Problems []error
}

// Err folds every skip reason and problem into one error, nil when there is none.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, problem := range r.Problems {
		result = multierror.Append(result, problem)
	}
	for _, skip := range r.Skipped {
		result = multierror.Append(result, skip.Reason)
	}
	return result.ErrorOrNil()
}

type Importer struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewImporter(logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock makes records built by the importer see now as the current time.
func (im *Importer) WithClock(now func() time.Time) *Importer {
	return &Importer{
		logger: im.logger,
		now:    now,
	}
}

// Import reads src, adds what it can to sink and deletes the consumed
// files once at least one record made it in. ok is false when there was
// nothing to import.
func (im *Importer) Import(src Source, sink Sink) (*Report, bool) {
	batch := src.ReadRecords()
	report := &Report{Format: src.Format()}
	if batch.Problems != nil {
		report.Problems = append(report.Problems, batch.Problems.Errors...)
	}

	if batch.Empty() {
		im.logger.Warn("Nothing to import",
			slog.String("format", string(src.Format())),
			slog.Any("problems", batch.Problems.ErrorOrNil()))
		return report, false
	}

	im.parse(sink, batch, report)

	if len(report.Added) > 0 {
		for _, path := range batch.Consumed {
			if err := src.DeleteFile(path); err != nil {
				im.logger.Warn("Source file not deleted",
					slog.String("path", path),
					slog.String("error", err.Error()))
				report.Problems = append(report.Problems, err)
			}
		}
	}

	im.logger.Info("Import finished",
		slog.String("format", string(src.Format())),
		slog.Int("added", len(report.Added)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("problems", len(report.Problems)))
	return report, true
}

// Parse builds a record from every item of batch and adds it to sink.
// A bad item is skipped, it never stops the rest of the batch.
func (im *Importer) Parse(sink Sink, batch *Batch) *Report {
	report := &Report{}
	im.parse(sink, batch, report)
	return report
}

func (im *Importer) parse(sink Sink, batch *Batch, report *Report) {
	now := im.now()
	for _, item := range batch.Items {
		record, err := buildItem(item, now)
		if err != nil {
			im.logger.Warn("Record skipped",
				slog.String("origin", item.Origin),
				slog.String("reason", err.Error()))
			report.Skipped = append(report.Skipped, Skip{Item: item, Reason: err})
			continue
		}
		sink.AddRecord(record)
		report.Added = append(report.Added, record)
	}
}

func buildItem(item Item, now time.Time) (internal.Record, error) {
	if item.Err != nil {
		return nil, item.Err
	}
	record, err := Build(item.Fields, now)
	if err != nil {
		return nil, internal.NewError(internal.MalformedItem, item.Origin, "record format is incorrect", err)
	}
	return record, nil
}

type recordList []internal.Record

func (l *recordList) AddRecord(r internal.Record) {
	*l = append(*l, r)
}

// Convert builds the records of src and writes them with dst. Unlike Import
// it leaves the source files in place.
func (im *Importer) Convert(src Source, dst Writer) (*Report, error) {
	batch := src.ReadRecords()

	var records recordList
	report := &Report{Format: src.Format()}
	if batch.Problems != nil {
		report.Problems = append(report.Problems, batch.Problems.Errors...)
	}
	im.parse(&records, batch, report)

	if len(records) == 0 {
		return report, fmt.Errorf("no records to convert from %s source", src.Format())
	}
	if err := dst.WriteRecords(records); err != nil {
		return report, err
	}

	im.logger.Info("Records converted",
		slog.String("from", string(src.Format())),
		slog.Int("records", len(records)),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}
