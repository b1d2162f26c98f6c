package store

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tmshv/bulletin/internal"
)

const wordDelimiter = '-'

const (
	wordsSheet   = "words"
	lettersSheet = "letters"
)

type FileOptions struct {
	Dir          string
	FeedFile     string
	WordCounts   string
	LetterCounts string
	// Workbook is optional. Nothing is written when it is empty.
	Workbook string
}

// FileStore keeps every artifact as a flat file under one directory.
type FileStore struct {
	logger *slog.Logger
	opts   FileOptions
}

func NewFileStore(opts FileOptions, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, internal.NewError(internal.IOFailure, opts.Dir, "failed to create output directory", err)
	}

	return &FileStore{
		logger: logger,
		opts:   opts,
	}, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.opts.Dir, name)
}

func (s *FileStore) FeedPath() string {
	return s.path(s.opts.FeedFile)
}

// AppendFeed adds text to the end of the feed file. The file is never truncated.
func (s *FileStore) AppendFeed(text string) error {
	path := s.FeedPath()
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to open feed file", err)
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to append feed", err)
	}

	s.logger.Debug("Feed appended",
		slog.String("path", path),
		slog.Int("bytes", len(text)))
	return nil
}

// WriteWordCounts rewrites the word counts file as headerless word-count rows.
func (s *FileStore) WriteWordCounts(rows [][]string) error {
	return s.writeCSV(s.path(s.opts.WordCounts), wordDelimiter, nil, rows)
}

func (s *FileStore) WriteLetterCounts(headers []string, rows [][]string) error {
	return s.writeCSV(s.path(s.opts.LetterCounts), ',', headers, rows)
}

func (s *FileStore) writeCSV(path string, comma rune, headers []string, rows [][]string) error {
	s.logger.Info("Writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(rows)))

	file, err := os.Create(path)
	if err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to create file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = comma

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return internal.NewError(internal.IOFailure, path, "failed to write headers", err)
		}
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return internal.NewError(internal.IOFailure, path, fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to flush", err)
	}
	return nil
}

// WriteWorkbook saves both statistics tables into one spreadsheet, one sheet each.
func (s *FileStore) WriteWorkbook(words [][]string, letterHeaders []string, letters [][]string) error {
	if s.opts.Workbook == "" {
		return nil
	}
	path := s.path(s.opts.Workbook)

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", wordsSheet); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to name sheet", err)
	}
	if _, err := book.NewSheet(lettersSheet); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to add sheet", err)
	}

	if err := writeSheet(book, wordsSheet, []string{"word", "count"}, words); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to fill words sheet", err)
	}
	if err := writeSheet(book, lettersSheet, letterHeaders, letters); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to fill letters sheet", err)
	}

	if err := book.SaveAs(path); err != nil {
		return internal.NewError(internal.IOFailure, path, "failed to save workbook", err)
	}

	s.logger.Info("Workbook saved",
		slog.String("path", path),
		slog.Int("words", len(words)),
		slog.Int("letters", len(letters)))
	return nil
}

func writeSheet(book *excelize.File, sheet string, headers []string, rows [][]string) error {
	if err := book.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, value := range row {
			// counts go in as numbers so the sheet can sum them
			if n, err := strconv.Atoi(value); err == nil {
				values[j] = n
				continue
			}
			values[j] = value
		}
		if err := book.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
