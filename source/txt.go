package source

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tmshv/bulletin/internal"
)

const txtSeparator = "|"

// txtColumns names the second and third column of a line for every record type.
var txtColumns = map[internal.Kind][2]string{
	internal.KindNews:      {KeyText, KeyCity},
	internal.KindPrivateAd: {KeyText, KeyExpirationDate},
	internal.KindWeather:   {KeyCity, KeyTemperature},
}

var txtEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", txtSeparator, "/")

// TxtSource is a single text file with one pipe-separated record per line.
type TxtSource struct {
	logger *slog.Logger
	path   string
}

func NewTxtSource(path string, logger *slog.Logger) *TxtSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TxtSource{
		logger: logger,
		path:   path,
	}
}

func (s *TxtSource) Format() Format {
	return FormatTxt
}

func (s *TxtSource) Path() string {
	return s.path
}

func (s *TxtSource) ReadRecords() *Batch {
	batch := &Batch{}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			batch.problem(internal.NewError(internal.SourceNotFound, s.path, "source file not found or already deleted", nil))
		} else {
			batch.problem(internal.NewError(internal.IOFailure, s.path, "failed to open source file", err))
		}
		return batch
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	n := 0
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			// a half-read file is not imported at all
			batch.Items = nil
			batch.problem(internal.NewError(internal.IOFailure, s.path, "failed to read source file", err))
			return batch
		}
		if raw != "" {
			n++
			if line := strings.TrimSpace(raw); line != "" {
				batch.Items = append(batch.Items, parseLine(fmt.Sprintf("%s:%d", s.path, n), line))
			}
		}
		if err == io.EOF {
			break
		}
	}

	if batch.Empty() {
		batch.problem(internal.NewError(internal.SourceEmpty, s.path, "no records found in the source file", nil))
		return batch
	}

	batch.Consumed = append(batch.Consumed, s.path)
	s.logger.Debug("Text source read",
		slog.String("path", s.path),
		slog.Int("items", len(batch.Items)))
	return batch
}

func parseLine(origin string, line string) Item {
	parts := strings.Split(line, txtSeparator)
	if len(parts) < 3 {
		return Item{
			Origin: origin,
			Err:    internal.NewError(internal.MalformedItem, origin, fmt.Sprintf("expected at least 3 fields, got %d", len(parts)), nil),
		}
	}

	fields := Fields{KeyType: strings.TrimSpace(parts[0])}
	kind, err := internal.ParseKind(parts[0])
	if err == nil {
		columns := txtColumns[kind]
		fields[columns[0]] = strings.TrimSpace(parts[1])
		fields[columns[1]] = strings.TrimSpace(parts[2])
	}
	return Item{Origin: origin, Fields: fields}
}

// WriteRecords appends records to the file in the same line format it reads.
func (s *TxtSource) WriteRecords(records []internal.Record) error {
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return internal.NewError(internal.IOFailure, s.path, "failed to open source file", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, r := range records {
		if _, err := writer.WriteString(formatLine(r) + "\n"); err != nil {
			return internal.NewError(internal.IOFailure, s.path, "failed to write record", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return internal.NewError(internal.IOFailure, s.path, "failed to write records", err)
	}
	return nil
}

func formatLine(r internal.Record) string {
	fields := FieldsOf(r)
	columns := txtColumns[r.Kind()]
	return strings.Join([]string{
		fields[KeyType],
		txtEscaper.Replace(fields[columns[0]]),
		txtEscaper.Replace(fields[columns[1]]),
	}, txtSeparator)
}

func (s *TxtSource) DeleteFile(path string) error {
	return deleteFile(s.logger, path)
}

func deleteFile(logger *slog.Logger, path string) error {
	logger.Info("Deleting file", slog.String("path", path))

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return internal.NewError(internal.SourceNotFound, path, "file not found", err)
		}
		return internal.NewError(internal.IOFailure, path, "failed to delete file", err)
	}
	return nil
}
