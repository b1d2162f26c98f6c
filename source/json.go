package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	jsoniter "github.com/json-iterator/go"

	"github.com/tmshv/bulletin/internal"
	"github.com/tmshv/bulletin/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonReader keeps numbers as their literal text.
var jsonReader = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// JSONSource is a folder of .json files, each holding an array of record objects.
type JSONSource struct {
	logger *slog.Logger
	dir    string
}

func NewJSONSource(dir string, logger *slog.Logger) *JSONSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONSource{
		logger: logger,
		dir:    dir,
	}
}

func (s *JSONSource) Format() Format {
	return FormatJSON
}

func (s *JSONSource) Dir() string {
	return s.dir
}

func (s *JSONSource) ReadRecords() *Batch {
	batch := &Batch{}

	files, ok := listSourceFiles(batch, s.dir, "JSON", ".json")
	if !ok {
		return batch
	}

	for _, path := range files {
		items, err := readJSONFile(path)
		if err != nil {
			s.logger.Warn("JSON file skipped",
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

func readJSONFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internal.NewError(internal.IOFailure, path, "failed to read file", err)
	}

	// Unmarshal rejects anything after the top-level value.
	var raw interface{}
	if err := jsonReader.Unmarshal(data, &raw); err != nil {
		return nil, internal.NewError(internal.MalformedContainer, path, "invalid JSON", err)
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, internal.NewError(internal.MalformedContainer, path, "top-level JSON value is not an array", nil)
	}

	items := make([]Item, 0, len(list))
	for i, element := range list {
		origin := fmt.Sprintf("%s[%d]", path, i)
		object, ok := element.(map[string]interface{})
		if !ok {
			items = append(items, Item{
				Origin: origin,
				Err:    internal.NewError(internal.MalformedItem, origin, "array element is not an object", nil),
			})
			continue
		}
		items = append(items, Item{Origin: origin, Fields: jsonFields(object)})
	}
	return items, nil
}

// jsonFields keeps numbers as their literal text. A null value counts as missing.
func jsonFields(object map[string]interface{}) Fields {
	fields := make(Fields, len(object))
	for key, value := range object {
		switch value := value.(type) {
		case nil:
			continue
		case string:
			fields[key] = strings.TrimSpace(value)
		default:
			fields[key] = fmt.Sprint(value)
		}
	}
	return fields
}

// WriteRecords writes one file per record so that each can be consumed on its own.
func (s *JSONSource) WriteRecords(records []internal.Record) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return internal.NewError(internal.IOFailure, s.dir, "failed to create folder", err)
	}

	for _, r := range records {
		path := filepath.Join(s.dir, recordFileName(r, ".json"))
		data, err := json.MarshalIndent([]map[string]interface{}{jsonObject(r)}, "", "    ")
		if err != nil {
			return internal.NewError(internal.IOFailure, path, "failed to encode record", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return internal.NewError(internal.IOFailure, path, "failed to write record", err)
		}
		s.logger.Debug("Record exported", slog.String("path", path))
	}
	return nil
}

func jsonObject(r internal.Record) map[string]interface{} {
	object := make(map[string]interface{})
	for key, value := range FieldsOf(r) {
		object[key] = value
	}
	if w, ok := r.(*internal.Weather); ok {
		object[KeyTemperature] = w.Temperature()
	}
	return object
}

func (s *JSONSource) DeleteFile(path string) error {
	return deleteFile(s.logger, path)
}

func recordFileName(r internal.Record, ext string) string {
	id := r.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	return slug.Make(fmt.Sprintf("record %s %s", r.Kind(), id)) + ext
}

// listSourceFiles finds the files to read in dir. ok is false when there is
// nothing to read, the reason is recorded in batch.
func listSourceFiles(batch *Batch, dir string, label string, exts ...string) ([]string, bool) {
	files, err := utils.FilesWithExt(dir, exts...)
	if err != nil {
		if os.IsNotExist(err) {
			batch.problem(internal.NewError(internal.SourceNotFound, dir, "folder not found", nil))
		} else {
			batch.problem(internal.NewError(internal.IOFailure, dir, "failed to list folder", err))
		}
		return nil, false
	}
	if len(files) == 0 {
		batch.problem(internal.NewError(internal.SourceEmpty, dir, fmt.Sprintf("no %s files found in the folder", label), nil))
		return nil, false
	}
	return files, true
}
