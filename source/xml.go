package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xpp "github.com/mmcdole/goxpp"

	"github.com/tmshv/bulletin/internal"
)

const (
	xmlRoot   = "records"
	xmlRecord = "record"
)

// XMLSource is a folder of .xml files shaped as <records><record>...</record></records>.
// Each child of a record element becomes one field named after its tag.
type XMLSource struct {
	logger *slog.Logger
	dir    string
}

func NewXMLSource(dir string, logger *slog.Logger) *XMLSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &XMLSource{
		logger: logger,
		dir:    dir,
	}
}

func (s *XMLSource) Format() Format {
	return FormatXML
}

func (s *XMLSource) Dir() string {
	return s.dir
}

func (s *XMLSource) ReadRecords() *Batch {
	batch := &Batch{}

	files, ok := listSourceFiles(batch, s.dir, "XML", ".xml")
	if !ok {
		return batch
	}

	for _, path := range files {
		items, err := readXMLFile(path)
		if err != nil {
			s.logger.Warn("XML file skipped",
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

func readXMLFile(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, internal.NewError(internal.IOFailure, path, "failed to open file", err)
	}
	defer file.Close()

	items, err := decodeXMLRecords(path, file)
	if err != nil {
		return nil, internal.NewError(internal.MalformedContainer, path, "unreadable XML", err)
	}
	return items, nil
}

func decodeXMLRecords(path string, r io.Reader) ([]Item, error) {
	p := xpp.NewXMLPullParser(r, false, nil)

	if _, err := p.NextTag(); err != nil {
		return nil, err
	}
	if err := p.Expect(xpp.StartTag, xmlRoot); err != nil {
		return nil, err
	}

	var items []Item
	for {
		event, err := p.NextTag()
		if err != nil {
			return nil, err
		}
		if event == xpp.EndTag {
			break
		}
		if p.Name != xmlRecord {
			if err := p.Skip(); err != nil {
				return nil, err
			}
			continue
		}

		origin := fmt.Sprintf("%s#%d", path, len(items)+1)
		fields, err := decodeXMLFields(p)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Origin: origin, Fields: fields})
	}
	return items, nil
}

// decodeXMLFields reads the children of the current record element up to its end tag.
func decodeXMLFields(p *xpp.XMLPullParser) (Fields, error) {
	fields := Fields{}
	for {
		event, err := p.NextTag()
		if err != nil {
			return nil, err
		}
		if event == xpp.EndTag {
			return fields, nil
		}
		name := p.Name
		text, err := elementText(p)
		if err != nil {
			return nil, err
		}
		fields[name] = strings.TrimSpace(text)
	}
}

// elementText collects the character data of the current element and of
// any markup nested in it, leaving the parser on the element's end tag.
func elementText(p *xpp.XMLPullParser) (string, error) {
	var b strings.Builder
	for depth := 1; depth > 0; {
		event, err := p.Next()
		if err != nil {
			return "", err
		}
		switch event {
		case xpp.StartTag:
			depth++
		case xpp.EndTag:
			depth--
		case xpp.Text:
			b.WriteString(p.Text)
		case xpp.EndDocument:
			return "", fmt.Errorf("element %s is not closed", p.Name)
		}
	}
	return b.String(), nil
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlRecordElement struct {
	Fields []xmlField
}

type xmlDocument struct {
	XMLName xml.Name           `xml:"records"`
	Records []xmlRecordElement `xml:"record"`
}

// WriteRecords writes one file per record, type first, then the other fields by name.
func (s *XMLSource) WriteRecords(records []internal.Record) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return internal.NewError(internal.IOFailure, s.dir, "failed to create folder", err)
	}

	for _, r := range records {
		path := filepath.Join(s.dir, recordFileName(r, ".xml"))
		doc := xmlDocument{Records: []xmlRecordElement{{Fields: xmlFields(FieldsOf(r))}}}

		data, err := xml.MarshalIndent(doc, "", "    ")
		if err != nil {
			return internal.NewError(internal.IOFailure, path, "failed to encode record", err)
		}
		data = append([]byte(xml.Header), data...)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return internal.NewError(internal.IOFailure, path, "failed to write record", err)
		}
		s.logger.Debug("Record exported", slog.String("path", path))
	}
	return nil
}

func xmlFields(fields Fields) []xmlField {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key != KeyType {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	keys = append([]string{KeyType}, keys...)

	result := make([]xmlField, 0, len(keys))
	for _, key := range keys {
		result = append(result, xmlField{
			XMLName: xml.Name{Local: key},
			Value:   fields[key],
		})
	}
	return result
}

func (s *XMLSource) DeleteFile(path string) error {
	return deleteFile(s.logger, path)
}
