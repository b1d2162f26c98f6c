// Package cli drives a bulletin session from a terminal.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"

	"github.com/tmshv/bulletin/internal"
	"github.com/tmshv/bulletin/source"
	"github.com/tmshv/bulletin/utils"
)

const (
	choiceTxt = iota + 1
	choiceJSON
	choiceXML
	choiceRSS
	choiceManual
	choiceQuit
)

const menuPrompt = "How do you want to add records? " +
	"(1 - file (txt), 2 - folder (json), 3 - folder (xml), 4 - folder (rss), 5 - manual, 6 - quit): "

var menuFormats = map[int]source.Format{
	choiceTxt:  source.FormatTxt,
	choiceJSON: source.FormatJSON,
	choiceXML:  source.FormatXML,
	choiceRSS:  source.FormatRSS,
}

var (
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// Menu is the interactive loop: pick a source or type a record in, see the
// feed grow, quit. Every iteration rewrites the statistics.
type Menu struct {
	logger   *slog.Logger
	session  *Session
	in       *bufio.Scanner
	out      io.Writer
	validate *validator.Validate
	now      func() time.Time
}

func NewMenu(session *Session, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = slog.Default()
	}
	return &Menu{
		logger:   logger,
		session:  session,
		in:       bufio.NewScanner(in),
		out:      out,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithClock makes manual entry see now as the current time.
func (m *Menu) WithClock(now func() time.Time) *Menu {
	m.now = now
	return m
}

// Run shows the menu until the user quits or the input ends.
func (m *Menu) Run() error {
	for {
		line, err := m.ask(menuPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.fail("Invalid input. Please enter a number.")
			continue
		}

		switch {
		case choice == choiceQuit:
			return nil
		case choice == choiceManual:
			if err := m.manualEntry(); errors.Is(err, io.EOF) {
				return nil
			}
		case menuFormats[choice] != "":
			if err := m.importFrom(menuFormats[choice]); errors.Is(err, io.EOF) {
				return nil
			}
		default:
			m.fail("Invalid choice. Please try again.")
		}

		if err := m.session.ExportStats(); err != nil {
			m.logger.Error("Statistics not saved", slog.String("error", err.Error()))
			m.fail("Failed to save statistics: %v", err)
		}
	}
}

func (m *Menu) importFrom(format source.Format) error {
	defaultPath := m.session.DefaultPath(format)
	choice, err := m.ask(fmt.Sprintf("Enter path to %s source or type '%s' to use %s: ", format, utils.SkipKeyword, defaultPath))
	if err != nil {
		return err
	}

	path, ok := utils.ResolveSource(choice, defaultPath)
	if !ok {
		m.warn("Invalid path. Using default path %s instead.", defaultPath)
	}

	report, ok, err := m.session.Import(format, path)
	if report != nil {
		for _, skip := range report.Skipped {
			m.warn("Skipped %s: %v", skip.Item.Origin, skip.Reason)
		}
		for _, problem := range report.Problems {
			m.warn("%v", problem)
		}
	}
	if err != nil {
		m.fail("Failed to save feed: %v", err)
		return nil
	}
	if !ok || len(report.Added) == 0 {
		m.warn("No records added from %s source.", format)
		return nil
	}
	m.success("%d records added from %s source.", len(report.Added), format)
	return nil
}

func (m *Menu) manualEntry() error {
	record, err := m.readRecord()
	if err != nil {
		return err
	}
	if err := m.session.Add(record); err != nil {
		m.fail("Failed to save feed: %v", err)
		return nil
	}
	m.success("Record added successfully.")
	return nil
}

func (m *Menu) readRecord() (internal.Record, error) {
	for {
		line, err := m.ask("Select what you want to add: 1 - News, 2 - Private Ad, 3 - Weather: ")
		if err != nil {
			return nil, err
		}

		switch strings.TrimSpace(line) {
		case "1":
			text, err := m.askText()
			if err != nil {
				return nil, err
			}
			city, err := m.askCity()
			if err != nil {
				return nil, err
			}
			return internal.NewNewsAt(text, city, m.now()), nil

		case "2":
			text, err := m.askText()
			if err != nil {
				return nil, err
			}
			expiration, err := m.askExpiration()
			if err != nil {
				return nil, err
			}
			return internal.NewPrivateAdAt(text, expiration, m.now()), nil

		case "3":
			city, err := m.askCity()
			if err != nil {
				return nil, err
			}
			temperature, err := m.askTemperature()
			if err != nil {
				return nil, err
			}
			return internal.NewWeatherAt(city, temperature, m.now()), nil
		}
		m.fail("Invalid choice. Please try again.")
	}
}

func (m *Menu) askText() (string, error) {
	return m.askValid("Insert text: ", "required", "Text cannot be empty.")
}

func (m *Menu) askCity() (string, error) {
	return m.askValid("Insert city: ", "required,excludesall=0123456789", "Invalid city. Please enter a valid city name.")
}

func (m *Menu) askValid(prompt string, rule string, complaint string) (string, error) {
	for {
		line, err := m.ask(prompt)
		if err != nil {
			return "", err
		}
		value := strings.TrimSpace(line)
		if err := m.validate.Var(value, rule); err != nil {
			m.fail("%s", complaint)
			continue
		}
		return value, nil
	}
}

// askExpiration accepts days after today only.
func (m *Menu) askExpiration() (time.Time, error) {
	for {
		line, err := m.ask("Insert expiration date (dd/mm/yyyy): ")
		if err != nil {
			return time.Time{}, err
		}
		date, err := source.ParseDate(line)
		if err != nil {
			m.fail("Wrong date format. Please enter date in the format dd/mm/yyyy.")
			continue
		}
		now := m.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !date.After(today) {
			m.fail("Expiration date must be in the future. Please enter a future date.")
			continue
		}
		return date, nil
	}
}

func (m *Menu) askTemperature() (int, error) {
	for {
		line, err := m.ask("Insert temperature in Celsius: ")
		if err != nil {
			return 0, err
		}
		temperature, err := source.ParseTemperature(line)
		if err != nil {
			m.fail("Invalid temperature. Please enter a valid integer value.")
			continue
		}
		return temperature, nil
	}
}

// ask prints prompt and reads one line. io.EOF means the input is over.
func (m *Menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return m.in.Text(), nil
}

func (m *Menu) warn(format string, args ...interface{}) {
	warnColor.Fprintf(m.out, format+"\n", args...)
}

func (m *Menu) fail(format string, args ...interface{}) {
	errorColor.Fprintf(m.out, format+"\n", args...)
}

func (m *Menu) success(format string, args ...interface{}) {
	successColor.Fprintf(m.out, format+"\n", args...)
}
