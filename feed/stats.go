package feed

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var LetterHeaders = []string{"letter", "count_all", "count_uppercase", "percentage"}

// Stats accumulates word and letter counts over every record added to a feed.
// Keys keep the order they were first seen in.
type Stats struct {
	words        map[string]int
	wordOrder    []string
	letters      map[rune]int
	uppercase    map[rune]int
	letterOrder  []rune
	totalLetters int
}

func NewStats() *Stats {
	return &Stats{
		words:     make(map[string]int),
		letters:   make(map[rune]int),
		uppercase: make(map[rune]int),
	}
}

func (s *Stats) CountWords(text string) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := s.words[word]; !ok {
			s.wordOrder = append(s.wordOrder, word)
		}
		s.words[word]++
	}
}

// CountLetters counts alphabetic runes of text. The total is kept across
// all calls so percentages describe the whole feed.
func (s *Stats) CountLetters(text string) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		lower := unicode.ToLower(r)
		if _, ok := s.letters[lower]; !ok {
			s.letterOrder = append(s.letterOrder, lower)
		}
		s.letters[lower]++
		if unicode.IsUpper(r) {
			s.uppercase[lower]++
		}
		s.totalLetters++
	}
}

func (s *Stats) TotalLetters() int {
	return s.totalLetters
}

// WordRows returns [word, count] rows.
func (s *Stats) WordRows() [][]string {
	rows := make([][]string, 0, len(s.wordOrder))
	for _, word := range s.wordOrder {
		rows = append(rows, []string{word, strconv.Itoa(s.words[word])})
	}
	return rows
}

// LetterRows returns rows matching LetterHeaders.
func (s *Stats) LetterRows() [][]string {
	rows := make([][]string, 0, len(s.letterOrder))
	for _, letter := range s.letterOrder {
		count := s.letters[letter]
		rows = append(rows, []string{
			string(letter),
			strconv.Itoa(count),
			strconv.Itoa(s.uppercase[letter]),
			percentage(count, s.totalLetters),
		})
	}
	return rows
}

// Snapshot is a read-only copy of the counters.
type Snapshot struct {
	Words        map[string]int
	Letters      map[string]int
	Uppercase    map[string]int
	TotalLetters int
}

func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Words:        make(map[string]int, len(s.words)),
		Letters:      make(map[string]int, len(s.letters)),
		Uppercase:    make(map[string]int, len(s.uppercase)),
		TotalLetters: s.totalLetters,
	}
	for word, count := range s.words {
		snap.Words[word] = count
	}
	for letter, count := range s.letters {
		snap.Letters[string(letter)] = count
	}
	for letter, count := range s.uppercase {
		snap.Uppercase[string(letter)] = count
	}
	return snap
}

func percentage(count int, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(count)/float64(total)*100)
}
