package store

type Store interface {
	AppendFeed(string) error
	WriteWordCounts([][]string) error
	WriteLetterCounts([]string, [][]string) error
	WriteWorkbook([][]string, []string, [][]string) error
	Close() error
}
