package testutils

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Artist, Album, Track and Video mirror the streaming service objects the
// audited application manipulates. They only carry what the fixtures need.
type Artist struct {
	ID    int
	Name  string
	Roles []string
}

type Album struct {
	ID          int
	Name        string
	ReleaseDate time.Time
}

type Track struct {
	ID                int
	Name              string
	Title             string
	FullName          string
	Version           string
	Duration          int // seconds
	Explicit          bool
	Popularity        int
	BPM               int
	ISRC              string
	BitDepth          int
	SampleRate        int
	AudioModes        []string
	MediaMetadataTags []string
	Available         bool
	Album             *Album
	Artists           []*Artist
}

type Video struct {
	ID           int
	Name         string
	Title        string
	FullName     string
	Duration     int // seconds
	Explicit     bool
	VideoQuality string
	Available    bool
	Album        *Album
	Artists      []*Artist
}

// MockTrack returns a fully populated track.
func MockTrack() *Track {
	return &Track{
		ID:                12345,
		Name:              "Bohemian Rhapsody",
		Title:             "Bohemian Rhapsody",
		FullName:          "Bohemian Rhapsody",
		Version:           "2011 Remaster",
		Duration:          354,
		Explicit:          false,
		Popularity:        95,
		BPM:               72,
		ISRC:              "GBUM71029604",
		BitDepth:          24,
		SampleRate:        96000,
		AudioModes:        []string{},
		MediaMetadataTags: []string{},
		Available:         true,
		Album: &Album{
			ID:          67890,
			Name:        "A Night at the Opera",
			ReleaseDate: time.Date(1975, time.November, 21, 0, 0, 0, 0, time.UTC),
		},
		Artists: []*Artist{
			{Name: "Queen", Roles: []string{"main"}},
		},
	}
}

// MockVideo returns a fully populated video.
func MockVideo() *Video {
	return &Video{
		ID:           54321,
		Name:         "Thriller",
		Title:        "Thriller",
		FullName:     "Thriller (Official Video)",
		Duration:     600,
		Explicit:     false,
		VideoQuality: "1080p",
		Available:    true,
		Album:        &Album{Name: "Thriller"},
		Artists: []*Artist{
			{Name: "Michael Jackson"},
		},
	}
}

// Item is a cell of an ItemModel: a display label and an optional payload.
type Item struct {
	Label string
	Data  any
}

// ItemModel is a minimal table model: rows of items with a fixed number of columns.
type ItemModel struct {
	columns int
	rows    [][]Item
}

func NewItemModel(columns int) *ItemModel {
	return &ItemModel{columns: columns}
}

func (model *ItemModel) ColumnCount() int {
	return model.columns
}

func (model *ItemModel) RowCount() int {
	return len(model.rows)
}

// AppendRow adds a row, padding or truncating it to the number of columns.
func (model *ItemModel) AppendRow(items ...Item) {
	row := make([]Item, model.columns)
	copy(row, items)

	model.rows = append(model.rows, row)
}

func (model *ItemModel) Item(row int, column int) Item {
	return model.rows[row][column]
}

// ProxyModel is a sorted and filtered view over an ItemModel.
// It maps its own row numbers to rows of the source model.
type ProxyModel struct {
	source  *ItemModel
	mapping []int
}

func NewProxyModel(source *ItemModel) *ProxyModel {
	proxy := &ProxyModel{source: source}
	proxy.Invalidate()

	return proxy
}

// Invalidate resets the view to every source row, in source order.
func (proxy *ProxyModel) Invalidate() {
	proxy.mapping = make([]int, proxy.source.RowCount())
	for i := range proxy.mapping {
		proxy.mapping[i] = i
	}
}

// Filter keeps the rows whose label in the given column contains the given text (case-insensitive).
func (proxy *ProxyModel) Filter(column int, text string) {
	text = strings.ToLower(text)

	proxy.mapping = slices.DeleteFunc(proxy.mapping, func(row int) bool {
		return !strings.Contains(strings.ToLower(proxy.source.Item(row, column).Label), text)
	})
}

// Sort orders the visible rows by the label of the given column.
func (proxy *ProxyModel) Sort(column int, descending bool) {
	slices.SortStableFunc(proxy.mapping, func(a, b int) int {
		order := cmp.Compare(proxy.source.Item(a, column).Label, proxy.source.Item(b, column).Label)
		if descending {
			return -order
		}

		return order
	})
}

func (proxy *ProxyModel) RowCount() int {
	return len(proxy.mapping)
}

// MapToSource returns the source row displayed at the given proxy row.
func (proxy *ProxyModel) MapToSource(row int) int {
	return proxy.mapping[row]
}

func (proxy *ProxyModel) Item(row int, column int) Item {
	return proxy.source.Item(proxy.mapping[row], column)
}

// TreeViewSetup returns a two-column source model populated with five rows
// ("Item i" and a track named "Track i" with ID i), and a proxy over it.
func TreeViewSetup() (*ProxyModel, *ItemModel) {
	source := NewItemModel(2)

	for i := range 5 {
		track := &Track{ID: i, Name: "Track " + strconv.Itoa(i)}
		source.AppendRow(
			Item{Label: "Item " + strconv.Itoa(i)},
			Item{Data: track},
		)
	}

	return NewProxyModel(source), source
}
