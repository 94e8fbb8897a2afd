package datastore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pelletier/go-toml/v2"

	"sheetsync/pkg/extract"
)

// Offsets are row indexes: the header band is [Top, Header) and the data band
// is [Header, rows-Bottom).
type Offset struct {
	Top    int `toml:"top"`
	Header int `toml:"header"`
	Bottom int `toml:"bottom"`
}

type FilePath struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

type HeaderProperties struct {
	Prefix string `toml:"prefix"`
	// Fragments deleted from header cells before they are joined.
	RemoveLineFromHeaders []string `toml:"remove_line_from_headers"`
	// Discard the whole cell instead of the fragment.
	DropMatchingCells bool `toml:"drop_matching_cells,omitempty"`
}

type JobConfig struct {
	Name             string           `toml:"name"`
	FilePath         FilePath         `toml:"file_path"`
	HeaderProperties HeaderProperties `toml:"header_properties"`
	CheckDate        bool             `toml:"check_date"`
	LastSavedDate    toml.LocalDate   `toml:"last_saved_date"`
	Offset           Offset           `toml:"offset"`
}

// Job converts the stored record into the extraction job it describes.
func (j JobConfig) Job() extract.Job {
	return extract.Job{
		Name:   j.Name,
		Source: j.FilePath.Input,
		Sink:   j.FilePath.Output,
		Header: extract.HeaderSpec{
			Prefix:            j.HeaderProperties.Prefix,
			StripPatterns:     j.HeaderProperties.RemoveLineFromHeaders,
			DropMatchingCells: j.HeaderProperties.DropMatchingCells,
		},
		CheckDate:  j.CheckDate,
		CursorDate: j.LastSavedDate.AsTime(time.UTC),
		Band: extract.RowBand{
			HeaderTop:    j.Offset.Top,
			HeaderEnd:    j.Offset.Header,
			FooterMargin: j.Offset.Bottom,
		},
	}
}

type configStore struct {
	// What a run with nothing new does: "keep" the cursor or "fail" the job.
	EmptyPolicy extract.EmptyPolicy `toml:"empty_policy"`
	DownloadDir string              `toml:"download_dir"`
	Jobs        []JobConfig         `toml:"jobs"`
}

type Datastore struct {
	Filename string
	Store    configStore
}

// Write the current config out to a toml file.
func (c *Datastore) Save() error {
	b, err := toml.Marshal(c.Store)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Filename, b, 0644)
}

// Load the current config from a toml file.
func (c *Datastore) Load() error {
	b, err := os.ReadFile(c.Filename)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(b, &c.Store); err != nil {
		return fmt.Errorf("parse %s: %w", c.Filename, err)
	}
	c.setDefaults()
	return c.validate()
}

func (c *Datastore) setDefaults() {
	if c.Store.EmptyPolicy == "" {
		c.Store.EmptyPolicy = extract.KeepCursor
	}
	if c.Store.DownloadDir == "" {
		c.Store.DownloadDir = "."
	}
	for i := range c.Store.Jobs {
		if c.Store.Jobs[i].Name == "" {
			c.Store.Jobs[i].Name = path.Base(c.Store.Jobs[i].FilePath.Input)
		}
	}
}

func (c *Datastore) validate() error {
	if !c.Store.EmptyPolicy.Valid() {
		return fmt.Errorf("%s: unknown empty_policy %q", c.Filename, c.Store.EmptyPolicy)
	}
	seen := make(map[string]bool, len(c.Store.Jobs))
	for _, j := range c.Store.Jobs {
		if j.FilePath.Input == "" || j.FilePath.Output == "" {
			return fmt.Errorf("%s: job %q needs file_path.input and file_path.output", c.Filename, j.Name)
		}
		if seen[j.Name] {
			return fmt.Errorf("%s: duplicate job name %q", c.Filename, j.Name)
		}
		seen[j.Name] = true
	}
	return nil
}

// Index returns the position of the named job, or -1.
func (c *Datastore) Index(name string) int {
	for i, j := range c.Store.Jobs {
		if j.Name == name {
			return i
		}
	}
	return -1
}

// SetCursor records the new last saved date of the job at index i.
func (c *Datastore) SetCursor(i int, d time.Time) {
	c.Store.Jobs[i].LastSavedDate = toml.LocalDate{Year: d.Year(), Month: int(d.Month()), Day: d.Day()}
}

// NewDatastore loads filename, creating an empty config when it does not exist.
func NewDatastore(filename string) (*Datastore, error) {
	c := &Datastore{
		Filename: filename,
	}
	if err := c.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		c.setDefaults()
		if err := c.Save(); err != nil {
			return nil, err
		}
	}
	return c, nil
}
