package deck

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed decks/*.yaml
var embedded embed.FS

// StaticLoader serves decks held in memory.
type StaticLoader struct {
	decks map[string]Deck
}

// NewStaticLoader indexes decks by id. Later duplicates win.
func NewStaticLoader(decks ...Deck) *StaticLoader {
	m := make(map[string]Deck, len(decks))
	for _, d := range decks {
		m[d.ID] = d
	}
	return &StaticLoader{decks: m}
}

func (l *StaticLoader) LoadDeck(_ context.Context, id string) (Deck, error) {
	if d, ok := l.decks[id]; ok {
		return d, nil
	}
	return Deck{}, notFound(id)
}

func (l *StaticLoader) ListDecks(_ context.Context) ([]Summary, error) {
	out := make([]Summary, 0, len(l.decks))
	for _, d := range l.decks {
		out = append(out, d.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Embedded returns the starter decks compiled into the binary.
func Embedded() (*StaticLoader, error) {
	sub, err := fs.Sub(embedded, "decks")
	if err != nil {
		return nil, err
	}
	return loadFS(sub)
}

// LoadDir reads every *.yaml deck in dir. A missing dir yields an empty loader.
func LoadDir(dir string) (*StaticLoader, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewStaticLoader(), nil
	}
	return loadFS(os.DirFS(dir))
}

func loadFS(fsys fs.FS) (*StaticLoader, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read deck dir: %w", err)
	}
	var decks []Deck
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		d, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		decks = append(decks, d)
	}
	return NewStaticLoader(decks...), nil
}
