package game

import (
	"fmt"

	"github.com/gicheruj/birthday-present/internal/content"
)

// Gallery is the memory page: browse photo collections. It never gates
// continue.
type Gallery struct {
	collections []content.Collection
	open        int
	index       int
}

type CollectionSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Photos   int    `json:"photos"`
}

type PhotoView struct {
	Src  string `json:"src"`
	Name string `json:"name,omitempty"`
}

type GalleryView struct {
	Collections []CollectionSummary `json:"collections"`
	Open        string              `json:"open,omitempty"`
	Index       int                 `json:"index"`
	Count       int                 `json:"count,omitempty"`
	Photo       *PhotoView          `json:"photo,omitempty"`
}

func NewGallery(collections []content.Collection) *Gallery {
	return &Gallery{collections: collections, open: -1}
}

func (g *Gallery) Kind() Kind { return KindMemory }

func (g *Gallery) CanContinue() bool { return true }

func (g *Gallery) Completed() bool { return true }

// Open selects a collection and rewinds to its first photo.
func (g *Gallery) Open(id string) error {
	for i, c := range g.collections {
		if c.ID == id {
			g.open, g.index = i, 0
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, id)
}

func (g *Gallery) Close() {
	g.open, g.index = -1, 0
}

// Next and Prev wrap around the open collection.
func (g *Gallery) Next() error {
	n, err := g.count()
	if err != nil {
		return err
	}
	g.index = (g.index + 1) % n
	return nil
}

func (g *Gallery) Prev() error {
	n, err := g.count()
	if err != nil {
		return err
	}
	g.index = (g.index - 1 + n) % n
	return nil
}

// Index is the position in the open collection.
func (g *Gallery) Index() int { return g.index }

func (g *Gallery) count() (int, error) {
	if g.open < 0 {
		return 0, ErrNoCollection
	}
	return len(g.collections[g.open].Photos), nil
}

func (g *Gallery) View() any {
	v := GalleryView{Collections: make([]CollectionSummary, len(g.collections))}
	for i, c := range g.collections {
		v.Collections[i] = CollectionSummary{ID: c.ID, Title: c.Title, Subtitle: c.Subtitle, Photos: len(c.Photos)}
	}
	if g.open >= 0 {
		c := g.collections[g.open]
		p := c.Photos[g.index]
		pv := &PhotoView{Src: p.Src}
		if c.ShowNames {
			pv.Name = p.Name
		}
		v.Open, v.Index, v.Count, v.Photo = c.ID, g.index, len(c.Photos), pv
	}
	return v
}
