package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kapu/pokedex-catalog-go/internal/domain"
)

func TestWriteOutputFormats(t *testing.T) {
	items := summarize([]*domain.Pokemon{{ID: 25, Name: "pikachu", Types: []string{"electric"}}})

	var buf bytes.Buffer
	if err := writeOutput(&buf, "yaml", items); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "#025") || !strings.Contains(buf.String(), "name: Pikachu") {
		t.Fatalf("unexpected yaml output:\n%s", buf.String())
	}

	buf.Reset()
	if err := writeOutput(&buf, "json", items); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(buf.String(), `"id": "#025"`) {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}

	if err := writeOutput(&buf, "xml", items); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestDetailViewFormatsEvolution(t *testing.T) {
	level := 16
	view := newDetailView(&domain.Pokemon{
		ID:   1,
		Name: "bulbasaur",
		EvolutionChain: []domain.EvolutionStep{
			{ID: 1, Name: "bulbasaur"},
			{ID: 2, Name: "ivysaur", Level: &level},
		},
	})

	if view.ID != "#001" || view.Name != "Bulbasaur" {
		t.Fatalf("unexpected header %s %s", view.ID, view.Name)
	}
	if len(view.Evolution) != 2 || view.Evolution[1].Name != "Ivysaur" || *view.Evolution[1].Level != 16 {
		t.Fatalf("unexpected evolution %+v", view.Evolution)
	}
}
