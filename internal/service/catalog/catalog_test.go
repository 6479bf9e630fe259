package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/pokedex-catalog-go/internal/pokeapi"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

func TestFetchPageKeepsListOrder(t *testing.T) {
	client := newFakeClient()
	for i := 1; i <= 60; i++ {
		client.add(i, fmt.Sprintf("mon-%d", i))
	}
	svc := NewService(client, "en", zap.NewNop())

	page, err := svc.FetchPage(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(page) != 50 {
		t.Fatalf("expected 50 records, got %d", len(page))
	}
	for i, p := range page {
		if p.ID != i+1 {
			t.Fatalf("position %d holds id %d", i, p.ID)
		}
	}

	next, err := svc.FetchPage(context.Background(), 50, 50)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(next) != 10 || next[0].ID != 51 {
		t.Fatalf("unexpected second page: %d records", len(next))
	}
}

func TestFetchPageDropsDuplicateIDs(t *testing.T) {
	client := newFakeClient()
	client.add(1, "bulbasaur")
	client.add(2, "ivysaur")
	client.pokemon["bulbasaur-alias"] = client.pokemon["bulbasaur"]
	client.index = append(client.index, pokeapi.NamedResource{Name: "bulbasaur-alias"})
	svc := NewService(client, "en", zap.NewNop())

	page, err := svc.FetchPage(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(page) != 2 || page[0].ID != 1 || page[1].ID != 2 {
		t.Fatalf("expected ids [1 2], got %d records", len(page))
	}
}

func TestFetchPageFailsAsUnit(t *testing.T) {
	client := newFakeClient()
	client.add(1, "bulbasaur")
	client.add(2, "ivysaur")
	client.add(3, "venusaur")
	client.failures["ivysaur"] = errors.NewAPIError("Server error: 500", http.StatusInternalServerError, nil)
	svc := NewService(client, "en", zap.NewNop())

	page, err := svc.FetchPage(context.Background(), 10, 0)
	if page != nil {
		t.Fatalf("expected no partial page, got %d records", len(page))
	}
	var fetchErr *errors.FetchError
	if !stderrors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T %v", err, err)
	}
	if fetchErr.Operation != OpFetchPage {
		t.Fatalf("unexpected operation %q", fetchErr.Operation)
	}
}

func TestFetchPageListFailure(t *testing.T) {
	client := newFakeClient()
	client.listErr = errors.NewTransportError("no response from upstream", "https://pokeapi.co/api/v2/pokemon", context.DeadlineExceeded)
	svc := NewService(client, "en", zap.NewNop())

	_, err := svc.FetchPage(context.Background(), 50, 0)
	var fetchErr *errors.FetchError
	if !stderrors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T %v", err, err)
	}
	var transportErr *errors.TransportError
	if !stderrors.As(err, &transportErr) {
		t.Fatalf("expected transport cause to be kept, got %v", err)
	}
}

func TestFetchPageMalformedRecordIsValidationError(t *testing.T) {
	client := newFakeClient()
	client.add(1, "bulbasaur")
	client.pokemon["bulbasaur"] = &pokeapi.RawPokemon{Name: "bulbasaur"}
	svc := NewService(client, "en", zap.NewNop())

	_, err := svc.FetchPage(context.Background(), 10, 0)
	var validationErr *errors.ValidationError
	if !stderrors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
	var fetchErr *errors.FetchError
	if stderrors.As(err, &fetchErr) {
		t.Fatalf("validation failures must not be reported as fetch failures")
	}
}

const charmanderSpecies = `{"id":4,"name":"charmander",
	"flavor_text_entries":[
		{"flavor_text":"ヒトカゲ","language":{"name":"ja"}},
		{"flavor_text":"Obviously prefers\fhot places.\nWhen it rains,\rsteam\u000bspouts.","language":{"name":"en"}},
		{"flavor_text":"Prefere lugares\nquentes.","language":{"name":"pt-BR"}}
	],
	"genera":[{"genus":"Lizard Pokémon","language":{"name":"en"}}],
	"evolution_chain":{"url":"https://pokeapi.co/api/v2/evolution-chain/2/"},
	"habitat":{"name":"mountain"},
	"generation":{"name":"generation-i"},
	"is_baby":false,"is_legendary":false,"is_mythical":false}`

const charmanderChain = `{"id":2,"chain":{
	"species":{"name":"charmander","url":"https://pokeapi.co/api/v2/pokemon-species/4/"},
	"evolution_details":[],
	"evolves_to":[{
		"species":{"name":"charmeleon","url":"https://pokeapi.co/api/v2/pokemon-species/5/"},
		"evolution_details":[{"min_level":16,"trigger":{"name":"level-up"}}],
		"evolves_to":[{
			"species":{"name":"charizard","url":"https://pokeapi.co/api/v2/pokemon-species/6/"},
			"evolution_details":[{"min_level":36,"trigger":{"name":"level-up"}}],
			"evolves_to":[]
		}]
	}]
}}`

func newCharmanderClient() *fakeClient {
	client := newFakeClient()
	client.add(4, "charmander", "fire")
	client.byURL["https://pokeapi.co/api/v2/pokemon-species/4/"] = charmanderSpecies
	client.byURL["https://pokeapi.co/api/v2/evolution-chain/2/"] = charmanderChain
	return client
}

func TestFetchDetailAggregates(t *testing.T) {
	svc := NewService(newCharmanderClient(), "pt-br", zap.NewNop())

	p, err := svc.FetchDetail(context.Background(), 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Description != "Prefere lugares quentes." {
		t.Fatalf("unexpected description %q", p.Description)
	}
	if p.Genus != "Lizard Pokémon" || p.Habitat != "mountain" || p.Generation != "generation-i" {
		t.Fatalf("unexpected species fields %+v", p)
	}
	if len(p.EvolutionChain) != 3 || p.EvolutionChain[2].Name != "charizard" || *p.EvolutionChain[2].Level != 36 {
		t.Fatalf("unexpected evolution chain %+v", p.EvolutionChain)
	}
	if p.Height != 1.0 || p.Weight != 10.0 {
		t.Fatalf("unexpected measurements %v %v", p.Height, p.Weight)
	}
}

func TestFetchDetailFallsBackToEnglish(t *testing.T) {
	svc := NewService(newCharmanderClient(), "fr", zap.NewNop())

	p, err := svc.FetchDetail(context.Background(), 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "Obviously prefers hot places. When it rains, steam spouts."
	if p.Description != want {
		t.Fatalf("expected %q, got %q", want, p.Description)
	}
}

func TestFetchDetailWithoutMatchingLocale(t *testing.T) {
	client := newCharmanderClient()
	client.byURL["https://pokeapi.co/api/v2/pokemon-species/4/"] = `{"id":4,"flavor_text_entries":[{"flavor_text":"ヒトカゲ","language":{"name":"ja"}}]}`
	svc := NewService(client, "pt-br", zap.NewNop())

	p, err := svc.FetchDetail(context.Background(), 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Description != "" {
		t.Fatalf("expected empty description, got %q", p.Description)
	}
	if len(p.EvolutionChain) != 0 {
		t.Fatalf("expected no chain without a reference, got %v", p.EvolutionChain)
	}
	for _, call := range client.Calls() {
		if strings.Contains(call, "evolution-chain") {
			t.Fatalf("did not expect an evolution chain request, got %v", client.Calls())
		}
	}
}

func TestFetchDetailNotFound(t *testing.T) {
	svc := NewService(newFakeClient(), "en", zap.NewNop())

	_, err := svc.FetchDetail(context.Background(), 9999)
	var fetchErr *errors.FetchError
	if !stderrors.As(err, &fetchErr) || fetchErr.Operation != OpFetchDetail {
		t.Fatalf("expected detail FetchError, got %T %v", err, err)
	}
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not-found to stay visible through FetchError")
	}
}

func TestFetchDetailSpeciesFailure(t *testing.T) {
	client := newCharmanderClient()
	client.failures["https://pokeapi.co/api/v2/pokemon-species/4/"] = errors.NewAPIError("Server error: 503", http.StatusServiceUnavailable, nil)
	svc := NewService(client, "en", zap.NewNop())

	_, err := svc.FetchDetail(context.Background(), 4)
	var fetchErr *errors.FetchError
	if !stderrors.As(err, &fetchErr) || fetchErr.Operation != OpFetchSpecies {
		t.Fatalf("expected species FetchError, got %T %v", err, err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected upstream status to carry through, got %d", fetchErr.StatusCode)
	}
}

func TestListTypes(t *testing.T) {
	client := newFakeClient()
	client.types = []string{"normal", "fire", "water"}
	svc := NewService(client, "en", zap.NewNop())

	types, err := svc.ListTypes(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(types) != 3 || types[1] != "fire" {
		t.Fatalf("unexpected types %v", types)
	}
}
