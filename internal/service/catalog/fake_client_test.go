package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/kapu/pokedex-catalog-go/internal/pokeapi"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

type fakeClient struct {
	mu       sync.Mutex
	index    []pokeapi.NamedResource
	pokemon  map[string]*pokeapi.RawPokemon
	byURL    map[string]string
	failures map[string]error
	listErr  error
	types    []string
	calls    []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pokemon:  make(map[string]*pokeapi.RawPokemon),
		byURL:    make(map[string]string),
		failures: make(map[string]error),
	}
}

// add registers a record reachable by id and by name and appends it to the index.
func (f *fakeClient) add(id int, name string, types ...string) *pokeapi.RawPokemon {
	raw := &pokeapi.RawPokemon{
		ID:      id,
		Name:    name,
		Height:  10,
		Weight:  100,
		Sprites: map[string]any{"front_default": fmt.Sprintf("https://img/%d.png", id)},
		Species: pokeapi.NamedResource{Name: name, URL: fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", id)},
	}
	for i, t := range types {
		raw.Types = append(raw.Types, pokeapi.PokemonType{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}})
	}
	f.pokemon[name] = raw
	f.pokemon[strconv.Itoa(id)] = raw
	f.index = append(f.index, pokeapi.NamedResource{Name: name})
	return raw
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) ListResource(ctx context.Context, limit, offset int) (*pokeapi.NamedResourceList, error) {
	f.record(fmt.Sprintf("list:%d:%d", limit, offset))
	if f.listErr != nil {
		return nil, f.listErr
	}
	end := min(offset+limit, len(f.index))
	results := []pokeapi.NamedResource{}
	if offset < end {
		results = f.index[offset:end]
	}
	return &pokeapi.NamedResourceList{Count: len(f.index), Results: results}, nil
}

func (f *fakeClient) GetResource(ctx context.Context, idOrName string) (*pokeapi.RawPokemon, error) {
	f.record("get:" + idOrName)
	if err, ok := f.failures[idOrName]; ok {
		return nil, err
	}
	raw, ok := f.pokemon[idOrName]
	if !ok {
		return nil, notFound()
	}
	return raw, nil
}

func (f *fakeClient) GetByURL(ctx context.Context, rawURL string, dest any) error {
	f.record("url:" + rawURL)
	if err, ok := f.failures[rawURL]; ok {
		return err
	}
	body, ok := f.byURL[rawURL]
	if !ok {
		return notFound()
	}
	return json.Unmarshal([]byte(body), dest)
}

func (f *fakeClient) ListTypes(ctx context.Context) (*pokeapi.NamedResourceList, error) {
	f.record("types")
	list := &pokeapi.NamedResourceList{}
	for _, t := range f.types {
		list.Results = append(list.Results, pokeapi.NamedResource{Name: t})
	}
	return list, nil
}

func notFound() error {
	return errors.NewAPIError("Client error: 404", http.StatusNotFound, nil)
}
