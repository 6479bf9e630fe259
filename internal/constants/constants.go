package constants

import "time"

var APIConfig = struct {
	PokeAPIBaseURL string
	PokeAPITimeout time.Duration
	UserAgent      string
}{
	PokeAPIBaseURL: "https://pokeapi.co/api/v2",
	PokeAPITimeout: 10 * time.Second,
	UserAgent:      "pokedex-catalog-go/1.0",
}

var Catalog = struct {
	PageSize          int
	DetailConcurrency int
	FallbackLocale    string
	DefaultLocale     string
}{
	PageSize:          50, // list page size, also the infinite scroll step
	DetailConcurrency: 25, // concurrent detail requests per page
	FallbackLocale:    "en",
	DefaultLocale:     "pt-br",
}

var Search = struct {
	IDPrefixWindow int
	NameWindow     int
	Debounce       time.Duration
}{
	IDPrefixWindow: 100, // numeric fallback scans the first 100 entries
	NameWindow:     300, // name fallback scans the first 300 entries
	Debounce:       500 * time.Millisecond,
}

var Criteria = struct {
	MinID int
	MaxID int
}{
	MinID: 1,
	MaxID: 1000,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 5,                // 5 consecutive failures open the circuit
	ResetTimeout:     15 * time.Second, // then fail fast for 15s before probing again
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	DefaultPerPage    int
	MaxPerPage        int
}{
	ReadHeaderTimeout: 5 * time.Second,
	ShutdownTimeout:   10 * time.Second,
	DefaultPerPage:    12,
	MaxPerPage:        200,
}
