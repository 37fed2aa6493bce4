// Package quoteserver implements a mock quotes service covering the four
// pipeline endpoints. It backs both the package tests and the standalone
// quoteserver binary used for local dashboard demos.
package quoteserver

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Config controls the mock server's behavior.
type Config struct {
	// Addr is the listen address for the standalone binary.
	Addr string
	// Latency is added to every response to simulate a slow network.
	Latency time.Duration
	// FailPath, when set, makes that endpoint return FailStatus with an
	// error document. Used to exercise the halt-on-failure path.
	FailPath string
	// FailStatus is the status code returned for FailPath. Defaults to 500.
	FailStatus int
}

// LoadConfig reads the server configuration from environment variables.
func LoadConfig() Config {
	config := Config{
		Addr:       ":8640",
		FailStatus: http.StatusInternalServerError,
	}

	if addr := os.Getenv("QUOTESERVER_ADDR"); addr != "" {
		config.Addr = addr
	}
	if ms := os.Getenv("QUOTESERVER_LATENCY_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n >= 0 {
			config.Latency = time.Duration(n) * time.Millisecond
		}
	}
	if path := os.Getenv("QUOTESERVER_FAIL_PATH"); path != "" {
		config.FailPath = path
	}
	if status := os.Getenv("QUOTESERVER_FAIL_STATUS"); status != "" {
		if n, err := strconv.Atoi(status); err == nil && n >= 400 {
			config.FailStatus = n
		}
	}

	return config
}

// quoteRecord matches the wire shape the pipeline client expects.
type quoteRecord struct {
	Quote  string `json:"quote"`
	Source string `json:"source"`
}

// canned holds the per-topic quote sets served by /quotes.
var canned = map[string][]quoteRecord{
	"inspiration": {
		{Quote: "The best way out is always through.", Source: "Robert Frost"},
		{Quote: "What we achieve inwardly will change outer reality.", Source: "Plutarch"},
		{Quote: "Act as if what you do makes a difference. It does.", Source: "William James"},
		{Quote: "Well begun is half done.", Source: "Aristotle"},
		{Quote: "It always seems impossible until it is done.", Source: "Nelson Mandela"},
	},
	"engineering": {
		{Quote: "Simplicity is prerequisite for reliability.", Source: "Edsger Dijkstra"},
		{Quote: "Make it work, make it right, make it fast.", Source: "Kent Beck"},
		{Quote: "Premature optimization is the root of all evil.", Source: "Donald Knuth"},
		{Quote: "Deleted code is debugged code.", Source: "Jeff Sickel"},
		{Quote: "A little copying is better than a little dependency.", Source: "Rob Pike"},
	},
	"science": {
		{Quote: "Somewhere, something incredible is waiting to be known.", Source: "Carl Sagan"},
		{Quote: "Nothing in life is to be feared, it is only to be understood.", Source: "Marie Curie"},
		{Quote: "If I have seen further it is by standing on the shoulders of giants.", Source: "Isaac Newton"},
		{Quote: "The good thing about science is that it is true whether or not you believe in it.", Source: "Neil deGrasse Tyson"},
	},
	"humor": {
		{Quote: "I am so clever that sometimes I do not understand a single word of what I am saying.", Source: "Oscar Wilde"},
		{Quote: "Never put off till tomorrow what may be done day after tomorrow just as well.", Source: "Mark Twain"},
		{Quote: "I can resist everything except temptation.", Source: "Oscar Wilde"},
	},
}

// Server is the mock quotes service.
type Server struct {
	config Config
	rng    *rand.Rand
}

// NewServer creates a mock server with the given configuration.
func NewServer(config Config) *Server {
	if config.FailStatus == 0 {
		config.FailStatus = http.StatusInternalServerError
	}
	return &Server{
		config: config,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Handler returns the server's HTTP handler. Tests wrap it in an
// httptest.Server instead of binding a real port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/quotes", s.handleQuotes)
	mux.HandleFunc("/authors", s.handleAuthors)
	mux.HandleFunc("/related", s.handleRelated)
	mux.HandleFunc("/random", s.handleRandom)
	return mux
}

// Start runs the server on the configured address, blocking until it exits.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// topicSet returns the canned quotes for a topic, falling back to the
// inspiration set for unknown topics.
func topicSet(topic string) []quoteRecord {
	if set, ok := canned[topic]; ok {
		return set
	}
	return canned["inspiration"]
}

// params extracts and validates the common topic/count query parameters.
func params(r *http.Request) (string, int, error) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		return "", 0, fmt.Errorf("missing required parameter: topic")
	}

	count := 3
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return "", 0, fmt.Errorf("invalid count: %q", raw)
		}
		count = n
	}

	return topic, count, nil
}

// intercept applies latency and the configured failure injection. It
// reports whether the request was already answered.
func (s *Server) intercept(w http.ResponseWriter, r *http.Request) bool {
	if s.config.Latency > 0 {
		time.Sleep(s.config.Latency)
	}

	if s.config.FailPath != "" && r.URL.Path == s.config.FailPath {
		writeError(w, s.config.FailStatus, fmt.Sprintf("injected failure for %s", r.URL.Path))
		return true
	}

	return false
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}

	topic, count, err := params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set := topicSet(topic)
	records := make([]quoteRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, set[i%len(set)])
	}
	writeJSON(w, records)
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}

	topic, count, err := params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set := topicSet(topic)
	records := make([]quoteRecord, 0, count)
	for i := 0; i < count && i < len(set); i++ {
		records = append(records, quoteRecord{
			Quote:  fmt.Sprintf("%s is known for writing on %s.", set[i].Source, topic),
			Source: set[i].Source,
		})
	}
	writeJSON(w, records)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}

	topic, count, err := params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Related quotes come from the other topics
	records := make([]quoteRecord, 0, count)
	for other, set := range canned {
		if other == topic {
			continue
		}
		records = append(records, set[0])
		if len(records) == count {
			break
		}
	}
	writeJSON(w, records)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r) {
		return
	}

	topic, _, err := params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set := topicSet(topic)
	writeJSON(w, []quoteRecord{set[s.rng.Intn(len(set))]})
}

// writeJSON writes a 200 response with a JSON body.
func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an error document with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
