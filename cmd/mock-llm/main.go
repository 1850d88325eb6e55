// Package main implements a mock LLM server for offline demos and tests.
// It serves OpenAI-compatible /v1/chat/completions responses, routing by the
// content type inferred from the prompt (scenario, decision_points,
// assessment, feedback, learning_moment, recommendations). This lets the
// cybersaga binary run a full session without a real model endpoint.
//
// Usage:
//
//	mock-llm -fixtures /path/to/fixtures -port 11434
//
// Fixture files are JSON or text named by content type (e.g.
// "scenario.json", "feedback.txt"). When no fixture exists for a content
// type, a built-in default is served.
//
// Sequential fixtures: if numbered files exist (e.g. "scenario.1.json",
// "scenario.2.json"), the Nth request for that content type returns the Nth
// fixture. After exhausting numbered fixtures, the base file repeats. This
// enables testing degraded-then-recovered generation flows.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// --- OpenAI-compatible types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// --- Content routing ---

// contentTypeOf infers which kind of content a prompt asks for by matching
// distinctive phrases from the prompt templates. Defaults to "scenario".
func contentTypeOf(messages []chatMessage) string {
	var prompt string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			prompt = strings.ToLower(messages[i].Content)
			break
		}
	}

	switch {
	case strings.Contains(prompt, "decision points"):
		return "decision_points"
	case strings.Contains(prompt, "knowledge assessment"):
		return "assessment"
	case strings.Contains(prompt, "made the following decision"):
		return "feedback"
	case strings.Contains(prompt, "learning moment"):
		return "learning_moment"
	case strings.Contains(prompt, "personalized recommendations"):
		return "recommendations"
	default:
		return "scenario"
	}
}

// defaultFixtures are served when no fixture file covers a content type.
// The JSON ones match the payload shapes the cybersaga client decodes.
var defaultFixtures = map[string]string{
	"scenario": `{"title": "The Invoice That Wasn't", "description": "You open your inbox on Monday morning and find an urgent invoice from a supplier you vaguely recognize. The payment details have changed since last month, and the sender is pressing for same-day settlement."}`,
	"decision_points": `[
  {
    "question": "What should you do first about the changed payment details?",
    "options": [
      {"text": "Pay immediately to avoid late fees", "is_correct": false, "feedback": "Urgency is the attacker's main lever; paying first removes any chance to verify."},
      {"text": "Verify the change through a known phone number", "is_correct": true, "feedback": "Out-of-band verification through a trusted channel defeats invoice fraud."},
      {"text": "Reply to the email asking for confirmation", "is_correct": false, "feedback": "Replying confirms with the attacker, not the supplier."},
      {"text": "Forward the invoice to a colleague to handle", "is_correct": false, "feedback": "Passing it along spreads the risk without verifying anything."}
    ]
  }
]`,
	"assessment": `{
  "questions": [
    {
      "question": "Why do attackers create urgency in fraudulent requests?",
      "options": [
        {"text": "To appear professional", "is_correct": false},
        {"text": "To pressure targets into skipping verification", "is_correct": true},
        {"text": "Because payment systems impose deadlines", "is_correct": false},
        {"text": "To comply with regulations", "is_correct": false}
      ],
      "explanation": "Urgency short-circuits the verification steps that would expose the fraud."
    }
  ]
}`,
	"feedback":        "Verifying through a known, trusted channel is the single most effective defense against payment fraud. It costs minutes and removes the attacker's control over the conversation.",
	"learning_moment": "Key principle: any request that changes where money or credentials go deserves out-of-band verification. Call the number you have on file, not the one in the message. Slowing down is a security control, not an inconvenience.",
	"recommendations": "- Practice a ransomware tabletop scenario to rehearse early reporting.\n- Review your organization's payment change verification procedure.\n- Run an intermediate phishing scenario to consolidate recent gains.",
}

// --- Server ---

// capturedRequest stores the key fields of an incoming request for test
// verification.
type capturedRequest struct {
	ContentType string        `json:"content_type"`
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	CallIndex   int           `json:"call_index"` // 1-indexed per-content-type call number
	Timestamp   int64         `json:"timestamp"`
}

type server struct {
	fixtures map[string][]string // content type → ordered fixture contents
	calls    atomic.Int64        // total calls served

	// Per-content-type call counters for sequential fixture selection.
	typeCalls   map[string]*atomic.Int64
	typeCallsMu sync.Mutex // protects lazy init of typeCalls entries

	// Per-content-type request capture for prompt verification in tests.
	typeRequests   map[string][]capturedRequest
	typeRequestsMu sync.Mutex
}

func newServer(fixtures map[string][]string) *server {
	return &server{
		fixtures:     fixtures,
		typeCalls:    make(map[string]*atomic.Int64),
		typeRequests: make(map[string][]capturedRequest),
	}
}

// captureRequest stores a request for later retrieval via /requests.
func (s *server) captureRequest(contentType string, req chatRequest, callIndex int) {
	s.typeRequestsMu.Lock()
	defer s.typeRequestsMu.Unlock()
	s.typeRequests[contentType] = append(s.typeRequests[contentType], capturedRequest{
		ContentType: contentType,
		Model:       req.Model,
		Messages:    req.Messages,
		CallIndex:   callIndex,
		Timestamp:   time.Now().UnixMilli(),
	})
}

// getTypeCounter returns the call counter for a content type, creating it
// lazily.
func (s *server) getTypeCounter(contentType string) *atomic.Int64 {
	s.typeCallsMu.Lock()
	defer s.typeCallsMu.Unlock()
	if c, ok := s.typeCalls[contentType]; ok {
		return c
	}
	c := &atomic.Int64{}
	s.typeCalls[contentType] = c
	return c
}

func main() {
	fixtureDir := flag.String("fixtures", "", "directory containing fixture response files (optional)")
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	// Allow env var override
	if envDir := os.Getenv("MOCK_LLM_FIXTURES"); envDir != "" && *fixtureDir == "" {
		*fixtureDir = envDir
	}

	fixtures := make(map[string][]string)
	if *fixtureDir != "" {
		loaded, err := loadFixtures(*fixtureDir)
		if err != nil {
			log.Fatalf("Failed to load fixtures from %s: %v", *fixtureDir, err)
		}
		fixtures = loaded
		log.Printf("Loaded %d content type(s) from %s", len(fixtures), *fixtureDir)
		for ct, seq := range fixtures {
			log.Printf("  content type: %s (%d fixture(s))", ct, len(seq))
		}
	} else {
		log.Printf("No fixture directory; serving built-in defaults")
	}

	s := newServer(fixtures)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/requests", s.handleRequests)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock LLM server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	contentType := contentTypeOf(req.Messages)
	callNum := s.calls.Add(1)
	log.Printf("[call %d] model=%s content_type=%s messages=%d", callNum, req.Model, contentType, len(req.Messages))

	counter := s.getTypeCounter(contentType)
	callIndex := int(counter.Add(1) - 1) // 0-indexed
	s.captureRequest(contentType, req, callIndex+1)

	content := s.selectContent(contentType, callIndex)
	if content == "" {
		log.Printf("[call %d] WARNING: no fixture or default for content type %q", callNum, contentType)
		http.Error(w, fmt.Sprintf("no fixture for content type %q", contentType), http.StatusNotFound)
		return
	}

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4, // rough estimate
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	log.Printf("[call %d] responded with %d bytes for content_type=%s", callNum, len(content), contentType)
}

// selectContent picks the fixture for a content type by call index, falling
// back to the built-in default when no fixture file covers the type.
func (s *server) selectContent(contentType string, callIndex int) string {
	seq, ok := s.fixtures[contentType]
	if !ok || len(seq) == 0 {
		return defaultFixtures[contentType]
	}
	if callIndex < len(seq) {
		return seq[callIndex]
	}
	return seq[len(seq)-1] // repeat last fixture
}

// handleStats returns call counts for test assertions.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.typeCallsMu.Lock()
	callsByType := make(map[string]int64, len(s.typeCalls))
	for ct, counter := range s.typeCalls {
		callsByType[ct] = counter.Load()
	}
	s.typeCallsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls":   s.calls.Load(),
		"calls_by_type": callsByType,
	})
}

// handleRequests returns captured request bodies for test assertions.
// Query params:
//   - type: filter by content type (optional, returns all if omitted)
//   - call: filter by call index, 1-indexed (optional)
func (s *server) handleRequests(w http.ResponseWriter, r *http.Request) {
	typeFilter := r.URL.Query().Get("type")
	callFilter := r.URL.Query().Get("call")

	s.typeRequestsMu.Lock()
	result := make(map[string][]capturedRequest)
	for ct, reqs := range s.typeRequests {
		if typeFilter != "" && ct != typeFilter {
			continue
		}
		if callFilter != "" {
			callIdx, err := strconv.Atoi(callFilter)
			if err == nil {
				for _, req := range reqs {
					if req.CallIndex == callIdx {
						result[ct] = append(result[ct], req)
					}
				}
				continue
			}
		}
		result[ct] = reqs
	}
	s.typeRequestsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"requests_by_type": result,
	})
}

// numberedFileRe matches files like "scenario.1.json", "feedback.2.txt".
var numberedFileRe = regexp.MustCompile(`^(.+)\.(\d+)\.(json|txt)$`)

// loadFixtures reads fixture files from dir and returns a map of content
// type → ordered content sequence.
//
// For each content type, fixtures are ordered:
//  1. Numbered files (type.1.json, type.2.json, ...) in numeric order
//  2. Base file (type.json or type.txt) appended as the final fallback
//
// JSON files must contain valid JSON; .txt files are served verbatim.
func loadFixtures(dir string) (map[string][]string, error) {
	baseFiles := make(map[string]string)             // content type → content
	numberedFiles := make(map[string]map[int]string) // content type → {index → content}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		isJSON := strings.HasSuffix(info.Name(), ".json")
		isText := strings.HasSuffix(info.Name(), ".txt")
		if info.IsDir() || (!isJSON && !isText) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if isJSON && !json.Valid(data) {
			return fmt.Errorf("invalid JSON in %s", path)
		}

		content := string(data)

		// Check for numbered pattern: type.N.json
		if matches := numberedFileRe.FindStringSubmatch(info.Name()); matches != nil {
			ct := matches[1]
			index, _ := strconv.Atoi(matches[2])
			if numberedFiles[ct] == nil {
				numberedFiles[ct] = make(map[int]string)
			}
			numberedFiles[ct][index] = content
			return nil
		}

		ct := strings.TrimSuffix(strings.TrimSuffix(info.Name(), ".json"), ".txt")
		baseFiles[ct] = content
		return nil
	})

	if err != nil {
		return nil, err
	}

	fixtures := make(map[string][]string)

	allTypes := make(map[string]bool)
	for ct := range baseFiles {
		allTypes[ct] = true
	}
	for ct := range numberedFiles {
		allTypes[ct] = true
	}

	for ct := range allTypes {
		var seq []string

		if numbered, ok := numberedFiles[ct]; ok {
			indices := make([]int, 0, len(numbered))
			for idx := range numbered {
				indices = append(indices, idx)
			}
			sort.Ints(indices)

			for _, idx := range indices {
				seq = append(seq, numbered[idx])
			}
		}

		if base, ok := baseFiles[ct]; ok {
			seq = append(seq, base)
		}

		if len(seq) > 0 {
			fixtures[ct] = seq
		}
	}

	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no fixture files found in %s", dir)
	}

	return fixtures, nil
}
