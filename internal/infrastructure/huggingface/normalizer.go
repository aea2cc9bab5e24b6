package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Normalizer rewrites noisy product queries through a hosted language model.
// Normalization is strictly best-effort: every failure falls back to the
// original query so a flaky model endpoint never blocks a search.
type Normalizer struct {
	httpClient *http.Client
	token      string
	baseURL    string
	model      string
}

// generatedText is one element of the inference API's response array
type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

// NewNormalizer creates a new Hugging Face inference client
func NewNormalizer(token, baseURL, model string, timeout time.Duration) *Normalizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Normalizer{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		token:   token,
		baseURL: baseURL,
		model:   model,
	}
}

// Normalize asks the model to normalize a product search query.
// Returns the original query unchanged on any failure.
func (n *Normalizer) Normalize(ctx context.Context, query string) string {
	payload, err := json.Marshal(map[string]string{
		"inputs": "Normalize this product search: " + query,
	})
	if err != nil {
		log.Printf("[HUGGINGFACE] Payload encode error: %v", err)
		return query
	}

	reqURL := fmt.Sprintf("%s/models/%s", n.baseURL, n.model)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[HUGGINGFACE] Request build error: %v", err)
		return query
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.Printf("[HUGGINGFACE] Request error: %v", err)
		return query
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[HUGGINGFACE] Non-success status %d for query %q", resp.StatusCode, query)
		return query
	}

	var outputs []generatedText
	if err := json.NewDecoder(resp.Body).Decode(&outputs); err != nil {
		log.Printf("[HUGGINGFACE] Decode error: %v", err)
		return query
	}

	if len(outputs) == 0 || strings.TrimSpace(outputs[0].GeneratedText) == "" {
		log.Printf("[HUGGINGFACE] Empty generation for query %q", query)
		return query
	}

	return outputs[0].GeneratedText
}
