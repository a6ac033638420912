// Copyright 2026 Intelmart Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/intelmart/intelmart/ai"
	"github.com/intelmart/intelmart/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Ranker implements ai.Ranker using OpenAI-compatible chat APIs. The model
// answers with comma-separated 1-based result numbers, or "none".
type Ranker struct {
	client llms.Model
	logger *slog.Logger
}

// newRanker is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRanker(config *ai.Config) (*Ranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Ranker{
		client: client,
		logger: slog.Default().With("component", "openai-ranker"),
	}, nil
}

// NewRanker creates a new ranker using the provided configuration.
//
// Returns ai.Ranker interface to enforce abstraction.
func NewRanker(config *ai.Config) (ai.Ranker, error) {
	return newRanker(config)
}

// Rank asks the model which candidates answer the query. An empty result
// means the model judged nothing relevant. When the model's answer cannot
// be parsed into valid indices, the candidates are returned in their
// original order rather than discarded.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []ai.Candidate) ([]int, error) {
	if len(candidates) == 0 {
		return []int{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(rankerSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildRankerPrompt(query, candidates))},
		},
	}

	// Low temperature for consistent results
	response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.1))
	if err != nil {
		r.logger.Error("ranking call failed", "err", err)
		return nil, fmt.Errorf("%w: ranking call: %v", core.ErrUpstreamUnavailable, err)
	}

	if len(response.Choices) < 1 {
		r.logger.Warn("no choices returned from model, keeping original order")
		return identityOrder(len(candidates)), nil
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	r.logger.Debug("ranker response", "answer", answer)

	if strings.EqualFold(answer, "none") {
		return []int{}, nil
	}

	indices := parseRankedIndices(answer, len(candidates))
	if len(indices) == 0 {
		r.logger.Warn("unparseable ranker response, keeping original order", "answer", answer)
		return identityOrder(len(candidates)), nil
	}

	r.logger.Debug("ranker filtered candidates", "total", len(candidates), "kept", len(indices))
	return indices, nil
}

// parseRankedIndices converts a comma-separated list of 1-based result
// numbers into 0-based indices, dropping out-of-range values and duplicates.
func parseRankedIndices(answer string, count int) []int {
	seen := make(map[int]bool, count)
	var indices []int
	for _, part := range strings.Split(answer, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		idx := n - 1
		if idx < 0 || idx >= count || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	return indices
}

// identityOrder returns 0..n-1.
func identityOrder(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
