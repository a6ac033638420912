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
	"fmt"
	"strings"

	"github.com/intelmart/intelmart/ai"
)

const rankerSystemPrompt = `You are an expert at matching sales intelligence queries with relevant results.

Given a user query and a list of available intel results, you must:
1. Identify which results are MOST relevant to the specific query
2. Rank them by relevance (most relevant first)
3. Filter out results that don't match the query intent

IMPORTANT RULES:
- If someone asks for "HubSpot CEO", ONLY return results about HubSpot CEO, NOT other companies' CEOs
- Be extremely strict about company names - don't mix different companies
- Only include results that directly match the specific company/person mentioned

Return ONLY the numbers of the relevant results in order of relevance, separated by commas.
For example: "1,3" means result 1 is most relevant, then 3.

If no results are relevant, return "none".`

const synthesizerSystemPrompt = `You are a sales intel assistant. Given user query + retrieved intel/demand snippets, summarize the most relevant results. Show company, trigger/intro, reputation, and date. Suggest 1-2 related leads.`

// maxSnippetChars bounds how much of each candidate snippet the ranker
// prompt carries.
const maxSnippetChars = 200

// maxSynthesisRefs bounds how many candidates the synthesizer prompt cites.
const maxSynthesisRefs = 6

// buildRankerPrompt formats the user message for the ranking call.
// Candidates are numbered from 1; the model answers with those numbers.
func buildRankerPrompt(query string, candidates []ai.Candidate) string {
	var sb strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&sb, "[%d] %s - %s...\n", i+1, c.Title, truncateSnippet(c.Snippet))
	}

	return fmt.Sprintf("Query: %q\n\nAvailable Results:\n%s\nWhich results are relevant? Return only the numbers in order of relevance:",
		query, sb.String())
}

// truncateSnippet caps a snippet at maxSnippetChars without splitting a
// multi-byte rune.
func truncateSnippet(snippet string) string {
	if len(snippet) <= maxSnippetChars {
		return snippet
	}
	runes := []rune(snippet)
	if len(runes) <= maxSnippetChars {
		return snippet
	}
	return string(runes[:maxSnippetChars])
}

// buildSynthesisPrompt formats the user message for the answer call with up
// to maxSynthesisRefs numbered references.
func buildSynthesisPrompt(query string, candidates []ai.Candidate) string {
	refs := candidates
	if len(refs) > maxSynthesisRefs {
		refs = refs[:maxSynthesisRefs]
	}

	var sb strings.Builder
	for i, c := range refs {
		fmt.Fprintf(&sb, "[%d] %s • %s • rep %d • %s\n",
			i+1, strings.ToUpper(c.Kind), c.Title, c.Reputation, c.CreatedAt.Format("2006-01-02"))
	}

	return fmt.Sprintf("Query:\n%s\n\nContext refs:\n%s", query, sb.String())
}
