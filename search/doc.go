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


// Package search provides the staged marketplace search pipeline.
//
// The Searcher type implements a multi-stage algorithm:
//   - Semantic retrieval using vector embeddings over listing records
//   - LLM relevance ranking that filters and orders the candidates
//   - Answer synthesis over the top-ranked results
//
// Every AI stage has a graceful degradation path. An embedding failure
// drops the search to a case-insensitive substring scan over open demands
// and published intel; a ranking failure or invalid ranker output keeps
// the semantic candidates in retrieval order; a synthesis failure just
// omits the answer. The response reports which pipeline produced it so
// callers can surface the difference.
package search
