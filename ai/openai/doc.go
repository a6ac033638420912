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


// Package openai provides AI service implementations using OpenAI-compatible
// APIs.
//
// This package implements the ai.Embedder, ai.Ranker, ai.Synthesizer, and
// ai.AIProvider interfaces using langchaingo's OpenAI client. It works with
// any OpenAI-compatible endpoint: OpenAI itself, Ollama, LocalAI, vLLM, and
// similar services.
//
// The ranker drives the semantic search pipeline: it receives numbered
// candidates and answers with the relevant numbers in relevance order, or
// "none" when nothing matches. Unparseable answers degrade to the original
// candidate order instead of dropping results.
//
// Constructors return interface types to keep callers decoupled from this
// package's concrete types.
package openai
