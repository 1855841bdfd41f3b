// Copyright 2025 Poiesic Systems
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


// Package openai provides place service implementations backed by
// OpenAI-compatible chat APIs.
//
// The Suggester asks a chat model for likely place completions of a partial
// query, using the langchaingo client so that OpenAI and local
// OpenAI-compatible servers (Ollama, LocalAI, vLLM) are interchangeable.
// NewProvider pairs the suggester with the Nominatim search provider.
//
// # Usage
//
//	config := provider.NewConfig(
//	    provider.WithUserAgent("my-app/1.0 (ops@example.com)"),
//	    provider.WithSuggestHost("http://localhost:11434"), // /v1 added automatically
//	    provider.WithSuggestModel("qwen2.5:3b"),
//	)
//
//	p, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	suggestions, err := p.Suggester().Suggest(ctx, "blue bott", region)
//	places, err := p.Searcher().Search(ctx, provider.SearchRequest{Query: suggestions[0].Query()})
package openai
