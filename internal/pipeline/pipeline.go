// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline turns natural-language questions into executed SQL.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"wosool/insight/internal/cache"
	"wosool/insight/internal/engine"
	ierr "wosool/insight/internal/errors"
	"wosool/insight/internal/safety"
)

// Generator is the language-model collaborator. *llm.Client satisfies it.
type Generator interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Answer is the outcome of a full question round trip.
type Answer struct {
	SQL      string   `json:"sql"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
	Cached   bool     `json:"cached"`
}

// Issue is a single finding from SQL validation.
type Issue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Validation is the outcome of a validate call.
type Validation struct {
	IsValid bool    `json:"is_valid"`
	Issues  []Issue `json:"issues"`
}

// Pipeline wires generation, safety checking, execution, and caching.
type Pipeline struct {
	Runner engine.Runner
	Gen    Generator
	Cache  *cache.Cache
	Kind   engine.Kind
	Logger *slog.Logger

	group singleflight.Group
}

// New builds a Pipeline. Cache may be nil to disable caching entirely.
func New(runner engine.Runner, gen Generator, c *cache.Cache, kind engine.Kind, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Runner: runner, Gen: gen, Cache: c, Kind: kind, Logger: log}
}

// Answer resolves a question: cache lookup, schema introspection, SQL
// generation, safety check, execution, cache write. Concurrent identical
// questions are collapsed so each distinct question executes once.
func (p *Pipeline) Answer(ctx context.Context, question string) (*Answer, error) {
	if hit, ok := p.Cache.Get(ctx, question); ok {
		p.Logger.Debug("cache hit", "question", question)
		return &Answer{
			SQL:      hit.SQL,
			Columns:  hit.Columns,
			Rows:     hit.Rows,
			RowCount: hit.RowCount,
			Cached:   true,
		}, nil
	}

	v, err, _ := p.group.Do(cache.Fingerprint(question), func() (any, error) {
		return p.answerUncached(ctx, question)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Answer), nil
}

func (p *Pipeline) answerUncached(ctx context.Context, question string) (*Answer, error) {
	// A flight that queued behind the winner may find the result already
	// written by the time it runs.
	if hit, ok := p.Cache.Get(ctx, question); ok {
		return &Answer{SQL: hit.SQL, Columns: hit.Columns, Rows: hit.Rows, RowCount: hit.RowCount, Cached: true}, nil
	}

	schema := schemaSummary(ctx, p.Runner)

	sqlText, err := p.generate(ctx, generateSystemPrompt, generateUserPrompt(string(p.Kind), schema, question))
	if err != nil {
		return nil, err
	}
	p.Logger.Debug("generated sql", "question", question, "sql", sqlText)

	if err := safety.Check(sqlText); err != nil {
		return nil, err
	}

	res, err := p.Runner.Execute(ctx, sqlText)
	if err != nil {
		return nil, err
	}

	p.Cache.Put(ctx, question, &cache.CachedResult{
		SQL:      sqlText,
		Columns:  res.Columns,
		Rows:     res.Rows,
		RowCount: res.RowCount,
		CachedAt: time.Now().UTC(),
	})
	return &Answer{SQL: sqlText, Columns: res.Columns, Rows: res.Rows, RowCount: res.RowCount}, nil
}

// Generate produces SQL for a question without executing it.
func (p *Pipeline) Generate(ctx context.Context, question string) (string, error) {
	schema := schemaSummary(ctx, p.Runner)
	return p.generate(ctx, generateSystemPrompt, generateUserPrompt(string(p.Kind), schema, question))
}

// Fix asks the model to repair a failing statement.
func (p *Pipeline) Fix(ctx context.Context, sqlText, errMsg string) (string, error) {
	return p.generate(ctx, fixSystemPrompt, fixUserPrompt(string(p.Kind), sqlText, errMsg))
}

// Explain returns a plain-language description of a statement.
func (p *Pipeline) Explain(ctx context.Context, sqlText string) (string, error) {
	out, err := p.Gen.Chat(ctx, explainSystemPrompt, sqlText)
	if err != nil {
		return "", err
	}
	return stripFence(out), nil
}

// Validate asks the model to review a statement and reports findings.
func (p *Pipeline) Validate(ctx context.Context, sqlText string) (*Validation, error) {
	out, err := p.Gen.Chat(ctx, validateSystemPrompt, sqlText)
	if err != nil {
		return nil, err
	}
	var v Validation
	if err := json.Unmarshal([]byte(stripFence(out)), &v); err != nil {
		return nil, ierr.Wrap(ierr.GenerationFailure, "decoding validation response", err)
	}
	if v.Issues == nil {
		v.Issues = []Issue{}
	}
	return &v, nil
}

// Execute runs caller-provided SQL through the safety gate and runner.
func (p *Pipeline) Execute(ctx context.Context, sqlText string) (*engine.Result, error) {
	if err := safety.Check(sqlText); err != nil {
		return nil, err
	}
	return p.Runner.Execute(ctx, sqlText)
}

func (p *Pipeline) generate(ctx context.Context, system, user string) (string, error) {
	out, err := p.Gen.Chat(ctx, system, user)
	if err != nil {
		if ierr.KindOf(err) != "" {
			return "", err
		}
		return "", ierr.Wrap(ierr.GenerationFailure, "sql generation failed", err)
	}
	return stripFence(out), nil
}
