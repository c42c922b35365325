package metrics

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"recipe-planner/internal/llm"
	"recipe-planner/internal/storage"
)

// StorageKey is where execution metrics are persisted.
const StorageKey = "rp_llmUsage"

// ExecutionMetric records metadata for a single LLM-backed operation.
type ExecutionMetric struct {
	AgentName        string    `json:"agentName"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	LatencyMS        int64     `json:"latencyMs"`
	Timestamp        time.Time `json:"timestamp"`
}

// Store keeps execution metrics as one list under StorageKey.
type Store struct {
	store storage.Store
	now   func() time.Time
	mu    sync.Mutex
}

func NewStore(store storage.Store) *Store {
	return &Store{store: store, now: time.Now}
}

// Record appends a metric.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Timestamp.IsZero() {
		m.Timestamp = s.now().UTC()
	}
	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(all, m))
}

// RecordUsage records an LLM call unless it consumed no tokens, as with
// cache hits.
func (s *Store) RecordUsage(ctx context.Context, agentName string, usage llm.TokenUsage, latency time.Duration) error {
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		return nil
	}
	return s.Record(ctx, MapUsage(agentName, usage, latency))
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalExecution  int
}

// GetDailyUsage returns per-day totals for the last days days, newest
// first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	byDay := map[string]*DailyUsage{}
	for _, m := range all {
		if m.Timestamp.Before(since) {
			continue
		}
		day := m.Timestamp.UTC().Format("2006-01-02")
		u, ok := byDay[day]
		if !ok {
			u = &DailyUsage{Date: day}
			byDay[day] = u
		}
		u.TotalPrompt += m.PromptTokens
		u.TotalCompletion += m.CompletionTokens
		u.TotalExecution++
	}

	results := make([]DailyUsage, 0, len(byDay))
	for _, u := range byDay {
		results = append(results, *u)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date > results[j].Date })
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays)
	kept := all[:0]
	for _, m := range all {
		if !m.Timestamp.Before(threshold) {
			kept = append(kept, m)
		}
	}
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// MapUsage converts llm.TokenUsage to an ExecutionMetric.
func MapUsage(agentName string, usage llm.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		AgentName:        agentName,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
	}
}

func (s *Store) load(ctx context.Context) ([]ExecutionMetric, error) {
	var all []ExecutionMetric
	if _, err := storage.LoadJSON(ctx, s.store, StorageKey, &all); err != nil && !storage.IsCorrupt(err) {
		return nil, err
	}
	return all, nil
}

func (s *Store) save(ctx context.Context, all []ExecutionMetric) error {
	if err := storage.SaveJSON(ctx, s.store, StorageKey, all); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}
