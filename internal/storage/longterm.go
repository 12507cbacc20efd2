package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"lifeplan_agent/internal/logger"
	"lifeplan_agent/pkg"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const (
	// NoContext is the context text when nothing has been remembered yet
	NoContext = "无历史上下文"

	contextKeywords = 5
	summaryRunes    = 100
	favoriteCap     = 20
)

// Preferences is the learned part of long-term memory
type Preferences struct {
	PreferredTimeSlots   []string       `json:"preferred_time_slots"`
	CommonGoals          []string       `json:"common_goals"`
	ProductivityPatterns map[string]int `json:"productivity_patterns"`
	FavoriteActivities   []string       `json:"favorite_activities"`
}

// PlanRecord summarizes one archived plan
type PlanRecord struct {
	ID               string          `json:"id"`
	Kind             pkg.PlanKind    `json:"kind"`
	Title            string          `json:"title"`
	Date             string          `json:"date"`
	Goal             string          `json:"goal"`
	Days             int             `json:"days"`
	TotalTasks       int             `json:"total_tasks"`
	EstimatedTime    int             `json:"estimated_time"`
	CompletionStatus map[string]bool `json:"completion_status"`
	ArchivedAt       time.Time       `json:"archived_at"`
}

// CompletionStats are the running counters over every archived plan
type CompletionStats struct {
	TotalPlans     int     `json:"total_plans"`
	CompletedTasks int     `json:"completed_tasks"`
	ArchivedTasks  int     `json:"archived_tasks"`
	SuccessRate    float64 `json:"success_rate"`
}

// LongTerm is the persisted file layout
type LongTerm struct {
	UserPreferences Preferences     `json:"user_preferences"`
	PlanHistory     []PlanRecord    `json:"plan_history"`
	CompletionStats CompletionStats `json:"completion_stats"`
}

func defaultLongTerm() LongTerm {
	return LongTerm{
		UserPreferences: Preferences{
			PreferredTimeSlots:   []string{},
			CommonGoals:          []string{},
			ProductivityPatterns: map[string]int{},
			FavoriteActivities:   []string{},
		},
		PlanHistory: []PlanRecord{},
	}
}

func (l LongTerm) clone() LongTerm {
	out := LongTerm{
		UserPreferences: Preferences{
			PreferredTimeSlots:   append([]string{}, l.UserPreferences.PreferredTimeSlots...),
			CommonGoals:          append([]string{}, l.UserPreferences.CommonGoals...),
			ProductivityPatterns: make(map[string]int, len(l.UserPreferences.ProductivityPatterns)),
			FavoriteActivities:   append([]string{}, l.UserPreferences.FavoriteActivities...),
		},
		PlanHistory:     append([]PlanRecord{}, l.PlanHistory...),
		CompletionStats: l.CompletionStats,
	}
	for k, v := range l.UserPreferences.ProductivityPatterns {
		out.UserPreferences.ProductivityPatterns[k] = v
	}
	return out
}

// ContextSummary is the memory excerpt embedded in prompts
type ContextSummary struct {
	Keywords    []string
	RecentInput string
}

// String renders the summary the way prompts embed it
func (c ContextSummary) String() string {
	var lines []string
	if len(c.Keywords) > 0 {
		lines = append(lines, "用户常见目标关键词: "+strings.Join(c.Keywords, ", "))
	}
	if c.RecentInput != "" {
		lines = append(lines, "最近交互: "+c.RecentInput)
	}
	if len(lines) == 0 {
		return NoContext
	}
	return strings.Join(lines, "\n")
}

// Stats is a read-only view for reporting
type Stats struct {
	CompletionStats
	ShortTermEntries   int          `json:"short_term_entries"`
	CommonGoals        []string     `json:"common_goals"`
	PreferredTimeSlots []string     `json:"preferred_time_slots"`
	RecentPlans        []PlanRecord `json:"recent_plans"`
}

// Store owns short-term and long-term memory. Every method takes the same lock,
// so concurrent archives never lose updates to the file.
type Store struct {
	mu       sync.Mutex
	path     string
	window   Window
	capacity int
	data     LongTerm
	now      func() time.Time
}

// Option customizes a Store
type Option func(*Store)

// WithPreferenceCapacity caps the common goal keyword list
func WithPreferenceCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads long-term memory from path. A missing file starts empty and a
// corrupt one is logged and replaced on the next archive.
func Open(path string, window Window, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		window:   window,
		capacity: 20,
		data:     defaultLongTerm(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.window == nil {
		s.window = NewMemoryWindow(10)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug().Str("path", path).Msg("no memory file, starting empty")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}

	loaded := defaultLongTerm()
	if err := sonic.Unmarshal(data, &loaded); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("memory file is corrupt, starting empty")
		return s, nil
	}
	s.data = normalize(loaded)
	logger.Debug().
		Str("path", path).
		Int("plans", len(s.data.PlanHistory)).
		Msg("memory loaded")
	return s, nil
}

// normalize replaces nil collections left by older or hand-edited files
func normalize(l LongTerm) LongTerm {
	d := defaultLongTerm()
	if l.UserPreferences.PreferredTimeSlots == nil {
		l.UserPreferences.PreferredTimeSlots = d.UserPreferences.PreferredTimeSlots
	}
	if l.UserPreferences.CommonGoals == nil {
		l.UserPreferences.CommonGoals = d.UserPreferences.CommonGoals
	}
	if l.UserPreferences.ProductivityPatterns == nil {
		l.UserPreferences.ProductivityPatterns = d.UserPreferences.ProductivityPatterns
	}
	if l.UserPreferences.FavoriteActivities == nil {
		l.UserPreferences.FavoriteActivities = d.UserPreferences.FavoriteActivities
	}
	if l.PlanHistory == nil {
		l.PlanHistory = d.PlanHistory
	}
	return l
}

// Context returns the excerpt for the next prompt: the newest exchange and up to
// five of the most recent goal keywords.
func (s *Store) Context(ctx context.Context) ContextSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary ContextSummary
	goals := s.data.UserPreferences.CommonGoals
	if n := len(goals); n > 0 {
		summary.Keywords = append([]string{}, goals[max(0, n-contextKeywords):]...)
	}

	recent, err := s.window.Recent(ctx, 1)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read short-term memory")
	} else if len(recent) == 1 {
		summary.RecentInput = recent[0].UserInput
	}
	return summary
}

// RecordExchange appends a request and the head of its response to the short-term window
func (s *Store) RecordExchange(ctx context.Context, input, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.window.Push(ctx, Exchange{
		Timestamp:       s.now(),
		UserInput:       input,
		ResponseSummary: Summarize(response),
	})
}

// Archive appends the plan to history, updates counters and preferences, and
// rewrites the memory file. On a write failure memory is left unchanged.
func (s *Store) Archive(ctx context.Context, plan pkg.Plan, completion map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if completion == nil {
		completion = map[string]bool{}
	}
	next := s.data.clone()

	next.PlanHistory = append(next.PlanHistory, PlanRecord{
		ID:               uuid.NewString(),
		Kind:             plan.Kind(),
		Title:            plan.PlanTitle(),
		Date:             plan.FirstDate(),
		Goal:             plan.GoalText(),
		Days:             len(plan.Days()),
		TotalTasks:       plan.TaskCount(),
		EstimatedTime:    plan.TotalMinutes(),
		CompletionStatus: completion,
		ArchivedAt:       s.now(),
	})

	completed := 0
	for _, done := range completion {
		if done {
			completed++
		}
	}
	stats := &next.CompletionStats
	stats.TotalPlans++
	stats.ArchivedTasks += plan.TaskCount()
	stats.CompletedTasks += completed
	if stats.ArchivedTasks > 0 {
		stats.SuccessRate = float64(stats.CompletedTasks) / float64(stats.ArchivedTasks)
	}

	prefs := &next.UserPreferences
	prefs.CommonGoals = appendCapped(prefs.CommonGoals, ExtractKeywords(plan.GoalText()), s.capacity)
	for _, day := range plan.Days() {
		for _, task := range day.Tasks {
			prefs.ProductivityPatterns[TimeBucket(task.Time)]++
			if completion[task.Description] {
				prefs.FavoriteActivities = appendCapped(prefs.FavoriteActivities, []string{task.Description}, favoriteCap)
			}
		}
	}
	delete(prefs.ProductivityPatterns, "")
	prefs.PreferredTimeSlots = rankBuckets(prefs.ProductivityPatterns)

	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next

	logger.Info().
		Str("kind", string(plan.Kind())).
		Int("tasks", plan.TaskCount()).
		Int("total_plans", stats.TotalPlans).
		Msg("plan archived")
	return nil
}

// Stats returns counters and a short history for reporting
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.window.Len(ctx)
	if err != nil {
		return Stats{}, err
	}
	history := s.data.PlanHistory
	return Stats{
		CompletionStats:    s.data.CompletionStats,
		ShortTermEntries:   n,
		CommonGoals:        append([]string{}, s.data.UserPreferences.CommonGoals...),
		PreferredTimeSlots: append([]string{}, s.data.UserPreferences.PreferredTimeSlots...),
		RecentPlans:        append([]PlanRecord{}, history[max(0, len(history)-5):]...),
	}, nil
}

// persist writes the whole file through a temp file and a rename
func (s *Store) persist(data LongTerm) error {
	encoded, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp memory file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write memory file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace memory file: %w", err)
	}
	return nil
}

// Summarize keeps the first 100 characters of a response
func Summarize(response string) string {
	r := []rune(response)
	if len(r) <= summaryRunes {
		return response
	}
	return string(r[:summaryRunes]) + "..."
}

// ExtractKeywords lower-cases the goal and splits it on whitespace and punctuation,
// dropping duplicates while keeping first-seen order.
func ExtractKeywords(goal string) []string {
	fields := strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// appendCapped adds items not already present and keeps only the newest limit entries
func appendCapped(list, items []string, limit int) []string {
	for _, item := range items {
		if item == "" || contains(list, item) {
			continue
		}
		list = append(list, item)
	}
	if len(list) > limit {
		list = append([]string{}, list[len(list)-limit:]...)
	}
	return list
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TimeBucket maps a task time such as "09:00-10:30" to a part of the day
func TimeBucket(slot string) string {
	var hour, minute int
	if _, err := fmt.Sscanf(strings.TrimSpace(slot), "%d:%d", &hour, &minute); err != nil {
		return ""
	}
	switch {
	case hour < 12:
		return "上午"
	case hour < 18:
		return "下午"
	default:
		return "晚上"
	}
}

// rankBuckets orders parts of the day by how many tasks landed in them
func rankBuckets(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
