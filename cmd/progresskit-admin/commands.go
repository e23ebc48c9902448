package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/subcommands"

	"progresskit/core"
)

// showCmd prints a learner's progression state.
type showCmd struct {
	baseURL *string
	apiKey  *string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print a learner's progression state" }
func (*showCmd) Usage() string {
	return "show <learner-id>:\n  Print total XP, level, streaks and badges for a learner.\n"
}
func (*showCmd) SetFlags(*flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}
	client, err := newClient(c.baseURL, c.apiKey)
	if err != nil {
		return fail(err)
	}
	state, err := client.GetLearner(ctx, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("learner:         %s\n", f.Arg(0))
	fmt.Printf("total xp:        %d (level %d, %.0f%% to next)\n", state.TotalXP, state.Level, state.LevelProgress*100)
	fmt.Printf("day streak:      %d (longest %d)\n", state.CurrentStreakDays, state.LongestStreakDays)
	fmt.Printf("fire streak:     %d (on fire: %v)\n", state.FireStreak, state.IsOnFire)
	fmt.Printf("today:           %d answered, %d correct\n", state.QuestionsToday, state.CorrectToday)
	if !state.LastActiveDate.IsZero() {
		fmt.Printf("last active:     %s\n", state.LastActiveDate.Format("2006-01-02"))
	}
	fmt.Printf("badges:          %v\n", state.UnlockedBadges)
	for concept, xp := range state.ConceptMastery {
		fmt.Printf("  %-14s %d xp\n", concept, xp)
	}
	return subcommands.ExitSuccess
}

// badgesCmd lists the badge catalog.
type badgesCmd struct {
	baseURL *string
	apiKey  *string
}

func (*badgesCmd) Name() string           { return "badges" }
func (*badgesCmd) Synopsis() string       { return "list the badge catalog" }
func (*badgesCmd) Usage() string          { return "badges:\n  List all badges the server can award.\n" }
func (*badgesCmd) SetFlags(*flag.FlagSet) {}

func (c *badgesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := newClient(c.baseURL, c.apiKey)
	if err != nil {
		return fail(err)
	}
	badges, err := client.Badges(ctx)
	if err != nil {
		return fail(err)
	}
	for _, b := range badges {
		fmt.Printf("%-14s %+5d xp  %s\n", b.ID, b.XPBonus, b.Description)
	}
	return subcommands.ExitSuccess
}

// topCmd prints the leaderboard.
type topCmd struct {
	baseURL *string
	apiKey  *string
	n       int
}

func (*topCmd) Name() string     { return "top" }
func (*topCmd) Synopsis() string { return "print the XP leaderboard" }
func (*topCmd) Usage() string    { return "top [-n 10]:\n  Print the top learners by total XP.\n" }
func (c *topCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 10, "number of entries")
}

func (c *topCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := newClient(c.baseURL, c.apiKey)
	if err != nil {
		return fail(err)
	}
	entries, err := client.Leaderboard(ctx, c.n)
	if err != nil {
		return fail(err)
	}
	for i, e := range entries {
		fmt.Printf("#%-3d %-24s %d xp\n", i+1, e.Learner, e.XP)
	}
	return subcommands.ExitSuccess
}

// simulateCmd records a burst of synthetic answers, useful for demoing
// streaks and badge unlocks against a dev server.
type simulateCmd struct {
	baseURL *string
	apiKey  *string
	count   int
	concept string
	correct float64
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "record synthetic answers for a learner" }
func (*simulateCmd) Usage() string {
	return "simulate [-count 10] [-concept algebra] [-correct 0.8] <learner-id>:\n  Record a burst of synthetic answer events.\n"
}
func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "count", 10, "number of answers")
	f.StringVar(&c.concept, "concept", "algebra", "concept tag")
	f.Float64Var(&c.correct, "correct", 0.8, "probability an answer is correct")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}
	client, err := newClient(c.baseURL, c.apiKey)
	if err != nil {
		return fail(err)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var gained int64
	for i := 0; i < c.count; i++ {
		res, err := client.RecordAnswer(ctx, f.Arg(0), core.AnswerEvent{
			Concept:          c.concept,
			Correct:          rng.Float64() < c.correct,
			DifficultyMarks:  1 + rng.Intn(5),
			AttemptNumber:    1 + rng.Intn(2),
			TimeTakenSeconds: 10 + rng.Intn(110),
		})
		if err != nil {
			return fail(err)
		}
		gained += res.XPGained
		for _, b := range res.NewBadges {
			fmt.Printf("unlocked: %s\n", b.ID)
		}
		if res.LeveledUp {
			fmt.Printf("level up: %d\n", res.NewLevel)
		}
	}
	fmt.Printf("recorded %d answers, %d xp gained\n", c.count, gained)
	return subcommands.ExitSuccess
}

// healthCmd probes the server health endpoint.
type healthCmd struct {
	baseURL *string
	apiKey  *string
}

func (*healthCmd) Name() string           { return "health" }
func (*healthCmd) Synopsis() string       { return "probe server health" }
func (*healthCmd) Usage() string          { return "health:\n  Probe the /healthz endpoint.\n" }
func (*healthCmd) SetFlags(*flag.FlagSet) {}

func (c *healthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := newClient(c.baseURL, c.apiKey)
	if err != nil {
		return fail(err)
	}
	hs, err := client.Health(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("status: %s\n", hs.Status)
	for name, check := range hs.Checks {
		fmt.Printf("  %s: %v\n", name, check)
	}
	if hs.Status != "healthy" {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
