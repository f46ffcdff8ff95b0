// Package pet implements the pet evolution state machine.
//
// The engine is pure: Feed and Decay map a State to the next State and never
// perform I/O. Persisting the result and serializing concurrent updates are
// the caller's job.
package pet

import (
	"math/rand"
	"time"
)

// Hunger bounds.
const (
	MinHunger = 0
	MaxHunger = 7
)

// Life stages.
const (
	AgeEgg = iota
	AgeBaby
	AgeChild
	AgeAdult
)

var stageNames = [...]string{"egg", "baby", "child", "adult"}

// StageName returns the human name of an age value.
func StageName(age int) string {
	if age < 0 || age >= len(stageNames) {
		return "unknown"
	}
	return stageNames[age]
}

// State is the evolving part of a pet.
type State struct {
	Hunger        int
	Age           int
	FeedCount     int
	Species       string
	Color         string
	LastFedAt     time.Time
	LastCheckedAt time.Time
}

// Transition names what a Feed or Decay call did.
type Transition string

const (
	TransitionNone    Transition = "none"
	TransitionFed     Transition = "fed"
	TransitionHatched Transition = "hatched"
	TransitionGrew    Transition = "grew"
	TransitionReset   Transition = "reset"
	TransitionDecayed Transition = "decayed"
	TransitionStarved Transition = "starved"
)

// Engine applies Rules to pet states.
type Engine struct {
	rules Rules
	pick  func(n int) int
}

// NewEngine returns an engine that draws species uniformly at random.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules, pick: rand.Intn}
}

// NewEngineWithPicker returns an engine whose palette draws come from pick,
// which must return a value in [0, n).
func NewEngineWithPicker(rules Rules, pick func(n int) int) *Engine {
	return &Engine{rules: rules, pick: pick}
}

// Rules returns the table the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Hatchling returns the state of a freshly created pet.
func (e *Engine) Hatchling(now time.Time) State {
	return State{
		Hunger:        MaxHunger,
		Age:           AgeEgg,
		Species:       e.randomSpecies(),
		Color:         e.rules.Colors[e.pick(len(e.rules.Colors))],
		LastFedAt:     now,
		LastCheckedAt: now,
	}
}

// Feed applies one feeding.
func (e *Engine) Feed(s State, now time.Time) (State, Transition) {
	next := s
	next.FeedCount = s.FeedCount + 1
	next.LastFedAt = now
	t := e.rules.Thresholds

	switch {
	case s.Age == AgeEgg:
		next.Age = AgeBaby
		next.Hunger = MaxHunger
		return next, TransitionHatched

	case next.FeedCount >= t.Reset:
		return e.reset(next), TransitionReset
	}

	next.Hunger = min(MaxHunger, s.Hunger+1)
	stage := s.Age
	if next.FeedCount >= t.Adult {
		stage = AgeAdult
	} else if next.FeedCount >= t.Child {
		stage = AgeChild
	}
	if stage > s.Age {
		next.Age = stage
		return next, TransitionGrew
	}
	return next, TransitionFed
}

// Decay applies ticks elapsed hunger ticks. Zero ticks is a no-op, including
// for LastCheckedAt, so partial intervals accumulate until a full tick passes.
func (e *Engine) Decay(s State, ticks int, now time.Time) (State, Transition) {
	if ticks <= 0 {
		return s, TransitionNone
	}

	next := s
	next.LastCheckedAt = now
	next.Hunger = max(MinHunger, s.Hunger-ticks)

	if next.Hunger == MinHunger && s.Hunger > MinHunger && e.rules.HungerZero == PolicyReset {
		return e.reset(next), TransitionStarved
	}
	if next.Hunger == s.Hunger {
		return next, TransitionNone
	}
	return next, TransitionDecayed
}

// ElapsedTicks returns how many whole tick intervals separate lastChecked
// from now. Clock skew that puts now before lastChecked counts as zero.
func ElapsedTicks(lastChecked, now time.Time, tick time.Duration) int {
	if tick <= 0 || !now.After(lastChecked) {
		return 0
	}
	return int(now.Sub(lastChecked) / tick)
}

func (e *Engine) reset(s State) State {
	s.Age = AgeEgg
	s.FeedCount = 0
	s.Species = e.randomSpecies()
	return s
}

func (e *Engine) randomSpecies() string {
	return e.rules.Species[e.pick(len(e.rules.Species))]
}
