package testkit

import (
	"context"
	"fmt"
	"sync"

	"gorisk/adapters/rng"
	"gorisk/domain/trial"
	"gorisk/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	source *InMemoryTrialSource // Shared trial source instance
}

// NewTestKit creates a new test kit instance with fixture trial data
func NewTestKit() (*TestKit, error) {
	return &TestKit{source: NewInMemoryTrialSource()}, nil
}

// RNGAdapter returns the deterministic RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewSeededAdapter()
}

// TrialSource returns the shared in-memory trial source
func (t *TestKit) TrialSource() ports.TrialSourcePort {
	return t.source
}

// SeedObservation registers an observation under the given reference so
// LoadObservation can find it
func (t *TestKit) SeedObservation(ref string, obs trial.Observation) {
	t.source.Put(ref, obs)
}

// FixtureRef is the reference the fixture observation is registered under
const FixtureRef = "vaccine-trial"

// FixtureObservation returns the two-arm counts used across tests: 23 events
// in a control arm of 717 against 19 events in a treatment arm of 750.
func FixtureObservation() trial.Observation {
	return trial.MustNewObservation(
		trial.MustNewArm(717, 23),
		trial.MustNewArm(750, 19),
	)
}

// InMemoryTrialSource implements TrialSourcePort with in-memory storage
type InMemoryTrialSource struct {
	observations map[string]trial.Observation
	mu           sync.RWMutex
}

// NewInMemoryTrialSource creates a trial source pre-loaded with the fixture
// observation
func NewInMemoryTrialSource() *InMemoryTrialSource {
	source := &InMemoryTrialSource{
		observations: make(map[string]trial.Observation),
	}
	source.Put(FixtureRef, FixtureObservation())
	return source
}

// Put registers an observation under a reference, replacing any previous one
func (s *InMemoryTrialSource) Put(ref string, obs trial.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations[ref] = obs
}

// LoadObservation returns the observation registered under ref
func (s *InMemoryTrialSource) LoadObservation(ctx context.Context, ref string) (trial.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obs, exists := s.observations[ref]
	if !exists {
		return trial.Observation{}, fmt.Errorf("observation not found: %s", ref)
	}
	return obs, nil
}
