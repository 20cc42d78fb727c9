package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/biasguard/internal/domain"
)

func entry(age int) domain.HistoryEntry {
	return domain.HistoryEntry{
		Result: domain.AuditResult{"decision": "Denied"},
		Input:  &domain.ApplicantInput{Age: age},
	}
}

func ageOf(e domain.HistoryEntry) int {
	return e.Input.(*domain.ApplicantInput).Age
}

func TestRingNewestFirstAndCapped(t *testing.T) {
	r := NewRing(5)

	for age := 1; age <= 8; age++ {
		r.Push(entry(age))
		if r.Len() > 5 {
			t.Fatalf("Ring exceeded capacity: %d", r.Len())
		}
		latest, ok := r.Latest()
		if !ok || ageOf(latest) != age {
			t.Fatalf("Expected newest age %d at index 0", age)
		}
	}

	got := r.Entries()
	want := []int{8, 7, 6, 5, 4}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i, age := range want {
		if ageOf(got[i]) != age {
			t.Errorf("Index %d: expected age %d, got %d", i, age, ageOf(got[i]))
		}
	}
}

func TestRingDefaults(t *testing.T) {
	r := NewRing(0)
	if r.Capacity() != DefaultLimit {
		t.Errorf("Expected default capacity %d, got %d", DefaultLimit, r.Capacity())
	}
	if _, ok := r.Latest(); ok {
		t.Error("Expected empty ring to have no latest entry")
	}

	r.Push(entry(1))
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Expected empty ring after reset, got %d", r.Len())
	}
}

func TestRingEntriesIsCopy(t *testing.T) {
	r := NewRing(3)
	r.Push(entry(1))

	got := r.Entries()
	got[0] = entry(99)

	latest, _ := r.Latest()
	if ageOf(latest) != 1 {
		t.Errorf("Mutating Entries() result changed the ring")
	}
}

func TestRingConcurrentPush(t *testing.T) {
	r := NewRing(5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(age int) {
			defer wg.Done()
			r.Push(entry(age))
			_ = r.Entries()
		}(i)
	}
	wg.Wait()

	if r.Len() != 5 {
		t.Errorf("Expected 5 entries, got %d", r.Len())
	}
}

func TestSessionsIsolatedAndSwept(t *testing.T) {
	s := NewSessions(5)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Get("u1", "tab-1").Push(entry(1))
	s.Get("u1", "tab-2").Push(entry(2))

	if got := s.Get("u1", "tab-1").Len(); got != 1 {
		t.Errorf("Expected tab-1 to hold 1 entry, got %d", got)
	}
	if s.Len() != 2 {
		t.Fatalf("Expected 2 sessions, got %d", s.Len())
	}

	now = now.Add(30 * time.Minute)
	s.Get("u1", "tab-2")

	now = now.Add(45 * time.Minute)
	if removed := s.Sweep(time.Hour); removed != 1 {
		t.Errorf("Expected 1 idle session removed, got %d", removed)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 remaining session, got %d", s.Len())
	}
}

func TestStartSweeperStops(t *testing.T) {
	s := NewSessions(5)
	ctx, cancel := context.WithCancel(context.Background())
	s.StartSweeper(ctx, time.Millisecond, time.Millisecond)

	s.Get("u", "tab").Push(entry(1))
	deadline := time.Now().Add(2 * time.Second)
	for s.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Sweeper never evicted idle session")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
}
