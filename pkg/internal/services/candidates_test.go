package services

import (
	"errors"
	"testing"

	"github.com/parley-im/parley/pkg/internal/models"
)

func TestCandidatePartitioning(t *testing.T) {
	setupTestDB(t)
	room, alice, bob := seedRoom(t)

	call, err := NewCall(room, alice, bob.MemberID, models.CallMediaAudio, "O1")
	if err != nil {
		t.Fatal(err)
	}

	c1, err := AddCandidate(call, alice.MemberID, "c1")
	if err != nil {
		t.Fatal(err)
	}
	c2, err := AddCandidate(call, alice.MemberID, "c2")
	if err != nil {
		t.Fatal(err)
	}
	c3, err := AddCandidate(call, bob.MemberID, "c3")
	if err != nil {
		t.Fatal(err)
	}

	forBob, err := ListCandidatesExcluding(call.ID, bob.MemberID)
	if err != nil {
		t.Fatal(err)
	}
	if len(forBob) != 2 || forBob[0].ID != c1.ID || forBob[1].ID != c2.ID {
		t.Fatalf("expected exactly [c1 c2] in order for bob, got %d rows", len(forBob))
	}

	forAlice, err := ListCandidatesExcluding(call.ID, alice.MemberID)
	if err != nil {
		t.Fatal(err)
	}
	if len(forAlice) != 1 || forAlice[0].ID != c3.ID {
		t.Fatalf("expected exactly [c3] for alice, got %d rows", len(forAlice))
	}

	for _, row := range forAlice {
		if row.FromID == alice.MemberID {
			t.Fatalf("exclusion leaked a candidate from the consumer itself")
		}
	}
}

func TestCandidateContributorMustBeParty(t *testing.T) {
	setupTestDB(t)
	room, alice, bob := seedRoom(t)

	call, err := NewCall(room, alice, bob.MemberID, models.CallMediaAudio, "O1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := AddCandidate(call, "guest_mallory", "evil"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected outsider contribution to be refused, got %v", err)
	}
}

func TestCandidatesSurviveRepolling(t *testing.T) {
	setupTestDB(t)
	room, alice, bob := seedRoom(t)

	call, err := NewCall(room, alice, bob.MemberID, models.CallMediaAudio, "O1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddCandidate(call, alice.MemberID, "c1"); err != nil {
		t.Fatal(err)
	}

	// The relay keeps no per-consumer delivery state: the same rows come
	// back on every poll.
	first, err := ListCandidatesExcluding(call.ID, bob.MemberID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ListCandidatesExcluding(call.ID, bob.MemberID)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatalf("expected identical rows across polls")
	}
}
