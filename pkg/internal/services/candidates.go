package services

import (
	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
)

// AddCandidate appends unconditionally; candidates are never mutated or
// deleted while the call lives. The contributor must be a call party.
func AddCandidate(call models.Call, fromId string, payload string) (models.Candidate, error) {
	candidate := models.Candidate{
		CallID:  call.ID,
		FromID:  fromId,
		Payload: payload,
	}
	if !call.IsParty(fromId) {
		return candidate, ErrNotAuthorized
	}

	if err := database.C.Save(&candidate).Error; err != nil {
		return candidate, err
	}

	PushCommand(call.OtherParty(fromId), models.UnifiedCommand{
		Action:  "calls.candidate",
		Payload: candidate,
	})

	return candidate, nil
}

// ListCandidatesExcluding returns every candidate the excluded member
// did not contribute, in insertion order. The relay keeps no delivery
// state: rows already processed by a consumer show up again on the next
// poll and must be filtered client-side by candidate id.
func ListCandidatesExcluding(callId uint, excludeFromId string) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := database.C.
		Where("call_id = ? AND from_id <> ?", callId, excludeFromId).
		Order("id ASC").
		Find(&candidates).Error; err != nil {
		return candidates, err
	}
	return candidates, nil
}
