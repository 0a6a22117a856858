package repository

import (
	"testing"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

func contains(list []entities.MeetingStatus, s entities.MeetingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestStatusesAllowedBefore(t *testing.T) {
	from := statusesAllowedBefore(entities.MeetingStatusProcessing)
	if len(from) != 1 || from[0] != entities.MeetingStatusPending {
		t.Fatalf("only pending may become processing, got %v", from)
	}

	from = statusesAllowedBefore(entities.MeetingStatusFailed)
	if len(from) != 1 || from[0] != entities.MeetingStatusProcessing {
		t.Fatalf("only processing may become failed, got %v", from)
	}

	// Terminal states never appear as a valid predecessor, so the
	// conditional UPDATE in UpdateStatus can never overwrite them.
	for _, next := range []entities.MeetingStatus{
		entities.MeetingStatusProcessing,
		entities.MeetingStatusCompleted,
		entities.MeetingStatusFailed,
	} {
		from = statusesAllowedBefore(next)
		if contains(from, entities.MeetingStatusCompleted) || contains(from, entities.MeetingStatusFailed) {
			t.Errorf("terminal status listed as predecessor of %s: %v", next, from)
		}
	}
}
