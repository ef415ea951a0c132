package simpleentries

import "fmt"

// canTransition checks whether an entry may move from one lifecycle status to
// another. Same-status writes are allowed as no-ops. The allowed transitions
// are draft -> published, published -> archived, and archived -> published;
// re-publishing an archived entry does not reset PublishedAt.
func canTransition(from, to EntryStatus) error {
	if !from.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidEntryStatus, from)
	}
	if !to.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidEntryStatus, to)
	}
	if from == to {
		return nil
	}
	switch from {
	case StatusDraft:
		if to == StatusPublished {
			return nil
		}
	case StatusPublished:
		if to == StatusArchived {
			return nil
		}
	case StatusArchived:
		if to == StatusPublished {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

// statusFilter translates a query-side status value into the repository
// filter: empty defaults to published, StatusAll disables filtering.
func statusFilter(s EntryStatus) []EntryStatus {
	switch s {
	case StatusAll:
		return nil
	case "":
		return []EntryStatus{StatusPublished}
	default:
		return []EntryStatus{s}
	}
}
