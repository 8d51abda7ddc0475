package entities

import "time"

// Selection is the ordered set of procedure IDs a visitor has chosen for
// their personalised guide, plus the starter packs currently fully applied.
// Items preserve insertion order and never contain duplicates.
type Selection struct {
	SessionID string    `json:"sessionId"`
	Items     []string  `json:"items"`
	Bundles   []string  `json:"bundles"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSelection returns an empty selection for the given session
func NewSelection(sessionID string) *Selection {
	return &Selection{
		SessionID: sessionID,
		Items:     []string{},
		Bundles:   []string{},
	}
}

// Contains reports whether id is already selected
func (s *Selection) Contains(id string) bool {
	for _, item := range s.Items {
		if item == id {
			return true
		}
	}
	return false
}

// Add appends id to the selection; adding an already-present ID is a no-op
func (s *Selection) Add(id string) {
	if s.Contains(id) {
		return
	}
	s.Items = append(s.Items, id)
}

// Remove deletes id if present; removing an absent ID is a no-op
func (s *Selection) Remove(id string) {
	for i, item := range s.Items {
		if item == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return
		}
	}
}

// AddBundle adds every ID in the bundle and records the bundle as applied
func (s *Selection) AddBundle(bundleID string, ids []string) {
	for _, id := range ids {
		s.Add(id)
	}
	for _, b := range s.Bundles {
		if b == bundleID {
			return
		}
	}
	s.Bundles = append(s.Bundles, bundleID)
}

// RemoveBundle removes every ID in the bundle and unmarks the bundle
func (s *Selection) RemoveBundle(bundleID string, ids []string) {
	for _, id := range ids {
		s.Remove(id)
	}
	for i, b := range s.Bundles {
		if b == bundleID {
			s.Bundles = append(s.Bundles[:i], s.Bundles[i+1:]...)
			return
		}
	}
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.Items = []string{}
	s.Bundles = []string{}
}
