package subscription

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the triage bucket a record currently sits in.
type Status string

const (
	StatusPending Status = "pending"
	StatusKeep    Status = "keep"
	StatusToss    Status = "toss"
	StatusArchive Status = "archive"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusKeep, StatusToss, StatusArchive}

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusKeep, StatusToss, StatusArchive:
		return true
	}
	return false
}

// Removes reports whether classifying into s drops the live remote subscription.
func (s Status) Removes() bool {
	return s == StatusToss || s == StatusArchive
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Record is one imported or fetched channel entry.
type Record struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Handle         string   `json:"handle"`
	SubscriptionID string   `json:"subscriptionId,omitempty"`
	SubCount       string   `json:"sub_count"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	AvatarURL      string   `json:"avatar,omitempty"`
	Tags           []string `json:"tags"`
}

// Subscribed reports whether the record mirrors a live remote subscription.
func (r Record) Subscribed() bool {
	return r.SubscriptionID != ""
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	out := r
	out.Tags = append([]string{}, r.Tags...)
	return out
}

// ProfileURL is the scheme-less channel address used in exports.
func ProfileURL(handle string) string {
	return "www.youtube.com/" + strings.TrimSpace(handle)
}

// Validate checks the invariants an imported list must hold.
func Validate(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record %d has no id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate record id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		if !r.Status.Valid() {
			return fmt.Errorf("record %q has invalid status %q", r.ID, r.Status)
		}
	}
	return nil
}

// Normalize fills defaults left out by older exports.
func Normalize(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r = r.Clone()
		if r.Status == "" {
			r.Status = StatusPending
		}
		out[i] = r
	}
	return out
}
