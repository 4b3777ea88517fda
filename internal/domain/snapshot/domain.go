package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

type Kind string

const (
	KindProject    Kind = "project"
	KindMilestones Kind = "milestones"
	KindTeam       Kind = "team"
	KindFinancial  Kind = "financial"
)

// Snapshot is the last fetched representation of one API resource.
type Snapshot struct {
	Kind       Kind
	ExternalID string
	Hash       string
	Payload    json.RawMessage
	FetchedAt  time.Time
}

func New(kind Kind, id string, v any, at time.Time) (Snapshot, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Snapshot{}, err
	}
	sum := sha256.Sum256(raw)
	return Snapshot{
		Kind:       kind,
		ExternalID: id,
		Hash:       hex.EncodeToString(sum[:]),
		Payload:    raw,
		FetchedAt:  at,
	}, nil
}

func (s Snapshot) Key() string { return string(s.Kind) + ":" + s.ExternalID }

// ChangedEvent announces that a snapshot's content hash moved from
// PrevHash (empty for a first sighting) to Hash.
type ChangedEvent struct {
	Kind       Kind      `json:"kind"`
	ExternalID string    `json:"externalId"`
	PrevHash   string    `json:"prevHash,omitempty"`
	Hash       string    `json:"hash"`
	At         time.Time `json:"at"`
}

func (s Snapshot) Changed(prevHash string) ChangedEvent {
	return ChangedEvent{Kind: s.Kind, ExternalID: s.ExternalID, PrevHash: prevHash, Hash: s.Hash, At: s.FetchedAt}
}

func (e ChangedEvent) Key() string { return string(e.Kind) + ":" + e.ExternalID }
