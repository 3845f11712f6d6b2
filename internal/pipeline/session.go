// Package pipeline turns an export and its media into a viewable session:
// parse, index, then assign.
package pipeline

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/media"
)

// ErrNoMessages means the export text held no recognizable message line.
var ErrNoMessages = errors.New("no messages found in export")

// Origin records where a session was loaded from.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
	OriginCache  Origin = "cache"
)

// Input is the raw material of a session.
type Input struct {
	Name    string
	Raw     string
	Sources []media.Source
	Origin  Origin
}

// Options tune the pipeline.
type Options struct {
	Policy match.Policy
}

// Session is one loaded chat. Loading another export replaces it wholesale.
type Session struct {
	ID           uuid.UUID
	ChatID       string
	Name         string
	Origin       Origin
	Messages     []chat.Message
	Participants []string
	Index        *media.Index
	Report       match.Report
	Stats        chat.Stats
	LoadedAt     time.Time
}

// Load runs the whole pipeline. It fails only when nothing parses.
func Load(in Input, opts Options) (*Session, error) {
	parsed := chat.Parse(in.Raw)
	if len(parsed.Messages) == 0 {
		return nil, ErrNoMessages
	}
	idx := media.Build(in.Sources)
	report := match.New(opts.Policy).Assign(parsed.Messages, idx)

	return &Session{
		ID:           uuid.New(),
		ChatID:       chat.Fingerprint(in.Raw),
		Name:         in.Name,
		Origin:       in.Origin,
		Messages:     parsed.Messages,
		Participants: parsed.Participants,
		Index:        idx,
		Report:       report,
		Stats:        chat.ComputeStats(parsed.Messages),
		LoadedAt:     time.Now(),
	}, nil
}

// Reassign reruns matching against the session's own index, e.g. after the
// fallback policy changed.
func (s *Session) Reassign(policy match.Policy) {
	s.Report = match.New(policy).Assign(s.Messages, s.Index)
}
