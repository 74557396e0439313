// Package render turns backend results into display markup.
// HTML output goes through html/template so every value is escaped.
package render

import (
	"time"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

// Empty-state texts.
const (
	NoActions  = "No unresolved action items found."
	NoMessages = "No messages in context yet."
)

// RecentCount is how many context messages are shown.
const RecentCount = 5

// TimeLayout is the localized date-time rendering, e.g. "3/1/2024, 10:30:00 AM".
const TimeLayout = "1/2/2006, 3:04:05 PM"

// RecentMessages returns the last n messages, oldest first.
func RecentMessages(msgs []entities.ContextMessage, n int) []entities.ContextMessage {
	if n <= 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// clock formats timestamps in a fixed location.
type clock struct {
	loc *time.Location
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.Local
	}
	return clock{loc: loc}
}

func (c clock) format(ts entities.Timestamp) string {
	if ts.IsZero() {
		return "Invalid Date"
	}
	return ts.In(c.loc).Format(TimeLayout)
}

// The view types below are what the templates see.

type actionView struct {
	Description string
	MentionedAt string
	AssignedTo  string
}

type messageView struct {
	Timestamp string
	Content   string
}

type contextView struct {
	ProjectID   string
	Count       int
	LastUpdated string
	Recent      []messageView
}

type answerView struct {
	Answer     string
	Confidence string
}

func (c clock) actions(items []entities.ActionItem) []actionView {
	views := make([]actionView, len(items))
	for i, it := range items {
		views[i] = actionView{
			Description: it.Description,
			MentionedAt: c.format(it.MentionedAt),
			AssignedTo:  it.AssignedTo,
		}
	}
	return views
}

func (c clock) context(ctx entities.Context) contextView {
	recent := RecentMessages(ctx.Messages, RecentCount)
	v := contextView{
		ProjectID:   ctx.ProjectID,
		Count:       len(ctx.Messages),
		LastUpdated: c.format(ctx.LastUpdated),
		Recent:      make([]messageView, len(recent)),
	}
	for i, m := range recent {
		v.Recent[i] = messageView{Timestamp: c.format(m.Timestamp), Content: m.Content}
	}
	return v
}

func answer(a entities.Answer) answerView {
	return answerView{Answer: a.Answer, Confidence: a.ConfidencePercent()}
}
