package domain

import "strings"

// NoSelection marks an absent selection cursor.
const NoSelection = -1

// DefaultHistoryKeyPrefix namespaces conversation logs in durable storage.
const DefaultHistoryKeyPrefix = "pdfqa_"

// Answer is the remote service's reply to a question.
type Answer struct {
	// Answer is the answer text.
	Answer string

	// Sources are the cited passages, never nil.
	Sources []string
}

// Entry is one question/answer/sources record.
// The JSON field names are the durable storage format.
type Entry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// NewEntry builds an entry from a question and its answer.
func NewEntry(question string, answer *Answer) Entry {
	sources := []string{}
	if answer != nil && answer.Sources != nil {
		sources = append(sources, answer.Sources...)
	}
	text := ""
	if answer != nil {
		text = answer.Answer
	}
	return Entry{
		Question: question,
		Answer:   text,
		Sources:  sources,
	}
}

// IsBlank reports whether a question is empty or whitespace only.
func IsBlank(question string) bool {
	return strings.TrimSpace(question) == ""
}

// HistoryKey returns the durable storage key for a document.
func HistoryKey(prefix, name string) string {
	return prefix + name
}

// Conversation is the ordered log of entries for one document together
// with its selection cursor. The zero value is an empty log with no
// selection.
//
// The cursor is NoSelection exactly when the log is empty and is otherwise
// a valid index.
type Conversation struct {
	entries  []Entry
	selected int
}

// NewConversation returns a conversation over entries with the cursor on
// the last entry.
func NewConversation(entries []Entry) *Conversation {
	c := &Conversation{}
	c.Reset(entries)
	return c
}

// Reset replaces the log and moves the cursor to the last entry.
func (c *Conversation) Reset(entries []Entry) {
	c.entries = append([]Entry(nil), entries...)
	c.selected = len(c.entries) - 1
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the log.
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry returns the entry at index.
func (c *Conversation) Entry(index int) (Entry, bool) {
	if index < 0 || index >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[index], true
}

// Selected returns the cursor and whether one is set.
func (c *Conversation) Selected() (int, bool) {
	if len(c.entries) == 0 {
		return NoSelection, false
	}
	return c.selected, true
}

// SelectedEntry returns the entry under the cursor.
func (c *Conversation) SelectedEntry() (Entry, bool) {
	idx, ok := c.Selected()
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Select moves the cursor to index.
func (c *Conversation) Select(index int) error {
	if index < 0 || index >= len(c.entries) {
		return ErrInvalidIndex
	}
	c.selected = index
	return nil
}

// WithAppended returns the log that results from appending e, leaving c
// unchanged.
func (c *Conversation) WithAppended(e Entry) []Entry {
	out := make([]Entry, 0, len(c.entries)+1)
	out = append(out, c.entries...)
	return append(out, e)
}

// Append adds e to the end of the log and selects it.
func (c *Conversation) Append(e Entry) {
	c.entries = append(c.entries, e)
	c.selected = len(c.entries) - 1
}

// WithRemoved returns the log without the entry at index, leaving c
// unchanged.
func (c *Conversation) WithRemoved(index int) ([]Entry, error) {
	if index < 0 || index >= len(c.entries) {
		return nil, ErrInvalidIndex
	}
	out := make([]Entry, 0, len(c.entries)-1)
	out = append(out, c.entries[:index]...)
	return append(out, c.entries[index+1:]...), nil
}

// Remove deletes the entry at index and re-derives the cursor:
// a removed selected entry moves the cursor to max(0, index-1) (or none
// when the log is now empty), a removal before the cursor decrements it,
// and any other removal leaves it alone.
func (c *Conversation) Remove(index int) error {
	remaining, err := c.WithRemoved(index)
	if err != nil {
		return err
	}
	c.selected = nextSelection(c.selected, index, len(remaining))
	c.entries = remaining
	return nil
}

func nextSelection(prev, removed, remaining int) int {
	if remaining == 0 {
		return NoSelection
	}
	switch {
	case prev == removed:
		return max(0, removed-1)
	case prev > removed:
		return prev - 1
	default:
		return prev
	}
}
