package models

import "strings"

// Header is one email header field. Order matters to callers that want the
// first occurrence, so headers are kept as an ordered list, not a map.
type Header struct {
	Name  string
	Value string
}

// Attachment describes one attachment as listed by the mailbox provider.
// The ID is an opaque handle; bytes are fetched separately.
type Attachment struct {
	ID       string
	Filename string
	Size     int64
}

// Message is the pipeline's immutable view of one inbound email. It is
// fetched fresh from the mailbox provider each run and never mutated; the
// pipeline only requests label changes through the provider.
type Message struct {
	ID          string
	ThreadID    string
	Subject     string
	From        string
	LabelIDs    []string
	Headers     []Header
	BodyText    string
	BodyHTML    string
	Attachments []Attachment
}

// Header returns the value of the first header with the given name,
// case-insensitive, or empty string.
func (m *Message) Header(name string) string {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func (m *Message) HasLabel(labelId string) bool {
	for _, id := range m.LabelIDs {
		if id == labelId {
			return true
		}
	}
	return false
}

// AttachmentFile pairs an attachment descriptor with its downloaded bytes.
type AttachmentFile struct {
	Attachment
	Data []byte
}
