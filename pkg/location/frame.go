package location

import "github.com/vango-dev/history/internal/errors"

// DefaultMaxFrameSize bounds a single client message in bytes.
const DefaultMaxFrameSize = 4096

// Op is a server-to-client command.
type Op string

const (
	OpPush    Op = "push"
	OpReplace Op = "replace"
)

// Command instructs the tab to change its hash.
type Command struct {
	Op   Op     `json:"op"`
	Hash string `json:"hash"`
}

// MessageType is a client-to-server message kind.
type MessageType string

const (
	// MessageHello carries the tab's hash when the connection opens.
	MessageHello MessageType = "hello"

	// MessageHashChange reports a user-originated hash change.
	MessageHashChange MessageType = "hashchange"

	// MessageVisibility reports the tab being hidden or shown.
	MessageVisibility MessageType = "visibility"
)

// Message is a frame sent by the tab. Hash is the fragment without its
// leading '#'.
type Message struct {
	Type   MessageType `json:"type"`
	Hash   string      `json:"hash,omitempty"`
	Hidden bool        `json:"hidden,omitempty"`
}

// Validate checks the message type.
func (m Message) Validate() error {
	switch m.Type {
	case MessageHello, MessageHashChange, MessageVisibility:
		return nil
	default:
		return errors.New("H010").WithDetail("unknown message type " + string(m.Type))
	}
}
