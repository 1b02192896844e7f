package e2etesting

import (
	"regexp"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

// Mailbox records outgoing mail instead of delivering it.
type Mailbox struct {
	mu       sync.Mutex
	messages []*mail.Msg
}

func (m *Mailbox) DialAndSend(messages ...*mail.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages...)
	return nil
}

func (m *Mailbox) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Last returns the newest message addressed to recipient.
func (m *Mailbox) Last(t *testing.T, recipient string) *mail.Msg {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.messages) - 1; i >= 0; i-- {
		if slices.Contains(Recipients(m.messages[i]), recipient) {
			return m.messages[i]
		}
	}
	t.Fatalf("no mail sent to %s", recipient)
	return nil
}

// Param extracts the value of a name=value query parameter from the plain
// text body of the newest message to recipient.
func (m *Mailbox) Param(t *testing.T, recipient, name string) string {
	t.Helper()
	msg := m.Last(t, recipient)

	pattern := regexp.MustCompile(regexp.QuoteMeta(name) + `=([0-9a-zA-Z_-]+)`)
	for _, part := range msg.GetParts() {
		if part.GetContentType() != mail.TypeTextPlain {
			continue
		}
		body, err := part.GetContent()
		require.NoError(t, err)
		if match := pattern.FindSubmatch(body); match != nil {
			return string(match[1])
		}
	}
	t.Fatalf("no %s in mail to %s", name, recipient)
	return ""
}

// Recipients returns the bare To addresses of msg.
func Recipients(msg *mail.Msg) []string {
	var addresses []string
	for _, addr := range msg.GetAddrHeader(mail.HeaderTo) {
		addresses = append(addresses, addr.Address)
	}
	return addresses
}

func Subject(msg *mail.Msg) string {
	if subject := msg.GetGenHeader(mail.HeaderSubject); len(subject) > 0 {
		return subject[0]
	}
	return ""
}
