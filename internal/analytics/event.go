// Package analytics defines the event feed emitted alongside the
// synchronous click path and the stores that aggregate it.
package analytics

// Topics for the analytics event feed.
const (
	TopicLinkCreated = "link.created"
	TopicLinkClicked = "link.clicked"
)

// LinkCreatedEvent is emitted after a record is committed.
type LinkCreatedEvent struct {
	Code        string `json:"code"`
	OriginalURL string `json:"originalUrl"`
	CreatedAt   int64  `json:"createdAt"` // epoch milliseconds
	ExpiresAt   int64  `json:"expiresAt"` // epoch milliseconds, 0 when unset
	ClientIP    string `json:"clientIp,omitempty"`
	UserAgent   string `json:"userAgent,omitempty"`
}

// LinkClickedEvent is emitted after a click is appended to a record.
type LinkClickedEvent struct {
	Code      string `json:"code"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Source    string `json:"source"`
	Geo       string `json:"geo"`
	ClientIP  string `json:"clientIp,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}
