package model

// ActionFollowed is the only webhook action that triggers a notification.
const ActionFollowed = "followed"

// Sender describes the GitHub user that caused the event.
type Sender struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// FollowerEvent is the subset of the GitHub webhook payload the service reads.
type FollowerEvent struct {
	Action string `json:"action"`
	Sender Sender `json:"sender"`
}

// Delivery is a single inbound webhook request as it came off the wire.
// Payload holds the exact bytes that were signed.
type Delivery struct {
	ID        string // X-GitHub-Delivery, may be empty.
	Event     string // X-GitHub-Event, informational only.
	Signature string // X-Hub-Signature-256, including the "sha256=" tag.
	Payload   []byte
}
