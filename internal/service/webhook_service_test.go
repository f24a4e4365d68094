package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ilindan-dev/follower-notifier/internal/config"
	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
	repo "github.com/ilindan-dev/follower-notifier/internal/domain/repository"
	"github.com/ilindan-dev/follower-notifier/internal/notifiers"
	"github.com/ilindan-dev/follower-notifier/internal/signature"
	"github.com/rs/zerolog"
)

const testSecret = "webhook-secret"

const followedPayload = `{"action":"followed","sender":{"login":"octocat","avatar_url":"https://avatars.test/u/1","html_url":"https://github.com/octocat"}}`

type sentMessage struct {
	title   string
	message string
}

type recordingNotifier struct {
	provider model.Provider
	err      error

	mu   sync.Mutex
	sent []sentMessage
}

func (r *recordingNotifier) Provider() model.Provider { return r.provider }

func (r *recordingNotifier) Send(_ context.Context, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{title: title, message: message})
	return r.err
}

func (r *recordingNotifier) calls() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.sent...)
}

type memoryGuard struct {
	mu       sync.Mutex
	claimed  map[string]bool
	err      error
	released []string
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{claimed: map[string]bool{}}
}

func (g *memoryGuard) Claim(_ context.Context, id string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	if g.claimed[id] {
		return false, nil
	}
	g.claimed[id] = true
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, id)
	g.released = append(g.released, id)
	return nil
}

func newTestService(t *testing.T, guard repo.DeliveryGuard, channels ...notifiers.Notifier) *WebhookService {
	t.Helper()
	logger := zerolog.Nop()
	manager := notifiers.NewManagerWithNotifiers(channels, time.Second, nil, &logger)
	cfg := &config.Config{Webhook: config.WebhookConfig{Secret: testSecret, DedupeTTL: time.Hour}}
	return NewWebhookService(cfg, manager, guard, &logger)
}

func signedDelivery(id, payload string) model.Delivery {
	return model.Delivery{
		ID:        id,
		Event:     "follow",
		Signature: signature.Sign([]byte(payload), testSecret),
		Payload:   []byte(payload),
	}
}

func TestHandleDelivery_FollowedSendsOnce(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderSlack}
	svc := newTestService(t, repo.NoopDeliveryGuard{}, channel)

	result, err := svc.HandleDelivery(context.Background(), signedDelivery("", followedPayload))
	if err != nil {
		t.Fatalf("HandleDelivery() error = %v", err)
	}
	if result.Outcome != OutcomeDelivered {
		t.Errorf("expected delivered, got %s", result.Outcome)
	}

	calls := channel.calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one send, got %d", len(calls))
	}
	if calls[0].title != "New GitHub Follower!" {
		t.Errorf("unexpected title %q", calls[0].title)
	}
	if !strings.Contains(calls[0].message, "octocat") || !strings.Contains(calls[0].message, "https://github.com/octocat") {
		t.Errorf("message should mention login and profile url, got %q", calls[0].message)
	}
}

func TestHandleDelivery_UnsupportedActionRejected(t *testing.T) {
	for _, payload := range []string{
		`{"action":"unsubscribed","sender":{"login":"octocat"}}`,
		`{"action":"unfollowed","sender":{"login":"octocat"}}`,
		`{"sender":{"login":"octocat"}}`,
		`{"zen":"Keep it logically awesome.","hook_id":1}`,
	} {
		channel := &recordingNotifier{provider: model.ProviderSlack}
		svc := newTestService(t, repo.NoopDeliveryGuard{}, channel)

		_, err := svc.HandleDelivery(context.Background(), signedDelivery("", payload))
		if !errors.Is(err, model.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", payload, err)
		}
		if n := len(channel.calls()); n != 0 {
			t.Errorf("%s: expected no channel invoked, got %d sends", payload, n)
		}
	}
}

func TestHandleDelivery_MissingSenderLogin(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderSlack}
	svc := newTestService(t, repo.NoopDeliveryGuard{}, channel)

	_, err := svc.HandleDelivery(context.Background(), signedDelivery("", `{"action":"followed","sender":{}}`))
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestHandleDelivery_MalformedPayload(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderSlack}
	svc := newTestService(t, repo.NoopDeliveryGuard{}, channel)

	_, err := svc.HandleDelivery(context.Background(), signedDelivery("", `{"action":`))
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(channel.calls()) != 0 {
		t.Error("expected no channel invoked")
	}
}

func TestHandleDelivery_SignatureFailures(t *testing.T) {
	tests := []struct {
		name     string
		delivery model.Delivery
	}{
		{"missing signature", model.Delivery{Payload: []byte(followedPayload)}},
		{"wrong secret", model.Delivery{Payload: []byte(followedPayload), Signature: signature.Sign([]byte(followedPayload), "other")}},
		{"tampered payload", model.Delivery{
			Payload:   []byte(strings.Replace(followedPayload, "octocat", "mallory", 1)),
			Signature: signature.Sign([]byte(followedPayload), testSecret),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel := &recordingNotifier{provider: model.ProviderSlack}
			svc := newTestService(t, repo.NoopDeliveryGuard{}, channel)

			_, err := svc.HandleDelivery(context.Background(), tt.delivery)
			if !errors.Is(err, model.ErrAuthentication) {
				t.Fatalf("expected ErrAuthentication, got %v", err)
			}
			if len(channel.calls()) != 0 {
				t.Error("expected zero channel invocations")
			}
		})
	}
}

func TestHandleDelivery_EmptySecretRejectsEverything(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderSlack}
	logger := zerolog.Nop()
	manager := notifiers.NewManagerWithNotifiers([]notifiers.Notifier{channel}, time.Second, nil, &logger)
	svc := NewWebhookService(&config.Config{}, manager, repo.NoopDeliveryGuard{}, &logger)

	d := model.Delivery{Payload: []byte(followedPayload), Signature: signature.Sign([]byte(followedPayload), "")}
	if _, err := svc.HandleDelivery(context.Background(), d); !errors.Is(err, model.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestHandleDelivery_PartialFailureIsDegradedSuccess(t *testing.T) {
	ok := &recordingNotifier{provider: model.ProviderSlack}
	down := &recordingNotifier{provider: model.ProviderEmail, err: errors.New("smtp down")}
	svc := newTestService(t, repo.NoopDeliveryGuard{}, ok, down)

	result, err := svc.HandleDelivery(context.Background(), signedDelivery("", followedPayload))
	if err != nil {
		t.Fatalf("expected success on partial failure, got %v", err)
	}
	if result.Outcome != OutcomeDegraded {
		t.Errorf("expected degraded, got %s", result.Outcome)
	}
}

func TestHandleDelivery_NoChannels(t *testing.T) {
	svc := newTestService(t, repo.NoopDeliveryGuard{})

	result, err := svc.HandleDelivery(context.Background(), signedDelivery("", followedPayload))
	if err != nil {
		t.Fatalf("expected success with no channels, got %v", err)
	}
	if result.Outcome != OutcomeNoChannels {
		t.Errorf("expected no_channels, got %s", result.Outcome)
	}
}

func TestHandleDelivery_DuplicateDeliverySkipped(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderTelegram}
	svc := newTestService(t, newMemoryGuard(), channel)

	d := signedDelivery("72d3162e-cc78-11e3-81ab-4c9367dc0958", followedPayload)
	if _, err := svc.HandleDelivery(context.Background(), d); err != nil {
		t.Fatalf("first delivery error = %v", err)
	}
	result, err := svc.HandleDelivery(context.Background(), d)
	if err != nil {
		t.Fatalf("redelivery error = %v", err)
	}
	if result.Outcome != OutcomeDuplicate {
		t.Errorf("expected duplicate, got %s", result.Outcome)
	}
	if n := len(channel.calls()); n != 1 {
		t.Errorf("expected one send across both deliveries, got %d", n)
	}
}

func TestHandleDelivery_TotalFailureReleasesClaim(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderDiscord, err: errors.New("status 500")}
	guard := newMemoryGuard()
	svc := newTestService(t, guard, channel)

	d := signedDelivery("delivery-1", followedPayload)
	_, err := svc.HandleDelivery(context.Background(), d)
	if !errors.Is(err, model.ErrNotification) {
		t.Fatalf("expected ErrNotification, got %v", err)
	}
	if len(guard.released) != 1 || guard.released[0] != "delivery-1" {
		t.Fatalf("expected claim to be released, got %v", guard.released)
	}

	// A redelivery is attempted again rather than treated as a duplicate.
	if _, err := svc.HandleDelivery(context.Background(), d); !errors.Is(err, model.ErrNotification) {
		t.Fatalf("expected redelivery to be dispatched again, got %v", err)
	}
	if n := len(channel.calls()); n != 2 {
		t.Errorf("expected 2 sends, got %d", n)
	}
}

func TestHandleDelivery_GuardErrorDoesNotBlock(t *testing.T) {
	channel := &recordingNotifier{provider: model.ProviderSlack}
	guard := newMemoryGuard()
	guard.err = errors.New("redis: connection refused")
	svc := newTestService(t, guard, channel)

	if _, err := svc.HandleDelivery(context.Background(), signedDelivery("delivery-2", followedPayload)); err != nil {
		t.Fatalf("expected delivery to proceed without the guard, got %v", err)
	}
	if len(channel.calls()) != 1 {
		t.Error("expected notification to be sent")
	}
}

func TestBuildNotification(t *testing.T) {
	title, message, err := BuildNotification(model.FollowerEvent{
		Action: "followed",
		Sender: model.Sender{Login: "octocat", HTMLURL: "https://github.com/octocat"},
	})
	if err != nil {
		t.Fatalf("BuildNotification() error = %v", err)
	}
	if title != FollowerTitle {
		t.Errorf("unexpected title %q", title)
	}
	want := "User octocat is now following you!\nProfile: https://github.com/octocat"
	if message != want {
		t.Errorf("message = %q, want %q", message, want)
	}
}
