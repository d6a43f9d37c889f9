package domain_test

import (
	"context"
	"testing"
	"time"

	domain "github.com/touka-aoi/boss-director/server/domain"
)

func TestSession_IsPongIdle(t *testing.T) {
	s := domain.NewSession()
	if s.IsPongIdle(0) {
		t.Fatal("timeout<=0 should disable idle detection")
	}
	if s.IsPongIdle(time.Hour) {
		t.Fatal("fresh session should not be idle")
	}

	time.Sleep(20 * time.Millisecond)
	if !s.IsPongIdle(10 * time.Millisecond) {
		t.Fatal("session should be idle without pongs")
	}
	s.TouchPong()
	if s.IsPongIdle(10 * time.Millisecond) {
		t.Fatal("pong should reset idle")
	}
}

func TestSession_CloseOnce(t *testing.T) {
	s := domain.NewSession()
	if s.CloseReason() != domain.CloseReasonNone {
		t.Fatalf("open session reason = %v", s.CloseReason())
	}
	if !s.Close(domain.CloseReasonPongTimeout) {
		t.Fatal("first close should succeed")
	}
	if s.Close(domain.CloseReasonHangup) {
		t.Fatal("second close should be ignored")
	}
	if s.CloseReason() != domain.CloseReasonPongTimeout {
		t.Fatalf("close reason = %v", s.CloseReason())
	}
}

func TestCloseReason_Code(t *testing.T) {
	tests := []struct {
		reason domain.CloseReason
		code   int32
		name   string
	}{
		{domain.CloseReasonNormal, domain.CloseNormal, "normal"},
		{domain.CloseReasonHangup, domain.CloseGoingAway, "hangup"},
		{domain.CloseReasonShutdown, domain.CloseGoingAway, "shutdown"},
		{domain.CloseReasonPongTimeout, domain.ClosePolicyViolate, "pong_timeout"},
	}
	for _, tt := range tests {
		if got := tt.reason.Code(); got != tt.code {
			t.Errorf("%v.Code() = %d, want %d", tt.reason, got, tt.code)
		}
		if got := tt.reason.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestHub_PublishDropsWhenFull(t *testing.T) {
	hub := domain.NewHub(1)
	a := hub.Subscribe("a")
	hub.Subscribe("b")

	ctx := context.Background()
	if n := hub.Publish(ctx, []byte("1")); n != 2 {
		t.Fatalf("delivered = %d, want 2", n)
	}
	if n := hub.Publish(ctx, []byte("2")); n != 0 {
		t.Fatalf("full subscribers should drop, delivered = %d", n)
	}
	if got := string(<-a); got != "1" {
		t.Fatalf("a received %q", got)
	}

	hub.Unsubscribe("a")
	if _, ok := <-a; ok {
		t.Fatal("channel should be closed after Unsubscribe")
	}
	if hub.Len() != 1 {
		t.Fatalf("Len = %d, want 1", hub.Len())
	}
}
