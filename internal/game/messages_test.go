package game

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "minutes and seconds", in: 90 * time.Second, want: "1分30秒"},
		{name: "seconds only", in: 45 * time.Second, want: "45秒"},
		{name: "zero", in: 0, want: "0秒"},
		{name: "negative clamps to zero", in: -5 * time.Second, want: "0秒"},
		{name: "exact minutes", in: 2 * time.Minute, want: "2分0秒"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRemaining(tt.in); got != tt.want {
				t.Fatalf("formatRemaining(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRankParticipants_StableOrder(t *testing.T) {
	ranked := rankParticipants(map[string]int{"u3": 2, "u1": 5, "u2": 2})
	if ranked[0].userID != "u1" {
		t.Fatalf("expected u1 first, got %s", ranked[0].userID)
	}
	// Ties break by user id so repeated renders are identical.
	if ranked[1].userID != "u2" || ranked[2].userID != "u3" {
		t.Fatalf("unexpected tie order: %+v", ranked)
	}
}

func TestRankMedals(t *testing.T) {
	want := []string{"🥇", "🥈", "🥉", "🏅", "🏅"}
	for i, medal := range want {
		if got := rankMedal(i + 1); got != medal {
			t.Fatalf("rankMedal(%d) = %q, want %q", i+1, got, medal)
		}
	}
}

func TestBuildEndMessage_WithParticipants(t *testing.T) {
	msg := buildEndMessage(false, "月", 2,
		map[string]int{"u1": 3, "u2": 1},
		map[string]string{"u1": "Alice"},
		4)
	for _, want := range []string{"时间到", "【月】", "2 分钟", "🥇 1. Alice: 3 分", "🥈 2. 用户u2: 1 分", "4 句诗词"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("end message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildEndMessage_NoParticipants(t *testing.T) {
	msg := buildEndMessage(false, "月", 2, nil, nil, 0)
	if !strings.Contains(msg, "无人参与") {
		t.Fatalf("expected empty-round message, got: %s", msg)
	}
}

func TestBuildEndMessage_ForcedHeader(t *testing.T) {
	msg := buildEndMessage(true, "月", 2, nil, nil, 0)
	if !strings.Contains(msg, "强制结束") || strings.Contains(msg, "时间到") {
		t.Fatalf("expected forced header, got: %s", msg)
	}
}

func TestSessionChatType(t *testing.T) {
	if sessionChatType("group_123") != "群聊" {
		t.Fatal("expected group chat type")
	}
	if sessionChatType("user_456") != "私聊" {
		t.Fatal("expected private chat type")
	}
}

func TestShouldExplainRejection(t *testing.T) {
	if shouldExplainRejection("哈哈哈", false) {
		t.Fatal("unaddressed chatter must be dropped silently")
	}
	if !shouldExplainRejection("哈哈哈", true) {
		t.Fatal("addressed sender deserves an explanation")
	}
	if shouldExplainRejection("", true) {
		t.Fatal("empty text never warrants a reply")
	}
}
