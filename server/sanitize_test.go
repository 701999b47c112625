package server

import "testing"

func TestSanitizeRoomID(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"My Room!!", "myroom"},
		{"public", "public"},
		{"ROOM_1-a", "room_1-a"},
		{"", "public"},
		{"!!!***", "public"},
		{"abcdefghijklmnopqrstuvwxyz0123", "abcdefghijklmnopqrstuvwx"},
		{"日本語room", "room"},
	}
	for _, c := range cases {
		if got := SanitizeRoomID(c.raw); got != c.want {
			t.Errorf("SanitizeRoomID(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"alice", "alice"},
		{"  alice   bob  ", "alice bob"},
		{"   ", "Guest"},
		{"", "Guest"},
		{"\t\n x \t y \n", "x y"},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnop"},
	}
	for _, c := range cases {
		if got := SanitizeName(c.raw); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestSanitizeSkin(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"runner", "runner"},
		{"scout", "scout"},
		{"heavy", "heavy"},
		{"ninja", "runner"},
		{"", "runner"},
		{"RUNNER", "runner"},
	}
	for _, c := range cases {
		if got := SanitizeSkin(c.raw); got != c.want {
			t.Errorf("SanitizeSkin(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

// 净化必须幂等：二次净化不得再改变结果
func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"My Room!!", "  alice   bob  ", "", "ninja", "abcdefghijklmnop qrstu", "日本語room"}
	for _, in := range inputs {
		if once, twice := SanitizeRoomID(in), SanitizeRoomID(SanitizeRoomID(in)); once != twice {
			t.Errorf("SanitizeRoomID not idempotent for %q: %q vs %q", in, once, twice)
		}
		if once, twice := SanitizeName(in), SanitizeName(SanitizeName(in)); once != twice {
			t.Errorf("SanitizeName not idempotent for %q: %q vs %q", in, once, twice)
		}
		if once, twice := SanitizeSkin(in), SanitizeSkin(SanitizeSkin(in)); once != twice {
			t.Errorf("SanitizeSkin not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
