package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"DELIVERED", "delivered"},
		{"  In_Transit ", "in_transit"},
		{"created", "created"},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := NormalizeStatus(c.in); got != c.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []string{
		StatusCreated,
		StatusPickedUp,
		StatusInTransit,
		StatusArrivedAtDestination,
		StatusDelivered,
	} {
		if !KnownStatus(s) {
			t.Errorf("KnownStatus(%q) = false, want true", s)
		}
	}

	for _, s := range []string{"", "shipped", "Delivered", "lost"} {
		if KnownStatus(s) {
			t.Errorf("KnownStatus(%q) = true, want false", s)
		}
	}
}
