package order

import "testing"

func TestTransitionTable(t *testing.T) {
	statuses := []Status{StatusNew, StatusInProgress, StatusDone, StatusClosed}

	legal := map[[2]Status]bool{
		{StatusNew, StatusInProgress}:    true,
		{StatusNew, StatusClosed}:        true,
		{StatusInProgress, StatusDone}:   true,
		{StatusInProgress, StatusClosed}: true,
		{StatusDone, StatusClosed}:       true,
	}

	// every (from, to) pair, including self-loops, must match exactly
	for _, from := range statuses {
		for _, to := range statuses {
			want := legal[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	if len(Transitions[StatusClosed]) != 0 {
		t.Fatalf("closed must have no successors, got %v", Transitions[StatusClosed])
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"new", "in_progress", "done", "closed"} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "NEW", "pending", "cancelled"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{"low", "medium", "high"} {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = false", p)
		}
	}
	if ValidPriority("urgent") {
		t.Error("ValidPriority(\"urgent\") = true")
	}
}
