package redis

import "testing"

func TestStateKey(t *testing.T) {
	if got := StateKey("sun.sun"); got != "state:sun.sun" {
		t.Errorf("StateKey(sun.sun) = %s, want state:sun.sun", got)
	}
}
