package config

import "testing"

func TestEnvIntParsesValue(t *testing.T) {
	t.Setenv("STREAMBOX_TEST_INT", "42")
	if got := envInt("STREAMBOX_TEST_INT", 5); got != 42 {
		t.Fatalf("envInt = %d, want 42", got)
	}
}

func TestEnvIntHonorsExplicitZero(t *testing.T) {
	t.Setenv("STREAMBOX_TEST_INT", "0")
	if got := envInt("STREAMBOX_TEST_INT", 5); got != 0 {
		t.Fatalf("envInt = %d, want 0", got)
	}
}

func TestEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("STREAMBOX_TEST_INT", "five")
	if got := envInt("STREAMBOX_TEST_INT", 5); got != 5 {
		t.Fatalf("envInt = %d, want fallback 5", got)
	}
}

func TestEnvIntFallsBackWhenUnset(t *testing.T) {
	if got := envInt("STREAMBOX_TEST_INT_UNSET", 7); got != 7 {
		t.Fatalf("envInt = %d, want fallback 7", got)
	}
}
