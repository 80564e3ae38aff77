package env

import "testing"

func TestGetString(t *testing.T) {
	t.Setenv("TRACKER_TEST_STR", "hello")

	if got := GetString("TRACKER_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("GetString = %q, want hello", got)
	}
	if got := GetString("TRACKER_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetString = %q, want fallback", got)
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("TRACKER_TEST_INT", "8080")
	t.Setenv("TRACKER_TEST_BAD_INT", "not-a-number")

	if got := GetInt("TRACKER_TEST_INT", 1); got != 8080 {
		t.Errorf("GetInt = %d, want 8080", got)
	}
	if got := GetInt("TRACKER_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetInt = %d, want default on parse failure", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("TRACKER_TEST_BOOL", "true")

	if got := GetBool("TRACKER_TEST_BOOL", false); !got {
		t.Error("GetBool = false, want true")
	}
	if got := GetBool("TRACKER_TEST_MISSING", true); !got {
		t.Error("GetBool = false, want default true")
	}
}
