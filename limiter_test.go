package postadmin

import (
	"testing"
	"time"
)

func TestLoginLimiterAllowsUnderLimit(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		l.Record("1.2.3.4")
	}
	if l.Check("1.2.3.4") {
		t.Error("fourth attempt should be blocked")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	l := NewLoginLimiter(2, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatal("Check alone must never consume an attempt")
		}
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)

	l.Record("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Error("recorded IP should be blocked")
	}
	if !l.Check("5.6.7.8") {
		t.Error("other IPs should be unaffected")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	l := NewLoginLimiter(1, 50*time.Millisecond)

	l.Record("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Fatal("should be blocked inside the window")
	}
	time.Sleep(80 * time.Millisecond)
	if !l.Check("1.2.3.4") {
		t.Error("should be allowed after the window passed")
	}
}
