package middleware

import (
	"testing"
	"time"
)

func TestLoginProtectionLockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	email := "organizer@example.edu"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Fatal("account locked before any attempt")
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("account not locked after max failed attempts")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want %v", duration, time.Minute)
	}

	if locked, remaining := lp.IsAccountLocked(email); !locked || remaining <= 0 {
		t.Errorf("IsAccountLocked() = (%v, %v), want locked with remaining time", locked, remaining)
	}
}

func TestLoginProtectionSuccessClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	email := "organizer@example.edu"
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	// The counter restarted, so two more failures do not lock.
	lp.RecordFailedAttempt(email)
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("account locked although attempts were cleared by a successful login")
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 1,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})

	email := "organizer@example.edu"

	_, first := lp.RecordFailedAttempt(email)
	_ = first // first attempt only starts the counter

	locked, d1 := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("expected first lockout")
	}
	locked, d2 := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("expected second lockout")
	}
	if d2 != 2*d1 {
		t.Errorf("second lockout = %v, want double the first (%v)", d2, d1)
	}
}

func TestLoginProtectionIPRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 1,
		IPBurst:     2,
	})

	ip := "203.0.113.7"
	if !lp.CheckIPRateLimit(ip) {
		t.Fatal("first request denied")
	}
	if !lp.CheckIPRateLimit(ip) {
		t.Fatal("burst request denied")
	}
	if lp.CheckIPRateLimit(ip) {
		t.Error("request beyond burst allowed")
	}
}
