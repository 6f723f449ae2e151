package testutil

import "testing"

// Journey-step helpers for the router-level flow tests. Each wraps t.Run
// with a spoken prefix so a failing subtest reads as a sentence, e.g.
// "TestFullVerificationJourney/When_the_visa_upload_simulates_a_failure".
// Steps run in declaration order and share the enclosing test's state, so
// a later step sees every mutation the earlier ones made.

func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
