package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

// hangingChecker blocks until its context is done.
type hangingChecker struct{}

func (hangingChecker) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockChecker{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, c := range []string{ComponentDatabase, ComponentEmbedding, ComponentChat} {
		if r.Checks[c] != CheckOK {
			t.Errorf("expected %s %q, got %q", c, CheckOK, r.Checks[c])
		}
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockChecker{}, &mockChecker{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentDatabase] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks[ComponentDatabase])
	}
	if r.Checks[ComponentEmbedding] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks[ComponentEmbedding])
	}
}

func TestCheck_ProviderErrors(t *testing.T) {
	tests := []struct {
		name      string
		embedding error
		chat      error
		failed    []string
	}{
		{"embedding", errors.New("timeout"), nil, []string{ComponentEmbedding}},
		{"chat", nil, errors.New("401"), []string{ComponentChat}},
		{"both", errors.New("down"), errors.New("down"), []string{ComponentEmbedding, ComponentChat}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockDBPinger{}, &mockChecker{err: tt.embedding}, &mockChecker{err: tt.chat})
			r := svc.Check(context.Background())

			if r.Status != Degraded {
				t.Errorf("expected %q, got %q", Degraded, r.Status)
			}
			if r.Checks[ComponentDatabase] != CheckOK {
				t.Errorf("expected database ok, got %q", r.Checks[ComponentDatabase])
			}
			for _, c := range tt.failed {
				if r.Checks[c] != CheckError {
					t.Errorf("expected %s error, got %q", c, r.Checks[c])
				}
			}
		})
	}
}

func TestCheck_DBAndProviderFail(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("db down")}, &mockChecker{err: errors.New("emb down")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoProviders(t *testing.T) {
	svc := New(&mockDBPinger{}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the database check, got %v", r.Checks)
	}
}

func TestCheck_SlowProviderTimesOut(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockChecker{}, hangingChecker{}).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Check took %v, want the check deadline to cut it short", elapsed)
	}
	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentChat] != CheckError || r.Checks[ComponentEmbedding] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	svc := New(&mockDBPinger{}, nil, nil).WithTimeout(0)
	if svc.timeout != DefaultCheckTimeout {
		t.Errorf("timeout = %v, want %v", svc.timeout, DefaultCheckTimeout)
	}
}
