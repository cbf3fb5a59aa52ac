package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveChat(t *testing.T) {
	before := testutil.ToFloat64(chatRequestsTotal.WithLabelValues("completion", "ok"))
	ObserveChat("completion", "ok", 250*time.Millisecond)
	after := testutil.ToFloat64(chatRequestsTotal.WithLabelValues("completion", "ok"))
	if after != before+1 {
		t.Fatalf("expected counter increment, before=%v after=%v", before, after)
	}
}

func TestLifecycleOp(t *testing.T) {
	okBefore := testutil.ToFloat64(lifecycleOpsTotal.WithLabelValues("start", "ok"))
	errBefore := testutil.ToFloat64(lifecycleOpsTotal.WithLabelValues("start", "error"))
	LifecycleOp("start", nil)
	LifecycleOp("start", errors.New("boom"))
	if got := testutil.ToFloat64(lifecycleOpsTotal.WithLabelValues("start", "ok")); got != okBefore+1 {
		t.Fatalf("ok counter: %v", got)
	}
	if got := testutil.ToFloat64(lifecycleOpsTotal.WithLabelValues("start", "error")); got != errBefore+1 {
		t.Fatalf("error counter: %v", got)
	}
}

func TestAddTokens_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(chatTokensTotal.WithLabelValues("prompt"))
	AddTokens(0, 0)
	AddTokens(12, 3)
	if got := testutil.ToFloat64(chatTokensTotal.WithLabelValues("prompt")); got != before+12 {
		t.Fatalf("prompt tokens: %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
	ObserveReadiness(3)
	p := filepath.Join(t.TempDir(), "sllm.prom")
	if err := WriteTextfile(p); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "sllm_runtime_readiness_attempts") {
		t.Fatalf("textfile missing metric:\n%s", b)
	}
}
