package cache

import (
	"testing"
	"time"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestCacheHitAndExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[int](time.Minute, nil).WithClock(clk.now)
	in := models.ValuationInput{CompanyName: "Acme", Revenue: 1e6}

	c.Put(in, "v1", 42)
	if v, ok := c.Get(in, "v1"); !ok || v != 42 {
		t.Fatalf("expected hit with 42, got %v %v", v, ok)
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get(in, "v1"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be dropped, got %d entries", c.Len())
	}
}

func TestCacheKeyIncludesTablesVersion(t *testing.T) {
	c := New[string](0, nil)
	in := models.ValuationInput{Revenue: 5}
	c.Put(in, "v1", "old")
	if _, ok := c.Get(in, "v2"); ok {
		t.Fatal("expected a different tables version to miss")
	}
}

func TestFingerprintNormalizes(t *testing.T) {
	a := models.ValuationInput{Sector: "SaaS", Region: "USA", Revenue: 1e6}
	b := models.ValuationInput{Sector: "technology", Region: "us", Revenue: 1e6}
	if Fingerprint(a, "v1") != Fingerprint(b, "v1") {
		t.Error("expected equivalent inputs to share a fingerprint")
	}
	b.Revenue = 2e6
	if Fingerprint(a, "v1") == Fingerprint(b, "v1") {
		t.Error("expected different revenue to change the fingerprint")
	}
}

func TestCustomKeyFunc(t *testing.T) {
	byName := func(in models.ValuationInput, _ string) string { return in.CompanyName }
	c := New[int](0, byName)
	c.Put(models.ValuationInput{CompanyName: "x", Revenue: 1}, "v1", 1)
	if v, ok := c.Get(models.ValuationInput{CompanyName: "x", Revenue: 99}, "v9"); !ok || v != 1 {
		t.Fatalf("expected custom key to hit, got %v %v", v, ok)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("expected empty cache after Clear")
	}
}
