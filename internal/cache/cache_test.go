package cache

import (
	"context"
	"testing"
	"time"
)

type payload struct {
	Value string `json:"value"`
}

func TestGetPutRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "mem://", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	key := PackageKey("pypi", "flask")
	var got payload
	if res := c.Get(ctx, key, time.Hour, false, &got); res.Hit {
		t.Fatalf("expected miss before Put")
	}

	if err := c.Put(ctx, key, payload{Value: "ok"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got = payload{}
	res := c.Get(ctx, key, time.Hour, false, &got)
	if !res.Hit {
		t.Fatalf("expected hit after Put")
	}
	if got.Value != "ok" {
		t.Fatalf("got %+v, want Value=ok", got)
	}
}

func TestGetExpiredTTL(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "mem://", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	key := GitKey("https://github.com/pallets/flask")
	if err := c.Put(ctx, key, payload{Value: "stale"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got payload
	res := c.Get(ctx, key, -time.Second, false, &got)
	if res.Hit {
		t.Fatalf("expected miss for a negative TTL window")
	}
}

func TestGetInvalidateForcesMiss(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "mem://", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	key := VulnKey("npm", "left-pad")
	if err := c.Put(ctx, key, payload{Value: "fresh"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got payload
	res := c.Get(ctx, key, time.Hour, true, &got)
	if res.Hit {
		t.Fatalf("invalidate=true must force a miss even within TTL")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "0", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	key := PackageKey("conda", "numpy")
	if err := c.Put(ctx, key, payload{Value: "ignored"}); err != nil {
		t.Fatalf("Put on disabled cache should be a no-op: %v", err)
	}

	var got payload
	res := c.Get(ctx, key, time.Hour, false, &got)
	if res.Hit {
		t.Fatalf("disabled cache must never report a hit")
	}
}

func TestKeyHelpers(t *testing.T) {
	if got, want := PackageKey("pypi", "flask"), "packages/pypi/flask.json"; got != want {
		t.Errorf("PackageKey = %q, want %q", got, want)
	}
	if got, want := GitKey("https://github.com/pallets/flask"), "git/https%3A%2F%2Fgithub.com%2Fpallets%2Fflask.json"; got != want {
		t.Errorf("GitKey = %q, want %q", got, want)
	}
	if got, want := VulnKey("NPM", "left-pad"), "vuln/npm/left-pad.json"; got != want {
		t.Errorf("VulnKey = %q, want %q", got, want)
	}
}
