package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRepo(rdb, ttl), mr
}

func TestRedisRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRedisRepo(t, time.Hour)

	st, err := repo.Get(ctx, "tg:1")
	if err != nil || st.Mode != ModeIdle || st.SessionID != "tg:1" {
		t.Fatalf("fresh state = %+v err %v", st, err)
	}

	st.Mode = ModeEditing
	st.Draft.CustomerName = "ABC Industries"
	st.Draft.Items = append(st.Draft.Items, quotation.LineItem{Description: "ISMB 150", Quantity: 10, Unit: quotation.UnitNos})
	st.Epoch = 3
	if err := repo.Set(ctx, st); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get(ctx, "tg:1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != ModeEditing || got.Draft.CustomerName != "ABC Industries" || len(got.Draft.Items) != 1 || got.Epoch != 3 {
		t.Fatalf("stored state = %+v", got)
	}

	if err := repo.Reset(ctx, "tg:1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := repo.Get(ctx, "tg:1"); got.Mode != ModeIdle || got.HasDraft() {
		t.Fatalf("after reset = %+v", got)
	}
}

func TestRedisRepoExpires(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t, time.Minute)

	st := NewState("s")
	st.Mode = ModeBuilding
	if err := repo.Set(ctx, st); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(redisKeyPrefix + "s"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	got, err := repo.Get(ctx, "s")
	if err != nil || got.Mode != ModeIdle {
		t.Fatalf("expired state = %+v err %v", got, err)
	}
}

func TestRedisRepoBacksManager(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRedisRepo(t, time.Hour)
	m := NewManager(newOrchestrator(t, nil), repo, nil)

	if _, err := m.Handle(ctx, "s1", scenarioA); err != nil {
		t.Fatal(err)
	}
	r, err := m.Handle(ctx, "s1", "yes")
	if err != nil || r.Finalized == nil {
		t.Fatalf("finalize reply = %+v err %v", r, err)
	}
}
