package netplay

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/quadpong/internal/config"
	"github.com/vovakirdan/quadpong/internal/game"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.Default().Net
	c := NewClient(cfg, "ws://localhost:8080/ws", "room-1", false, testSync(), baseSnap, nil)
	t.Cleanup(c.Close)
	return c
}

func TestIsLocalURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"ws://localhost:8080/ws", true},
		{"ws://127.0.0.1/ws", true},
		{"ws://[::1]:9000/ws", true},
		{"ws://example.com/ws", false},
		{"wss://pong.fly.dev/ws", false},
		{"ws://192.168.1.10:8080/ws", false},
	}
	for _, tc := range cases {
		if got := isLocalURL(tc.url); got != tc.want {
			t.Errorf("isLocalURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	c := testClient(t)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = rand.New(rand.NewSource(1))

	base := c.cfg.BackoffBase.Std()
	max := c.cfg.BackoffMax.Std()
	jitter := c.cfg.BackoffJitter

	for retries := 1; retries <= 12; retries++ {
		c.retries = retries
		nominal := base << (retries - 1)
		if nominal > max || nominal <= 0 {
			nominal = max
		}
		span := time.Duration(float64(nominal) * jitter)
		lo, hi := nominal-span/2, nominal+span/2

		got := c.backoffLocked()
		if got < lo || got > hi {
			t.Errorf("retry %d: delay %v outside [%v, %v]", retries, got, lo, hi)
		}
	}
}

func TestBackoffWithoutJitterIsExact(t *testing.T) {
	c := testClient(t)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.BackoffJitter = 0

	want := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second,
	}
	for i, w := range want {
		c.retries = i + 1
		if got := c.backoffLocked(); got != w {
			t.Errorf("retry %d: delay = %v, want %v", i+1, got, w)
		}
	}
}

func TestEpochInvalidatesStaleAttempts(t *testing.T) {
	c := testClient(t)

	c.mu.Lock()
	first := c.startAttemptLocked()
	c.mu.Unlock()
	if !c.current(first) {
		t.Fatal("fresh attempt should be current")
	}

	c.mu.Lock()
	second := c.startAttemptLocked()
	c.mu.Unlock()
	if c.current(first) {
		t.Error("superseded epoch still reported current")
	}
	if !c.current(second) {
		t.Error("newest epoch should be current")
	}
	if second <= first {
		t.Errorf("epoch did not advance: %d then %d", first, second)
	}
}

func TestStaleEpochCannotSetState(t *testing.T) {
	c := testClient(t)

	c.mu.Lock()
	old := c.startAttemptLocked()
	c.startAttemptLocked()
	c.mu.Unlock()

	c.setState(old, StateConnected, "")
	if got := c.State(); got == StateConnected {
		t.Error("stale epoch mutated connection state")
	}
	select {
	case evt := <-c.events:
		t.Errorf("stale epoch published %T", evt)
	default:
	}
}

func TestCloseInvalidatesCurrentEpoch(t *testing.T) {
	c := testClient(t)
	c.mu.Lock()
	epoch := c.startAttemptLocked()
	c.mu.Unlock()

	c.Close()
	if c.current(epoch) {
		t.Error("epoch survived Close")
	}
	if got := c.State(); got != StateIdle {
		t.Errorf("state after Close = %v, want %v", got, StateIdle)
	}

	// Connect after Close must be a no-op.
	c.Connect()
	if got := c.State(); got != StateIdle {
		t.Errorf("Connect restarted a closed client: state = %v", got)
	}
}

func TestPublishDropsOldestWhenFull(t *testing.T) {
	c := testClient(t)

	for i := 0; i < cap(c.events); i++ {
		c.publish(NoticeEvent{Stage: i})
	}
	c.publish(NoticeEvent{Stage: 999})

	var last ClientEvent
	drained := 0
	for {
		select {
		case evt := <-c.events:
			last = evt
			drained++
			continue
		default:
		}
		break
	}
	if drained != cap(c.events) {
		t.Fatalf("drained %d events, want %d", drained, cap(c.events))
	}
	notice, ok := last.(NoticeEvent)
	if !ok || notice.Stage != 999 {
		t.Errorf("newest event lost, tail = %#v", last)
	}
}

func TestConnectResetsRetryBudget(t *testing.T) {
	c := testClient(t)
	c.mu.Lock()
	c.retries = c.cfg.MaxRetries
	c.mu.Unlock()

	c.Connect()

	c.mu.Lock()
	retries := c.retries
	state := c.state
	c.mu.Unlock()
	if retries != 0 {
		t.Errorf("retries = %d after Connect, want 0", retries)
	}
	if state != StateConnecting {
		t.Errorf("state = %v after Connect, want %v", state, StateConnecting)
	}
}

func TestScheduleRetryOncePerFailure(t *testing.T) {
	c := testClient(t)
	c.mu.Lock()
	epoch := c.startAttemptLocked()
	c.mu.Unlock()

	// A dead socket reports twice: the watchdog fires, then the read loop
	// returns an error. Only one retry may be armed and counted.
	c.scheduleRetry(epoch, "heartbeat timeout")
	c.scheduleRetry(epoch, "read error")

	c.mu.Lock()
	retries := c.retries
	c.mu.Unlock()
	if retries != 1 {
		t.Errorf("retries = %d after one failure, want 1", retries)
	}

	retrying := 0
	for {
		select {
		case evt := <-c.events:
			if se, ok := evt.(StateEvent); ok && se.State == StateRetrying {
				retrying++
			}
			continue
		default:
		}
		break
	}
	if retrying != 1 {
		t.Errorf("StateRetrying published %d times, want 1", retrying)
	}
}

func TestSpectatorSendsNoInput(t *testing.T) {
	c := NewClient(config.Default().Net, "ws://localhost/ws", "room", true, testSync(), baseSnap, nil)
	defer c.Close()
	c.session.SetSide(game.SideNone)

	c.SendInput(50, 10, 55)
	if got := c.seq.Load(); got != 0 {
		t.Errorf("spectator consumed input sequence %d", got)
	}
}
