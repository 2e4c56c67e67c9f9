package importer

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	st := NewSessionStore(time.Hour)
	t.Cleanup(st.Close)
	return st
}

func TestSessionStore_PutGet(t *testing.T) {
	st := newTestStore(t)

	rows := []*ImportRow{{RowNumber: 2, Status: RowValid}}
	sess := st.Put("assets.csv", "alice", rows)

	if sess.ID == "" {
		t.Fatal("Put returned empty session id")
	}

	got, err := st.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.FileName != "assets.csv" || got.Uploader != "alice" {
		t.Errorf("session = %+v", got)
	}
	if got.ValidCount() != 1 {
		t.Errorf("ValidCount = %d, want 1", got.ValidCount())
	}
}

func TestSessionStore_GetUnknown(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get unknown = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_ClaimOnce(t *testing.T) {
	st := newTestStore(t)
	sess := st.Put("assets.csv", "alice", nil)

	if _, err := st.Claim(sess.ID); err != nil {
		t.Fatalf("first Claim error: %v", err)
	}
	if _, err := st.Claim(sess.ID); !errors.Is(err, ErrSessionInProgress) {
		t.Errorf("second Claim = %v, want ErrSessionInProgress", err)
	}

	// Release makes it claimable again after a failed run.
	st.Release(sess.ID)
	if _, err := st.Claim(sess.ID); err != nil {
		t.Errorf("Claim after Release error: %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	st := newTestStore(t)
	sess := st.Put("assets.csv", "alice", nil)

	st.Delete(sess.ID)

	if _, err := st.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Delete = %v, want ErrSessionNotFound", err)
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0", st.Len())
	}
}

func TestSessionStore_EvictsExpiredUnclaimed(t *testing.T) {
	st := newTestStore(t)

	expired := st.Put("old.csv", "alice", nil)
	expired.CreatedAt = time.Now().Add(-2 * time.Hour)

	running := st.Put("busy.csv", "bob", nil)
	running.CreatedAt = time.Now().Add(-2 * time.Hour)
	if _, err := st.Claim(running.ID); err != nil {
		t.Fatalf("Claim error: %v", err)
	}

	fresh := st.Put("new.csv", "carol", nil)

	st.evictExpired()

	if _, err := st.Get(expired.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expired unclaimed session should be evicted")
	}
	if _, err := st.Get(running.ID); err != nil {
		t.Error("claimed session must survive eviction")
	}
	if _, err := st.Get(fresh.ID); err != nil {
		t.Error("fresh session must survive eviction")
	}
}
