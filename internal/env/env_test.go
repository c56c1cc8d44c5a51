package env

import "testing"

func TestIndexLevelRoundTrip(t *testing.T) {
	l := EnvLen(5)
	for i := Index(0); i < 5; i++ {
		lv, ok := l.IndexToLevel(i)
		if !ok {
			t.Fatalf("IndexToLevel(%d): expected ok", i)
		}
		gotIdx, ok := l.LevelToIndex(lv)
		if !ok || gotIdx != i {
			t.Fatalf("LevelToIndex(%d) = %d, %v; want %d, true", lv, gotIdx, ok, i)
		}
	}
}

func TestIndexToLevelOutOfRange(t *testing.T) {
	l := EnvLen(3)
	if _, ok := l.IndexToLevel(3); ok {
		t.Fatalf("expected out-of-range index to fail")
	}
}

func TestSharedEnvSnapshotIsolation(t *testing.T) {
	var base SharedEnv[int]
	base.Push(1)
	base.Push(2)

	snap := base.Snapshot()
	snapWithThree := snap.WithPushed(3)

	base.Push(30)

	got, ok := snapWithThree.GetIndex(0)
	if !ok || got != 3 {
		t.Fatalf("snapshot observed mutation of base: got %d, %v", got, ok)
	}

	baseGot, ok := base.GetIndex(0)
	if !ok || baseGot != 30 {
		t.Fatalf("base.GetIndex(0) = %d, %v; want 30, true", baseGot, ok)
	}
}

func TestUniqueEnvPushGetSet(t *testing.T) {
	e := NewUniqueEnv[string]()
	lv0 := e.Push("a")
	e.Push("b")

	if v, ok := e.GetLevel(lv0); !ok || v != "a" {
		t.Fatalf("GetLevel(0) = %q, %v; want \"a\", true", v, ok)
	}
	if !e.Set(lv0, "a2") {
		t.Fatalf("Set(0) failed")
	}
	if v, _ := e.GetLevel(lv0); v != "a2" {
		t.Fatalf("after Set, GetLevel(0) = %q; want \"a2\"", v)
	}
}
