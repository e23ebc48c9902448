package leaderboard

import (
	"fmt"
	"testing"

	"progresskit/core"
)

func TestUpdateAndTopN(t *testing.T) {
	s := NewSkipList()
	s.Update("amira", 500)
	s.Update("badr", 300)
	s.Update("chloe", 900)

	top := s.TopN(2)
	if len(top) != 2 || top[0].Learner != "chloe" || top[1].Learner != "amira" {
		t.Fatalf("unexpected order: %+v", top)
	}

	// moving a learner re-ranks them
	s.Update("badr", 1200)
	top = s.TopN(3)
	if top[0].Learner != "badr" || top[0].XP != 1200 {
		t.Fatalf("update did not re-rank: %+v", top)
	}
}

func TestTieBreaksByLearnerID(t *testing.T) {
	s := NewSkipList()
	s.Update("zoe", 100)
	s.Update("ana", 100)
	top := s.TopN(2)
	if top[0].Learner != "ana" || top[1].Learner != "zoe" {
		t.Fatalf("ties must order by learner id: %+v", top)
	}
}

func TestRemoveAndGet(t *testing.T) {
	s := NewSkipList()
	s.Update("amira", 500)
	if e, ok := s.Get("amira"); !ok || e.XP != 500 {
		t.Fatalf("get: %+v %v", e, ok)
	}
	s.Remove("amira")
	if _, ok := s.Get("amira"); ok {
		t.Fatal("learner still present after remove")
	}
	if top := s.TopN(10); len(top) != 0 {
		t.Fatalf("board not empty: %+v", top)
	}
}

func TestManyLearnersStaySorted(t *testing.T) {
	s := NewSkipList()
	for i := 0; i < 500; i++ {
		s.Update(core.LearnerID(fmt.Sprintf("learner-%03d", i)), int64((i*37)%997))
	}
	top := s.TopN(500)
	if len(top) != 500 {
		t.Fatalf("len = %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if less(top[i], top[i-1]) {
			t.Fatalf("out of order at %d: %+v before %+v", i, top[i-1], top[i])
		}
	}
}
