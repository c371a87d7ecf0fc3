package refresh

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_Ticks(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler(func() error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond)
	s.Start()
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("定时刷新未执行, calls=%d", calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	st := s.Status()
	if !st.Enabled || st.LastStatus != "success" || st.Runs < 2 {
		t.Errorf("状态不正确: %+v", st)
	}
}

func TestScheduler_Disabled(t *testing.T) {
	s := NewScheduler(func() error { return nil }, 0)
	s.Start()
	defer s.Stop()

	if s.Status().Enabled {
		t.Error("间隔为 0 时不应启动")
	}
}

func TestScheduler_RunOnceFailure(t *testing.T) {
	s := NewScheduler(func() error { return errors.New("boom") }, 0)
	if !s.RunOnce() {
		t.Fatal("RunOnce 应执行")
	}
	if st := s.Status(); st.LastStatus != "failed" || st.Runs != 1 {
		t.Errorf("状态不正确: %+v", st)
	}
}

func TestScheduler_RunOnceSkipsWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := NewScheduler(func() error {
		close(started)
		<-release
		return nil
	}, 0)

	done := make(chan bool)
	go func() { done <- s.RunOnce() }()
	<-started

	if s.RunOnce() {
		t.Error("上一次刷新未结束时应跳过")
	}
	close(release)
	if !<-done {
		t.Error("第一次刷新应执行")
	}
}
