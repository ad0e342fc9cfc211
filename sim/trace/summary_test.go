package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// GIVEN no trace at all
	// WHEN summarized
	summary := Summarize(nil)

	// THEN all counts are zero and the map is usable
	if summary.TotalDecisions != 0 || summary.Dispatches != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.DispatchCounts == nil {
		t.Error("expected non-nil dispatch counts")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalDecisions != 0 {
		t.Errorf("expected 0 total decisions, got %d", summary.TotalDecisions)
	}
	if summary.ContextSwitches != 0 {
		t.Errorf("expected 0 context switches, got %d", summary.ContextSwitches)
	}
	if summary.MeanQueueDepth != 0 || summary.MaxQueueDepth != 0 {
		t.Error("expected 0 queue depth values")
	}
	if summary.UniqueProcesses != 0 {
		t.Errorf("expected 0 unique processes, got %d", summary.UniqueProcesses)
	}
}

func TestSummarize_RoundRobinTrace_CorrectCounts(t *testing.T) {
	// GIVEN the decisions of RR q=2 over A(4), B(2)
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DispatchRecord{Tick: 0, Process: "A", Kind: KindDispatch, QueueDepth: 1})
	st.RecordDecision(DispatchRecord{Tick: 1, Process: "A", Kind: KindExpire, QueueDepth: 2})
	st.RecordDecision(DispatchRecord{Tick: 2, Process: "B", Kind: KindDispatch, QueueDepth: 1})
	st.RecordDecision(DispatchRecord{Tick: 3, Process: "B", Kind: KindComplete, QueueDepth: 1})
	st.RecordDecision(DispatchRecord{Tick: 4, Process: "A", Kind: KindDispatch, QueueDepth: 0})
	st.RecordDecision(DispatchRecord{Tick: 5, Process: "A", Kind: KindComplete, QueueDepth: 0})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalDecisions != 6 {
		t.Errorf("expected 6 decisions, got %d", summary.TotalDecisions)
	}
	if summary.Dispatches != 3 || summary.Expirations != 1 || summary.Completions != 2 || summary.Preemptions != 0 {
		t.Errorf("unexpected kind counts: %+v", summary)
	}
	if summary.ContextSwitches != 2 {
		t.Errorf("expected 2 context switches, got %d", summary.ContextSwitches)
	}
	if summary.DispatchCounts["A"] != 2 || summary.DispatchCounts["B"] != 1 {
		t.Errorf("unexpected dispatch counts: %v", summary.DispatchCounts)
	}
	if summary.UniqueProcesses != 2 {
		t.Errorf("expected 2 unique processes, got %d", summary.UniqueProcesses)
	}
}

func TestSummarize_QueueDepthStatistics_CorrectMeanAndMax(t *testing.T) {
	// GIVEN dispatch records with known queue depths
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DispatchRecord{Process: "A", Kind: KindDispatch, QueueDepth: 1})
	st.RecordDecision(DispatchRecord{Process: "B", Kind: KindDispatch, QueueDepth: 4})
	st.RecordDecision(DispatchRecord{Process: "C", Kind: KindDispatch, QueueDepth: 2})
	// preemption depth is not part of the dispatch statistics
	st.RecordDecision(DispatchRecord{Process: "A", Kind: KindPreempt, QueueDepth: 9})

	// WHEN summarized
	summary := Summarize(st)

	// THEN mean = (1+4+2)/3 and max = 4
	expectedMean := 7.0 / 3.0
	if summary.MeanQueueDepth < expectedMean-0.001 || summary.MeanQueueDepth > expectedMean+0.001 {
		t.Errorf("expected mean depth ~%.4f, got %.4f", expectedMean, summary.MeanQueueDepth)
	}
	if summary.MaxQueueDepth != 4 {
		t.Errorf("expected max depth 4, got %d", summary.MaxQueueDepth)
	}
	if summary.Preemptions != 1 {
		t.Errorf("expected 1 preemption, got %d", summary.Preemptions)
	}
}

func TestSummarize_RedispatchOfSameProcess_NotAContextSwitch(t *testing.T) {
	// GIVEN RR q=1 over a lone process with burst 3: three dispatches of A
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DispatchRecord{Tick: 0, Process: "A", Kind: KindDispatch, QueueDepth: 0})
	st.RecordDecision(DispatchRecord{Tick: 0, Process: "A", Kind: KindExpire, QueueDepth: 1})
	st.RecordDecision(DispatchRecord{Tick: 1, Process: "A", Kind: KindDispatch, QueueDepth: 0})
	st.RecordDecision(DispatchRecord{Tick: 1, Process: "A", Kind: KindExpire, QueueDepth: 1})
	st.RecordDecision(DispatchRecord{Tick: 2, Process: "A", Kind: KindDispatch, QueueDepth: 0})
	st.RecordDecision(DispatchRecord{Tick: 2, Process: "A", Kind: KindComplete, QueueDepth: 0})

	// WHEN summarized
	summary := Summarize(st)

	// THEN the CPU never changed hands
	if summary.Dispatches != 3 {
		t.Errorf("expected 3 dispatches, got %d", summary.Dispatches)
	}
	if summary.ContextSwitches != 0 {
		t.Errorf("expected 0 context switches, got %d", summary.ContextSwitches)
	}
}

func TestSummarize_HandoverAfterIdleGap_CountsOnce(t *testing.T) {
	// GIVEN A runs, the CPU idles, then B runs, then A again after another gap
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DispatchRecord{Tick: 0, Process: "A", Kind: KindDispatch})
	st.RecordDecision(DispatchRecord{Tick: 3, Process: "B", Kind: KindDispatch})
	st.RecordDecision(DispatchRecord{Tick: 6, Process: "B", Kind: KindDispatch})
	st.RecordDecision(DispatchRecord{Tick: 9, Process: "A", Kind: KindDispatch})

	// WHEN summarized
	summary := Summarize(st)

	// THEN only the A→B and B→A handovers count
	if summary.ContextSwitches != 2 {
		t.Errorf("expected 2 context switches, got %d", summary.ContextSwitches)
	}
}
