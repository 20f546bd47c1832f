package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_Singleton(t *testing.T) {
	first := New()
	second := New()
	if first != second {
		t.Fatal("New() should return the same instance on every call")
	}
}

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()
	m.SourcesAddedTotal.WithLabelValues("text").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := map[string]bool{}
	for _, family := range families {
		found[family.GetName()] = true
	}
	if !found["notebook_sources_added_total"] {
		t.Error("notebook_sources_added_total is not registered with the default registry")
	}
}

func TestCounters(t *testing.T) {
	m := New()

	before := testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("flashcards", "fenced"))
	m.ExtractionsTotal.WithLabelValues("flashcards", "fenced").Inc()
	m.ExtractionsTotal.WithLabelValues("flashcards", "fenced").Inc()
	if got := testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("flashcards", "fenced")) - before; got != 2 {
		t.Errorf("extractions delta = %v, want 2", got)
	}

	before = testutil.ToFloat64(m.RetrievalsTotal.WithLabelValues("narrowed"))
	m.RetrievalsTotal.WithLabelValues("narrowed").Inc()
	if got := testutil.ToFloat64(m.RetrievalsTotal.WithLabelValues("narrowed")) - before; got != 1 {
		t.Errorf("retrievals delta = %v, want 1", got)
	}
}
