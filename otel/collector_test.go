package otel

import (
	"context"
	"testing"

	"github.com/agilira/hydra"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOTelMetricsCollector_Interface(t *testing.T) {
	var _ hydra.MetricsCollector = (*OTelMetricsCollector)(nil)
}

func TestNewOTelMetricsCollector(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}
	if collector == nil {
		t.Fatal("NewOTelMetricsCollector() returned nil")
	}
}

func TestNewOTelMetricsCollector_NilProvider(t *testing.T) {
	collector, err := NewOTelMetricsCollector(nil)
	if err == nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return error")
	}
	if collector != nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return nil collector")
	}
}

func TestRecordResize(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordResize("flatmap", 16, 32)
	collector.RecordResize("chainmap", 4, 8)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "hydra_resize_total" {
				continue
			}
			found = true
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("expected Sum[int64], got %T", m.Data)
			}
			if len(sum.DataPoints) != 2 {
				t.Fatalf("expected 2 distinct component data points, got %d", len(sum.DataPoints))
			}
		}
	}
	if !found {
		t.Fatal("hydra_resize_total metric not found")
	}
}

func TestRecordEvictionCycle(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, _ := NewOTelMetricsCollector(provider)
	collector.RecordEvictionCycle("cuckoo")
	collector.RecordEvictionCycle("cuckoo")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "hydra_cuckoo_eviction_cycles_total" {
				continue
			}
			found = true
			sum := m.Data.(metricdata.Sum[int64])
			if sum.DataPoints[0].Value != 2 {
				t.Errorf("expected 2 eviction cycles, got %d", sum.DataPoints[0].Value)
			}
		}
	}
	if !found {
		t.Fatal("hydra_cuckoo_eviction_cycles_total metric not found")
	}
}

func TestRecordGenerationAndDeferredDepth(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, _ := NewOTelMetricsCollector(provider)
	collector.RecordGeneration(4, 1)
	collector.RecordDeferredQueueDepth(3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var foundLag, foundDepth bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "hydra_rcu_generation_lag":
				foundLag = true
			case "hydra_rcu_deferred_queue_depth":
				foundDepth = true
			}
		}
	}
	if !foundLag {
		t.Error("hydra_rcu_generation_lag metric not found")
	}
	if !foundDepth {
		t.Error("hydra_rcu_deferred_queue_depth metric not found")
	}
}

func TestOTelMetricsCollector_WithOptions(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider, WithMeterName("custom_hydra"))
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordResize("flatmap", 16, 32)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("no scope metrics")
	}
	if rm.ScopeMetrics[0].Scope.Name != "custom_hydra" {
		t.Errorf("expected scope name 'custom_hydra', got '%s'", rm.ScopeMetrics[0].Scope.Name)
	}
}
