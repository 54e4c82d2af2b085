package status

import "testing"

func intPtr(v int) *int {
	return &v
}

func TestReduce_MixedStatuses(t *testing.T) {
	services := []Service{
		{Name: "api", Status: Operational, ResponseTime: intPtr(120), UptimePercent: 99.9},
		{Name: "docs", Status: Degraded, ResponseTime: intPtr(300), UptimePercent: 98.1},
		{Name: "web", Status: Operational, ResponseTime: intPtr(90), UptimePercent: 99.0},
	}

	summary := Reduce(services)

	if summary.Overall != Degraded {
		t.Fatalf("expected degraded overall, got %s", summary.Overall)
	}
	if summary.OperationalCount != 2 {
		t.Fatalf("expected 2 operational, got %d", summary.OperationalCount)
	}
	if summary.Total != 3 {
		t.Fatalf("expected total 3, got %d", summary.Total)
	}
	if summary.AvgResponseTimeMS != 170 {
		t.Fatalf("expected avg response 170, got %d", summary.AvgResponseTimeMS)
	}
	want := (99.9 + 98.1 + 99.0) / 3
	if diff := summary.AvgUptimePercent - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected avg uptime %v, got %v", want, summary.AvgUptimePercent)
	}
}

func TestReduce_AllOperational(t *testing.T) {
	services := []Service{
		{Name: "api", Status: Operational, UptimePercent: 100},
		{Name: "web", Status: Operational, UptimePercent: 100},
	}

	summary := Reduce(services)

	if summary.Overall != Operational {
		t.Fatalf("expected operational overall, got %s", summary.Overall)
	}
	if summary.OperationalCount != 2 {
		t.Fatalf("expected 2 operational, got %d", summary.OperationalCount)
	}
}

func TestReduce_NoResponseTimes(t *testing.T) {
	services := []Service{
		{Name: "auth", Status: Maintenance, UptimePercent: 99.9},
	}

	summary := Reduce(services)

	if summary.AvgResponseTimeMS != 0 {
		t.Fatalf("expected avg response 0 without samples, got %d", summary.AvgResponseTimeMS)
	}
	if summary.Overall != Degraded {
		t.Fatalf("expected non-operational service to degrade overall, got %s", summary.Overall)
	}
}

func TestReduce_EmptyList(t *testing.T) {
	summary := Reduce(nil)

	if summary.Overall != Operational {
		t.Fatalf("expected operational for empty list, got %s", summary.Overall)
	}
	if summary.AvgUptimePercent != 100 {
		t.Fatalf("expected avg uptime 100 for empty list, got %v", summary.AvgUptimePercent)
	}
	if summary.AvgResponseTimeMS != 0 {
		t.Fatalf("expected avg response 0 for empty list, got %d", summary.AvgResponseTimeMS)
	}
}
