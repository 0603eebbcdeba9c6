package batch

import "testing"

func TestPartitionIsDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if Partition("requests", 16) != Partition("requests", 16) {
			t.Fatalf("Partition is not stable across calls")
		}
	}
}

func TestPartitionInRange(t *testing.T) {
	names := []string{"requests", "flask", "numpy", "django", "pytest", ""}
	for _, n := range names {
		p := Partition(n, 16)
		if p < 0 || p >= 16 {
			t.Errorf("Partition(%q, 16) = %d, want [0,16)", n, p)
		}
	}
}

func TestPartitionSinglePartition(t *testing.T) {
	if got := Partition("anything", 1); got != 0 {
		t.Errorf("Partition with numPartitions=1 = %d, want 0", got)
	}
}

func TestInPartitionAgreesWithPartition(t *testing.T) {
	name := "some-package"
	p := Partition(name, 8)
	if !InPartition(name, 8, p) {
		t.Errorf("InPartition disagrees with Partition for %q", name)
	}
	for other := 0; other < 8; other++ {
		if other == p {
			continue
		}
		if InPartition(name, 8, other) {
			t.Errorf("InPartition(%q, 8, %d) = true, want false (belongs to %d)", name, other, p)
		}
	}
}

func TestFilterPartitionCoversEveryName(t *testing.T) {
	names := []string{"a", "bb", "ccc", "dddd", "eeeee", "f", "gg", "hhh"}
	const numPartitions = 4

	seen := make(map[string]bool)
	for part := 0; part < numPartitions; part++ {
		for _, n := range FilterPartition(names, numPartitions, part) {
			if seen[n] {
				t.Errorf("%q appeared in more than one partition", n)
			}
			seen[n] = true
		}
	}
	for _, n := range names {
		if !seen[n] {
			t.Errorf("%q was not assigned to any partition", n)
		}
	}
}
