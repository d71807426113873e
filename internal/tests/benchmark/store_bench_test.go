package benchmark

import (
	"fmt"
	"testing"

	"github.com/yndnr/snapkv/internal/storage/memory"
)

func BenchmarkStoreSet(b *testing.B) {
	runWithRecordCounts(b, SmallRecordCounts, func(b *testing.B, count int) {
		store := memory.New()
		prefillStore(b, store, count)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if err := store.Set(recordKey(i%count), "bench", "value", 1); err != nil {
				b.Fatalf("Set failed: %v", err)
			}
		}
		b.StopTimer()
		reportMemory(b, "mem")
	})
}

func BenchmarkStoreGet(b *testing.B) {
	runWithRecordCounts(b, SmallRecordCounts, func(b *testing.B, count int) {
		store := memory.New()
		prefillStore(b, store, count)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			store.Get(recordKey(i%count), fieldName(i%FieldsPerRecord), 500)
		}
	})
}

func BenchmarkStoreScanByPrefix(b *testing.B) {
	store := memory.New()
	prefillStore(b, store, 1000)

	for _, prefix := range []string{"", "attr0", "attr07", "missing"} {
		b.Run(fmt.Sprintf("prefix_%q", prefix), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				store.ScanByPrefix(recordKey(i%1000), prefix, 500)
			}
		})
	}
}

func BenchmarkStoreCopyLive(b *testing.B) {
	runWithRecordCounts(b, SmallRecordCounts, func(b *testing.B, count int) {
		store := memory.New()
		prefillStore(b, store, count)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			// Half of every record has expired at 2000.
			if got := store.CopyLive(2000); len(got) != count {
				b.Fatalf("CopyLive returned %d records, want %d", len(got), count)
			}
		}
	})
}
