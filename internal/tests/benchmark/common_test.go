package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/snapkv/internal/storage/memory"
)

// RecordCounts are the store sizes used by the scaling benchmarks.
var RecordCounts = []int{1000, 10000, 100000}

// SmallRecordCounts for quick runs.
var SmallRecordCounts = []int{1000, 5000, 10000}

// FieldsPerRecord is how many fields prefillStore writes per key.
const FieldsPerRecord = 8

func recordKey(i int) string { return fmt.Sprintf("user:%06d", i) }

func fieldName(j int) string { return fmt.Sprintf("attr%02d", j) }

// prefillStore writes count records. Every other field expires at time 1000.
func prefillStore(b *testing.B, store *memory.Store, count int) {
	b.Helper()
	for i := range count {
		for j := range FieldsPerRecord {
			var err error
			if j%2 == 0 {
				err = store.Set(recordKey(i), fieldName(j), "value", 0)
			} else {
				err = store.SetWithTTL(recordKey(i), fieldName(j), "value", 0, 1000)
			}
			if err != nil {
				b.Fatalf("prefill: %v", err)
			}
		}
	}
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithRecordCounts runs benchFn once per store size.
func runWithRecordCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("records_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
