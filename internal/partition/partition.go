// Package partition splits an indexed scan table into contiguous
// row-range shards and reassembles shards back into one table.
package partition

import "github.com/lcdata/scancache/scantable"

// Split partitions t into at most shardCount contiguous shards using
// ceiling division: each shard covers rowsPerShard = ceil(N/shardCount)
// rows except possibly the last. Shards whose start row would fall past
// the end of the table are omitted, so the returned count may be lower
// than requested, never higher. An empty table yields no shards.
// Shard tables share column storage with t.
func Split(t *scantable.Table, shardCount int) []scantable.Shard {
	if shardCount < 1 {
		shardCount = 1
	}
	n := t.Len()
	if n == 0 {
		return nil
	}

	rowsPerShard := (n + shardCount - 1) / shardCount
	shards := make([]scantable.Shard, 0, shardCount)
	for start := 0; start < n; start += rowsPerShard {
		end := start + rowsPerShard
		if end > n {
			end = n
		}
		shards = append(shards, scantable.Shard{
			Table: t.Slice(start, end),
			MZMin: t.MZ[start],
			MZMax: t.MZ[end-1],
		})
	}
	return shards
}

// Merge concatenates shards in slice order into a single table. It is
// the inverse of Split: Merge(Split(t, k)) reproduces t row for row.
func Merge(shards []scantable.Shard) *scantable.Table {
	total := 0
	for i := range shards {
		total += shards[i].Len()
	}

	merged := scantable.NewTable(total)
	for i := range shards {
		merged.Append(&shards[i].Table)
	}
	return merged
}

// WindowShard converts one fragment window into its single-shard form.
// Fragment windows are never row-sharded; each window persists as
// exactly one shard whose MZMin/MZMax carry the window's range key so
// the key survives a save/load cycle.
func WindowShard(w scantable.Window) scantable.Shard {
	var data scantable.Table
	if w.Data != nil {
		data = *w.Data
	}
	return scantable.Shard{
		Table: data,
		MZMin: w.Range.Low,
		MZMax: w.Range.High,
	}
}

// WindowFromShard is the inverse of WindowShard.
func WindowFromShard(s scantable.Shard) scantable.Window {
	data := s.Table
	return scantable.Window{
		Range: scantable.Range{Low: s.MZMin, High: s.MZMax},
		Data:  &data,
	}
}
