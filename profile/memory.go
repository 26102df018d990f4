package profile

import (
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/teranos/depminer/logger"
)

// bytes per cell: an int32 cluster id in the compressed records plus an int
// row index in the partition
const bytesPerCell = 4 + 8

// virtualMemory is replaced in tests.
var virtualMemory = mem.VirtualMemory

// estimateBytes approximates the memory the partitioned relation needs.
func estimateBytes(rows, cols int) uint64 {
	return uint64(rows) * uint64(cols) * bytesPerCell
}

// checkHeadroom warns when the partitioned relation is unlikely to fit in
// available memory. It never fails a run.
func checkHeadroom(rows, cols int, log *zap.SugaredLogger) bool {
	v, err := virtualMemory()
	if err != nil {
		log.Debugw("Memory stats unavailable", logger.FieldError, err)
		return true
	}
	need := estimateBytes(rows, cols)
	if need > v.Available {
		log.Warnw("Relation may not fit in available memory",
			logger.FieldRows, rows,
			logger.FieldColumns, cols,
			"estimated_mb", need/1024/1024,
			"available_mb", v.Available/1024/1024,
		)
		return false
	}
	return true
}
