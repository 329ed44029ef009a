// Package limits holds hard caps that keep a single call from exhausting memory.
package limits

const (
	// MaxScanRows caps the rows one FindMany/GroupBy may load.
	MaxScanRows = 100000

	MaxOrderByFields = 20
	MaxGroupByFields = 20
	MaxSelectFields  = 100

	// MaxBatchSize is the number of rows per INSERT statement in CreateMany.
	// 50 rows of up to 19 columns stay under SQLite's 999 bind variables.
	MaxBatchSize = 50

	// MaxInListSize caps the values bound by one relation loading IN (...).
	MaxInListSize = 500

	// MaxRawQuerySize caps raw SQL text, in bytes.
	MaxRawQuerySize = 10 * 1024 * 1024
)
