package main

import "time"

// Cache and watch tuning.
const (
	MemoryCacheTTL = 10 * time.Minute
	WatchDebounce  = 500 * time.Millisecond
)

// Input formats accepted by "show".
var validInputFormats = []string{"auto", "json", "csv"}
