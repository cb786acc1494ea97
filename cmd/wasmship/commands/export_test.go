package commands

// PrintReport exposes printReport for testing.
var PrintReport = printReport
