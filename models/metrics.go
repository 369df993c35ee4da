package models

type MetricName string

// Counts
const (
	MetricName_AuthorRecordSkipped MetricName = "author_record_skipped"
	MetricName_AuthorsResolved     MetricName = "authors_resolved"
	MetricName_PinPageFetched      MetricName = "pin_page_fetched"
	MetricName_PinRecordDropped    MetricName = "pin_record_dropped"
	MetricName_PinCollected        MetricName = "pin_collected"
	MetricName_PinSourceFailed     MetricName = "pin_source_failed"
	MetricName_PinUnique           MetricName = "pin_unique"
)

const MetricsCallerName = "go-pins"
