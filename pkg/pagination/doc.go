// Package pagination walks a paginated favorites collection page by page and
// aggregates item durations.
//
// The API reports a has_more flag but no total page count, so the walker
// fetches strictly sequentially and stops when either the flag is false or a
// page comes back shorter than the requested page size. A hard page cap bounds
// the number of requests per run; reaching it truncates the result silently.
//
// Example usage:
//
//	c, _ := client.New(client.DefaultConfig("MyApp/1.0"))
//	agg := pagination.NewAggregator(c, pagination.DefaultConfig())
//	result, err := agg.Aggregate(ctx, "123456")
//
// The aggregator:
//   - Fetches pages 1, 2, 3, ... one at a time
//   - Sums durations of items that carry one
//   - Stops on has_more=false, on a short page, or after MaxPages pages
//   - Returns the first fetch error unchanged and drops partial totals
package pagination
