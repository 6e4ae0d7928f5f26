// Package ratelimit paces page loads against the catalog site.
//
// Two algorithms are available and New chains them:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Bounds bursts of consecutive page loads
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - Caps the number of page loads per minute
//
// Every Limiter.Wait takes a context so a paused or aborted scrape never
// hangs on the limiter.
package ratelimit
