// Package pinterest implements the resilient pin ingestion pipeline: a single
// authenticated search request against the Scrape Creators Pinterest endpoint,
// normalization of the raw payload into canonical Items, and a synthetic
// fallback that keeps the keyword -> items contract intact when the upstream
// is unavailable, rate limited, or returns malformed data.
package pinterest
