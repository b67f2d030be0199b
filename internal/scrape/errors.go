package scrape

import "github.com/rotisserie/eris"

var (
	// ErrProfileNotFound marks a handle whose profile page no longer
	// exists. Recoverable per record; the batch continues.
	ErrProfileNotFound = eris.New("scrape: profile not found")

	// ErrScrapeTimeout marks a navigation that hit its deadline.
	// Recoverable per record; the batch continues.
	ErrScrapeTimeout = eris.New("scrape: navigation timed out")
)
