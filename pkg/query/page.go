package query

// PageSize is the fixed number of records per page
const PageSize = 10

// Page returns the skip and limit for a 1-based page number. Pages below 1
// are clamped to the first page so the store never sees a negative skip.
func Page(page, size int) (skip, limit int64) {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * int64(size), int64(size)
}
