package domain

// CountByKey maps a grouping key to the number of records in that group.
// Groups without records are absent, never present with a zero count.
type CountByKey map[string]int64

// AverageByKey maps a grouping key to the arithmetic mean of a numeric field
type AverageByKey map[string]float64

// Dashboard combines the collection-wide aggregations
type Dashboard struct {
	TotalUsers            int64        `json:"totalUsers"`
	CountryWithUsersCount CountByKey   `json:"countryWithUsersCount"`
	ProfessionWithAvgAge  AverageByKey `json:"professionWithAvgAge"`
}
