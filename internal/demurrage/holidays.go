package demurrage

import "time"

// US federal holidays by calendar year, as observed by port terminals.
// These are config data, not logic: observance shifts (a Saturday July 4th
// observed on the 3rd) make the dates impractical to derive, so each year is
// enumerated. Years outside the table are treated as having no holidays.
var federalHolidays = map[int][]string{
	2023: {
		"2023-01-02", // New Year's Day (observed)
		"2023-01-16", // Martin Luther King Jr. Day
		"2023-02-20", // Presidents' Day
		"2023-05-29", // Memorial Day
		"2023-06-19", // Juneteenth
		"2023-07-04", // Independence Day
		"2023-09-04", // Labor Day
		"2023-10-09", // Columbus Day
		"2023-11-10", // Veterans Day (observed)
		"2023-11-23", // Thanksgiving
		"2023-12-25", // Christmas
	},
	2024: {
		"2024-01-01",
		"2024-01-15",
		"2024-02-19",
		"2024-05-27",
		"2024-06-19",
		"2024-07-04",
		"2024-09-02",
		"2024-10-14",
		"2024-11-11",
		"2024-11-28",
		"2024-12-25",
	},
	2025: {
		"2025-01-01",
		"2025-01-20",
		"2025-02-17",
		"2025-05-26",
		"2025-06-19",
		"2025-07-04",
		"2025-09-01",
		"2025-10-13",
		"2025-11-11",
		"2025-11-27",
		"2025-12-25",
	},
	2026: {
		"2026-01-01",
		"2026-01-19",
		"2026-02-16",
		"2026-05-25",
		"2026-06-19",
		"2026-07-03", // Independence Day (observed)
		"2026-09-07",
		"2026-10-12",
		"2026-11-11",
		"2026-11-26",
		"2026-12-25",
	},
	2027: {
		"2027-01-01",
		"2027-01-18",
		"2027-02-15",
		"2027-05-31",
		"2027-06-18", // Juneteenth (observed)
		"2027-07-05", // Independence Day (observed)
		"2027-09-06",
		"2027-10-11",
		"2027-11-11",
		"2027-11-25",
		"2027-12-24", // Christmas (observed)
	},
}

var holidaySets = buildHolidaySets()

func buildHolidaySets() map[int]map[string]bool {
	sets := make(map[int]map[string]bool, len(federalHolidays))
	for year, dates := range federalHolidays {
		set := make(map[string]bool, len(dates))
		for _, d := range dates {
			set[d] = true
		}
		sets[year] = set
	}
	return sets
}

// IsHoliday reports whether a date falls on a US federal holiday. Dates in
// years beyond the enumerated table are never holidays.
func IsHoliday(d time.Time) bool {
	set, ok := holidaySets[d.Year()]
	if !ok {
		return false
	}
	return set[d.Format("2006-01-02")]
}

// IsWeekend reports whether a date falls on a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
