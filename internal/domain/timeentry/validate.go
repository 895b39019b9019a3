package timeentry

import "github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"

// ValidateOrder checks manual writes and reports every violated rule.
func ValidateOrder(e TimeEntry) error {
	var errs validator.ValidationErrors

	if e.ClockIn != nil && e.ClockOut != nil && e.ClockOut.Equal(*e.ClockIn) {
		errs.Add("clock_out", "clock out cannot equal clock in")
	}
	if e.LunchStart != nil && e.LunchEnd != nil && !e.LunchEnd.After(*e.LunchStart) {
		errs.Add("lunch_end", "lunch end must be after lunch start")
	}
	if e.DinnerStart != nil && e.DinnerEnd != nil && !e.DinnerEnd.After(*e.DinnerStart) {
		errs.Add("dinner_end", "dinner end must be after dinner start")
	}

	return errs.OrNil()
}
