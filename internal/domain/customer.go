package domain

// Customer holds the subscriber fields printed on field worksheets.
// The planner never modifies customers.
type Customer struct {
	Number     string
	Name       string
	Address    string
	Phone      string
	SealNumber string
}
