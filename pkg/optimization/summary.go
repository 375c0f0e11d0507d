// Package optimization provides shared data structures for goal-solving results.
package optimization

// Target names accepted by the goal solver.
const (
	TargetMonths        = "targetMonths"
	TargetInterestSaved = "targetInterestSaved"
)

// Summary captures the result of solving for the extra monthly payment that
// meets a payoff goal.
type Summary struct {
	Target        string   `json:"target"`
	TargetValue   float64  `json:"targetValue"`
	Value         float64  `json:"value"`
	Min           float64  `json:"min"`
	Max           float64  `json:"max"`
	TotalPayments int      `json:"totalPayments"`
	InterestSaved float64  `json:"interestSaved"`
	Iterations    int      `json:"iterations"`
	Converged     bool     `json:"converged"`
	Notes         []string `json:"notes,omitempty"`
	ValueDisplay  string   `json:"valueDisplay,omitempty"`
}
