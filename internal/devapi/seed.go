package devapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
)

var (
	seedFirstNames = []string{"Ada", "Grace", "Alan", "Linus", "Barbara", "Ken", "Margaret", "Dennis", "Frances", "Edsger", "Radia", "John"}
	seedLastNames  = []string{"Lovelace", "Hopper", "Turing", "Torvalds", "Liskov", "Thompson", "Hamilton", "Ritchie", "Allen", "Dijkstra", "Perlman", "Backus"}
)

// Seed fills the store with n deterministic employees created a day apart, ending at now.
func Seed(s *Store, n int, now time.Time) {
	for i := range n {
		first := seedFirstNames[i%len(seedFirstNames)]
		last := seedLastNames[(i/len(seedFirstNames)+i)%len(seedLastNames)]
		salary := float64(4000 + (i*137)%6000)
		created := now.Add(-time.Duration(n-i) * 24 * time.Hour)

		s.Create(employee.Employee{
			FirstName: first,
			LastName:  last,
			EmailID:   fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			Salary:    &salary,
			CreatedAt: employee.NewTimestamp(created),
			UpdatedAt: employee.NewTimestamp(created),
		}, now)
	}
}
