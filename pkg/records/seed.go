package records

import "fmt"

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken", "Margaret", "Niklaus"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson", "Hamilton", "Wirth"}
	companies  = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Vandelay", "Stark", "Wayne", "Tyrell", "Cyberdyne"}
	industries = []string{"Agriculture", "Banking", "Consulting", "Education", "Energy", "Healthcare", "Media", "Retail", "Technology", "Transportation"}
)

// SeedContacts generates n deterministic contacts.
func SeedContacts(n int) []Contact {
	out := make([]Contact, n)
	for i := range out {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		company := companies[i%len(companies)]
		out[i] = Contact{
			ID:          fmt.Sprintf("003%012d", i+1),
			FirstName:   first,
			LastName:    last,
			Email:       fmt.Sprintf("%s.%s%d@example.com", first, last, i+1),
			Phone:       fmt.Sprintf("+1-555-%04d", i+1),
			AccountName: company,
		}
	}
	return out
}

// SeedAccounts generates n deterministic accounts.
func SeedAccounts(n int) []Account {
	out := make([]Account, n)
	for i := range out {
		company := companies[i%len(companies)]
		out[i] = Account{
			ID:       fmt.Sprintf("001%012d", i+1),
			Name:     fmt.Sprintf("%s %d", company, i/len(companies)+1),
			Industry: industries[(i*3)%len(industries)],
			Phone:    fmt.Sprintf("+1-555-%04d", 9000+i),
			Website:  fmt.Sprintf("https://%s%d.example.com", company, i+1),
		}
	}
	return out
}
