package player

import (
	"fmt"
	"math/rand/v2"
)

var (
	firstNames = []string{
		"Adam", "Antoni", "Andrzej", "Bartosz", "Damian", "Daniel", "Dominik",
		"Grzegorz", "Hubert", "Jakub", "Jan", "Kacper", "Karol", "Maciej",
		"Marek", "Piotr", "Tomasz", "Oskar", "Wiktor", "Agnieszka", "Alicja",
		"Anna", "Barbara", "Beata", "Celina", "Emilia", "Ewa", "Iga",
		"Joanna", "Julia", "Kinga", "Maria", "Marta", "Monika", "Zuzanna",
	}
	lastNames = []string{
		"Nowak", "Mazur", "Kaczmarek", "Kubiak", "Pawlak", "Dudek", "Lis",
		"Baran", "Gajda", "Urban", "Wilk", "Sikora", "Bednarz", "Czajka",
		"Rataj", "Rydz", "Lange", "Ochab", "Marczuk",
	}
	idWeights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}
)

// Persona is a player's display identity. It has no effect on settlement.
type Persona struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	ID      string `json:"id"` // 11 digits, the last one a check digit
}

func (p Persona) String() string {
	return fmt.Sprintf("%s %s (ID %s)", p.Name, p.Surname, p.ID)
}

// NewPersona draws a random name and a date-based ID from rng.
func NewPersona(rng *rand.Rand) Persona {
	return Persona{
		Name:    firstNames[rng.IntN(len(firstNames))],
		Surname: lastNames[rng.IntN(len(lastNames))],
		ID:      newID(rng),
	}
}

// newID builds YYMMDDSSSS plus a check digit. Months of birth years 2000-2006
// are shifted by 20 half of the time.
func newID(rng *rand.Rand) string {
	year := rng.IntN(100)
	month := rng.IntN(12) + 1
	if year <= 6 {
		month += rng.IntN(2) * 20
	}
	day := rng.IntN(daysInMonth(month%20)) + 1
	body := fmt.Sprintf("%02d%02d%02d%04d", year, month, day, rng.IntN(10000))
	return body + string(rune('0'+checkDigit(body)))
}

func daysInMonth(month int) int {
	switch {
	case month == 2:
		return 28
	case month < 8 && month%2 == 0, month >= 8 && month%2 == 1:
		return 30
	default:
		return 31
	}
}

// checkDigit weighs the ten leading digits 1-3-7-9.
func checkDigit(body string) int {
	sum := 0
	for i, w := range idWeights {
		sum += w * int(body[i]-'0')
	}
	return (10 - sum%10) % 10
}

// ValidID reports whether id is eleven digits with a correct check digit.
func ValidID(id string) bool {
	if len(id) != 11 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return int(id[10]-'0') == checkDigit(id[:10])
}
