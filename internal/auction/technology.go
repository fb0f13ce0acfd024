package auction

// Technology is a generation technology from the closed auction vocabulary.
type Technology string

const (
	Wind    Technology = "Wind"
	Solar   Technology = "Solar"
	Hydro   Technology = "Hydro"
	Thermal Technology = "Thermal"

	// AllTechnologies stands in for rows that carry no technology label.
	AllTechnologies Technology = "All Technologies"
)

var technologyAliases = []alias[Technology]{
	{"wind", Wind},
	{"eolien", Wind},
	{"eolien onshore", Wind},
	{"eolien offshore", Wind},
	{"solar", Solar},
	{"solaire", Solar},
	{"hydro", Hydro},
	{"hydraulique", Hydro},
	{"thermal", Thermal},
	{"thermique", Thermal},
}

// Technologies returns the vocabulary in declaration order, without the
// sentinel.
func Technologies() []Technology {
	return []Technology{Wind, Solar, Hydro, Thermal}
}

// MatchTechnology maps a free-text label to a Technology.
func MatchTechnology(text string) (Technology, bool) {
	return match(technologyAliases, text)
}

func (t Technology) String() string {
	return string(t)
}
