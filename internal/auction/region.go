package auction

// Region is one of the thirteen metropolitan French administrative regions.
type Region string

const (
	AuvergneRhoneAlpes     Region = "Auvergne-Rhône-Alpes"
	BourgogneFrancheComte  Region = "Bourgogne-Franche-Comté"
	Bretagne               Region = "Bretagne"
	CentreValDeLoire       Region = "Centre-Val de Loire"
	Corse                  Region = "Corse"
	GrandEst               Region = "Grand Est"
	HautsDeFrance          Region = "Hauts-de-France"
	IleDeFrance            Region = "Île-de-France"
	Normandie              Region = "Normandie"
	NouvelleAquitaine      Region = "Nouvelle-Aquitaine"
	Occitanie              Region = "Occitanie"
	PaysDeLaLoire          Region = "Pays de la Loire"
	ProvenceAlpesCoteDAzur Region = "Provence-Alpes-Côte d'Azur"

	// AllRegions stands in for rows that carry no region label.
	AllRegions Region = "All Regions"
)

// Canonical names come first for each region; the unaccented spellings follow
// so that exports which strip diacritics still resolve.
var regionAliases = []alias[Region]{
	{"auvergne-rhône-alpes", AuvergneRhoneAlpes},
	{"auvergne-rhone-alpes", AuvergneRhoneAlpes},
	{"bourgogne-franche-comté", BourgogneFrancheComte},
	{"bourgogne-franche-comte", BourgogneFrancheComte},
	{"bretagne", Bretagne},
	{"centre-val de loire", CentreValDeLoire},
	{"corse", Corse},
	{"grand est", GrandEst},
	{"hauts-de-france", HautsDeFrance},
	{"île-de-france", IleDeFrance},
	{"ile-de-france", IleDeFrance},
	{"normandie", Normandie},
	{"nouvelle-aquitaine", NouvelleAquitaine},
	{"occitanie", Occitanie},
	{"pays de la loire", PaysDeLaLoire},
	{"provence-alpes-côte d'azur", ProvenceAlpesCoteDAzur},
	{"provence-alpes-cote d'azur", ProvenceAlpesCoteDAzur},
}

// Regions returns the vocabulary in declaration order, without the sentinel.
func Regions() []Region {
	return []Region{
		AuvergneRhoneAlpes,
		BourgogneFrancheComte,
		Bretagne,
		CentreValDeLoire,
		Corse,
		GrandEst,
		HautsDeFrance,
		IleDeFrance,
		Normandie,
		NouvelleAquitaine,
		Occitanie,
		PaysDeLaLoire,
		ProvenceAlpesCoteDAzur,
	}
}

// MatchRegion maps a free-text label to a Region.
func MatchRegion(text string) (Region, bool) {
	return match(regionAliases, text)
}

func (r Region) String() string {
	return string(r)
}
