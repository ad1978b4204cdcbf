package model

// Nationality is one of the fixed options offered by the registration form.
type Nationality string

const (
	NationalityIndonesian  Nationality = "Indonesian"
	NationalityMalaysian   Nationality = "Malaysian"
	NationalitySingaporean Nationality = "Singaporean"
	NationalityFilipino    Nationality = "Filipino"
	NationalityThai        Nationality = "Thai"
	NationalityVietnamese  Nationality = "Vietnamese"
	NationalityIndian      Nationality = "Indian"
	NationalityChinese     Nationality = "Chinese"
	NationalityAustralian  Nationality = "Australian"
	NationalityAmerican    Nationality = "American"
	NationalityBritish     Nationality = "British"
	NationalityOther       Nationality = "Other"
)

// DefaultNationality is preselected on an empty form.
const DefaultNationality = NationalityIndonesian

// Nationalities lists the options in display order.
var Nationalities = []Nationality{
	NationalityIndonesian,
	NationalityMalaysian,
	NationalitySingaporean,
	NationalityFilipino,
	NationalityThai,
	NationalityVietnamese,
	NationalityIndian,
	NationalityChinese,
	NationalityAustralian,
	NationalityAmerican,
	NationalityBritish,
	NationalityOther,
}

// Valid reports whether n is one of Nationalities.
func (n Nationality) Valid() bool {
	for _, opt := range Nationalities {
		if opt == n {
			return true
		}
	}
	return false
}
