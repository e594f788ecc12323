package output

// DefaultNotes are printed with every detailed report
var DefaultNotes = []string{
	"This is an estimate only and is not tax advice",
	"Rates and thresholds come from the loaded tax parameter table",
	"Medicare levy exemption days are pro-rated over 365 days",
	"Depreciation of items bought this year is pro-rated by days owned",
}
