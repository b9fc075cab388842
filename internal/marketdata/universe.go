package marketdata

// DefaultUniverse is the liquid core of the Ibovespa, roughly the top 40
// names by index weight. Tickers use the B3 convention (name + series
// digit) without the .SA suffix brapi.dev does not need.
var DefaultUniverse = []string{
	"PETR4", "VALE3", "ITUB4", "BBDC4", "B3SA3",
	"ABEV3", "BBAS3", "WEGE3", "RENT3", "SUZB3",
	"ELET3", "ITSA4", "GGBR4", "JBSS3", "RDOR3",
	"RADL3", "EQTL3", "PRIO3", "HAPV3", "BPAC11",
	"CSAN3", "VIVT3", "LREN3", "RAIL3", "EMBR3",
	"CMIG4", "ENEV3", "TOTS3", "UGPA3", "CCRO3",
	"VBBR3", "KLBN11", "TIMS3", "CPLE6", "SBSP3",
	"BRFS3", "MGLU3", "NTCO3", "CYRE3", "MULT3",
}
