package schedule

import "errors"

var ErrUnknownMass = errors.New("unknown mass")

// Mass is one fixed slot of the parish liturgy calendar. The legacy system
// encoded this catalog as a long if/else chain over the description string;
// here it is data, and the weekday/hour/chapel always agree with the
// description (the chain had copy-paste mismatches).
type Mass struct {
	Description string `json:"description"`
	Weekday     string `json:"weekday"`
	Hour        string `json:"hour"`
	Chapel      string `json:"chapel"`
}

var Masses = []Mass{
	{"Domingo: Missa/Celebração Santa Teresinha 7h", "Domingo", "7h", "Santa Teresinha"},
	{"Domingo: Missa/Celebração N.S.Rosário 7h", "Domingo", "7h", "N.S.Rosário"},
	{"Domingo: Missa/Celebração N.S.Perpétuo Socorro 8h30", "Domingo", "8h30", "N.S.Perpétuo Socorro"},
	{"Domingo: Missa/Celebração N.S.Rosário 17h", "Domingo", "17h", "N.S.Rosário"},
	{"Domingo: Missa/Celebração Santa Teresinha 19h", "Domingo", "19h", "Santa Teresinha"},
	{"Terça: Novena com Adoração e Celebração Eucarística Santa Teresinha 19h", "Terça", "19h", "Santa Teresinha"},
	{"Terça: Novena com Adoração e Celebração Eucarística São Pedro 19h", "Terça", "19h", "São Pedro"},
	{"Terça: Novena com Adoração e Celebração Eucarística N. S. Perpétuo Socorro 19h", "Terça", "19h", "N. S. Perpétuo Socorro"},
	{"Quarta: Terço dos Homens Ministração da Palavra de Deus Santa Teresinha 19h", "Quarta", "19h", "Santa Teresinha"},
	{"Quinta: Novena com Adoração e Celebração Eucarística N.S.Rosário 19h", "Quinta", "19h", "N.S.Rosário"},
	{"Quinta: Adoração ao Santíssimo Grupo de Oração Santa Teresinha 20h", "Quinta", "20h", "Santa Teresinha"},
	{"Sábado: Missa em Reparação ao Imaculado Coração de Maria Santa Teresinha 17h45", "Sábado", "17h45", "Santa Teresinha"},
	{"Sábado: Missa/Celebração São Pedro 19h", "Sábado", "19h", "São Pedro"},
	{"Sábado: Missa/Celebração Sagrado Coração de Jesus 19h", "Sábado", "19h", "Sagrado Coração de Jesus"},
}

func LookupMass(description string) (Mass, bool) {
	for _, m := range Masses {
		if m.Description == description {
			return m, true
		}
	}
	return Mass{}, false
}

// Chapels returns the distinct chapel names in catalog order.
func Chapels() []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range Masses {
		if !seen[m.Chapel] {
			seen[m.Chapel] = true
			out = append(out, m.Chapel)
		}
	}
	return out
}
