// Package catalog holds the static reference list of practice areas the
// operator can advertise. The list is fixed at build time and read-only at
// runtime.
package catalog

const (
	CategoryTrabalhista    = "Trabalhista"
	CategoryCivil          = "Civil"
	CategoryCriminal       = "Criminal"
	CategoryEmpresarial    = "Empresarial"
	CategoryTributario     = "Tributário"
	CategoryPrevidenciario = "Previdenciário"
	CategoryImobiliario    = "Imobiliário"
	CategoryAmbiental      = "Ambiental"
	CategoryAdministrativo = "Administrativo"
)

// PracticeArea describes one advertisable legal service.
type PracticeArea struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var categories = []string{
	CategoryTrabalhista,
	CategoryCivil,
	CategoryCriminal,
	CategoryEmpresarial,
	CategoryTributario,
	CategoryPrevidenciario,
	CategoryImobiliario,
	CategoryAmbiental,
	CategoryAdministrativo,
}

var practiceAreas = []PracticeArea{
	{
		ID:          "trabalhista",
		Name:        "Direito Trabalhista",
		Description: "Consultoria e representação em questões trabalhistas, rescisões, acordos coletivos e CLT",
		Category:    CategoryTrabalhista,
	},
	{
		ID:          "trabalhista-rescisao",
		Name:        "Rescisão Trabalhista",
		Description: "Cálculo e negociação de rescisões contratuais",
		Category:    CategoryTrabalhista,
	},
	{
		ID:          "trabalhista-clt",
		Name:        "Direitos CLT",
		Description: "Defesa de direitos previstos na Consolidação das Leis do Trabalho",
		Category:    CategoryTrabalhista,
	},
	{
		ID:          "civil",
		Name:        "Direito Civil",
		Description: "Contratos, responsabilidade civil, obrigações e direitos patrimoniais",
		Category:    CategoryCivil,
	},
	{
		ID:          "civil-contratos",
		Name:        "Contratos",
		Description: "Elaboração e revisão de contratos diversos",
		Category:    CategoryCivil,
	},
	{
		ID:          "civil-familia",
		Name:        "Direito de Família",
		Description: "Divórcio, pensão alimentícia, guarda de filhos, inventário",
		Category:    CategoryCivil,
	},
	{
		ID:          "civil-consumidor",
		Name:        "Direito do Consumidor",
		Description: "Defesa de direitos do consumidor, práticas abusivas",
		Category:    CategoryCivil,
	},
	{
		ID:          "criminal",
		Name:        "Direito Criminal",
		Description: "Defesa criminal, habeas corpus, recursos penais",
		Category:    CategoryCriminal,
	},
	{
		ID:          "criminal-defesa",
		Name:        "Defesa Criminal",
		Description: "Defesa em processos criminais diversos",
		Category:    CategoryCriminal,
	},
	{
		ID:          "criminal-tributario",
		Name:        "Crimes Tributários",
		Description: "Defesa em processos de crimes contra a ordem tributária",
		Category:    CategoryCriminal,
	},
	{
		ID:          "empresarial",
		Name:        "Direito Empresarial",
		Description: "Sociedades, fusões, aquisições, recuperação judicial",
		Category:    CategoryEmpresarial,
	},
	{
		ID:          "empresarial-societario",
		Name:        "Direito Societário",
		Description: "Constituição e gestão de empresas, participações societárias",
		Category:    CategoryEmpresarial,
	},
	{
		ID:          "empresarial-falencia",
		Name:        "Recuperação e Falência",
		Description: "Processos de recuperação judicial e falência",
		Category:    CategoryEmpresarial,
	},
	{
		ID:          "tributario",
		Name:        "Direito Tributário",
		Description: "Consultoria e defesa em questões fiscais e tributárias",
		Category:    CategoryTributario,
	},
	{
		ID:          "tributario-planejamento",
		Name:        "Planejamento Tributário",
		Description: "Otimização tributária e estruturação fiscal",
		Category:    CategoryTributario,
	},
	{
		ID:          "previdenciario",
		Name:        "Direito Previdenciário",
		Description: "Aposentadoria, auxílio-doença, pensão por morte, INSS",
		Category:    CategoryPrevidenciario,
	},
	{
		ID:          "previdenciario-aposentadoria",
		Name:        "Aposentadoria",
		Description: "Planejamento e requerimento de aposentadoria",
		Category:    CategoryPrevidenciario,
	},
	{
		ID:          "imobiliario",
		Name:        "Direito Imobiliário",
		Description: "Compra e venda, regularização de imóveis, usucapião",
		Category:    CategoryImobiliario,
	},
	{
		ID:          "ambiental",
		Name:        "Direito Ambiental",
		Description: "Licenciamento, compensação ambiental, crimes ambientais",
		Category:    CategoryAmbiental,
	},
	{
		ID:          "administrativo",
		Name:        "Direito Administrativo",
		Description: "Licitações, concursos públicos, servidores públicos",
		Category:    CategoryAdministrativo,
	},
	{
		ID:          "trabalhista-previdenciario",
		Name:        "Trabalhista Previdenciário",
		Description: "Questões que envolvem trabalho e previdência",
		Category:    CategoryTrabalhista,
	},
}

// All returns a copy of the full practice-area list.
func All() []PracticeArea {
	areas := make([]PracticeArea, len(practiceAreas))
	copy(areas, practiceAreas)
	return areas
}

// Categories returns the fixed category list in display order.
func Categories() []string {
	names := make([]string, len(categories))
	copy(names, categories)
	return names
}

// ByCategory returns the practice areas belonging to the given category. An
// empty category returns the full list.
func ByCategory(category string) []PracticeArea {
	if category == "" {
		return All()
	}
	var areas []PracticeArea
	for _, area := range practiceAreas {
		if area.Category == category {
			areas = append(areas, area)
		}
	}
	return areas
}

// ByID looks up a practice area by its slug identifier.
func ByID(identifier string) (PracticeArea, bool) {
	for _, area := range practiceAreas {
		if area.ID == identifier {
			return area, true
		}
	}
	return PracticeArea{}, false
}

// Count returns the total number of practice areas available.
func Count() int {
	return len(practiceAreas)
}
