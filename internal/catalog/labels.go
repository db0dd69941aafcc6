package catalog

import "github.com/ashureev/salestwin/internal/domain"

var clientTypeLabels = map[domain.ClientType]string{
	domain.ClientCFODecisive:        "Decyzyjny CFO",
	domain.ClientSmallBusinessOwner: "Właściciel małej firmy",
	domain.ClientITDirector:         "Dyrektor IT",
	domain.ClientCorporateBuyer:     "Kupiec korporacyjny",
	domain.ClientModernEntrepreneur: "Właściciel domu szukający oszczędności",
}

var clientTypeDescriptions = map[domain.ClientType]string{
	domain.ClientCFODecisive:        "Osoba decyzyjna, koncentruje się na ROI, analizuje każdą inwestycję pod kątem finansowym. Oczekuje konkretnych liczb i szybkiej zwrotności.",
	domain.ClientSmallBusinessOwner: "Właściciel małej/średniej firmy, szuka prostych rozwiązań. Ceni sobie oszczędność czasu i prostotę wdrożenia.",
	domain.ClientITDirector:         "Dyrektor techniczny, zadaje szczegółowe pytania o integracje, bezpieczeństwo i skalowalność. Analizuje aspekty techniczne.",
	domain.ClientCorporateBuyer:     "Osoba odpowiedzialna za zakupy w korporacji. Interesuje ją zgodność z procedurami, terminy dostaw, wsparcie.",
	domain.ClientModernEntrepreneur: "Właściciel domu szukający oszczędności, zainteresowany fotowoltaiką i magazynem energii.",
}

var difficultyLabels = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "Łatwy",
	domain.DifficultyMedium: "Średni",
	domain.DifficultyHard:   "Trudny",
}

var difficultyDescriptions = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "Klient jest otwarty na rozmowę, zadaje podstawowe pytania, pozytywnie nastawiony.",
	domain.DifficultyMedium: "Klient ma pewne wątpliwości, zadaje trudniejsze pytania, potrzebuje więcej argumentów.",
	domain.DifficultyHard:   "Klient jest sceptyczny, stawia mocne obiekcje, trudno go przekonać. Wymaga dużego doświadczenia.",
}

var goalLabels = map[domain.Goal]string{
	domain.GoalScheduleDemo:     "Umówienie demo",
	domain.GoalCloseSale:        "Domknięcie sprzedaży",
	domain.GoalQualifyLead:      "Kwalifikacja leadu",
	domain.GoalCostOptimization: "Automatyzacja i redukcja kosztów",
	domain.GoalLearnBenefits:    "Poznać koszty i korzyści instalacji",
}

// ClientTypeLabel returns the display name of a persona.
func ClientTypeLabel(c domain.ClientType) string { return clientTypeLabels[c] }

// ClientTypeDescription returns the long description of a persona.
func ClientTypeDescription(c domain.ClientType) string { return clientTypeDescriptions[c] }

// DifficultyLabel returns the display name of a level.
func DifficultyLabel(d domain.Difficulty) string { return difficultyLabels[d] }

// DifficultyDescription returns how the client behaves at a level.
func DifficultyDescription(d domain.Difficulty) string { return difficultyDescriptions[d] }

// GoalLabel returns the display name of a goal, or "" for GoalNone.
func GoalLabel(g domain.Goal) string { return goalLabels[g] }

// Option is one selectable value with its display text.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Labels groups every dictionary for the parameter selection views.
type Labels struct {
	ClientTypes  []Option `json:"clientTypes"`
	Difficulties []Option `json:"difficulties"`
	Goals        []Option `json:"goals"`
}

// AllLabels returns the dictionaries in display order.
func AllLabels() Labels {
	var l Labels
	for _, c := range domain.ClientTypes {
		l.ClientTypes = append(l.ClientTypes, Option{Value: string(c), Label: clientTypeLabels[c], Description: clientTypeDescriptions[c]})
	}
	for _, d := range domain.Difficulties {
		l.Difficulties = append(l.Difficulties, Option{Value: string(d), Label: difficultyLabels[d], Description: difficultyDescriptions[d]})
	}
	for _, g := range domain.Goals {
		l.Goals = append(l.Goals, Option{Value: string(g), Label: goalLabels[g]})
	}
	return l
}
