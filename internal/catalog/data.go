package catalog

import "github.com/ashureev/salestwin/internal/domain"

var demoUsers = []domain.User{
	{ID: "1", Name: "Jan Kowalski", Email: "jan.kowalski@example.com", Role: domain.RoleSalesRep},
	{ID: "2", Name: "Anna Nowak", Email: "anna.nowak@example.com", Role: domain.RoleManager},
}

// PhotovoltaicsOfferID names the offer that carries extra scenario constraints.
const PhotovoltaicsOfferID = "1"

var demoOffers = []domain.Offer{
	{
		ID:          PhotovoltaicsOfferID,
		Name:        "Fotowoltaika 8 kWp z magazynem energii",
		Description: "Kompleksowa instalacja PV 8 kWp z baterią 10 kWh, zapewniająca wysokie oszczędności, niezależność energetyczną i pełne wsparcie montażowe.",
		Tags:        []string{"Fotowoltaika", "Magazyn energii", "Oszczędność"},
		IsActive:    true,
		Materials: []domain.Material{
			{ID: "m1", Label: "Prezentacja produktu PDF", URL: "https://example.com/sf-presentation.pdf"},
			{ID: "m2", Label: "Strona produktu", URL: "https://example.com/salesforce-crm"},
			{ID: "m3", Label: "Case study", URL: "https://example.com/case-study"},
		},
		CreatedAt: day("2024-01-15"),
		UpdatedAt: day("2024-11-20"),
	},
	{
		ID:          "2",
		Name:        "CloudStorage Pro",
		Description: "Bezpieczne przechowywanie danych w chmurze z integracją AI",
		Tags:        []string{"SaaS", "Storage", "AI"},
		IsActive:    true,
		Materials: []domain.Material{
			{ID: "m4", Label: "Dokumentacja techniczna", URL: "https://example.com/cloud-docs"},
			{ID: "m5", Label: "Demo wideo", URL: "https://example.com/cloud-demo"},
		},
		CreatedAt: day("2024-02-10"),
		UpdatedAt: day("2024-11-18"),
	},
	{
		ID:          "3",
		Name:        "Analytics Dashboard Suite",
		Description: "Kompleksowe narzędzie do analizy danych i raportowania",
		Tags:        []string{"Analytics", "BI", "Enterprise"},
		IsActive:    true,
		Materials: []domain.Material{
			{ID: "m6", Label: "Prezentacja funkcji", URL: "https://example.com/analytics-features"},
			{ID: "m7", Label: "Cennik", URL: "https://example.com/pricing"},
		},
		CreatedAt: day("2024-03-05"),
		UpdatedAt: day("2024-11-25"),
	},
	{
		ID:          "4",
		Name:        "Marketing Automation Platform",
		Description: "Automatyzacja kampanii marketingowych z AI",
		Tags:        []string{"Marketing", "Automation", "SaaS"},
		IsActive:    false,
		Materials:   []domain.Material{},
		CreatedAt:   day("2024-04-12"),
		UpdatedAt:   day("2024-10-01"),
	},
}

var demoPresets = []domain.TrainingPreset{
	{
		ID:          "p1",
		Name:        "Rozmowa z klientem zainteresowanym fotowoltaiką 8 kWp z magazynem energii",
		Description: "Rozmowa o oszczędnościach i nowoczesnych technologiach",
		OfferID:     PhotovoltaicsOfferID,
		ClientType:  domain.ClientModernEntrepreneur,
		Difficulty:  domain.DifficultyHard,
		Goal:        domain.GoalLearnBenefits,
		CreatedAt:   day("2024-11-01"),
		UpdatedAt:   day("2024-11-15"),
	},
	{
		ID:          "p2",
		Name:        "Właściciel firmy – CloudStorage",
		Description: "Rozmowa z właścicielem małej firmy, prostota użytkowania",
		OfferID:     "2",
		ClientType:  domain.ClientSmallBusinessOwner,
		Difficulty:  domain.DifficultyEasy,
		Goal:        domain.GoalQualifyLead,
		CreatedAt:   day("2024-11-05"),
		UpdatedAt:   day("2024-11-20"),
	},
	{
		ID:          "p3",
		Name:        "Dyrektor IT – Analytics Dashboard",
		Description: "Rozmowa techniczna, integracje i bezpieczeństwo",
		OfferID:     "3",
		ClientType:  domain.ClientITDirector,
		Difficulty:  domain.DifficultyMedium,
		Goal:        domain.GoalScheduleDemo,
		CreatedAt:   day("2024-11-10"),
		UpdatedAt:   day("2024-11-22"),
	},
}

var demoInsights = []domain.Insight{
	{
		ID:          "i1",
		Title:       "Podkreśl ROI dla CFO",
		Description: "CFO koncentruje się na zwrocie z inwestycji. Podaj konkretne liczby: średnio 35% wzrost efektywności w ciągu 6 miesięcy.",
		Tags:        []string{"ROI", "Finanse", "Wartość"},
		OfferID:     PhotovoltaicsOfferID,
		Trigger:     "budget",
	},
	{
		ID:          "i2",
		Title:       "Integracje z systemami finansowymi",
		Description: "Podkreśl łatwą integrację z SAP, Oracle Financials i popularnymi systemami księgowymi.",
		Tags:        []string{"Integracja", "Finanse"},
		OfferID:     PhotovoltaicsOfferID,
		Trigger:     "integration",
	},
	{
		ID:          "i3",
		Title:       "Bezpieczeństwo danych",
		Description: "Certyfikaty ISO 27001, SOC 2, zgodność z GDPR. Dane szyfrowane end-to-end.",
		Tags:        []string{"Bezpieczeństwo", "Compliance"},
		OfferID:     "2",
		Trigger:     "security",
	},
	{
		ID:          "i4",
		Title:       "Prostota wdrożenia",
		Description: "Wdrożenie w 48h bez pomocy IT. Intuicyjny interfejs, który nie wymaga szkoleń.",
		Tags:        []string{"Onboarding", "UX"},
		OfferID:     "2",
		Trigger:     "implementation",
	},
	{
		ID:          "i5",
		Title:       "Customowe dashboardy",
		Description: "Nieograniczone możliwości dostosowania widoków do potrzeb różnych działów.",
		Tags:        []string{"Customizacja", "Funkcje"},
		OfferID:     "3",
		Trigger:     "features",
	},
}

var demoHistory = []domain.TrainingSession{
	{
		ID:   "s1",
		Date: "2024-11-25",
		Config: domain.TrainingConfig{
			SelectedOffers: []string{PhotovoltaicsOfferID},
			ClientType:     domain.ClientCFODecisive,
			Difficulty:     domain.DifficultyHard,
			Goal:           domain.GoalScheduleDemo,
			Preset:         &domain.PresetRef{ID: "p1", Name: "CFO – Demo CRM Enterprise"},
		},
		Score:        78,
		Metrics:      domain.Metrics{ProductKnowledge: 85, NeedsAnalysis: 70, ValueArgumentation: 80},
		UsedInsights: []domain.Insight{demoInsights[0], demoInsights[1]},
		Messages:     []domain.Message{},
		Feedback: domain.Feedback{
			Strengths: []string{
				"Świetnie zaprezentowałeś ROI produktu",
				"Dobra reakcja na obiekcje budżetowe",
			},
			Improvements: []string{
				"Zapytaj wcześniej o konkretne potrzeby klienta",
				"Nie przerywaj klientowi podczas wypowiedzi",
			},
		},
	},
	{
		ID:   "s2",
		Date: "2024-11-23",
		Config: domain.TrainingConfig{
			SelectedOffers: []string{"2"},
			ClientType:     domain.ClientSmallBusinessOwner,
			Difficulty:     domain.DifficultyEasy,
		},
		Score:        92,
		Metrics:      domain.Metrics{ProductKnowledge: 90, NeedsAnalysis: 95, ValueArgumentation: 91},
		UsedInsights: []domain.Insight{demoInsights[3]},
		Messages:     []domain.Message{},
		Feedback: domain.Feedback{
			Strengths: []string{
				"Doskonała analiza potrzeb",
				"Świetny kontakt z klientem",
				"Jasna prezentacja korzyści",
			},
			Improvements: []string{"Można było szybciej przejść do zamknięcia"},
		},
	},
}
