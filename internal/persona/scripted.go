package persona

import (
	"context"

	"github.com/ashureev/salestwin/internal/domain"
)

const (
	openingLine  = "Dzień dobry! Dziękuję za spotkanie. Jakie rozwiązanie chce mi Pan dzisiaj zaprezentować?"
	scriptedLine = "To brzmi interesująco. Czy mógłby Pan podać więcej szczegółów na temat integracji z naszym obecnym systemem?"
)

// Scripted is a client that always answers with the same follow-up question.
type Scripted struct{}

func (Scripted) Opening(domain.TrainingConfig) string {
	return openingLine
}

func (Scripted) Reply(ctx context.Context, _ ReplyRequest) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	return Reply{Content: scriptedLine}, nil
}

// placeholderInsights is how many relevant insights count as used.
const placeholderInsights = 2

// PlaceholderScorer returns fixed scores and feedback regardless of what was
// said. It stands in until conversations are actually graded.
type PlaceholderScorer struct{}

func (PlaceholderScorer) Score(_ context.Context, req ScoreRequest) (Assessment, error) {
	used := req.Insights
	if len(used) > placeholderInsights {
		used = used[:placeholderInsights]
	}
	return Assessment{
		Score: 85,
		Metrics: domain.Metrics{
			ProductKnowledge:   88,
			NeedsAnalysis:      82,
			ValueArgumentation: 85,
		},
		UsedInsights: append([]domain.Insight(nil), used...),
		Feedback: domain.Feedback{
			Strengths: []string{
				"Świetnie przedstawiłeś wartość produktu",
				"Dobra reakcja na pytania klienta",
				"Wykorzystałeś insighty w odpowiednim momencie",
			},
			Improvements: []string{
				"Możesz zadawać więcej pytań odkrywających potrzeby",
				"Spróbuj doprowadzić rozmowę do konkretnych next steps",
			},
		},
	}, nil
}
