package pages

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/NaloDAO/community_app/internal/domain"
	"github.com/NaloDAO/community_app/internal/gateway"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// SampleActivity is a demonstration entry shown before live data loads.
type SampleActivity struct {
	ID        string
	Title     string
	Type      domain.ActivityType
	Impact    float64
	Location  string
	Timestamp time.Time
	Status    domain.ActivityStatus
}

// SampleBalance is a demonstration token row.
type SampleBalance struct {
	Symbol  string
	Name    string
	Balance float64
	Chain   domain.Chain
	Change  string
}

// SampleProposal is a demonstration governance row.
type SampleProposal struct {
	ID          string
	Title       string
	Description string
	Votes       int
	Quorum      int
	EndDate     time.Time
}

// Dashboard assembles the signed-in home view: the user's aggregates, fixed
// community sample figures and live lists pulled through the gateway.
type Dashboard struct {
	auth       *authstore.Store
	ui         *uistore.Store
	activities gateway.ActivityAPI
	proposals  gateway.ProposalAPI
}

func NewDashboard(auth *authstore.Store, ui *uistore.Store, activities gateway.ActivityAPI, proposals gateway.ProposalAPI) *Dashboard {
	return &Dashboard{auth: auth, ui: ui, activities: activities, proposals: proposals}
}

// Stats returns the stat cards. The first two come from the user's
// aggregates; the community figures are fixed sample values.
func (p *Dashboard) Stats() []Stat {
	var impact, logged float64
	if user := p.auth.State().User; user != nil {
		impact = user.TotalImpactScore
		logged = float64(user.TotalActivities)
	}
	return []Stat{
		{Label: "Total Impact Score", Value: formatNumber(impact), Change: "+12%"},
		{Label: "Activities Logged", Value: formatNumber(logged), Change: "+3"},
		{Label: "Community Members", Value: "1,234", Change: "+5%"},
		{Label: "Global Impact", Value: "5,678", Change: "+8%"},
	}
}

// QuickActions returns the dashboard shortcuts.
func (p *Dashboard) QuickActions() []QuickAction {
	return []QuickAction{
		{Title: "Log Activity", Description: "Record your regenerative activities", Href: "/activities/new"},
		{Title: "Create Proposal", Description: "Submit a new governance proposal", Href: "/governance/new"},
		{Title: "View Map", Description: "Explore global impact visualization", Href: "/map"},
	}
}

// RecentActivities returns the sample feed.
func (p *Dashboard) RecentActivities() []SampleActivity {
	now := time.Now()
	return []SampleActivity{
		{
			ID:        "1",
			Title:     "Tree Planting Initiative",
			Type:      domain.ActivityTreePlanting,
			Impact:    150,
			Location:  "Central Park, NYC",
			Timestamp: now.Add(-2 * time.Hour),
			Status:    domain.ActivityVerified,
		},
		{
			ID:        "2",
			Title:     "Community Garden Setup",
			Type:      domain.ActivityOther,
			Impact:    75,
			Location:  "Local Community Center",
			Timestamp: now.Add(-5 * time.Hour),
			Status:    domain.ActivityPending,
		},
		{
			ID:        "3",
			Title:     "Composting Workshop",
			Type:      domain.ActivityComposting,
			Impact:    50,
			Location:  "Urban Farm",
			Timestamp: now.Add(-24 * time.Hour),
			Status:    domain.ActivityVerified,
		},
	}
}

// TokenBalances returns the sample token rows.
func (p *Dashboard) TokenBalances() []SampleBalance {
	return []SampleBalance{
		{Symbol: "NALO", Name: "NaloDAO Token", Balance: 1250.5, Chain: domain.ChainSolana, Change: "+5.2%"},
		{Symbol: "APT", Name: "Aptos", Balance: 45.8, Chain: domain.ChainAptos, Change: "+2.1%"},
		{Symbol: "SUI", Name: "Sui", Balance: 89.3, Chain: domain.ChainSui, Change: "-1.5%"},
	}
}

// ActiveProposals returns the sample governance rows.
func (p *Dashboard) ActiveProposals() []SampleProposal {
	now := time.Now()
	return []SampleProposal{
		{
			ID:          "1",
			Title:       "Community Solar Panel Installation",
			Description: "Proposal to install solar panels in the community center",
			Votes:       234,
			Quorum:      500,
			EndDate:     now.Add(3 * 24 * time.Hour),
		},
		{
			ID:          "2",
			Title:       "Urban Farming Expansion",
			Description: "Expand urban farming initiatives across the city",
			Votes:       156,
			Quorum:      300,
			EndDate:     now.Add(7 * 24 * time.Hour),
		},
	}
}

// RefreshActivities pulls the user's latest activities. Failures raise a
// toast and return empty.
func (p *Dashboard) RefreshActivities(ctx context.Context, page gateway.Page) ([]domain.Activity, int64, error) {
	state := p.auth.State()
	if state.User == nil {
		return nil, 0, nil
	}
	rows, total, err := p.activities.ListByUser(ctx, state.User.ID, page)
	if err != nil {
		p.ui.Notify(uistore.NotifyError, "Failed to load activities")
		return nil, 0, err
	}
	return rows, total, nil
}

// RefreshProposals pulls the proposals currently open for voting.
func (p *Dashboard) RefreshProposals(ctx context.Context) ([]domain.Proposal, error) {
	rows, err := p.proposals.ListActive(ctx)
	if err != nil {
		p.ui.Notify(uistore.NotifyError, "Failed to load proposals")
		return nil, err
	}
	return rows, nil
}

// formatNumber renders a figure with thousands separators, keeping the
// fraction only when there is one.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}
