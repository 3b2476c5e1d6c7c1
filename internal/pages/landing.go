package pages

// Landing serves the public landing content. Everything here is static copy;
// the live figures belong to the dashboard.
type Landing struct{}

// Hero returns the headline and tagline.
func (Landing) Hero() (title, tagline string) {
	return "A New Economy for Earth",
		"Track regenerative activities, govern community proposals, and manage a multi-chain token ecosystem across Solana and Move-based blockchains."
}

// Stats returns the showcase figures.
func (Landing) Stats() []Stat {
	return []Stat{
		{Label: "Members", Value: "1,234"},
		{Label: "Activities Logged", Value: "5,678"},
		{Label: "Tokens Circulating", Value: "2.5M"},
	}
}

// Features returns the selling points.
func (Landing) Features() []Feature {
	return []Feature{
		{
			Title:       "Track Regenerative Activities",
			Description: "Log and verify your environmental impact with blockchain transparency.",
		},
		{
			Title:       "Community Governance",
			Description: "Participate in DAO proposals and vote on community initiatives.",
		},
		{
			Title:       "Multi-Chain Ecosystem",
			Description: "Seamlessly operate across Solana and Move-based blockchains.",
		},
		{
			Title:       "Impact Verification",
			Description: "Transparent verification system ensures authentic impact tracking.",
		},
	}
}
