package domain

import "time"

// ActivityType is the closed set of regenerative action categories.
type ActivityType string

const (
	ActivityTreePlanting             ActivityType = "tree_planting"
	ActivityComposting               ActivityType = "composting"
	ActivityWaterHarvesting          ActivityType = "water_harvesting"
	ActivityCoralRestoration         ActivityType = "coral_restoration"
	ActivitySoilRegeneration         ActivityType = "soil_regeneration"
	ActivityRenewableEnergy          ActivityType = "renewable_energy"
	ActivityWasteReduction           ActivityType = "waste_reduction"
	ActivityBiodiversityEnhancement  ActivityType = "biodiversity_enhancement"
	ActivityCommunityGarden          ActivityType = "community_garden"
	ActivityEducation                ActivityType = "education"
	ActivityOther                    ActivityType = "other"
)

// ActivityStatus is the verification state of a logged activity. Status
// transitions are performed by a verifier role, never by this client.
type ActivityStatus string

const (
	ActivityPending  ActivityStatus = "pending"
	ActivityVerified ActivityStatus = "verified"
	ActivityRejected ActivityStatus = "rejected"
)

// Location is a geolocated point with an optional human-readable address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Activity is a logged regenerative action, subject to verification.
type Activity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	ActivityType ActivityType   `json:"activity_type"`
	ImpactScore  float64        `json:"impact_score"`
	Location     Location       `json:"location"`
	MediaURLs    []string       `json:"media_urls,omitempty"`
	IPFSHash     string         `json:"ipfs_hash,omitempty"`
	Status       ActivityStatus `json:"status"`
	VerifiedBy   string         `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time     `json:"verified_at,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Author summary, present when the read embeds the users relation.
	User *UserRef `json:"users,omitempty"`
}
