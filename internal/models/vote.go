package models

const (
	DirectionUpvote   = "upvote"
	DirectionDownvote = "downvote"
)

// VoteInformation is the per-(voter, resource) vote ledger row. A nil
// CurrentDirection means the voter toggled their vote off; the row itself is
// never deleted once created.
type VoteInformation struct {
	VoterApikey      string  `gorm:"primaryKey;size:64" json:"voter_apikey"`
	ResourceID       uint    `gorm:"primaryKey" json:"resource_id"`
	CurrentDirection *string `gorm:"size:10" json:"current_direction"`
	Voter            Key     `gorm:"foreignKey:VoterApikey;references:Apikey;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// OppositeDirection maps upvote to downvote and back.
func OppositeDirection(direction string) string {
	if direction == DirectionUpvote {
		return DirectionDownvote
	}
	return DirectionUpvote
}
