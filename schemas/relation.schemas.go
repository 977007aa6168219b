package schemas

import "time"

// FollowSchema struct
type FollowSchema struct {
	Followed string `validate:"required,max=64" json:"followed" form:"followed"`
}

// FollowEdgeSchema is a directed follow relation (follower -> followed)
type FollowEdgeSchema struct {
	EdgeID     string
	FollowerID string
	FollowedID string
	Created    time.Time
}

// RelationshipSchema is the relation between a subject and one other user
type RelationshipSchema struct {
	Following bool
	Followed  bool
}

// RelationSetsSchema holds the ids the subject follows and the ids following the subject
type RelationSetsSchema struct {
	Following []string
	Followed  []string
}

// CountersSchema struct
type CountersSchema struct {
	Following    int
	Followed     int
	Publications int
}

// FollowListItemSchema is one row of a following/followers listing
type FollowListItemSchema struct {
	User    UserSummarySchema
	Created time.Time
}
