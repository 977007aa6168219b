package schemas

// UserSummarySchema is the public part of a user shown next to relations and messages
type UserSummarySchema struct {
	UserID  string
	Name    string
	Surname string
	Nick    string
	Image   string
}

// ProfileSchema struct
type ProfileSchema struct {
	User      UserSummarySchema
	Following bool
	Followed  bool
}

// UserListSchema is a page of users annotated with the viewer's relations
type UserListSchema struct {
	PageSchema[UserSummarySchema]
	UsersFollowing []string
	UsersFollowMe  []string
}
