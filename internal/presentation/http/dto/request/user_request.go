package request

// UserRequest is the body of user create and update
type UserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// UserFilterRequest represents user filter parameters
type UserFilterRequest struct {
	Search  string `form:"search"`
	Role    string `form:"role"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
